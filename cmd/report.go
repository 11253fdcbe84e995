package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/naka-gawa/claudeup/internal/domain"
	"github.com/naka-gawa/claudeup/internal/scaffold"
)

const claudeCodeURL = "https://claude.ai/code"

var (
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	fatalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
)

func renderOutcomes(w io.Writer, outcomes []domain.Outcome) {
	for _, o := range outcomes {
		switch o.Tier {
		case domain.TierWarning:
			fmt.Fprintln(w, warningStyle.Render(o.Message))
			for _, line := range o.Remediation {
				fmt.Fprintln(w, hintStyle.Render(line))
			}
		case domain.TierFatal:
			// cobra prints the error itself
			fmt.Fprintln(w, fatalStyle.Render(fmt.Sprintf("Aborted during the %s step.", o.Step)))
		default:
			fmt.Fprintln(w, infoStyle.Render(o.Message))
		}
	}
}

func renderSummary(w io.Writer, result *domain.SetupResult, instructions string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("Repository setup complete!"))
	fmt.Fprintf(w, "URL: %s\n", result.Repository.HTMLURL)
	fmt.Fprintf(w, "Path: %s\n", result.Path)
	if result.Workspace != nil {
		fmt.Fprintf(w, "Origin: %s\n", result.Workspace.RemoteURL)
	}
	if n := len(result.Warnings()); n > 0 {
		fmt.Fprintln(w, warningStyle.Render(fmt.Sprintf("Completed with %d warning(s), see above.", n)))
	}

	if instructions == "" {
		return
	}
	rule := strings.Repeat("=", 60)
	dash := strings.Repeat("-", 56)
	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintln(w, headerStyle.Render("NEXT STEPS: Start Claude Code Web Session"))
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "\n1. Open Claude Code web: %s\n", claudeCodeURL)
	fmt.Fprintf(w, "2. Select or search for your repository: %s\n", result.Repository.FullName)
	fmt.Fprintf(w, "3. Your task has been saved to %s\n", scaffold.TaskPath)
	fmt.Fprintln(w, "\n   You can copy-paste this task to Claude Code web:")
	fmt.Fprintf(w, "\n   %s\n", dash)
	fmt.Fprintf(w, "   %s\n", instructions)
	fmt.Fprintf(w, "   %s\n", dash)
	fmt.Fprintf(w, "\nAlternatively, you can ask Claude to read %s\n", scaffold.TaskPath)
}
