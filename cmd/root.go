// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/naka-gawa/claudeup/internal/auth"
	"github.com/naka-gawa/claudeup/internal/gateway"
	"github.com/naka-gawa/claudeup/internal/usecase"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "claudeup <repo-name> [instructions]",
	Short: "Bootstrap a GitHub repository for Claude Code web sessions.",
	Long: `claudeup creates a GitHub repository (or reuses an existing one), grants the
Claude GitHub App and/or a collaborator access to it, wires the local directory to it
as "origin", writes starter files and pushes an initial commit.

When instructions are given they are saved to .claude/TASK.md so the session can pick them up.`,
	Args:         cobra.RangeArgs(1, 2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		logger := newLogger(cmd)

		name := args[0]
		var instructions string
		if len(args) > 1 {
			instructions = args[1]
		}

		opts, err := readSetupOptions(cmd)
		if err != nil {
			return err
		}

		token, err := auth.GitHubToken(opts.token, apiHost(opts.apiURL))
		if err != nil {
			return err
		}
		logger.Printf("Using GitHub token from %s (%s)", token.Name, token.Source)

		githubGateway, err := gateway.NewGitHubGateway(token.Token, opts.apiURL, logger)
		if err != nil {
			return fmt.Errorf("failed to create GitHub gateway: %w", err)
		}

		cfg := usecase.Config{
			Name:         name,
			Description:  opts.description,
			Path:         opts.path,
			Instructions: instructions,
			Private:      !opts.public,
			Branch:       opts.branch,
			Grants:       buildGrants(opts, cmd.ErrOrStderr()),
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "\nClaudeUp - Setting up repository '%s'...\n\n", name)

		result, err := usecase.NewBootstrapper(githubGateway, logger).Run(ctx, cfg)
		if err != nil {
			if result != nil {
				renderOutcomes(out, result.Outcomes)
			}
			return err
		}

		renderOutcomes(out, result.Outcomes)
		renderSummary(out, result, instructions)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// newLogger returns a logger that discards everything unless --verbose is set.
func newLogger(cmd *cobra.Command) *log.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := log.New(io.Discard, "", log.LstdFlags)
	if verbose {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("token", "", "GitHub personal access token (or set GITHUB_TOKEN environment variable)")
	rootCmd.PersistentFlags().String("api-url", "", "GitHub API base URL for GitHub Enterprise (default: public GitHub)")

	rootCmd.Flags().StringP("description", "d", "", "Repository description")
	rootCmd.Flags().StringP("path", "p", "", "Path to initialize repository (defaults to current directory)")
	rootCmd.Flags().Bool("public", false, "Create a public repository (default is private)")
	rootCmd.Flags().String("branch", usecase.DefaultBranch, "Branch to push the initial commit to")

	rootCmd.Flags().String("app-slug", defaultAppSlug, "GitHub App slug to install")
	rootCmd.Flags().Bool("no-app", false, "Skip installing GitHub App")
	rootCmd.Flags().Int64("installation-id", 0, "GitHub App installation ID (or set "+installationIDEnv+" env var)")
	rootCmd.Flags().Bool("no-installation-id", false, "Ignore any installation ID and look the app up by slug")

	rootCmd.Flags().String("collaborator", "", "GitHub user to invite as collaborator (or set "+collaboratorEnv+" env var)")
	rootCmd.Flags().String("permission", "push", "Permission granted to the collaborator")
	rootCmd.Flags().Bool("no-collaborator", false, "Skip inviting a collaborator")
}
