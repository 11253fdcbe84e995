package cmd

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"

	"github.com/naka-gawa/claudeup/internal/domain"
	"github.com/spf13/cobra"
)

const (
	defaultAppSlug    = "claude"
	installationIDEnv = "CLAUDE_INSTALLATION_ID"
	collaboratorEnv   = "CLAUDEUP_COLLABORATOR"
	defaultHost       = "github.com"
)

// setupOptions holds the flag values of the root command.
type setupOptions struct {
	token       string
	apiURL      string
	description string
	path        string
	public      bool
	branch      string

	appSlug          string
	noApp            bool
	installationID   int64
	noInstallationID bool

	collaborator   string
	permission     string
	noCollaborator bool
}

func readSetupOptions(cmd *cobra.Command) (setupOptions, error) {
	var opts setupOptions
	flags := cmd.Flags()
	opts.token, _ = flags.GetString("token")
	opts.apiURL, _ = flags.GetString("api-url")
	opts.description, _ = flags.GetString("description")
	opts.path, _ = flags.GetString("path")
	opts.public, _ = flags.GetBool("public")
	opts.branch, _ = flags.GetString("branch")
	opts.appSlug, _ = flags.GetString("app-slug")
	opts.noApp, _ = flags.GetBool("no-app")
	opts.installationID, _ = flags.GetInt64("installation-id")
	opts.noInstallationID, _ = flags.GetBool("no-installation-id")
	opts.collaborator, _ = flags.GetString("collaborator")
	opts.permission, _ = flags.GetString("permission")
	opts.noCollaborator, _ = flags.GetBool("no-collaborator")

	if opts.installationID < 0 {
		return opts, fmt.Errorf("--installation-id must be positive, got %d", opts.installationID)
	}
	if opts.collaborator == "" {
		opts.collaborator = os.Getenv(collaboratorEnv)
	}
	return opts, nil
}

// buildGrants turns the flags into access grants. The app installation grant comes first.
func buildGrants(opts setupOptions, warn io.Writer) []domain.AccessGrant {
	var grants []domain.AccessGrant

	if !opts.noApp {
		grant := domain.AppInstallationGrant{AppSlug: opts.appSlug}
		if !opts.noInstallationID {
			grant.InstallationID = opts.installationID
			if grant.InstallationID == 0 {
				grant.InstallationID = installationIDFromEnv(warn)
			}
		}
		grants = append(grants, grant)
	}

	if !opts.noCollaborator && opts.collaborator != "" {
		grants = append(grants, domain.CollaboratorGrant{
			Username:   opts.collaborator,
			Permission: opts.permission,
		})
	}
	return grants
}

// installationIDFromEnv reads the installation ID fallback. Invalid values are reported and ignored.
func installationIDFromEnv(warn io.Writer) int64 {
	raw := os.Getenv(installationIDEnv)
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		fmt.Fprintf(warn, "Warning: %s env var is not a valid number: %s\n", installationIDEnv, raw)
		return 0
	}
	return id
}

// apiHost returns the host the token belongs to, used for the gh CLI fallback.
func apiHost(apiURL string) string {
	if apiURL == "" {
		return defaultHost
	}
	u, err := url.Parse(apiURL)
	if err != nil || u.Hostname() == "" || u.Hostname() == "api.github.com" {
		return defaultHost
	}
	return u.Hostname()
}
