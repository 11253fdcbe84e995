package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/naka-gawa/claudeup/internal/auth"
	"github.com/naka-gawa/claudeup/internal/gateway"
	"github.com/naka-gawa/claudeup/internal/usecase"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <repo-name|owner/repo>",
	Short: "Shows the GitHub and local state of a bootstrapped repository as JSON",
	Long: `Fetches the repository from GitHub (visibility, default branch, your permission) and,
when --path is given, checks that the working copy's origin points at it. Outputs JSON.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		logger := newLogger(cmd)

		tokenFlag, _ := cmd.Flags().GetString("token")
		apiURL, _ := cmd.Flags().GetString("api-url")
		path, _ := cmd.Flags().GetString("path")

		token, err := auth.GitHubToken(tokenFlag, apiHost(apiURL))
		if err != nil {
			return err
		}

		githubGateway, err := gateway.NewGitHubGateway(token.Token, apiURL, logger)
		if err != nil {
			return fmt.Errorf("failed to create GitHub gateway: %w", err)
		}
		inspector := usecase.NewInspector(githubGateway, usecase.DefaultGitFactory(logger), logger)

		status, err := inspector.Inspect(ctx, args[0], path)
		if err != nil {
			return fmt.Errorf("failed to inspect repository: %w", err)
		}

		jsonData, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status to JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringP("path", "p", "", "Local working copy to check")
}
