package commands

import (
	"fmt"
	"time"

	"github.com/specs-group/kreiosd/cmd/kreiosctl/cmdutil"
	"github.com/specs-group/kreiosd/pkg/api/middleware"
	"github.com/specs-group/kreiosd/pkg/config"
	"github.com/spf13/cobra"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage API bearer tokens",
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a bearer token signed with the daemon's configured secret",
	Long: `Issue a JWT bearer token signed with the same secret the daemon's
API server validates against, read from the local kreiosd configuration
file (or $KREIOSD_API_SECRET).

This only works when run on a host with access to the daemon's
configuration; it does not call the daemon over the network.

Examples:
  kreiosctl token issue
  KREIOSCTL_TOKEN=$(kreiosctl token issue) kreiosctl status`,
	RunE: runTokenIssue,
}

func init() {
	tokenIssueCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
	tokenCmd.AddCommand(tokenIssueCmd)
}

func runTokenIssue(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(cmdutil.Flags.ConfigFile)
	if err != nil {
		return err
	}
	if !cfg.API.AuthEnabled {
		return fmt.Errorf("API authentication is disabled in this configuration (api.auth_enabled: false)")
	}

	token, err := middleware.IssueToken(cfg.API.GetJWTSecret(), "kreiosctl", tokenTTL)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
