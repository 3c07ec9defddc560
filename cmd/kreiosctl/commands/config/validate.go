package config

import (
	"fmt"

	"github.com/specs-group/kreiosd/cmd/kreiosctl/cmdutil"
	"github.com/specs-group/kreiosd/pkg/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a kreiosd configuration file",
	Long: `Load and validate a kreiosd configuration file: syntax, required
fields and value constraints.

Examples:
  kreiosctl config validate
  kreiosctl --config /etc/kreiosd/config.yaml config validate`,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	configPath := cmdutil.Flags.ConfigFile

	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return err
	}

	displayPath := configPath
	if displayPath == "" {
		displayPath = config.GetDefaultConfigPath()
	}

	var warnings []string
	if cfg.API.Enabled && cfg.API.AuthEnabled && cfg.API.GetJWTSecret() == "" {
		warnings = append(warnings, "API auth is enabled but no JWT secret is configured")
	}
	if cfg.History.Path == "" {
		warnings = append(warnings, "history.path is not set; completed sessions will not be recorded")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration file: %s\n", displayPath)
	fmt.Fprintln(cmd.OutOrStdout(), "Validation: OK")

	if len(warnings) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "\nWarnings:")
		for _, w := range warnings {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", w)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nConfiguration summary:\n")
	fmt.Fprintf(cmd.OutOrStdout(), "  Analyzer:    %s:%d\n", cfg.Prodigy.Host, cfg.Prodigy.Port)
	fmt.Fprintf(cmd.OutOrStdout(), "  API port:    %d\n", cfg.API.Port)
	fmt.Fprintf(cmd.OutOrStdout(), "  Log level:   %s\n", cfg.Logging.Level)

	return nil
}
