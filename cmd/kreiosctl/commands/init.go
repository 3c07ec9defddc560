package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/specs-group/kreiosd/cmd/kreiosctl/cmdutil"
	"github.com/specs-group/kreiosd/internal/cli/prompt"
	"github.com/specs-group/kreiosd/pkg/config"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter kreiosd configuration file",
	Long: `Write a starter kreiosd configuration file.

By default, the file is created at $XDG_CONFIG_HOME/kreiosd/config.yaml.
Use --config to choose a different path.

Examples:
  kreiosctl init
  kreiosctl init --config /etc/kreiosd/config.yaml
  kreiosctl init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := cmdutil.Flags.ConfigFile
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	if !initForce {
		if _, statErr := os.Stat(configPath); statErr == nil {
			ok, promptErr := prompt.ConfirmWithForce(
				fmt.Sprintf("Configuration file %s already exists. Overwrite?", configPath), false)
			if promptErr != nil {
				if errors.Is(promptErr, prompt.ErrAborted) {
					return fmt.Errorf("init aborted")
				}
				return promptErr
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted, existing configuration left unchanged.")
				return nil
			}
			initForce = true
		}
	}

	var err error
	if cmdutil.Flags.ConfigFile != "" {
		err = config.InitConfigToPath(configPath, initForce)
	} else {
		configPath, err = config.InitConfig(initForce)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created at: %s\n", configPath)
	fmt.Fprintln(cmd.OutOrStdout(), "Edit it to match your analyzer, then start the daemon:")
	fmt.Fprintf(cmd.OutOrStdout(), "  kreiosd start --config %s\n", configPath)
	return nil
}
