// Package commands implements the CLI commands for kreiosctl, the
// operator client for a running kreiosd daemon.
package commands

import (
	"os"

	configcmd "github.com/specs-group/kreiosd/cmd/kreiosctl/commands/config"
	"github.com/specs-group/kreiosd/cmd/kreiosctl/cmdutil"
	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "kreiosctl",
	Short: "kreiosctl - operator client for the kreiosd analyzer driver",
	Long: `kreiosctl talks to a running kreiosd daemon over its REST control
plane: it reads connection and acquisition status, reads and writes
analyzer parameters, starts and stops acquisitions, and lists completed
session history.

Use "kreiosctl [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cmdutil.Flags.Server, _ = cmd.Flags().GetString("server")
		cmdutil.Flags.Token, _ = cmd.Flags().GetString("token")
		cmdutil.Flags.Output, _ = cmd.Flags().GetString("output")
		cmdutil.Flags.ConfigFile, _ = cmd.Flags().GetString("config")
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().String("server", "", "kreiosd server URL (default: "+cmdutil.DefaultServerURL+" or $KREIOSCTL_SERVER)")
	rootCmd.PersistentFlags().String("token", "", "Bearer token (default: $KREIOSCTL_TOKEN)")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "Output format (table|json|yaml)")
	rootCmd.PersistentFlags().String("config", "", "Path to kreiosd config file (used by init/config/token commands)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(paramsCmd)
	rootCmd.AddCommand(acquireCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(configcmd.Cmd)
	rootCmd.AddCommand(completionCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// PrintErr prints an error message to stderr.
func PrintErr(format string, args ...any) {
	rootCmd.PrintErrf(format+"\n", args...)
}

// Exit prints an error and exits with code 1.
func Exit(format string, args ...any) {
	PrintErr(format, args...)
	os.Exit(1)
}
