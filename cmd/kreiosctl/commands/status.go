package commands

import (
	"fmt"

	"github.com/specs-group/kreiosd/cmd/kreiosctl/cmdutil"
	"github.com/specs-group/kreiosd/internal/cli/output"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show analyzer connection and acquisition status",
	Long: `Display the current analyzer connection state, acquisition state
and run-mode reported by the connected kreiosd daemon.

Examples:
  kreiosctl status
  kreiosctl status -o json`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	status, err := cmdutil.Client().GetStatus()
	if err != nil {
		return fmt.Errorf("failed to fetch status: %w", err)
	}

	if cmdutil.OutputFormat() != output.FormatTable {
		return output.NewPrinter(cmd.OutOrStdout(), cmdutil.OutputFormat(), false).Print(status)
	}

	pairs := [][2]string{
		{"Connected", fmt.Sprintf("%t", status.Connected)},
		{"Server", status.ServerName},
		{"Protocol", fmt.Sprintf("%d.%d", status.ProtocolMajor, status.ProtocolMinor)},
		{"State", status.State},
		{"AD Status", status.ADStatus},
		{"Run Mode", status.RunMode},
		{"Operating Mode", status.OperatingMode},
		{"Safe State", fmt.Sprintf("%t", status.SafeState)},
		{"Exposures", fmt.Sprintf("%d", status.NumExposures)},
	}
	if status.Message != "" {
		pairs = append(pairs, [2]string{"Message", status.Message})
	}
	return output.SimpleTable(cmd.OutOrStdout(), pairs)
}
