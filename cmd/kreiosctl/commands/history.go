package commands

import (
	"fmt"
	"time"

	"github.com/specs-group/kreiosd/cmd/kreiosctl/cmdutil"
	"github.com/specs-group/kreiosd/internal/cli/timeutil"
	"github.com/specs-group/kreiosd/pkg/apiclient"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List completed acquisition sessions",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded acquisition sessions",
	Long: `List every acquisition session recorded by the daemon's history
store, most recent first.

Examples:
  kreiosctl history list
  kreiosctl history list -o json`,
	RunE: runHistoryList,
}

func init() {
	historyCmd.AddCommand(historyListCmd)
}

// SessionList renders recorded sessions as a table.
type SessionList []apiclient.SessionRecord

func (sl SessionList) Headers() []string {
	return []string{"ID", "RUN_MODE", "ITERATIONS", "STARTED", "DURATION", "FINAL_STATE"}
}

func (sl SessionList) Rows() [][]string {
	rows := make([][]string, 0, len(sl))
	for _, s := range sl {
		shortID := s.ID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}
		duration := s.EndedAt.Sub(s.StartedAt)
		rows = append(rows, []string{
			shortID,
			s.RunMode,
			fmt.Sprintf("%d/%d", s.IterationsCompleted, s.IterationsRequested),
			timeutil.FormatTime(s.StartedAt.Format("2006-01-02T15:04:05Z07:00")),
			duration.Round(100 * time.Millisecond).String(),
			s.FinalState,
		})
	}
	return rows
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	records, err := cmdutil.Client().ListHistory()
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}
	return cmdutil.PrintOutput(records, len(records) == 0, "No recorded sessions.", SessionList(records))
}
