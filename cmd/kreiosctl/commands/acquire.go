package commands

import (
	"fmt"

	"github.com/specs-group/kreiosd/cmd/kreiosctl/cmdutil"
	"github.com/specs-group/kreiosd/internal/cli/output"
	"github.com/spf13/cobra"
)

var acquireCmd = &cobra.Command{
	Use:   "acquire",
	Short: "Control acquisition sessions (C7)",
	Long: `Start, stop, pause and resume an acquisition session, and report
its progress.

Examples:
  kreiosctl acquire start
  kreiosctl acquire progress
  kreiosctl acquire stop`,
}

var acquireStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start an acquisition using the currently set parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cmdutil.Client().StartAcquisition(); err != nil {
			return fmt.Errorf("failed to start acquisition: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "acquisition started")
		return nil
	},
}

var acquireStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Abort the running acquisition",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cmdutil.Client().StopAcquisition(); err != nil {
			return fmt.Errorf("failed to stop acquisition: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "acquisition stopped")
		return nil
	},
}

var acquirePauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the running acquisition",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cmdutil.Client().PauseAcquisition(); err != nil {
			return fmt.Errorf("failed to pause acquisition: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "acquisition paused")
		return nil
	},
}

var acquireResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume a paused acquisition",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cmdutil.Client().ResumeAcquisition(); err != nil {
			return fmt.Errorf("failed to resume acquisition: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "acquisition resumed")
		return nil
	},
}

var acquireProgressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Report current acquisition progress",
	RunE:  runAcquireProgress,
}

func init() {
	acquireCmd.AddCommand(acquireStartCmd)
	acquireCmd.AddCommand(acquireStopCmd)
	acquireCmd.AddCommand(acquirePauseCmd)
	acquireCmd.AddCommand(acquireResumeCmd)
	acquireCmd.AddCommand(acquireProgressCmd)
}

func runAcquireProgress(cmd *cobra.Command, args []string) error {
	p, err := cmdutil.Client().GetProgress()
	if err != nil {
		return fmt.Errorf("failed to fetch progress: %w", err)
	}
	if cmdutil.OutputFormat() != output.FormatTable {
		return output.NewPrinter(cmd.OutOrStdout(), cmdutil.OutputFormat(), false).Print(p)
	}
	return output.SimpleTable(cmd.OutOrStdout(), [][2]string{
		{"Busy", fmt.Sprintf("%t", p.Busy)},
		{"Iteration", fmt.Sprintf("%d/%d", p.Iteration, p.Iterations)},
		{"Iteration %", fmt.Sprintf("%.1f", p.IterationPercent)},
		{"Overall %", fmt.Sprintf("%.1f", p.OverallPercent)},
		{"Remaining (s)", fmt.Sprintf("%.1f", p.RemainingSeconds)},
		{"Status", p.StatusText},
	})
}
