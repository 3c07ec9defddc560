package commands

import (
	"fmt"

	"github.com/specs-group/kreiosd/cmd/kreiosctl/cmdutil"
	"github.com/specs-group/kreiosd/internal/cli/output"
	"github.com/specs-group/kreiosd/pkg/apiclient"
	"github.com/spf13/cobra"
)

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Read and write analyzer parameters (C4)",
	Long: `List, read and write the analyzer parameters mirrored from the
SpecsLab Prodigy Remote-In server.

Examples:
  kreiosctl params list
  kreiosctl params get KineticEnergy
  kreiosctl params set DwellTime 0.2`,
}

var paramsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every mirrored analyzer parameter",
	RunE:  runParamsList,
}

var paramsGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Get a parameter's current value",
	Args:  cobra.ExactArgs(1),
	RunE:  runParamsGet,
}

var paramsSetCmd = &cobra.Command{
	Use:   "set <name> <value>",
	Short: "Set a parameter's value",
	Args:  cobra.ExactArgs(2),
	RunE:  runParamsSet,
}

func init() {
	paramsCmd.AddCommand(paramsListCmd)
	paramsCmd.AddCommand(paramsGetCmd)
	paramsCmd.AddCommand(paramsSetCmd)
}

// ParamList renders a list of parameters as a table.
type ParamList []apiclient.Param

func (pl ParamList) Headers() []string { return []string{"NAME", "TYPE", "UNIT"} }

func (pl ParamList) Rows() [][]string {
	rows := make([][]string, 0, len(pl))
	for _, p := range pl {
		rows = append(rows, []string{p.Name, p.Type, p.Unit})
	}
	return rows
}

func runParamsList(cmd *cobra.Command, args []string) error {
	params, err := cmdutil.Client().ListParams()
	if err != nil {
		return fmt.Errorf("failed to list parameters: %w", err)
	}
	return cmdutil.PrintOutput(params, len(params) == 0, "No parameters available (analyzer not connected?).", ParamList(params))
}

func runParamsGet(cmd *cobra.Command, args []string) error {
	pv, err := cmdutil.Client().GetParam(args[0])
	if err != nil {
		return fmt.Errorf("failed to get parameter %q: %w", args[0], err)
	}
	if cmdutil.OutputFormat() != output.FormatTable {
		return output.NewPrinter(cmd.OutOrStdout(), cmdutil.OutputFormat(), false).Print(pv)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s %s\n", pv.Name, pv.Value, pv.Unit)
	return nil
}

func runParamsSet(cmd *cobra.Command, args []string) error {
	if err := cmdutil.Client().SetParam(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set parameter %q: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s set to %s\n", args[0], args[1])
	return nil
}
