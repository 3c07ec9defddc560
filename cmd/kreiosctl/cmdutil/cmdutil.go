// Package cmdutil holds shared state and helpers for kreiosctl's
// subcommand packages.
package cmdutil

import (
	"os"

	"github.com/specs-group/kreiosd/internal/cli/output"
	"github.com/specs-group/kreiosd/pkg/apiclient"
)

// DefaultServerURL is used when neither --server nor $KREIOSCTL_SERVER is set.
const DefaultServerURL = "http://localhost:8080"

// GlobalFlags carries the persistent flag values synced by the root
// command's PersistentPreRun, so subcommand packages don't need to
// reach into the cobra command tree.
type GlobalFlags struct {
	Server     string
	Token      string
	Output     string
	ConfigFile string
}

// Flags holds the values of the current invocation's persistent flags.
var Flags GlobalFlags

// ServerURL resolves the target server URL: --server, then
// $KREIOSCTL_SERVER, then DefaultServerURL.
func ServerURL() string {
	if Flags.Server != "" {
		return Flags.Server
	}
	if env := os.Getenv("KREIOSCTL_SERVER"); env != "" {
		return env
	}
	return DefaultServerURL
}

// Token resolves the bearer token: --token, then $KREIOSCTL_TOKEN.
func Token() string {
	if Flags.Token != "" {
		return Flags.Token
	}
	return os.Getenv("KREIOSCTL_TOKEN")
}

// Client builds an apiclient.Client for the resolved server and token.
func Client() *apiclient.Client {
	return apiclient.New(ServerURL()).WithToken(Token())
}

// OutputFormat parses the --output flag, defaulting to table on error.
func OutputFormat() output.Format {
	f, err := output.ParseFormat(Flags.Output)
	if err != nil {
		return output.FormatTable
	}
	return f
}

// PrintOutput prints data using the resolved output format. emptyMsg is
// printed instead of a table when isEmpty is true and the format is
// table; JSON/YAML always print the (possibly empty) data.
func PrintOutput(data any, isEmpty bool, emptyMsg string, table output.TableRenderer) error {
	format := OutputFormat()
	if format == output.FormatTable && isEmpty {
		_, _ = os.Stdout.WriteString(emptyMsg + "\n")
		return nil
	}
	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, data)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, data)
	default:
		return output.PrintTable(os.Stdout, table)
	}
}
