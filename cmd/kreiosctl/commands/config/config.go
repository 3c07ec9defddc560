// Package config implements kreiosctl's "config" command group: local
// operations on a kreiosd configuration file (schema generation, local
// validation, editing). It does not talk to a running daemon.
package config

import "github.com/spf13/cobra"

// Cmd is the parent command for local configuration file operations.
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and validate kreiosd configuration files",
}

func init() {
	Cmd.AddCommand(schemaCmd)
	Cmd.AddCommand(validateCmd)
	Cmd.AddCommand(editCmd)
}
