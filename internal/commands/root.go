// Package commands wires the reconciliation engine into the bankrec CLI.
// The engine packages stay pure; everything side-effectful (ledger I/O, run
// report persistence, terminal output) lives here.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glarusbooks/bankrec/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "bankrec",
		Short:   "Bank statement reconciliation",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newApplyCommand())
	rootCmd.AddCommand(newUndoCommand())
	rootCmd.AddCommand(newReportsCommand())

	return rootCmd
}
