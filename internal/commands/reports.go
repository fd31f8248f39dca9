package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glarusbooks/bankrec/internal/report"
)

func newReportsCommand() *cobra.Command {
	var ledgerDir string

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List past import runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReports(cmd, ledgerDir)
		},
	}

	cmd.Flags().StringVar(&ledgerDir, "ledger", "ledger", "ledger CSV directory")

	return cmd
}

func runReports(cmd *cobra.Command, ledgerDir string) error {
	reports, err := report.Read(filepath.Join(ledgerDir, reportFile))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(reports) == 0 {
		fmt.Fprintln(out, "no import runs recorded")
		return nil
	}

	for _, r := range reports {
		fmt.Fprintf(out, "%s  %s  %s\n", r.CreatedAt.Format("2006-01-02 15:04"), r.RunID, r.SourceFile)
		fmt.Fprintf(out, "    %d rows, %d matched, %d booked, %d duplicate, %d failed, %d parse errors\n",
			r.TotalRows, r.MatchedRows, r.BookedRows, r.DuplicateRows, r.FailedRows, r.ParseErrorCount)
		if len(r.ErrorsPreview) > 0 {
			fmt.Fprintf(out, "    %s\n", strings.Join(r.ErrorsPreview, "; "))
		}
	}
	return nil
}
