package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/glarusbooks/bankrec/internal/config"
	"github.com/glarusbooks/bankrec/internal/ledger"
	"github.com/glarusbooks/bankrec/internal/match"
	"github.com/glarusbooks/bankrec/internal/model"
	"github.com/glarusbooks/bankrec/internal/report"
	"github.com/glarusbooks/bankrec/internal/statement"
)

func newImportCommand() *cobra.Command {
	var ledgerDir string
	var configPath string

	cmd := &cobra.Command{
		Use:   "import <statement-file>",
		Short: "Parse a statement and preview matches without booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], ledgerDir, configPath)
		},
	}

	cmd.Flags().StringVar(&ledgerDir, "ledger", "ledger", "ledger CSV directory")
	cmd.Flags().StringVar(&configPath, "config", "bankrec.yaml", "settings file")

	return cmd
}

func runImport(cmd *cobra.Command, statementPath, ledgerDir, configPath string) error {
	settings, lgr, err := loadEnvironment(configPath, ledgerDir)
	if err != nil {
		return err
	}

	results, parsed, _, err := matchStatement(settings, lgr, statementPath)
	if err != nil {
		return err
	}

	printResults(cmd, results)
	printSummary(cmd, report.Summarize(results), parsed.Errors)
	return nil
}

// matchStatement parses the statement file and runs the matcher against the
// ledger's open documents. Shared by import and apply.
func matchStatement(settings *config.Settings, lgr ledger.Ledger, statementPath string) ([]model.MatchResult, statement.Result, []model.OpenDocument, error) {
	raw, err := os.ReadFile(statementPath)
	if err != nil {
		return nil, statement.Result{}, nil, fmt.Errorf("reading statement: %w", err)
	}

	parsed := statement.Parse(string(raw), statement.Options{
		DefaultCurrency: settings.Parsing.DefaultCurrency,
		ReferenceMax:    settings.Parsing.ReferenceMax,
		MessageMax:      settings.Parsing.MessageMax,
	})

	docs, err := lgr.ListOpenDocuments()
	if err != nil {
		return nil, statement.Result{}, nil, fmt.Errorf("listing open documents: %w", err)
	}

	results := match.Match(parsed.Rows, docs, matchOptions(settings))
	return results, parsed, docs, nil
}

func printResults(cmd *cobra.Command, results []model.MatchResult) {
	statusColor := map[model.MatchStatus]*color.Color{
		model.StatusMatched:   color.New(color.FgGreen),
		model.StatusAmbiguous: color.New(color.FgYellow),
		model.StatusUnmatched: color.New(color.FgWhite),
		model.StatusIgnored:   color.New(color.FgHiBlack),
		model.StatusInvalid:   color.New(color.FgRed),
	}

	out := cmd.OutOrStdout()
	for _, r := range results {
		amount := "-"
		if r.Amount.Valid {
			amount = r.Amount.Decimal.StringFixed(2)
		}
		target := ""
		if r.Match != nil {
			target = fmt.Sprintf(" -> %s (%s, %.2f)", r.Match.ID, r.Strategy, r.Confidence)
		}
		status := statusColor[r.Status].Sprintf("%-9s", string(r.Status))
		fmt.Fprintf(out, "%-8s %s %10s %s %s%s\n", r.ID, status, amount, r.BookingDate, r.Counterparty, target)
	}
}

func printSummary(cmd *cobra.Command, summary map[string]any, parseErrors []string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%d rows: %d matched, %d ambiguous, %d unmatched, %d ignored, %d invalid\n",
		summary["total"], summary["matched"], summary["ambiguous"], summary["unmatched"], summary["ignored"], summary["invalid"])
	for _, e := range parseErrors {
		color.New(color.FgRed).Fprintln(cmd.ErrOrStderr(), e)
	}
}
