package commands

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/glarusbooks/bankrec/internal/booking"
	"github.com/glarusbooks/bankrec/internal/config"
	"github.com/glarusbooks/bankrec/internal/ledger"
	"github.com/glarusbooks/bankrec/internal/match"
	"github.com/glarusbooks/bankrec/internal/report"
)

const reportFile = "run-reports.csv"

func newApplyCommand() *cobra.Command {
	var ledgerDir string
	var configPath string
	var assigns []string
	var rows []string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "apply <statement-file>",
		Short: "Book matched statement rows against the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := parseAssigns(assigns)
			if err != nil {
				return err
			}
			return runApply(cmd, applyParams{
				statementPath: args[0],
				ledgerDir:     ledgerDir,
				configPath:    configPath,
				overrides:     overrides,
				rows:          rows,
				dryRun:        dryRun,
			})
		},
	}

	cmd.Flags().StringVar(&ledgerDir, "ledger", "ledger", "ledger CSV directory")
	cmd.Flags().StringVar(&configPath, "config", "bankrec.yaml", "settings file")
	cmd.Flags().StringArrayVar(&assigns, "assign", nil, "manual match override, row-id=document-id (repeatable)")
	cmd.Flags().StringSliceVar(&rows, "rows", nil, "row ids to book (default: every effectively matched row)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "match and resolve but skip ledger writes")

	return cmd
}

type applyParams struct {
	statementPath string
	ledgerDir     string
	configPath    string
	overrides     map[string]string
	rows          []string
	dryRun        bool
}

func runApply(cmd *cobra.Command, p applyParams) error {
	settings, lgr, err := loadEnvironment(p.configPath, p.ledgerDir)
	if err != nil {
		return err
	}

	results, parsed, docs, err := matchStatement(settings, lgr, p.statementPath)
	if err != nil {
		return err
	}

	resolved := match.Resolve(results, p.overrides, docs)

	var selected map[string]bool
	if len(p.rows) > 0 {
		selected = make(map[string]bool, len(p.rows))
		for _, id := range p.rows {
			selected[id] = true
		}
	}

	if p.dryRun {
		printResults(cmd, results)
		printSummary(cmd, report.Summarize(results), parsed.Errors)
		return nil
	}

	run := booking.Run(lgr, resolved, selected, time.Now())

	if err := ledger.Save(p.ledgerDir, lgr); err != nil {
		return fmt.Errorf("saving ledger: %w", err)
	}

	rep := report.Build(report.Input{
		SourceFile:   filepath.Base(p.statementPath),
		Summary:      report.Summarize(results),
		Selected:     run.Selected,
		Booked:       run.Booked,
		Duplicate:    run.Duplicate,
		Failed:       run.Failed,
		Errors:       parsed.Errors,
		Meta:         map[string]any{"ledger_dir": p.ledgerDir},
		PreviewLimit: settings.Report.PreviewLimit,
	})
	// A lost audit record must not roll back booked payments.
	if err := report.Append(filepath.Join(p.ledgerDir, reportFile), rep); err != nil {
		color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), "warning: saving run report: %v\n", err)
	}

	printRun(cmd, run)
	return nil
}

func loadEnvironment(configPath, ledgerDir string) (*config.Settings, *ledger.Memory, error) {
	settings, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, nil, err
	}
	lgr, err := ledger.Load(ledgerDir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading ledger: %w", err)
	}
	return settings, lgr, nil
}

func matchOptions(settings *config.Settings) match.Options {
	var opts match.Options
	if settings.Matching.Tolerance > 0 {
		opts.Tolerance = decimal.NullDecimal{Decimal: decimal.NewFromFloat(settings.Matching.Tolerance), Valid: true}
	}
	return opts
}

// parseAssigns turns repeated "row-id=document-id" flags into an override map.
func parseAssigns(assigns []string) (map[string]string, error) {
	if len(assigns) == 0 {
		return nil, nil
	}
	overrides := make(map[string]string, len(assigns))
	for _, a := range assigns {
		rowID, docID, ok := strings.Cut(a, "=")
		if !ok || rowID == "" || docID == "" {
			return nil, fmt.Errorf("invalid --assign %q, want row-id=document-id", a)
		}
		overrides[rowID] = docID
	}
	return overrides, nil
}

func printRun(cmd *cobra.Command, run booking.Result) {
	out := cmd.OutOrStdout()
	for _, rr := range run.Rows {
		switch rr.Outcome {
		case booking.OutcomeBooked:
			color.New(color.FgGreen).Fprintf(out, "%s booked (%s)\n", rr.RowID, rr.Payment.ID)
		case booking.OutcomeDuplicate:
			color.New(color.FgYellow).Fprintf(out, "%s duplicate, already booked\n", rr.RowID)
		case booking.OutcomeFailed:
			color.New(color.FgRed).Fprintf(out, "%s failed: %v\n", rr.RowID, rr.Err)
		}
	}
	fmt.Fprintf(out, "\n%d selected: %d booked, %d duplicate, %d failed\n",
		run.Selected, run.Booked, run.Duplicate, run.Failed)
}
