// Package booking drives idempotent posting of resolved statement rows
// against the ledger.
//
// Rows are processed strictly one at a time: the ask-then-write duplicate
// check is only safe when no two rows race on the same (document, marker)
// pair. A uniqueness violation from the ledger is a benign duplicate, not a
// failure; any other ledger error fails the row and the run continues.
package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/glarusbooks/bankrec/internal/ledger"
	"github.com/glarusbooks/bankrec/internal/marker"
	"github.com/glarusbooks/bankrec/internal/model"
)

// Outcome classifies one row's booking attempt.
type Outcome string

const (
	OutcomeBooked    Outcome = "booked"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeFailed    Outcome = "failed"
	OutcomeSkipped   Outcome = "skipped"
)

// RowResult is the booking outcome for one row.
type RowResult struct {
	RowID   string
	Outcome Outcome
	Payment *model.Payment // set when booked
	Err     error          // set when failed
}

// Result aggregates one booking run.
type Result struct {
	Selected  int
	Booked    int
	Duplicate int
	Failed    int
	Rows      []RowResult
}

// Run books every selected row with a resolvable match. A nil selected set
// selects all rows. Rows without a resolved match, and unselected rows, are
// skipped. The row's booking date is used as the payment date when present,
// otherwise now.
func Run(lgr ledger.Ledger, rows []model.ResolvedRow, selected map[string]bool, now time.Time) Result {
	var res Result
	for _, row := range rows {
		rr := RowResult{RowID: row.ID, Outcome: OutcomeSkipped}
		if (selected == nil || selected[row.ID]) && row.ResolvedMatch != nil {
			res.Selected++
			rr = bookRow(lgr, row, now)
		}
		switch rr.Outcome {
		case OutcomeBooked:
			res.Booked++
		case OutcomeDuplicate:
			res.Duplicate++
		case OutcomeFailed:
			res.Failed++
		}
		res.Rows = append(res.Rows, rr)
	}
	return res
}

func bookRow(lgr ledger.Ledger, row model.ResolvedRow, now time.Time) RowResult {
	rr := RowResult{RowID: row.ID}
	m := marker.Build(row.BankRow)

	existing, err := lgr.FindPaymentByMarker(row.ResolvedMatch.ID, m)
	if err != nil {
		rr.Outcome = OutcomeFailed
		rr.Err = fmt.Errorf("checking marker: %w", err)
		return rr
	}
	if existing != nil {
		rr.Outcome = OutcomeDuplicate
		return rr
	}

	paidAt := now
	if t, err := time.Parse("2006-01-02", row.BookingDate); err == nil {
		paidAt = t
	}

	payment, err := lgr.ApplyPayment(row.ResolvedMatch.ID, row.Amount.Decimal, marker.Method, paidAt, m)
	if errors.Is(err, ledger.ErrDuplicatePayment) {
		rr.Outcome = OutcomeDuplicate
		return rr
	}
	if err != nil {
		rr.Outcome = OutcomeFailed
		rr.Err = fmt.Errorf("applying payment: %w", err)
		return rr
	}
	rr.Outcome = OutcomeBooked
	rr.Payment = &payment
	return rr
}
