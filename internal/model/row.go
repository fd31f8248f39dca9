package model

import (
	"github.com/shopspring/decimal"
)

// BankRow is one parsed statement line. Rows are created once per import and
// never mutated afterward.
type BankRow struct {
	ID           string              // stable per parse, "bank-<rowNo>"
	RowNo        int                 // 1-based source line number
	BookingDate  string              // ISO "2006-01-02", empty when missing/unparsable
	Amount       decimal.NullDecimal // positive = inbound
	Currency     string
	Reference    string
	Message      string
	Counterparty string
	ParseIssues  []string // human-readable problems, empty if valid
}

// HasIssues reports whether the row carries parse problems.
func (r BankRow) HasIssues() bool { return len(r.ParseIssues) > 0 }
