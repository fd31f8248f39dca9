package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenDocument is the engine's projection of an outstanding receivable.
// The ledger supplies a fresh set per matching run.
type OpenDocument struct {
	ID          string
	InvoiceNo   string          // raw invoice number as stored by the ledger
	OrderNo     string          // raw order number, may be empty
	Outstanding decimal.Decimal // positive
}

// Payment is a booked payment as seen through the ledger boundary.
type Payment struct {
	ID         string
	DocumentID string
	Amount     decimal.Decimal
	Method     string
	PaidAt     time.Time
	Note       string
}
