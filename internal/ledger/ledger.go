// Package ledger defines the boundary to the service owning outstanding
// documents and payment records, plus a CSV-backed implementation used by
// the CLI and by tests.
package ledger

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/glarusbooks/bankrec/internal/model"
)

// ErrDuplicatePayment signals the ledger's uniqueness constraint on
// (document, note): the payment was already booked.
var ErrDuplicatePayment = errors.New("payment already recorded for document and note")

// ErrNotFound signals an unknown document or payment id.
var ErrNotFound = errors.New("not found")

// minOutstanding excludes rounding remainders from the open-document set.
var minOutstanding = decimal.NewFromFloat(0.01)

// Ledger is the collaborator consumed by the reconciliation engine.
type Ledger interface {
	// ListOpenDocuments returns receivables with outstanding > 0.01.
	ListOpenDocuments() ([]model.OpenDocument, error)
	// FindPaymentByMarker returns the payment with the given note on the
	// document, or nil.
	FindPaymentByMarker(documentID, marker string) (*model.Payment, error)
	// ApplyPayment books a payment against a document. Returns
	// ErrDuplicatePayment when (documentID, note) was already booked.
	ApplyPayment(documentID string, amount decimal.Decimal, method string, paidAt time.Time, note string) (model.Payment, error)
	// UndoPayment reverses a booked payment, restoring the outstanding amount.
	UndoPayment(paymentID string) error
}
