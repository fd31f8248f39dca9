// Package marker encodes booking provenance into a compact string.
//
// The marker doubles as an idempotency key against the ledger and as a
// display line in import history. Building uppercases the whole string, so
// duplicate detection is case-insensitive and the original casing of
// reference and message is not recoverable.
package marker

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/glarusbooks/bankrec/internal/model"
	"github.com/glarusbooks/bankrec/internal/statement"
)

// Prefix identifies a bank-import marker, compared case-insensitively.
const Prefix = "BANKCSV|"

// Method is the payment method recorded for bank-import bookings.
const Method = "Bankimport"

const (
	fieldCap  = 80
	markerCap = 220
	numFields = 5
)

// Build encodes a row into its marker:
// BANKCSV|<date>|<amount.2f>|<reference>|<message>, uppercased, capped at 220.
func Build(row model.BankRow) string {
	amount := decimal.Zero
	if row.Amount.Valid {
		amount = row.Amount.Decimal
	}
	m := strings.Join([]string{
		"BANKCSV",
		row.BookingDate,
		amount.StringFixed(2),
		statement.SanitizeText(row.Reference, fieldCap),
		statement.SanitizeText(row.Message, fieldCap),
	}, "|")
	m = strings.ToUpper(m)
	if len([]rune(m)) > markerCap {
		m = string([]rune(m)[:markerCap])
	}
	return m
}

// IsMarker reports whether text starts with the marker prefix.
func IsMarker(text string) bool {
	return len(text) >= len(Prefix) && strings.EqualFold(text[:len(Prefix)], Prefix)
}

// Parsed is a decoded marker.
type Parsed struct {
	Source      string
	BookingDate string
	Amount      decimal.Decimal
	Reference   string
	Message     string
}

// Parse decodes a marker into its five fields. A wrong field count yields
// nil; an unparsable amount decodes as zero.
func Parse(m string) *Parsed {
	parts := strings.Split(m, "|")
	if len(parts) != numFields {
		return nil
	}
	amount, err := decimal.NewFromString(parts[2])
	if err != nil {
		amount = decimal.Zero
	}
	return &Parsed{
		Source:      parts[0],
		BookingDate: parts[1],
		Amount:      amount,
		Reference:   parts[3],
		Message:     parts[4],
	}
}

// IsBankImportPayment reports whether a ledger payment was created by the
// bank import: method must be exactly Method and the note must be a marker.
func IsBankImportPayment(p model.Payment) bool {
	return p.Method == Method && IsMarker(p.Note)
}
