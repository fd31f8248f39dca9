package statement

import "strings"

// Logical columns the ingestor pulls from a statement line.
const (
	colDate = iota
	colAmount
	colCredit
	colDebit
	colReference
	colMessage
	colCounterparty
	colCurrency
	numColumns
)

// columnAliases maps each logical column to its header aliases, most specific
// first. Resolution takes the first alias present in the header, scanned in
// order.
var columnAliases = [numColumns][]string{
	colDate:         {"buchungsdatum", "valutadatum", "date", "datum", "bookingdate"},
	colAmount:       {"betrag", "amount", "value"},
	colCredit:       {"gutschrift", "credit", "eingang"},
	colDebit:        {"lastschrift", "debit", "ausgang"},
	colReference:    {"referenz", "reference", "invoice", "beleg", "belegnr"},
	colMessage:      {"mitteilung", "message", "purpose", "verwendungszweck", "details"},
	colCounterparty: {"name", "gegenpartei", "counterparty", "payer", "beguenstigter"},
	colCurrency:     {"waehrung", "wahrung", "currency", "curr"},
}

// headerVocabulary decides whether the first line is a header at all. The
// cells are compared after normalizeHeaderCell.
var headerVocabulary = map[string]bool{
	"buchungsdatum": true,
	"valutadatum":   true,
	"date":          true,
	"datum":         true,
	"betrag":        true,
	"amount":        true,
	"credit":        true,
	"debit":         true,
	"gutschrift":    true,
	"lastschrift":   true,
}

// defaultColumnOrder is assumed when no header row is present.
var defaultColumnOrder = []int{colDate, colAmount, colReference, colMessage, colCounterparty, colCurrency}

// normalizeHeaderCell strips the BOM, lowercases, and drops everything that is
// not ASCII alphanumeric, so "Buchungs-Datum " and "buchungsdatum" compare equal.
func normalizeHeaderCell(cell string) string {
	cell = strings.TrimPrefix(cell, "\uFEFF")
	cell = strings.ToLower(cell)
	var b strings.Builder
	for _, r := range cell {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// isHeaderLine reports whether any cell belongs to the header vocabulary.
func isHeaderLine(cells []string) bool {
	for _, c := range cells {
		if headerVocabulary[normalizeHeaderCell(c)] {
			return true
		}
	}
	return false
}

// resolveColumns maps each logical column to its index in the header, or -1.
// For each column the first alias found in the header wins.
func resolveColumns(header []string) [numColumns]int {
	normalized := make([]string, len(header))
	for i, c := range header {
		normalized[i] = normalizeHeaderCell(c)
	}

	var resolved [numColumns]int
	for col := range resolved {
		resolved[col] = -1
		for _, alias := range columnAliases[col] {
			for i, cell := range normalized {
				if cell == alias {
					resolved[col] = i
					break
				}
			}
			if resolved[col] >= 0 {
				break
			}
		}
	}
	return resolved
}

// defaultColumns returns the fixed positional mapping used without a header.
func defaultColumns() [numColumns]int {
	var resolved [numColumns]int
	for col := range resolved {
		resolved[col] = -1
	}
	for i, col := range defaultColumnOrder {
		resolved[col] = i
	}
	return resolved
}
