package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SemicolonWithHeader(t *testing.T) {
	text := "Buchungsdatum;Betrag;Referenz;Mitteilung;Name\n13.02.2026;199.90;INV-1001;Rechnung INV-1001 bezahlt;Kunde AG"

	res := Parse(text, Options{})
	require.Empty(t, res.Errors)
	require.Len(t, res.Rows, 1)

	row := res.Rows[0]
	assert.Equal(t, "bank-2", row.ID)
	assert.Equal(t, 2, row.RowNo)
	assert.Equal(t, "2026-02-13", row.BookingDate)
	require.True(t, row.Amount.Valid)
	assert.Equal(t, "199.90", row.Amount.Decimal.StringFixed(2))
	assert.Equal(t, "INV-1001", row.Reference)
	assert.Equal(t, "Rechnung INV-1001 bezahlt", row.Message)
	assert.Equal(t, "Kunde AG", row.Counterparty)
	assert.Equal(t, "CHF", row.Currency)
}

func TestParse_NoHeaderUsesDefaultOrder(t *testing.T) {
	// date, amount, reference, message, counterparty, currency
	text := "01.03.2026;50.00;REF-9;Zahlung;Muster GmbH;EUR"

	res := Parse(text, Options{})
	require.Len(t, res.Rows, 1)

	row := res.Rows[0]
	assert.Equal(t, "bank-1", row.ID)
	assert.Equal(t, "2026-03-01", row.BookingDate)
	assert.Equal(t, "REF-9", row.Reference)
	assert.Equal(t, "Muster GmbH", row.Counterparty)
	assert.Equal(t, "EUR", row.Currency)
}

func TestParse_CommaDelimiter(t *testing.T) {
	text := "Date,Amount,Reference,Message,Name\n2026-02-13,120.50,INV-7,payment,Acme Inc"

	res := Parse(text, Options{})
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "2026-02-13", res.Rows[0].BookingDate)
	assert.Equal(t, "120.50", res.Rows[0].Amount.Decimal.StringFixed(2))
}

func TestParse_TabDelimiter(t *testing.T) {
	text := "Datum\tBetrag\tReferenz\n13.02.2026\t10.00\tINV-1"

	res := Parse(text, Options{})
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "INV-1", res.Rows[0].Reference)
}

func TestParse_DelimiterTieBreaksTowardSemicolon(t *testing.T) {
	// One comma and one semicolon in the first line.
	text := "13.02.2026;1,5"

	res := Parse(text, Options{})
	require.Len(t, res.Rows, 1)
	require.True(t, res.Rows[0].Amount.Valid)
	assert.Equal(t, "1.50", res.Rows[0].Amount.Decimal.StringFixed(2))
}

func TestParse_QuotedFieldsWithEscapedQuotes(t *testing.T) {
	text := "Datum;Betrag;Referenz;Mitteilung;Name\n13.02.2026;25.00;INV-3;\"Zahlung; mit Semikolon\";\"Firma \"\"Alpha\"\" AG\""

	res := Parse(text, Options{})
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Zahlung; mit Semikolon", res.Rows[0].Message)
	assert.Equal(t, `Firma "Alpha" AG`, res.Rows[0].Counterparty)
}

func TestParse_BOMHeader(t *testing.T) {
	text := "\uFEFFBuchungsdatum;Betrag\n13.02.2026;10.00"

	res := Parse(text, Options{})
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "2026-02-13", res.Rows[0].BookingDate)
}

func TestParse_CreditDebitFallback(t *testing.T) {
	text := "Datum;Gutschrift;Lastschrift;Referenz\n13.02.2026;150.00;;INV-1\n14.02.2026;;75.25;FEE-1"

	res := Parse(text, Options{})
	require.Len(t, res.Rows, 2)

	require.True(t, res.Rows[0].Amount.Valid)
	assert.Equal(t, "150.00", res.Rows[0].Amount.Decimal.StringFixed(2))

	require.True(t, res.Rows[1].Amount.Valid)
	assert.Equal(t, "-75.25", res.Rows[1].Amount.Decimal.StringFixed(2))
}

func TestParse_RowIssues(t *testing.T) {
	text := "Datum;Betrag;Referenz\nkaputt;abc;INV-1\n13.02.2026;10.00;INV-2"

	res := Parse(text, Options{})
	require.Len(t, res.Rows, 2)

	bad := res.Rows[0]
	assert.Equal(t, []string{"Datum fehlt/ungültig", "Betrag fehlt/ungültig"}, bad.ParseIssues)

	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Zeile 2: Datum fehlt/ungültig, Betrag fehlt/ungültig", res.Errors[0])

	assert.Empty(t, res.Rows[1].ParseIssues)
}

func TestParse_EmptyInput(t *testing.T) {
	res := Parse("  \n\n  \n", Options{})
	assert.Empty(t, res.Rows)
	require.Len(t, res.Errors, 1)
}

func TestParse_Deterministic(t *testing.T) {
	text := "Datum;Betrag;Referenz\n13.02.2026;10.00;INV-1\nkaputt;;;\n14.02.2026;1'234.50;INV-2"

	first := Parse(text, Options{})
	second := Parse(text, Options{})
	assert.Equal(t, first, second)
}

func TestParse_BlankLinesDropped(t *testing.T) {
	text := "Datum;Betrag\n\n13.02.2026;10.00\n\n\n14.02.2026;20.00\n"

	res := Parse(text, Options{})
	require.Len(t, res.Rows, 2)
	assert.Equal(t, 2, res.Rows[0].RowNo)
	assert.Equal(t, 3, res.Rows[1].RowNo)
}
