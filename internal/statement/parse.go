// Package statement parses raw bank statement exports into validated rows.
//
// The input is delimited text (semicolon, comma, or tab), UTF-8 with an
// optional BOM, with or without a header row and in arbitrary column order.
// Parsing never fails on a bad row: problems are recorded on the row itself
// and aggregated into a parser-level error list.
package statement

import (
	"fmt"
	"strings"

	"github.com/glarusbooks/bankrec/internal/model"
)

// Options tune parsing. The zero value selects the defaults.
type Options struct {
	DefaultCurrency string // applied when the statement has no currency column
	ReferenceMax    int    // text cap for reference and counterparty
	MessageMax      int    // text cap for message
}

func (o Options) withDefaults() Options {
	if o.DefaultCurrency == "" {
		o.DefaultCurrency = "CHF"
	}
	if o.ReferenceMax == 0 {
		o.ReferenceMax = DefaultReferenceMax
	}
	if o.MessageMax == 0 {
		o.MessageMax = DefaultMessageMax
	}
	return o
}

// Result is the outcome of one parse: all rows (including invalid ones) plus
// the aggregated per-row error strings.
type Result struct {
	Rows   []model.BankRow
	Errors []string
}

// Parse converts raw statement text into bank rows. It is deterministic:
// the same text always yields the same rows.
func Parse(text string, opts Options) Result {
	opts = opts.withDefaults()

	lines := splitLines(text)
	if len(lines) == 0 {
		return Result{Errors: []string{"Keine Daten gefunden"}}
	}

	delim := detectDelimiter(lines[0])
	firstCells := splitFields(lines[0], delim)

	columns := defaultColumns()
	start := 0
	if isHeaderLine(firstCells) {
		columns = resolveColumns(firstCells)
		start = 1
	}

	var res Result
	for i := start; i < len(lines); i++ {
		rowNo := i + 1
		row := buildRow(rowNo, splitFields(lines[i], delim), columns, opts)
		if row.HasIssues() {
			res.Errors = append(res.Errors, fmt.Sprintf("Zeile %d: %s", rowNo, strings.Join(row.ParseIssues, ", ")))
		}
		res.Rows = append(res.Rows, row)
	}
	return res
}

// splitLines breaks text on \r?\n, trims each line, and drops blanks.
func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var lines []string
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// detectDelimiter picks the most frequent of ; , \t in the first line.
// Ties break toward the semicolon.
func detectDelimiter(line string) rune {
	semis := strings.Count(line, ";")
	commas := strings.Count(line, ",")
	tabs := strings.Count(line, "\t")

	delim := ';'
	best := semis
	if commas > best {
		delim, best = ',', commas
	}
	if tabs > best {
		delim = '\t'
	}
	return delim
}

// splitFields splits one line on delim, honoring quoted fields. A doubled
// quote inside a quoted field yields one literal quote.
func splitFields(line string, delim rune) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				cur.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case r == delim && !inQuotes:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, cur.String())
	return fields
}

// cell returns the field at the resolved column index, or "" when the column
// is missing or the line is short.
func cell(fields []string, idx int) string {
	if idx < 0 || idx >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[idx])
}

// buildRow assembles and validates one BankRow from a data line.
func buildRow(rowNo int, fields []string, columns [numColumns]int, opts Options) model.BankRow {
	row := model.BankRow{
		ID:           fmt.Sprintf("bank-%d", rowNo),
		RowNo:        rowNo,
		BookingDate:  NormalizeDate(cell(fields, columns[colDate])),
		Amount:       NormalizeAmount(cell(fields, columns[colAmount])),
		Currency:     opts.DefaultCurrency,
		Reference:    SanitizeText(cell(fields, columns[colReference]), opts.ReferenceMax),
		Message:      SanitizeText(cell(fields, columns[colMessage]), opts.MessageMax),
		Counterparty: SanitizeText(cell(fields, columns[colCounterparty]), opts.ReferenceMax),
	}

	if cur := cell(fields, columns[colCurrency]); cur != "" {
		row.Currency = strings.ToUpper(SanitizeText(cur, 8))
	}

	// Credit/debit fallback for exports with split amount columns.
	if !row.Amount.Valid {
		if credit := NormalizeAmount(cell(fields, columns[colCredit])); credit.Valid {
			row.Amount = credit
		} else if debit := NormalizeAmount(cell(fields, columns[colDebit])); debit.Valid {
			debit.Decimal = debit.Decimal.Abs().Neg()
			row.Amount = debit
		}
	}

	if row.BookingDate == "" {
		row.ParseIssues = append(row.ParseIssues, "Datum fehlt/ungültig")
	}
	if !row.Amount.Valid {
		row.ParseIssues = append(row.ParseIssues, "Betrag fehlt/ungültig")
	}
	return row
}
