package statement

import (
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultReferenceMax caps reference and counterparty text length.
	DefaultReferenceMax = 180
	// DefaultMessageMax caps message text length.
	DefaultMessageMax = 220
)

const isoDate = "2006-01-02"

// dateLayouts are the accepted input formats, tried in order. Day comes
// before month in the dotted and slashed forms (Swiss/German exports).
var dateLayouts = []string{isoDate, "2.1.2006", "2/1/2006"}

// NormalizeDate parses yyyy-mm-dd, d.m.yyyy or d/m/yyyy (one- or two-digit
// day and month) and returns the ISO form. Anything else yields "".
func NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(isoDate)
		}
	}
	return ""
}

// NormalizeAmount parses a locale-tolerant decimal string. Apostrophes
// (Swiss thousands marker) are dropped; when both comma and period occur,
// the one appearing later is the decimal separator and the earlier one is a
// thousands separator; a lone comma is a decimal separator. Unparsable input
// yields an invalid NullDecimal.
func NormalizeAmount(raw string) decimal.NullDecimal {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-':
			b.WriteRune(r)
		}
	}
	s := b.String()

	comma := strings.LastIndex(s, ",")
	period := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && period >= 0 && comma > period:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case comma >= 0 && period >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// invisible strips unicode format characters (zero-width joiners and the
// like) that bank exports occasionally smuggle into free-text fields.
var invisible = transform.Chain(norm.NFC, runes.Remove(runes.In(unicode.Cf)))

// SanitizeText collapses internal whitespace, trims, removes non-printing
// format runes, and caps the result at max characters.
func SanitizeText(raw string, max int) string {
	cleaned, _, err := transform.String(invisible, raw)
	if err != nil {
		cleaned = raw
	}
	fields := strings.Fields(cleaned)
	s := strings.Join(fields, " ")
	if max > 0 && len([]rune(s)) > max {
		s = string([]rune(s)[:max])
	}
	return s
}
