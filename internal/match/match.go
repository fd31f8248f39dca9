// Package match decides which open document, if any, each statement row pays.
//
// Strategies run in strict priority order per row: invoice reference, order
// reference, then amount. Exactly one candidate makes a match; more than one
// makes the row ambiguous and leaves the decision to an operator. Confidence
// is fixed per strategy, valuing a hard reference hit over amount proximity.
package match

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/glarusbooks/bankrec/internal/model"
)

// DefaultTolerance is the maximum absolute difference for an amount match.
var DefaultTolerance = decimal.NewFromFloat(0.05)

const (
	confidenceInvoiceRef = 0.98
	confidenceOrderRef   = 0.90
	confidenceAmount     = 0.70
)

// Options tune matching. The zero value selects the defaults.
type Options struct {
	Tolerance decimal.NullDecimal // amount-match tolerance, default 0.05
}

func (o Options) tolerance() decimal.Decimal {
	if o.Tolerance.Valid {
		return o.Tolerance.Decimal
	}
	return DefaultTolerance
}

// candidate is an open document with its reference tokens precomputed.
type candidate struct {
	doc          *model.OpenDocument
	invoiceToken string
	orderToken   string
}

// normalizeToken prepares a reference for containment testing.
func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Match evaluates every row against the open-document set.
func Match(rows []model.BankRow, docs []model.OpenDocument, opts Options) []model.MatchResult {
	tolerance := opts.tolerance()

	candidates := make([]candidate, 0, len(docs))
	for i := range docs {
		if !docs[i].Outstanding.IsPositive() {
			continue
		}
		candidates = append(candidates, candidate{
			doc:          &docs[i],
			invoiceToken: normalizeToken(docs[i].InvoiceNo),
			orderToken:   normalizeToken(docs[i].OrderNo),
		})
	}

	results := make([]model.MatchResult, len(rows))
	for i, row := range rows {
		results[i] = matchRow(row, candidates, tolerance)
	}
	return results
}

func matchRow(row model.BankRow, candidates []candidate, tolerance decimal.Decimal) model.MatchResult {
	res := model.MatchResult{BankRow: row}

	if row.HasIssues() || row.BookingDate == "" || !row.Amount.Valid {
		res.Status = model.StatusInvalid
		return res
	}
	if !row.Amount.Decimal.IsPositive() {
		// Outgoing transactions (fees, refunds) are never incoming payments.
		res.Status = model.StatusIgnored
		return res
	}

	haystack := normalizeToken(row.Reference + " " + row.Message)
	amount := row.Amount.Decimal

	if applyTokenStrategy(&res, candidates, haystack, model.StrategyInvoiceRef) {
		return res
	}
	if applyTokenStrategy(&res, candidates, haystack, model.StrategyOrderRef) {
		return res
	}

	var hits []*model.OpenDocument
	for _, c := range candidates {
		if c.doc.Outstanding.Sub(amount).Abs().LessThanOrEqual(tolerance) {
			hits = append(hits, c.doc)
		}
	}
	if decided(&res, hits, model.StrategyAmount, confidenceAmount) {
		return res
	}

	res.Status = model.StatusUnmatched
	return res
}

// applyTokenStrategy collects documents whose token is contained in the
// haystack and records the decision. Returns false when no candidate hit,
// letting the next strategy run.
func applyTokenStrategy(res *model.MatchResult, candidates []candidate, haystack string, strategy model.Strategy) bool {
	var hits []*model.OpenDocument
	for _, c := range candidates {
		token := c.invoiceToken
		if strategy == model.StrategyOrderRef {
			token = c.orderToken
		}
		if token != "" && strings.Contains(haystack, token) {
			hits = append(hits, c.doc)
		}
	}

	confidence := confidenceInvoiceRef
	if strategy == model.StrategyOrderRef {
		confidence = confidenceOrderRef
	}
	return decided(res, hits, strategy, confidence)
}

// decided records a matched or ambiguous outcome. Zero hits leave the result
// untouched so the caller can try the next strategy.
func decided(res *model.MatchResult, hits []*model.OpenDocument, strategy model.Strategy, confidence float64) bool {
	switch len(hits) {
	case 0:
		return false
	case 1:
		res.Status = model.StatusMatched
		res.Match = hits[0]
		res.Strategy = strategy
		res.Confidence = confidence
	default:
		res.Status = model.StatusAmbiguous
		res.Strategy = strategy
		res.Confidence = 0
	}
	return true
}
