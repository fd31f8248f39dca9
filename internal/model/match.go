package model

// MatchStatus is the automatic decision for a statement row.
type MatchStatus string

const (
	StatusMatched   MatchStatus = "matched"
	StatusAmbiguous MatchStatus = "ambiguous"
	StatusUnmatched MatchStatus = "unmatched"
	StatusIgnored   MatchStatus = "ignored"
	StatusInvalid   MatchStatus = "invalid"
)

// Strategy names the matching rule that produced a match, used for UI
// labeling and confidence assignment.
type Strategy string

const (
	StrategyInvoiceRef Strategy = "invoice_ref"
	StrategyOrderRef   Strategy = "order_ref"
	StrategyAmount     Strategy = "amount"
)

// MatchResult is a BankRow augmented with the matcher's decision.
// Match is non-nil iff Status is StatusMatched.
type MatchResult struct {
	BankRow
	Status     MatchStatus
	Match      *OpenDocument
	Strategy   Strategy // set only for matched/ambiguous
	Confidence float64  // fixed per strategy, in [0,1]
}

// ResolvedRow is a MatchResult merged with any operator override.
// ResolvedMatch is non-nil iff EffectiveStatus is StatusMatched.
type ResolvedRow struct {
	MatchResult
	ResolvedMatch   *OpenDocument
	EffectiveStatus MatchStatus
	IsManual        bool // booking target chosen by a human, not the algorithm
}
