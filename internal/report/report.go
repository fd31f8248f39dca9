// Package report builds the persisted audit record of one posting run.
//
// The builder runs after the risky work is already done, so it never fails:
// malformed counts, negative numbers, and non-object meta are sanitized to
// safe defaults instead of being rejected. Losing the audit trail would be
// worse than recording zeros.
package report

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/glarusbooks/bankrec/internal/model"
)

const (
	// DefaultPreviewLimit caps errors_preview. Only a short sample is kept;
	// the full list lives in the parse output, not the audit record.
	DefaultPreviewLimit = 5

	previewEntryMax    = 200
	fallbackSourceName = "unbekannte Datei"
)

// RunReport is the append-only summary of one "apply selected rows" action.
type RunReport struct {
	RunID           string
	SourceFile      string
	TotalRows       int
	MatchedRows     int
	AmbiguousRows   int
	UnmatchedRows   int
	IgnoredRows     int
	InvalidRows     int
	SelectedRows    int
	BookedRows      int
	DuplicateRows   int
	FailedRows      int
	ParseErrorCount int
	ErrorsPreview   []string
	Meta            map[string]any
	CreatedAt       time.Time
}

// Input carries the raw, possibly malformed ingredients of a run report.
// Count fields are deliberately untyped: they may arrive from a UI layer as
// strings or floats and are coerced rather than rejected.
type Input struct {
	SourceFile   string
	Summary      map[string]any // keys: total, matched, ambiguous, unmatched, ignored, invalid
	Selected     any
	Booked       any
	Duplicate    any
	Failed       any
	Errors       []string
	Meta         any
	PreviewLimit int // 0 selects DefaultPreviewLimit
}

// Build assembles a sanitized RunReport. It never fails.
func Build(in Input) RunReport {
	limit := in.PreviewLimit
	if limit <= 0 {
		limit = DefaultPreviewLimit
	}

	source := strings.TrimSpace(in.SourceFile)
	if source == "" {
		source = fallbackSourceName
	}

	return RunReport{
		RunID:           uuid.NewString(),
		SourceFile:      source,
		TotalRows:       coerceCount(in.Summary["total"]),
		MatchedRows:     coerceCount(in.Summary["matched"]),
		AmbiguousRows:   coerceCount(in.Summary["ambiguous"]),
		UnmatchedRows:   coerceCount(in.Summary["unmatched"]),
		IgnoredRows:     coerceCount(in.Summary["ignored"]),
		InvalidRows:     coerceCount(in.Summary["invalid"]),
		SelectedRows:    coerceCount(in.Selected),
		BookedRows:      coerceCount(in.Booked),
		DuplicateRows:   coerceCount(in.Duplicate),
		FailedRows:      coerceCount(in.Failed),
		ParseErrorCount: len(in.Errors),
		ErrorsPreview:   previewErrors(in.Errors, limit),
		Meta:            coerceMeta(in.Meta),
		CreatedAt:       time.Now().UTC(),
	}
}

// Summarize counts automatic match statuses in the shape Build consumes.
func Summarize(results []model.MatchResult) map[string]any {
	counts := map[model.MatchStatus]int{}
	for _, r := range results {
		counts[r.Status]++
	}
	return map[string]any{
		"total":     len(results),
		"matched":   counts[model.StatusMatched],
		"ambiguous": counts[model.StatusAmbiguous],
		"unmatched": counts[model.StatusUnmatched],
		"ignored":   counts[model.StatusIgnored],
		"invalid":   counts[model.StatusInvalid],
	}
}

// coerceCount turns an arbitrary value into a non-negative integer.
// Non-numeric input, NaN, and negatives become 0; fractions floor.
func coerceCount(v any) int {
	f := math.NaN()
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case float32:
		f = float64(n)
	case float64:
		f = n
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			f = parsed
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return int(math.Floor(f))
}

// previewErrors drops blank entries, trims and caps each message, and keeps
// at most limit entries.
func previewErrors(errs []string, limit int) []string {
	var preview []string
	for _, e := range errs {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if len([]rune(e)) > previewEntryMax {
			e = string([]rune(e)[:previewEntryMax])
		}
		preview = append(preview, e)
		if len(preview) == limit {
			break
		}
	}
	return preview
}

// coerceMeta keeps plain key/value objects and replaces everything else
// with an empty map.
func coerceMeta(v any) map[string]any {
	if m, ok := v.(map[string]any); ok && m != nil {
		return m
	}
	return map[string]any{}
}
