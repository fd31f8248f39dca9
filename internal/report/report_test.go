package report

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glarusbooks/bankrec/internal/model"
)

func TestBuild_SanitizesMalformedCounts(t *testing.T) {
	r := Build(Input{
		SourceFile: "export.csv",
		Summary: map[string]any{
			"total":   -1,
			"matched": math.NaN(),
		},
		Selected: "x",
		Booked:   2.9,
	})

	assert.Equal(t, 0, r.TotalRows)
	assert.Equal(t, 0, r.MatchedRows)
	assert.Equal(t, 0, r.SelectedRows)
	assert.Equal(t, 2, r.BookedRows)
	assert.Equal(t, 0, r.AmbiguousRows)
	assert.Equal(t, 0, r.FailedRows)
}

func TestBuild_NeverNegative(t *testing.T) {
	r := Build(Input{
		Summary:   map[string]any{"total": -100, "invalid": math.Inf(-1)},
		Selected:  -3,
		Booked:    math.Inf(1),
		Duplicate: nil,
		Failed:    []string{"not a number"},
	})

	for _, n := range []int{r.TotalRows, r.InvalidRows, r.SelectedRows, r.BookedRows, r.DuplicateRows, r.FailedRows} {
		assert.GreaterOrEqual(t, n, 0)
	}
}

func TestBuild_NumericStringsCoerce(t *testing.T) {
	r := Build(Input{Selected: "4", Booked: " 3 "})
	assert.Equal(t, 4, r.SelectedRows)
	assert.Equal(t, 3, r.BookedRows)
}

func TestBuild_SourceFileFallback(t *testing.T) {
	assert.Equal(t, "export.csv", Build(Input{SourceFile: "  export.csv "}).SourceFile)
	assert.Equal(t, "unbekannte Datei", Build(Input{SourceFile: "   "}).SourceFile)
}

func TestBuild_ErrorsPreview(t *testing.T) {
	errs := []string{"  Zeile 2: Datum fehlt/ungültig  ", "", "   ", "Zeile 5: Betrag fehlt/ungültig"}
	r := Build(Input{Errors: errs})

	// parse_error_count is the raw length, not the filtered one.
	assert.Equal(t, 4, r.ParseErrorCount)
	assert.Equal(t, []string{"Zeile 2: Datum fehlt/ungültig", "Zeile 5: Betrag fehlt/ungültig"}, r.ErrorsPreview)
}

func TestBuild_PreviewCapped(t *testing.T) {
	var errs []string
	for i := 0; i < 10; i++ {
		errs = append(errs, "Zeile: Fehler")
	}
	r := Build(Input{Errors: errs})
	assert.Len(t, r.ErrorsPreview, DefaultPreviewLimit)
	assert.Equal(t, 10, r.ParseErrorCount)

	r = Build(Input{Errors: errs, PreviewLimit: 2})
	assert.Len(t, r.ErrorsPreview, 2)
}

func TestBuild_PreviewEntriesCapped(t *testing.T) {
	long := strings.Repeat("e", 500)
	r := Build(Input{Errors: []string{long}})
	require.Len(t, r.ErrorsPreview, 1)
	assert.Len(t, r.ErrorsPreview[0], 200)
}

func TestBuild_Meta(t *testing.T) {
	meta := map[string]any{"ledger_dir": "ledger"}
	assert.Equal(t, meta, Build(Input{Meta: meta}).Meta)

	assert.Equal(t, map[string]any{}, Build(Input{Meta: "a string"}).Meta)
	assert.Equal(t, map[string]any{}, Build(Input{Meta: 42}).Meta)
	assert.Equal(t, map[string]any{}, Build(Input{}).Meta)
}

func TestBuild_AssignsRunID(t *testing.T) {
	a := Build(Input{})
	b := Build(Input{})
	assert.NotEmpty(t, a.RunID)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestSummarize(t *testing.T) {
	results := []model.MatchResult{
		{Status: model.StatusMatched},
		{Status: model.StatusMatched},
		{Status: model.StatusAmbiguous},
		{Status: model.StatusUnmatched},
		{Status: model.StatusIgnored},
		{Status: model.StatusInvalid},
	}

	s := Summarize(results)
	assert.Equal(t, 6, s["total"])
	assert.Equal(t, 2, s["matched"])
	assert.Equal(t, 1, s["ambiguous"])
	assert.Equal(t, 1, s["unmatched"])
	assert.Equal(t, 1, s["ignored"])
	assert.Equal(t, 1, s["invalid"])
}
