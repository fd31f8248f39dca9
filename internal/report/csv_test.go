package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() RunReport {
	return RunReport{
		RunID:           "run-1",
		SourceFile:      "export.csv",
		TotalRows:       5,
		MatchedRows:     3,
		AmbiguousRows:   1,
		UnmatchedRows:   1,
		SelectedRows:    3,
		BookedRows:      2,
		DuplicateRows:   1,
		ParseErrorCount: 2,
		ErrorsPreview:   []string{"Zeile 2: Datum fehlt/ungültig", "Zeile 4: Betrag fehlt/ungültig"},
		Meta:            map[string]any{"ledger_dir": "ledger"},
		CreatedAt:       time.Date(2026, 2, 13, 9, 30, 0, 0, time.UTC),
	}
}

func TestReportRoundTrip(t *testing.T) {
	row := MarshalReport(sampleReport())
	got, err := UnmarshalReport(row)
	require.NoError(t, err)
	assert.Equal(t, sampleReport(), got)
}

func TestAppendAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run-reports.csv")

	require.NoError(t, Append(path, sampleReport()))
	second := sampleReport()
	second.RunID = "run-2"
	require.NoError(t, Append(path, second))

	reports, err := Read(path)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "run-1", reports[0].RunID)
	assert.Equal(t, "run-2", reports[1].RunID)
}

func TestRead_MissingFile(t *testing.T) {
	reports, err := Read(filepath.Join(t.TempDir(), "nope.csv"))
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestUnmarshalReport_WrongFieldCount(t *testing.T) {
	_, err := UnmarshalReport([]string{"run-1", "2026-02-13"})
	assert.Error(t, err)
}
