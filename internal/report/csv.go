package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Header is the CSV header for the run-report audit file.
const Header = "run_id,created_at,source_file,total_rows,matched_rows,ambiguous_rows,unmatched_rows,ignored_rows,invalid_rows,selected_rows,booked_rows,duplicate_rows,failed_rows,parse_error_count,errors_preview,meta"

const (
	numFields      = 16
	colRunID       = 0
	colCreatedAt   = 1
	colSourceFile  = 2
	colTotal       = 3
	colMatched     = 4
	colAmbiguous   = 5
	colUnmatched   = 6
	colIgnored     = 7
	colInvalid     = 8
	colSelected    = 9
	colBooked      = 10
	colDuplicate   = 11
	colFailed      = 12
	colParseErrors = 13
	colPreview     = 14
	colMeta        = 15
	previewJoinSep = " || "
)

// MarshalReport converts a RunReport to a CSV row. Meta is embedded as JSON.
func MarshalReport(r RunReport) []string {
	meta, err := json.Marshal(r.Meta)
	if err != nil {
		meta = []byte("{}")
	}

	row := make([]string, numFields)
	row[colRunID] = r.RunID
	row[colCreatedAt] = r.CreatedAt.Format(time.RFC3339)
	row[colSourceFile] = r.SourceFile
	row[colTotal] = strconv.Itoa(r.TotalRows)
	row[colMatched] = strconv.Itoa(r.MatchedRows)
	row[colAmbiguous] = strconv.Itoa(r.AmbiguousRows)
	row[colUnmatched] = strconv.Itoa(r.UnmatchedRows)
	row[colIgnored] = strconv.Itoa(r.IgnoredRows)
	row[colInvalid] = strconv.Itoa(r.InvalidRows)
	row[colSelected] = strconv.Itoa(r.SelectedRows)
	row[colBooked] = strconv.Itoa(r.BookedRows)
	row[colDuplicate] = strconv.Itoa(r.DuplicateRows)
	row[colFailed] = strconv.Itoa(r.FailedRows)
	row[colParseErrors] = strconv.Itoa(r.ParseErrorCount)
	row[colPreview] = strings.Join(r.ErrorsPreview, previewJoinSep)
	row[colMeta] = string(meta)
	return row
}

// UnmarshalReport converts a CSV row back to a RunReport.
func UnmarshalReport(record []string) (RunReport, error) {
	if len(record) != numFields {
		return RunReport{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	created, err := time.Parse(time.RFC3339, record[colCreatedAt])
	if err != nil {
		return RunReport{}, fmt.Errorf("parsing created_at %q: %w", record[colCreatedAt], err)
	}

	counts := make([]int, numFields)
	for _, col := range []int{colTotal, colMatched, colAmbiguous, colUnmatched, colIgnored, colInvalid, colSelected, colBooked, colDuplicate, colFailed, colParseErrors} {
		n, err := strconv.Atoi(record[col])
		if err != nil {
			return RunReport{}, fmt.Errorf("parsing count field %d %q: %w", col, record[col], err)
		}
		counts[col] = n
	}

	var preview []string
	if record[colPreview] != "" {
		preview = strings.Split(record[colPreview], previewJoinSep)
	}

	meta := map[string]any{}
	if record[colMeta] != "" {
		if err := json.Unmarshal([]byte(record[colMeta]), &meta); err != nil {
			meta = map[string]any{}
		}
	}

	return RunReport{
		RunID:           record[colRunID],
		CreatedAt:       created,
		SourceFile:      record[colSourceFile],
		TotalRows:       counts[colTotal],
		MatchedRows:     counts[colMatched],
		AmbiguousRows:   counts[colAmbiguous],
		UnmatchedRows:   counts[colUnmatched],
		IgnoredRows:     counts[colIgnored],
		InvalidRows:     counts[colInvalid],
		SelectedRows:    counts[colSelected],
		BookedRows:      counts[colBooked],
		DuplicateRows:   counts[colDuplicate],
		FailedRows:      counts[colFailed],
		ParseErrorCount: counts[colParseErrors],
		ErrorsPreview:   preview,
		Meta:            meta,
	}, nil
}

// Append adds a report to the audit file, creating file and header if needed.
// Booked payments are never rolled back on persistence failure; the caller
// downgrades an error here to a warning.
func Append(path string, r RunReport) error {
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run report file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := cw.Write(MarshalReport(r)); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return cw.Error()
}

// Read returns all reports from the audit file, oldest first. A missing
// file yields an empty list.
func Read(path string) ([]RunReport, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run report file: %w", err)
	}
	defer f.Close()

	return readReports(f)
}

func readReports(r io.Reader) ([]RunReport, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run report CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var reports []RunReport
	for i, rec := range records[1:] {
		rep, err := UnmarshalReport(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		reports = append(reports, rep)
	}
	return reports, nil
}
