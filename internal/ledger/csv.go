package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/glarusbooks/bankrec/internal/model"
)

const (
	documentsFile = "documents.csv"
	paymentsFile  = "payments.csv"
)

const (
	docNumFields      = 4
	docColID          = 0
	docColInvoiceNo   = 1
	docColOrderNo     = 2
	docColOutstanding = 3
)

const (
	payNumFields = 6
	payColID     = 0
	payColDocID  = 1
	payColAmount = 2
	payColMethod = 3
	payColPaidAt = 4
	payColNote   = 5
)

// ReadDocuments reads documents.csv.
func ReadDocuments(r io.Reader) ([]model.OpenDocument, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = docNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading documents CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var docs []model.OpenDocument
	for i, rec := range records[1:] {
		doc, err := unmarshalDocument(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// WriteDocuments writes documents.csv.
func WriteDocuments(w io.Writer, docs []model.OpenDocument) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"document_id", "invoice_no", "order_no", "outstanding"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, doc := range docs {
		row := make([]string, docNumFields)
		row[docColID] = doc.ID
		row[docColInvoiceNo] = doc.InvoiceNo
		row[docColOrderNo] = doc.OrderNo
		row[docColOutstanding] = doc.Outstanding.StringFixed(2)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

func unmarshalDocument(record []string) (model.OpenDocument, error) {
	outstanding, err := decimal.NewFromString(record[docColOutstanding])
	if err != nil {
		return model.OpenDocument{}, fmt.Errorf("parsing outstanding %q: %w", record[docColOutstanding], err)
	}
	return model.OpenDocument{
		ID:          record[docColID],
		InvoiceNo:   record[docColInvoiceNo],
		OrderNo:     record[docColOrderNo],
		Outstanding: outstanding,
	}, nil
}

// ReadPayments reads payments.csv.
func ReadPayments(r io.Reader) ([]model.Payment, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = payNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading payments CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var payments []model.Payment
	for i, rec := range records[1:] {
		p, err := unmarshalPayment(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		payments = append(payments, p)
	}
	return payments, nil
}

// WritePayments writes payments.csv.
func WritePayments(w io.Writer, payments []model.Payment) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"payment_id", "document_id", "amount", "method", "paid_at", "note"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, p := range payments {
		row := make([]string, payNumFields)
		row[payColID] = p.ID
		row[payColDocID] = p.DocumentID
		row[payColAmount] = p.Amount.StringFixed(2)
		row[payColMethod] = p.Method
		row[payColPaidAt] = p.PaidAt.Format(time.RFC3339)
		row[payColNote] = p.Note
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

func unmarshalPayment(record []string) (model.Payment, error) {
	amount, err := decimal.NewFromString(record[payColAmount])
	if err != nil {
		return model.Payment{}, fmt.Errorf("parsing amount %q: %w", record[payColAmount], err)
	}
	paidAt, err := time.Parse(time.RFC3339, record[payColPaidAt])
	if err != nil {
		return model.Payment{}, fmt.Errorf("parsing paid_at %q: %w", record[payColPaidAt], err)
	}
	return model.Payment{
		ID:         record[payColID],
		DocumentID: record[payColDocID],
		Amount:     amount,
		Method:     record[payColMethod],
		PaidAt:     paidAt,
		Note:       record[payColNote],
	}, nil
}

// Load reads a CSV ledger directory into a Memory ledger. A missing
// payments file is treated as empty.
func Load(dir string) (*Memory, error) {
	df, err := os.Open(filepath.Join(dir, documentsFile))
	if err != nil {
		return nil, fmt.Errorf("opening documents: %w", err)
	}
	defer df.Close()

	docs, err := ReadDocuments(df)
	if err != nil {
		return nil, err
	}
	m := NewMemory(docs)

	pf, err := os.Open(filepath.Join(dir, paymentsFile))
	if errors.Is(err, fs.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening payments: %w", err)
	}
	defer pf.Close()

	payments, err := ReadPayments(pf)
	if err != nil {
		return nil, err
	}
	m.seedPayments(payments)
	return m, nil
}

// Save writes a Memory ledger back to its CSV directory.
func Save(dir string, m *Memory) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}

	df, err := os.Create(filepath.Join(dir, documentsFile))
	if err != nil {
		return fmt.Errorf("writing documents: %w", err)
	}
	defer df.Close()
	if err := WriteDocuments(df, m.Documents()); err != nil {
		return err
	}

	pf, err := os.Create(filepath.Join(dir, paymentsFile))
	if err != nil {
		return fmt.Errorf("writing payments: %w", err)
	}
	defer pf.Close()
	return WritePayments(pf, m.Payments())
}
