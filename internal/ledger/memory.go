package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/glarusbooks/bankrec/internal/model"
)

// Memory is an in-memory Ledger with a uniqueness index on (document, note).
// It backs the CLI's CSV ledger and serves as the test double.
type Memory struct {
	docs      []model.OpenDocument
	docsByID  map[string]int
	payments  []model.Payment
	paidNotes map[string]bool // documentID + "\x00" + note
	nextSeq   int
}

// NewMemory builds a Memory ledger over the given documents.
func NewMemory(docs []model.OpenDocument) *Memory {
	m := &Memory{
		docsByID:  make(map[string]int, len(docs)),
		paidNotes: make(map[string]bool),
		nextSeq:   1,
	}
	m.docs = append(m.docs, docs...)
	for i := range m.docs {
		m.docsByID[m.docs[i].ID] = i
	}
	return m
}

func noteKey(documentID, note string) string {
	return documentID + "\x00" + note
}

// ListOpenDocuments returns documents with outstanding > 0.01.
func (m *Memory) ListOpenDocuments() ([]model.OpenDocument, error) {
	var open []model.OpenDocument
	for _, d := range m.docs {
		if d.Outstanding.GreaterThan(minOutstanding) {
			open = append(open, d)
		}
	}
	return open, nil
}

// FindPaymentByMarker returns the payment on documentID whose note equals
// marker, or nil.
func (m *Memory) FindPaymentByMarker(documentID, marker string) (*model.Payment, error) {
	for i := range m.payments {
		p := &m.payments[i]
		if p.DocumentID == documentID && p.Note == marker {
			return p, nil
		}
	}
	return nil, nil
}

// ApplyPayment books a payment and reduces the document's outstanding amount.
func (m *Memory) ApplyPayment(documentID string, amount decimal.Decimal, method string, paidAt time.Time, note string) (model.Payment, error) {
	idx, ok := m.docsByID[documentID]
	if !ok {
		return model.Payment{}, fmt.Errorf("document %s: %w", documentID, ErrNotFound)
	}
	key := noteKey(documentID, note)
	if m.paidNotes[key] {
		return model.Payment{}, ErrDuplicatePayment
	}

	p := model.Payment{
		ID:         fmt.Sprintf("pay-%d", m.nextSeq),
		DocumentID: documentID,
		Amount:     amount,
		Method:     method,
		PaidAt:     paidAt,
		Note:       note,
	}
	m.nextSeq++
	m.payments = append(m.payments, p)
	m.paidNotes[key] = true
	m.docs[idx].Outstanding = m.docs[idx].Outstanding.Sub(amount)
	return p, nil
}

// UndoPayment removes a payment and restores the outstanding amount.
func (m *Memory) UndoPayment(paymentID string) error {
	for i := range m.payments {
		p := m.payments[i]
		if p.ID != paymentID {
			continue
		}
		if idx, ok := m.docsByID[p.DocumentID]; ok {
			m.docs[idx].Outstanding = m.docs[idx].Outstanding.Add(p.Amount)
		}
		delete(m.paidNotes, noteKey(p.DocumentID, p.Note))
		m.payments = append(m.payments[:i], m.payments[i+1:]...)
		return nil
	}
	return fmt.Errorf("payment %s: %w", paymentID, ErrNotFound)
}

// seedPayments restores previously booked payments, rebuilding the
// uniqueness index. Outstanding amounts are assumed already reduced.
func (m *Memory) seedPayments(payments []model.Payment) {
	for _, p := range payments {
		m.payments = append(m.payments, p)
		m.paidNotes[noteKey(p.DocumentID, p.Note)] = true
	}
	m.nextSeq = len(m.payments) + 1
}

// Payments returns all booked payments, oldest first.
func (m *Memory) Payments() []model.Payment {
	out := make([]model.Payment, len(m.payments))
	copy(out, m.payments)
	return out
}

// Documents returns the full document set, including fully paid ones.
func (m *Memory) Documents() []model.OpenDocument {
	out := make([]model.OpenDocument, len(m.docs))
	copy(out, m.docs)
	return out
}
