package ledger

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glarusbooks/bankrec/internal/model"
)

func TestDocumentsRoundTrip(t *testing.T) {
	docs := testDocs()

	var buf bytes.Buffer
	require.NoError(t, WriteDocuments(&buf, docs))

	got, err := ReadDocuments(&buf)
	require.NoError(t, err)
	require.Len(t, got, len(docs))
	for i := range docs {
		assert.Equal(t, docs[i].ID, got[i].ID)
		assert.Equal(t, docs[i].InvoiceNo, got[i].InvoiceNo)
		assert.Equal(t, docs[i].OrderNo, got[i].OrderNo)
		assert.True(t, docs[i].Outstanding.Equal(got[i].Outstanding))
	}
}

func TestPaymentsRoundTrip(t *testing.T) {
	payments := []model.Payment{
		{
			ID:         "pay-1",
			DocumentID: "d1",
			Amount:     dec("40.00"),
			Method:     "Bankimport",
			PaidAt:     time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC),
			Note:       "BANKCSV|2026-02-13|40.00|INV-1|ZAHLUNG",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WritePayments(&buf, payments))

	got, err := ReadPayments(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, payments[0].Note, got[0].Note)
	assert.True(t, payments[0].PaidAt.Equal(got[0].PaidAt))
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()

	m := NewMemory(testDocs())
	_, err := m.ApplyPayment("d1", dec("40.00"), "Bankimport", time.Now().UTC().Truncate(time.Second), "BANKCSV|2026-02-13|40.00|INV-1|")
	require.NoError(t, err)
	require.NoError(t, Save(dir, m))

	loaded, err := Load(dir)
	require.NoError(t, err)

	open, err := loaded.ListOpenDocuments()
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, "60.00", open[0].Outstanding.StringFixed(2))

	// The uniqueness index survives the round trip.
	_, err = loaded.ApplyPayment("d1", dec("40.00"), "Bankimport", time.Now(), "BANKCSV|2026-02-13|40.00|INV-1|")
	assert.ErrorIs(t, err, ErrDuplicatePayment)
}

func TestLoad_MissingPaymentsFile(t *testing.T) {
	dir := t.TempDir()
	m := NewMemory(testDocs())
	require.NoError(t, Save(dir, m))

	// Remove payments to simulate a fresh ledger export.
	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Empty(t, loaded.Payments())
}
