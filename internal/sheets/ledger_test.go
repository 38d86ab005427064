package sheets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"invoicegen/internal/locale"
	"invoicegen/pkg/models"
)

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) EnsureSheet(ctx context.Context, sheetName string, headers []interface{}) error {
	return m.Called(ctx, sheetName, headers).Error(0)
}

func (m *mockBackend) ReadRange(ctx context.Context, rangeSpec string) ([][]interface{}, error) {
	args := m.Called(ctx, rangeSpec)
	rows, _ := args.Get(0).([][]interface{})
	return rows, args.Error(1)
}

func (m *mockBackend) AppendRows(ctx context.Context, rangeSpec string, rows [][]interface{}) error {
	return m.Called(ctx, rangeSpec, rows).Error(0)
}

func ledgerInvoice(number string) *models.Invoice {
	return &models.Invoice{
		Client: models.Client{Address: models.Address{Name: "Erika Mustermann"}},
		Metadata: models.InvoiceMetadata{
			Number:    number,
			IssueDate: time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC),
			DueDays:   14,
		},
		Items: []models.InvoiceItem{
			{Description: "Beratung", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.RequireFromString("100"), VATRate: decimal.NewFromInt(19)},
			{Description: "Fachbuch", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("20"), VATRate: decimal.NewFromInt(7)},
		},
		VATMode: models.VATExclusive,
		Locale:  locale.DE,
	}
}

var existingRows = [][]interface{}{
	{"Datei", "Rechnungsnr", "Datum", "Kunde", "Netto", "MwSt", "Brutto", "Währung"},
	{"Rechnung_2024-099_20241230.pdf", "2024/099", "30.12.2024", "Max Muster", "1.000,00", "190,00", "1.190,00 €", "EUR", "13.01.2025", "OFFEN"},
	{"", "", "", "", "", "", "", ""},
	{"kaputt.pdf", "2024/100", "31.12.2024", "Kunde", "x", "y", "z", "EUR"},
}

func TestRegisterAppendsRow(t *testing.T) {
	ctx := context.Background()
	backend := &mockBackend{}
	backend.On("EnsureSheet", ctx, "Debitoren", ledgerHeaders).Return(nil)
	backend.On("ReadRange", ctx, "Debitoren!A:K").Return(existingRows, nil)

	var appended [][]interface{}
	backend.On("AppendRows", ctx, "Debitoren!A:K", mock.Anything).
		Run(func(args mock.Arguments) { appended = args.Get(2).([][]interface{}) }).
		Return(nil)

	ledger := NewLedger(backend, "Debitoren")
	ledger.now = func() time.Time { return time.Date(2025, time.January, 5, 10, 30, 0, 0, time.UTC) }

	entry, err := ledger.Register(ctx, ledgerInvoice("2025/001"), "Rechnung_2025-001_20250105.pdf")
	require.NoError(t, err)
	backend.AssertExpectations(t)

	assert.Equal(t, StatusOpen, entry.Status)
	assert.True(t, decimal.RequireFromString("220").Equal(entry.NetAmount))
	assert.True(t, decimal.RequireFromString("39.40").Equal(entry.VATAmount))
	assert.True(t, decimal.RequireFromString("259.40").Equal(entry.GrossAmount))

	require.Len(t, appended, 1)
	assert.Equal(t, []interface{}{
		"Rechnung_2025-001_20250105.pdf", "2025/001", "05.01.2025", "Erika Mustermann",
		220.0, 39.4, 259.4, "EUR", "19.01.2025", "OFFEN", "05.01.2025 10:30:00",
	}, appended[0])
}

func TestRegisterRejectsDuplicateNumber(t *testing.T) {
	ctx := context.Background()
	backend := &mockBackend{}
	backend.On("EnsureSheet", ctx, "Debitoren", ledgerHeaders).Return(nil)
	backend.On("ReadRange", ctx, "Debitoren!A:K").Return(existingRows, nil)

	_, err := NewLedger(backend, "Debitoren").Register(ctx, ledgerInvoice("2024/099"), "x.pdf")
	assert.ErrorIs(t, err, ErrDuplicateInvoice)
	backend.AssertNotCalled(t, "AppendRows", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterPropagatesBackendErrors(t *testing.T) {
	ctx := context.Background()
	backend := &mockBackend{}
	apiErr := errors.New("quota exceeded")
	backend.On("EnsureSheet", ctx, "Debitoren", ledgerHeaders).Return(apiErr)

	_, err := NewLedger(backend, "Debitoren").Register(ctx, ledgerInvoice("2025/001"), "x.pdf")
	assert.ErrorIs(t, err, apiErr)
}

func TestEntriesParsesSheet(t *testing.T) {
	ctx := context.Background()
	backend := &mockBackend{}
	backend.On("ReadRange", ctx, "Debitoren!A:K").Return(existingRows, nil)

	entries, err := NewLedger(backend, "Debitoren").Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1, "empty and malformed rows are skipped")

	e := entries[0]
	assert.Equal(t, "2024/099", e.InvoiceNumber)
	assert.Equal(t, time.Date(2024, time.December, 30, 0, 0, 0, 0, time.UTC), e.Date)
	assert.True(t, decimal.RequireFromString("1190").Equal(e.GrossAmount))
	assert.True(t, decimal.RequireFromString("190").Equal(e.VATAmount))
	assert.Equal(t, "OFFEN", e.Status)
}

func TestNewEntryWithoutVAT(t *testing.T) {
	inv := ledgerInvoice("2025/002")
	inv.VATMode = models.VATNone
	inv.CurrencySymbol = "$"

	e := NewEntry(inv, "f.pdf", time.Now())
	assert.True(t, e.VATAmount.IsZero())
	assert.True(t, e.GrossAmount.Equal(e.NetAmount))
	assert.Equal(t, "USD", e.Currency)
}

func TestExtractSpreadsheetID(t *testing.T) {
	id, err := extractSpreadsheetID("https://docs.google.com/spreadsheets/d/1AbC-dEf_123/edit#gid=0")
	require.NoError(t, err)
	assert.Equal(t, "1AbC-dEf_123", id)

	id, err = extractSpreadsheetID("1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms")
	require.NoError(t, err)
	assert.Equal(t, "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms", id)

	_, err = extractSpreadsheetID("https://example.com/sheet")
	assert.Error(t, err)
}

func TestColumnLetter(t *testing.T) {
	assert.Equal(t, "A", columnLetter(1))
	assert.Equal(t, "K", columnLetter(11))
	assert.Equal(t, "Z", columnLetter(26))
	assert.Equal(t, "AA", columnLetter(27))
}
