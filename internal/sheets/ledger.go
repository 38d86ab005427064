package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"invoicegen/internal/logger"
	"invoicegen/internal/money"
	"invoicegen/pkg/models"
)

// ErrDuplicateInvoice is returned when the ledger already lists the invoice number.
var ErrDuplicateInvoice = errors.New("invoice number already registered")

// StatusOpen marks a receivable that has not been paid yet.
const StatusOpen = "OFFEN"

const ledgerDateLayout = "02.01.2006"

// ledgerHeaders are the columns A:K of the receivables sheet. A:H keep the
// layout of the booking export so existing readers of the sheet still work.
var ledgerHeaders = []interface{}{
	"Datei", "Rechnungsnr", "Datum", "Kunde", "Netto",
	"MwSt", "Brutto", "Währung", "Fälligkeit", "Status", "Erstellt",
}

// Entry is one receivables ledger row.
type Entry struct {
	Filename      string
	InvoiceNumber string
	Date          time.Time
	Customer      string
	NetAmount     decimal.Decimal
	VATAmount     decimal.Decimal
	GrossAmount   decimal.Decimal
	Currency      string
	DueDate       time.Time
	Status        string
	CreatedAt     time.Time
}

// NewEntry builds the ledger row for a generated invoice. VAT is only booked
// when the invoice charges it.
func NewEntry(inv *models.Invoice, filename string, createdAt time.Time) Entry {
	vat := decimal.Zero
	if inv.VATMode != models.VATNone {
		vat = inv.TotalVAT()
	}
	return Entry{
		Filename:      filename,
		InvoiceNumber: inv.Metadata.Number,
		Date:          inv.Metadata.IssueDate,
		Customer:      inv.Client.Address.Name,
		NetAmount:     inv.Subtotal(),
		VATAmount:     vat,
		GrossAmount:   inv.Total(),
		Currency:      normalizeCurrency(inv.Currency()),
		DueDate:       inv.Metadata.DueDate(),
		Status:        StatusOpen,
		CreatedAt:     createdAt,
	}
}

func (e Entry) values() []interface{} {
	return []interface{}{
		e.Filename,                     // A: Datei
		e.InvoiceNumber,                // B: Rechnungsnr
		formatDate(e.Date),             // C: Datum
		e.Customer,                     // D: Kunde
		e.NetAmount.InexactFloat64(),   // E: Netto
		e.VATAmount.InexactFloat64(),   // F: MwSt
		e.GrossAmount.InexactFloat64(), // G: Brutto
		e.Currency,                     // H: Währung
		formatDate(e.DueDate),          // I: Fälligkeit
		e.Status,                       // J: Status
		e.CreatedAt.Format("02.01.2006 15:04:05"), // K: Erstellt
	}
}

// Ledger registers generated invoices in the receivables (Debitoren) sheet.
type Ledger struct {
	backend Backend
	sheet   string
	now     func() time.Time
	log     zerolog.Logger
}

// NewLedger creates a ledger writing to sheetName.
func NewLedger(backend Backend, sheetName string) *Ledger {
	return &Ledger{
		backend: backend,
		sheet:   sheetName,
		now:     time.Now,
		log:     logger.WithComponent("ledger"),
	}
}

// Register appends inv to the ledger. It fails with ErrDuplicateInvoice if
// the invoice number is already present.
func (l *Ledger) Register(ctx context.Context, inv *models.Invoice, filename string) (Entry, error) {
	const op = "Register"

	if err := l.backend.EnsureSheet(ctx, l.sheet, ledgerHeaders); err != nil {
		return Entry{}, fmt.Errorf("%s: %w", op, err)
	}

	entries, err := l.Entries(ctx)
	if err != nil {
		return Entry{}, fmt.Errorf("%s: %w", op, err)
	}
	number := strings.TrimSpace(inv.Metadata.Number)
	for _, e := range entries {
		if strings.EqualFold(e.InvoiceNumber, number) {
			return Entry{}, fmt.Errorf("%s: %w: %s", op, ErrDuplicateInvoice, number)
		}
	}

	entry := NewEntry(inv, filename, l.now())
	if err := l.backend.AppendRows(ctx, l.sheet+"!A:K", [][]interface{}{entry.values()}); err != nil {
		return Entry{}, fmt.Errorf("%s: %w", op, err)
	}

	l.log.Info().
		Str("invoice_number", entry.InvoiceNumber).
		Str("customer", entry.Customer).
		Str("gross", entry.GrossAmount.StringFixed(money.Places)).
		Str("sheet", l.sheet).
		Msg("Invoice registered in ledger")

	return entry, nil
}

// Entries reads all ledger rows below the header. Rows without an invoice
// number or with an unreadable gross amount are skipped.
func (l *Ledger) Entries(ctx context.Context) ([]Entry, error) {
	const op = "Entries"

	values, err := l.backend.ReadRange(ctx, l.sheet+"!A:K")
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read %s sheet: %w", op, l.sheet, err)
	}
	if len(values) < 2 {
		return nil, nil
	}

	var entries []Entry
	for i, row := range values[1:] {
		rowNum := i + 2 // header plus 1-based rows

		entry, err := parseEntry(row)
		if err != nil {
			l.log.Warn().
				Err(err).
				Int("row", rowNum).
				Str("sheet", l.sheet).
				Msg("Failed to parse ledger row, skipping")
			continue
		}
		entries = append(entries, entry)
	}

	l.log.Debug().
		Int("total_rows", len(values)-1).
		Int("parsed_entries", len(entries)).
		Str("sheet", l.sheet).
		Msg("Ledger entries read")

	return entries, nil
}

func parseEntry(row []interface{}) (Entry, error) {
	number := getString(row, 1)
	if number == "" {
		return Entry{}, fmt.Errorf("missing invoice number")
	}

	gross, err := parseSheetAmount(getString(row, 6))
	if err != nil {
		return Entry{}, fmt.Errorf("invalid gross amount: %w", err)
	}
	net, _ := parseSheetAmount(getString(row, 4))
	vat, _ := parseSheetAmount(getString(row, 5))

	date, _ := parseSheetDate(getString(row, 2))
	due, _ := parseSheetDate(getString(row, 8))

	return Entry{
		Filename:      getString(row, 0),
		InvoiceNumber: number,
		Date:          date,
		Customer:      getString(row, 3),
		NetAmount:     net,
		VATAmount:     vat,
		GrossAmount:   gross,
		Currency:      normalizeCurrency(getString(row, 7)),
		DueDate:       due,
		Status:        getString(row, 9),
	}, nil
}

// parseSheetAmount accepts plain numbers as returned by the API as well as
// German formatted values such as "1.234,56 €".
func parseSheetAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer(" ", "", "\u00a0", "", "€", "", "EUR", "").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(cleaned, ",") && strings.Contains(cleaned, ".") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}
	return money.ParseDecimal(cleaned)
}

func parseSheetDate(s string) (time.Time, error) {
	for _, layout := range []string{ledgerDateLayout, "2.1.2006", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(ledgerDateLayout)
}

// normalizeCurrency maps symbols and names to ISO codes; EUR is the default.
func normalizeCurrency(currency string) string {
	normalized := strings.ToUpper(strings.TrimSpace(currency))

	switch normalized {
	case "", "€", "EURO", "EUROS", "EUR":
		return "EUR"
	case "$", "DOLLAR", "DOLLARS", "USD", "US$":
		return "USD"
	case "£", "POUND", "POUNDS", "GBP":
		return "GBP"
	case "CHF", "FR.", "SFR", "FRANKEN":
		return "CHF"
	default:
		if len(normalized) == 3 {
			return normalized
		}
		return "EUR"
	}
}

// getString safely extracts a string value from a row slice
func getString(row []interface{}, index int) string {
	if index >= len(row) || row[index] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", row[index]))
}
