package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"invoicegen/internal/locale"
	"invoicegen/internal/money"
)

// DefaultCurrencySymbol is used when an invoice carries no symbol.
const DefaultCurrencySymbol = "€"

// ErrNegativeDueDays is returned by NewInvoiceMetadata for a negative payment term.
var ErrNegativeDueDays = errors.New("due days must not be negative")

// VATMode selects how VAT is shown and whether it contributes to the total.
type VATMode int

const (
	// VATNone is the small business scheme (§ 19 UStG): VAT is neither shown nor charged.
	VATNone VATMode = iota
	// VATInclusive shows VAT as contained in the item prices.
	VATInclusive
	// VATExclusive adds VAT on top of the net prices.
	VATExclusive
)

// ParseVATMode accepts "none", "inclusive" and "exclusive" (case-insensitive).
// An empty string yields VATNone.
func ParseVATMode(s string) (VATMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return VATNone, nil
	case "inclusive":
		return VATInclusive, nil
	case "exclusive":
		return VATExclusive, nil
	default:
		return VATNone, fmt.Errorf("unknown VAT mode %q", s)
	}
}

func (m VATMode) String() string {
	switch m {
	case VATInclusive:
		return "inclusive"
	case VATExclusive:
		return "exclusive"
	default:
		return "none"
	}
}

// InvoiceItem is one line of the invoice.
type InvoiceItem struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Unit        string
	VATRate     decimal.Decimal // percent, zero when not set
}

// Net is quantity × unit price rounded half-up to two places.
func (i InvoiceItem) Net() decimal.Decimal {
	return money.RoundHalfUp(i.Quantity.Mul(i.UnitPrice), money.Places)
}

// VAT is Net × rate / 100 rounded half-up to two places.
func (i InvoiceItem) VAT() decimal.Decimal {
	return money.RoundHalfUp(i.Net().Mul(i.VATRate).Div(decimal.NewFromInt(100)), money.Places)
}

// Gross is Net + VAT.
func (i InvoiceItem) Gross() decimal.Decimal {
	return i.Net().Add(i.VAT())
}

// Validate returns advisory warnings about the item.
func (i InvoiceItem) Validate() []string {
	var warnings []string
	if strings.TrimSpace(i.Description) == "" {
		warnings = append(warnings, "description is empty")
	}
	if !i.Quantity.IsPositive() {
		warnings = append(warnings, fmt.Sprintf("quantity %s is not positive", i.Quantity))
	}
	if i.VATRate.IsNegative() {
		warnings = append(warnings, fmt.Sprintf("VAT rate %s is negative", i.VATRate))
	}
	return warnings
}

// InvoiceMetadata identifies the invoice and its dates. Build it with
// NewInvoiceMetadata so the service date default and due-day check apply.
type InvoiceMetadata struct {
	Number             string
	IssueDate          time.Time
	ServiceDate        time.Time
	ServicePeriodStart time.Time
	ServicePeriodEnd   time.Time
	Title              string
	DueDays            int
}

// NewInvoiceMetadata normalizes all dates to calendar dates and defaults the
// service date to the issue date.
func NewInvoiceMetadata(m InvoiceMetadata) (InvoiceMetadata, error) {
	if m.DueDays < 0 {
		return InvoiceMetadata{}, fmt.Errorf("%w: %d", ErrNegativeDueDays, m.DueDays)
	}
	m.IssueDate = CalendarDate(m.IssueDate)
	m.ServiceDate = CalendarDate(m.ServiceDate)
	m.ServicePeriodStart = CalendarDate(m.ServicePeriodStart)
	m.ServicePeriodEnd = CalendarDate(m.ServicePeriodEnd)
	if m.ServiceDate.IsZero() {
		m.ServiceDate = m.IssueDate
	}
	return m, nil
}

// DueDate is the issue date plus the payment term in calendar days.
func (m InvoiceMetadata) DueDate() time.Time {
	return m.IssueDate.AddDate(0, 0, m.DueDays)
}

// HasServicePeriod reports whether both period bounds are set.
func (m InvoiceMetadata) HasServicePeriod() bool {
	return !m.ServicePeriodStart.IsZero() && !m.ServicePeriodEnd.IsZero()
}

// Validate returns advisory warnings about the metadata.
func (m InvoiceMetadata) Validate() []string {
	var warnings []string
	if strings.TrimSpace(m.Number) == "" {
		warnings = append(warnings, "invoice number is empty")
	}
	if m.IssueDate.IsZero() {
		warnings = append(warnings, "invoice date is missing")
	}
	if m.HasServicePeriod() && m.ServicePeriodEnd.Before(m.ServicePeriodStart) {
		warnings = append(warnings, "service period ends before it starts")
	}
	return warnings
}

// CalendarDate strips the clock and zone from t. The zero time stays zero.
func CalendarDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

// VATLine is the aggregated VAT of all items sharing one rate.
type VATLine struct {
	Rate   decimal.Decimal
	Amount decimal.Decimal
}

// Invoice aggregates everything printed on the document. It is built once by
// the caller and only read afterwards.
type Invoice struct {
	Issuer         Issuer
	Client         Client
	Metadata       InvoiceMetadata
	Items          []InvoiceItem
	Payment        PaymentInfo
	VATMode        VATMode
	Locale         locale.Locale
	CurrencySymbol string
	LogoPath       string
	Notes          []string
}

// Currency returns the currency symbol, falling back to DefaultCurrencySymbol.
func (inv *Invoice) Currency() string {
	if inv.CurrencySymbol == "" {
		return DefaultCurrencySymbol
	}
	return inv.CurrencySymbol
}

// Subtotal is the sum of the already rounded item net amounts.
func (inv *Invoice) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range inv.Items {
		sum = sum.Add(item.Net())
	}
	return sum
}

// TotalVAT is the sum of the already rounded item VAT amounts.
func (inv *Invoice) TotalVAT() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range inv.Items {
		sum = sum.Add(item.VAT())
	}
	return sum
}

// Total equals Subtotal in VATNone mode, otherwise Subtotal + TotalVAT.
func (inv *Invoice) Total() decimal.Decimal {
	if inv.VATMode == VATNone {
		return inv.Subtotal()
	}
	return inv.Subtotal().Add(inv.TotalVAT())
}

// VATSummary aggregates item VAT per rate for rates above zero, in the order
// the rates first appear.
func (inv *Invoice) VATSummary() []VATLine {
	var lines []VATLine
	index := make(map[string]int)
	for _, item := range inv.Items {
		if !item.VATRate.IsPositive() {
			continue
		}
		key := item.VATRate.String()
		i, ok := index[key]
		if !ok {
			i = len(lines)
			index[key] = i
			lines = append(lines, VATLine{Rate: item.VATRate, Amount: decimal.Zero})
		}
		lines[i].Amount = lines[i].Amount.Add(item.VAT())
	}
	return lines
}

// Validate collects the warnings of every part plus invoice-level checks. It
// never fails; the document is generated regardless.
func (inv *Invoice) Validate() []string {
	var warnings []string
	warnings = append(warnings, inv.Issuer.Validate()...)
	warnings = append(warnings, inv.Client.Validate()...)
	warnings = append(warnings, inv.Metadata.Validate()...)
	for n, item := range inv.Items {
		for _, w := range item.Validate() {
			warnings = append(warnings, fmt.Sprintf("item %d: %s", n+1, w))
		}
	}
	warnings = append(warnings, inv.Payment.Validate()...)

	if len(inv.Items) == 0 {
		warnings = append(warnings, "invoice has no items")
	}
	if inv.VATMode == VATNone {
		for _, item := range inv.Items {
			if !item.VATRate.IsZero() {
				warnings = append(warnings, "VAT rates are ignored because VAT mode is none")
				break
			}
		}
	}
	return warnings
}
