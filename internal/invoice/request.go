package invoice

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"invoicegen/internal/locale"
	"invoicegen/internal/money"
	"invoicegen/pkg/models"
)

// Number is a decimal request value. It accepts a JSON number or a string
// using "." or "," as the fractional separator and keeps the raw text so
// that parse errors can quote it.
type Number string

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*n = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Number(s)
	default:
		*n = Number(data)
	}
	return nil
}

// Item is one requested invoice line.
type Item struct {
	Description string `json:"description"`
	Quantity    Number `json:"quantity"`
	UnitPrice   Number `json:"unit_price"`
	Unit        string `json:"unit,omitempty"`
	VATRate     Number `json:"vat_rate,omitempty"`
}

func (it Item) blank() bool {
	return strings.TrimSpace(it.Description) == "" &&
		strings.TrimSpace(string(it.Quantity)) == "" &&
		strings.TrimSpace(string(it.UnitPrice)) == ""
}

// Request is the flat invoice input as posted by the invoice form or read
// from a JSON file. Empty issuer and payment fields fall back to Defaults.
type Request struct {
	IssuerName       string `json:"issuer_name" validate:"required_without=ClientName"`
	IssuerStreet     string `json:"issuer_street"`
	IssuerPostalCode string `json:"issuer_postal_code"`
	IssuerCity       string `json:"issuer_city"`
	IssuerCountry    string `json:"issuer_country,omitempty"`
	IssuerPhone      string `json:"issuer_phone"`
	IssuerEmail      string `json:"issuer_email"`
	IssuerWebsite    string `json:"issuer_website,omitempty"`
	IssuerTaxNumber  string `json:"issuer_tax_number"`
	IssuerVATID      string `json:"issuer_vat_id,omitempty"`

	ClientName       string   `json:"client_name" validate:"required_without=IssuerName"`
	ClientStreet     string   `json:"client_street"`
	ClientPostalCode string   `json:"client_postal_code"`
	ClientCity       string   `json:"client_city"`
	ClientCountry    string   `json:"client_country,omitempty"`
	ClientExtra      []string `json:"client_extra,omitempty"`
	ClientEmail      string   `json:"client_email,omitempty"`
	ClientVATID      string   `json:"client_vat_id,omitempty"`

	InvoiceNumber      string `json:"invoice_number" validate:"required"`
	InvoiceDate        string `json:"invoice_date"`
	ServiceDate        string `json:"service_date,omitempty"`
	ServicePeriodStart string `json:"service_period_start,omitempty" validate:"required_with=ServicePeriodEnd"`
	ServicePeriodEnd   string `json:"service_period_end,omitempty" validate:"required_with=ServicePeriodStart"`
	Title              string `json:"title,omitempty"`
	DueDays            *int   `json:"due_days,omitempty"`

	Items []Item `json:"items"`

	AccountHolder    string `json:"account_holder"`
	IBAN             string `json:"iban"`
	BIC              string `json:"bic"`
	BankName         string `json:"bank_name"`
	PaymentReference string `json:"payment_reference,omitempty"`

	Language       string   `json:"language,omitempty"`
	VATMode        string   `json:"vat_mode,omitempty"`
	CurrencySymbol string   `json:"currency_symbol,omitempty"`
	Notes          []string `json:"notes,omitempty"`
	LogoPath       string   `json:"logo_path,omitempty"`
}

// trimIdentifiers strips the fields checked for presence, so that a value of
// only spaces counts as missing.
func (r *Request) trimIdentifiers() {
	r.InvoiceNumber = strings.TrimSpace(r.InvoiceNumber)
	r.IssuerName = strings.TrimSpace(r.IssuerName)
	r.ClientName = strings.TrimSpace(r.ClientName)
	r.ServicePeriodStart = strings.TrimSpace(r.ServicePeriodStart)
	r.ServicePeriodEnd = strings.TrimSpace(r.ServicePeriodEnd)
}

// Defaults fill everything a request may leave out.
type Defaults struct {
	Issuer         models.Issuer
	Payment        models.PaymentInfo
	Locale         locale.Locale
	CurrencySymbol string
	DueDays        int
	LogoPath       string
}

var errInvalidDate = errors.New("expected YYYY-MM-DD or DD.MM.YYYY")

// dateLayouts are accepted for request dates, ISO first.
var dateLayouts = []string{"2006-01-02", "02.01.2006"}

var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseRequest decodes a JSON request. Unknown fields are rejected so that
// typos in field names do not silently drop data.
func ParseRequest(data []byte) (Request, error) {
	var req Request
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return Request{}, NewInputError("request", nil, err)
	}
	return req, nil
}

// Decode converts req into an invoice. now supplies the invoice date when
// the request has none. Any malformed number, date or enum and any missing
// required identifier fails with an *InputError before layout starts.
func Decode(req Request, d Defaults, now time.Time) (*models.Invoice, error) {
	req.trimIdentifiers()
	if err := requestValidator.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return nil, NewInputError(fe.Field(), fe.Value(), fmt.Errorf("%w (%s)", ErrMissingRequiredField, fe.Tag()))
		}
		return nil, NewInputError("request", nil, err)
	}

	loc := d.Locale
	if strings.TrimSpace(req.Language) != "" {
		parsed, err := locale.Parse(req.Language)
		if err != nil {
			return nil, NewInputError("language", req.Language, err)
		}
		loc = parsed
	}

	vatMode, err := models.ParseVATMode(req.VATMode)
	if err != nil {
		return nil, NewInputError("vat_mode", req.VATMode, err)
	}

	meta, err := decodeMetadata(req, d, now)
	if err != nil {
		return nil, err
	}

	items, err := decodeItems(req.Items)
	if err != nil {
		return nil, err
	}

	inv := &models.Invoice{
		Issuer:   mergeIssuer(req, d.Issuer),
		Client:   decodeClient(req),
		Metadata: meta,
		Items:    items,
		Payment: models.PaymentInfo{
			AccountHolder: lo.CoalesceOrEmpty(strings.TrimSpace(req.AccountHolder), d.Payment.AccountHolder),
			IBAN:          lo.CoalesceOrEmpty(strings.TrimSpace(req.IBAN), d.Payment.IBAN),
			BIC:           lo.CoalesceOrEmpty(strings.TrimSpace(req.BIC), d.Payment.BIC),
			BankName:      lo.CoalesceOrEmpty(strings.TrimSpace(req.BankName), d.Payment.BankName),
			Reference:     lo.CoalesceOrEmpty(strings.TrimSpace(req.PaymentReference), d.Payment.Reference),
		},
		VATMode:        vatMode,
		Locale:         loc,
		CurrencySymbol: lo.CoalesceOrEmpty(req.CurrencySymbol, d.CurrencySymbol),
		LogoPath:       lo.CoalesceOrEmpty(strings.TrimSpace(req.LogoPath), d.LogoPath),
		Notes: lo.FilterMap(req.Notes, func(note string, _ int) (string, bool) {
			note = strings.TrimSpace(note)
			return note, note != ""
		}),
	}
	return inv, nil
}

func decodeMetadata(req Request, d Defaults, now time.Time) (models.InvoiceMetadata, error) {
	issued, err := parseDate("invoice_date", req.InvoiceDate)
	if err != nil {
		return models.InvoiceMetadata{}, err
	}
	if issued.IsZero() {
		issued = now
	}
	service, err := parseDate("service_date", req.ServiceDate)
	if err != nil {
		return models.InvoiceMetadata{}, err
	}
	start, err := parseDate("service_period_start", req.ServicePeriodStart)
	if err != nil {
		return models.InvoiceMetadata{}, err
	}
	end, err := parseDate("service_period_end", req.ServicePeriodEnd)
	if err != nil {
		return models.InvoiceMetadata{}, err
	}

	dueDays := d.DueDays
	if req.DueDays != nil {
		dueDays = *req.DueDays
	}

	meta, err := models.NewInvoiceMetadata(models.InvoiceMetadata{
		Number:             strings.TrimSpace(req.InvoiceNumber),
		IssueDate:          issued,
		ServiceDate:        service,
		ServicePeriodStart: start,
		ServicePeriodEnd:   end,
		Title:              strings.TrimSpace(req.Title),
		DueDays:            dueDays,
	})
	if err != nil {
		return models.InvoiceMetadata{}, NewInputError("due_days", dueDays, err)
	}
	return meta, nil
}

func decodeItems(reqItems []Item) ([]models.InvoiceItem, error) {
	var items []models.InvoiceItem
	for i, it := range reqItems {
		if it.blank() {
			continue
		}
		field := func(name string) string { return fmt.Sprintf("items[%d].%s", i, name) }

		qty, err := money.ParseDecimal(string(it.Quantity))
		if err != nil {
			return nil, NewInputError(field("quantity"), string(it.Quantity), err)
		}
		price, err := money.ParseDecimal(string(it.UnitPrice))
		if err != nil {
			return nil, NewInputError(field("unit_price"), string(it.UnitPrice), err)
		}
		rate := decimal.Zero
		if strings.TrimSpace(string(it.VATRate)) != "" {
			if rate, err = money.ParseDecimal(string(it.VATRate)); err != nil {
				return nil, NewInputError(field("vat_rate"), string(it.VATRate), err)
			}
		}

		items = append(items, models.InvoiceItem{
			Description: strings.TrimSpace(it.Description),
			Quantity:    qty,
			UnitPrice:   price,
			Unit:        strings.TrimSpace(it.Unit),
			VATRate:     rate,
		})
	}
	return items, nil
}

func mergeIssuer(req Request, d models.Issuer) models.Issuer {
	pick := func(v, fallback string) string {
		return lo.CoalesceOrEmpty(strings.TrimSpace(v), fallback)
	}
	return models.Issuer{
		Address: models.Address{
			Name:       pick(req.IssuerName, d.Address.Name),
			Street:     pick(req.IssuerStreet, d.Address.Street),
			PostalCode: pick(req.IssuerPostalCode, d.Address.PostalCode),
			City:       pick(req.IssuerCity, d.Address.City),
			Country:    pick(req.IssuerCountry, d.Address.Country),
			Extra:      d.Address.Extra,
		},
		Phone:     pick(req.IssuerPhone, d.Phone),
		Email:     pick(req.IssuerEmail, d.Email),
		Website:   pick(req.IssuerWebsite, d.Website),
		TaxNumber: pick(req.IssuerTaxNumber, d.TaxNumber),
		VATID:     pick(req.IssuerVATID, d.VATID),
	}
}

func decodeClient(req Request) models.Client {
	return models.Client{
		Address: models.Address{
			Name:       strings.TrimSpace(req.ClientName),
			Street:     strings.TrimSpace(req.ClientStreet),
			PostalCode: strings.TrimSpace(req.ClientPostalCode),
			City:       strings.TrimSpace(req.ClientCity),
			Country:    strings.TrimSpace(req.ClientCountry),
			Extra:      req.ClientExtra,
		},
		Email: strings.TrimSpace(req.ClientEmail),
		VATID: strings.TrimSpace(req.ClientVATID),
	}
}

func parseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, NewInputError(field, s, errInvalidDate)
}
