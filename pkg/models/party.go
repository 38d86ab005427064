package models

import (
	"iter"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Address is a postal address. Empty fields never produce blank lines.
type Address struct {
	Name       string
	Street     string
	PostalCode string
	City       string
	Country    string
	Extra      []string // additional lines such as "c/o" or department
}

// Lines yields the non-empty display lines below the name: street,
// "postal code city", country and extra lines. The sequence can be ranged
// over any number of times.
func (a Address) Lines() iter.Seq[string] {
	return func(yield func(string) bool) {
		if s := strings.TrimSpace(a.Street); s != "" {
			if !yield(s) {
				return
			}
		}
		if s := strings.TrimSpace(strings.TrimSpace(a.PostalCode) + " " + strings.TrimSpace(a.City)); s != "" {
			if !yield(s) {
				return
			}
		}
		if s := strings.TrimSpace(a.Country); s != "" {
			if !yield(s) {
				return
			}
		}
		for _, extra := range a.Extra {
			if s := strings.TrimSpace(extra); s != "" {
				if !yield(s) {
					return
				}
			}
		}
	}
}

// Issuer is the party sending the invoice.
type Issuer struct {
	Address   Address
	Phone     string
	Email     string
	Website   string
	TaxNumber string // Steuernummer
	VATID     string // USt-IdNr.
}

// Validate returns advisory warnings about missing issuer data.
func (i Issuer) Validate() []string {
	var warnings []string
	if strings.TrimSpace(i.Address.Name) == "" {
		warnings = append(warnings, "issuer: name is missing")
	}
	if strings.TrimSpace(i.Address.Street) == "" || strings.TrimSpace(i.Address.City) == "" {
		warnings = append(warnings, "issuer: postal address is incomplete")
	}
	if strings.TrimSpace(i.TaxNumber) == "" && strings.TrimSpace(i.VATID) == "" {
		warnings = append(warnings, "issuer: neither tax number nor VAT ID is set")
	}
	if w := emailWarning("issuer", i.Email); w != "" {
		warnings = append(warnings, w)
	}
	return warnings
}

// Client is the invoice recipient.
type Client struct {
	Address Address
	Email   string
	VATID   string
}

// Validate returns advisory warnings about missing client data.
func (c Client) Validate() []string {
	var warnings []string
	if strings.TrimSpace(c.Address.Name) == "" {
		warnings = append(warnings, "client: name is missing")
	}
	hasLines := false
	for range c.Address.Lines() {
		hasLines = true
		break
	}
	if !hasLines {
		warnings = append(warnings, "client: address is missing")
	}
	if w := emailWarning("client", c.Email); w != "" {
		warnings = append(warnings, w)
	}
	return warnings
}

// PaymentInfo holds bank transfer details.
type PaymentInfo struct {
	AccountHolder string
	IBAN          string
	BIC           string
	BankName      string
	Reference     string
}

// Validate warns only when no IBAN is given.
func (p PaymentInfo) Validate() []string {
	if strings.TrimSpace(p.IBAN) == "" {
		return []string{"payment: IBAN is missing"}
	}
	return nil
}

func emailWarning(party, email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	if err := validate.Var(email, "email"); err != nil {
		return party + ": email address " + email + " looks invalid"
	}
	return ""
}
