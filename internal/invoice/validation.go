package invoice

import (
	"fmt"

	"github.com/rs/zerolog"
	"invoicegen/internal/logger"
	"invoicegen/internal/money"
	"invoicegen/pkg/models"
)

// Review collects the advisory warnings for an invoice: the model's own
// validation plus cross-checks on the computed amounts.
type Review struct {
	log zerolog.Logger
}

// NewReview creates a new invoice review
func NewReview() *Review {
	return &Review{
		log: logger.WithComponent("invoice-review"),
	}
}

// Check returns every warning for inv. It never fails; an invoice with
// warnings is still generated.
func (rv *Review) Check(inv *models.Invoice) []string {
	warnings := inv.Validate()
	warnings = append(warnings, rv.checkAmounts(inv)...)

	for _, w := range warnings {
		rv.log.Warn().
			Str("invoice_number", inv.Metadata.Number).
			Str("warning", w).
			Msg("Invoice validation warning")
	}

	rv.log.Debug().
		Str("invoice_number", inv.Metadata.Number).
		Int("items", len(inv.Items)).
		Int("warnings", len(warnings)).
		Msg("Invoice review completed")

	return warnings
}

// checkAmounts flags totals that are formally valid but commercially odd.
func (rv *Review) checkAmounts(inv *models.Invoice) []string {
	var warnings []string
	if len(inv.Items) == 0 {
		return warnings
	}

	total := inv.Total()
	switch {
	case total.IsZero():
		warnings = append(warnings, "invoice total is zero")
	case total.IsNegative():
		warnings = append(warnings, fmt.Sprintf("invoice total %s is negative", total.StringFixed(money.Places)))
	}

	if inv.VATMode != models.VATNone && inv.TotalVAT().IsZero() {
		warnings = append(warnings, fmt.Sprintf("VAT mode is %s but no item carries a VAT rate", inv.VATMode))
	}

	for i, item := range inv.Items {
		if item.Net().IsZero() && !item.Quantity.IsZero() && !item.UnitPrice.IsZero() {
			warnings = append(warnings, fmt.Sprintf("item %d: amount rounds to zero", i+1))
		}
	}
	return warnings
}
