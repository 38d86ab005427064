// Package money formats amounts, dates and quantities for rendered invoices.
//
// All functions are pure: identical input always produces byte-identical output.
package money

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"invoicegen/internal/locale"
)

// Places is the number of fractional digits of every monetary value.
const Places = 2

// ErrInvalidNumber is returned by ParseDecimal for empty or malformed input.
var ErrInvalidNumber = errors.New("invalid decimal number")

// RoundHalfUp rounds to the given number of places, halves away from zero.
func RoundHalfUp(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}

// FormatCurrency renders amount in the locale's style. The amount is rounded
// half-up to two places first; negative values carry a leading minus.
//
//	FormatCurrency(1234.5, "€", DE)  -> "1.234,50 €"
//	FormatCurrency(1234.5, "€", EN)  -> "€1,234.50"
//	FormatCurrency(-2.005, "€", DE)  -> "-2,01 €"
func FormatCurrency(amount decimal.Decimal, symbol string, loc locale.Locale) string {
	rounded := RoundHalfUp(amount, Places)

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}

	intPart, fracPart, _ := strings.Cut(rounded.StringFixed(Places), ".")
	number := groupThousands(intPart, loc.GroupSeparator()) + loc.DecimalSeparator() + fracPart

	switch {
	case symbol == "":
		return sign + number
	case loc.SymbolAfter():
		return sign + number + " " + symbol
	default:
		return sign + symbol + number
	}
}

// FormatDate renders a calendar date. No timezone conversion is applied.
func FormatDate(date time.Time, loc locale.Locale) string {
	return date.Format(loc.DateLayout())
}

// FormatQuantity renders integral quantities without a fraction and others in
// normalized form, followed by the unit when one is given.
func FormatQuantity(qty decimal.Decimal, unit string) string {
	s := normalize(qty)
	if unit = strings.TrimSpace(unit); unit != "" {
		return s + " " + unit
	}
	return s
}

// FormatRate renders a VAT rate without trailing zeros using the locale's
// decimal separator, e.g. "19" or "5,5".
func FormatRate(rate decimal.Decimal, loc locale.Locale) string {
	return strings.Replace(normalize(rate), ".", loc.DecimalSeparator(), 1)
}

// ParseDecimal parses a decimal string accepting either "." or "," as the
// fractional separator. Empty or malformed input is an error, never zero.
func ParseDecimal(s string) (decimal.Decimal, error) {
	raw := s
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty value", ErrInvalidNumber)
	}

	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") || strings.Count(s, ",") > 1 {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
		}
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
	}
	return d, nil
}

// normalize strips trailing fractional zeros; integral values have no point.
func normalize(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return d.Truncate(0).String()
	}
	s := d.String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s
}

func groupThousands(digits, sep string) string {
	var b strings.Builder
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteString(sep)
		}
		b.WriteRune(c)
	}
	return b.String()
}
