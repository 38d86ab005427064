// Package locale defines the closed set of invoice languages.
//
// A Locale selects vocabulary and number/date formatting rules together; there
// is no way to pick one without the other.
package locale

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Locale is a supported invoice language.
type Locale int

const (
	// DE renders German labels, "1.234,56 €" amounts and DD.MM.YYYY dates.
	DE Locale = iota
	// EN renders English labels, "€1,234.56" amounts and ISO dates.
	EN
)

// ErrUnsupportedLocale is returned by Parse for tags outside the closed set.
var ErrUnsupportedLocale = errors.New("unsupported locale")

// aliases maps language names as typed into forms to their tags.
var aliases = map[string]string{
	"deutsch":  "de",
	"german":   "de",
	"englisch": "en",
	"english":  "en",
}

var (
	supported = []language.Tag{language.German, language.English}
	matcher   = language.NewMatcher(supported)
)

// All returns every supported locale in declaration order.
func All() []Locale {
	return []Locale{DE, EN}
}

// Parse maps a language tag such as "de", "de-AT", "en_US" or "EN", or a
// language name such as "Deutsch", to a Locale.
// An empty string yields DE, the default invoice language.
func Parse(s string) (Locale, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DE, nil
	}

	if tag, ok := aliases[strings.ToLower(s)]; ok {
		s = tag
	}

	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return DE, fmt.Errorf("%w: %q", ErrUnsupportedLocale, s)
	}

	_, idx, confidence := matcher.Match(tag)
	if confidence < language.High {
		return DE, fmt.Errorf("%w: %q", ErrUnsupportedLocale, s)
	}

	return All()[idx], nil
}

// String returns the lowercase language code.
func (l Locale) String() string {
	switch l {
	case EN:
		return "en"
	default:
		return "de"
	}
}

// DecimalSeparator is the fractional separator used for amounts and rates.
func (l Locale) DecimalSeparator() string {
	if l == EN {
		return "."
	}
	return ","
}

// GroupSeparator is the thousands separator used for amounts.
func (l Locale) GroupSeparator() string {
	if l == EN {
		return ","
	}
	return "."
}

// SymbolAfter reports whether the currency symbol follows the number.
func (l Locale) SymbolAfter() bool {
	return l != EN
}

// DateLayout is the time layout used for calendar dates.
func (l Locale) DateLayout() string {
	if l == EN {
		return "2006-01-02"
	}
	return "02.01.2006"
}

// Labels returns the complete label table of the locale.
func (l Locale) Labels() Labels {
	return tables[l.index()]
}

func (l Locale) index() int {
	if l == EN {
		return 1
	}
	return 0
}
