package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var ErrInvalidPrice = errors.New("invalid price")

var pricePrinter = message.NewPrinter(language.BrazilianPortuguese)

// ParsePrice accepts prices typed in the admin form: "12,50", "1.234,56",
// "12.50" and an optional "R$" prefix. The result is rounded to cents.
func ParsePrice(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSpace(strings.TrimPrefix(s, "R$"))
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrInvalidPrice)
	}

	switch {
	case strings.Contains(s, ","):
		// a dot after the decimal comma is US notation such as 1,234.56
		if strings.LastIndex(s, ".") > strings.LastIndex(s, ",") {
			return decimal.Zero, fmt.Errorf("%w: ambiguous separators in %q", ErrInvalidPrice, raw)
		}
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative %q", ErrInvalidPrice, raw)
	}
	return d.Round(2), nil
}

// FormatPrice renders a price the way the storefront shows it: 1.234,56
func FormatPrice(d decimal.Decimal) string {
	return pricePrinter.Sprint(number.Decimal(d.Round(2).InexactFloat64(),
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// PriceInput renders a price for an editable form field: 1234,56
func PriceInput(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}
