// Package format renders prices the way the storefront shows them: Brazilian Real
// with pt-BR grouping and decimal separators.
package format

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/shopspring/decimal"
)

// InstallmentCount is the number of interest-free installments advertised on product pages.
const InstallmentCount = 12

// currencyPrefix is the BRL symbol followed by a no-break space, as pt-BR locales print it.
const currencyPrefix = "R$\u00a0"

var locale = language.BrazilianPortuguese

// maxExactFloat is 2^53. x/text formats from float64, so amounts whose scaled digits
// exceed it are grouped from their exact decimal string instead.
var maxExactFloat = decimal.NewFromInt(1 << 53)

// BRL formats amount as Brazilian Real with exactly fractionDigits decimals.
// Rounding is half away from zero.
func BRL(amount decimal.Decimal, fractionDigits int) string {
	rounded := amount.Round(int32(fractionDigits))

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}

	var digits string
	if rounded.Shift(int32(fractionDigits)).LessThanOrEqual(maxExactFloat) {
		p := message.NewPrinter(locale)
		digits = p.Sprintf("%v", number.Decimal(rounded.InexactFloat64(), number.Scale(fractionDigits)))
	} else {
		digits = groupDigits(rounded.StringFixed(int32(fractionDigits)))
	}
	return sign + currencyPrefix + digits
}

// Price is the headline price: whole reais, no cents.
func Price(amount decimal.Decimal) string {
	return BRL(amount, 0)
}

// Installment is the value of one of n equal installments, with cents.
func Installment(amount decimal.Decimal, n int) string {
	if n <= 0 {
		n = 1
	}
	return BRL(amount.Div(decimal.NewFromInt(int64(n))), 2)
}

// groupDigits turns "1234567.89" into "1.234.567,89".
func groupDigits(fixed string) string {
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteByte(',')
		b.WriteString(frac)
	}
	return b.String()
}
