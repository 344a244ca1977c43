package quote

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders a monetary amount the way the storefront displays it:
// "$ 4.400" with dot-separated thousands, decimals only when present
// ("$ 1.234,50").
func FormatAmount(d decimal.Decimal) string {
	d = d.Round(2)

	neg := d.IsNegative()
	if neg {
		d = d.Neg()
	}

	s := d.StringFixed(2)
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString("$ ")
	if neg {
		b.WriteByte('-')
	}

	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}

	if fracPart != "00" {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}

	return b.String()
}
