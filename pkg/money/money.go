// Package money formats and combines Euro amounts. Arithmetic goes through
// decimal so derived values do not pick up float drift.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Format renders v as "€ 1.234,56" (de-AT grouping). Negative values get a
// leading minus: "-€ 12,00".
func Format(v float64) string {
	return FormatDecimal(decimal.NewFromFloat(v))
}

// FormatDecimal is Format for decimal values.
func FormatDecimal(d decimal.Decimal) string {
	d = d.Round(2)
	neg := d.IsNegative()
	fixed := d.Abs().StringFixed(2)

	intPart, frac := fixed, "00"
	if i := strings.IndexByte(fixed, '.'); i >= 0 {
		intPart, frac = fixed[:i], fixed[i+1:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("€ ")
	b.WriteString(group(intPart))
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}

// Magnitude renders v like Format but always without sign, prefixed by
// sign when non-empty. It is used for "+€ 10,00" / "−€ 4,00" cells.
func Magnitude(sign string, v float64) string {
	d := decimal.NewFromFloat(v).Abs()
	return sign + FormatDecimal(d)
}

// Sub returns a - b computed in decimal.
func Sub(a, b float64) float64 {
	f, _ := decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Round(2).Float64()
	return f
}

// Sum adds values in decimal.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	f, _ := total.Round(2).Float64()
	return f
}

// Percent returns part/whole*100 rounded to whole percent, or 0 when whole
// is zero.
func Percent(part, whole float64) int {
	if whole == 0 {
		return 0
	}
	p := decimal.NewFromFloat(part).Div(decimal.NewFromFloat(whole)).Mul(decimal.NewFromInt(100)).Round(0)
	return int(p.IntPart())
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
