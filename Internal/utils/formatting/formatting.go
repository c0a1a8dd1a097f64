package formatting

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const pricePrecision = 4

// Separator returns a line separator of given width
func Separator(width int) string {
	return strings.Repeat("=", width)
}

// FormatPrice renders a provider price string as "$" plus 4 significant
// digits. Empty or unparsable prices render as "N/A".
func FormatPrice(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "N/A"
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return "N/A"
	}
	return "$" + ToPrecision(d, pricePrecision)
}

// ToPrecision formats d with the given number of significant digits.
// Like JavaScript's Number.prototype.toPrecision it switches to exponent
// notation when the magnitude is below 1e-6 or has more integer digits than
// the precision allows.
func ToPrecision(d decimal.Decimal, precision int) string {
	if precision < 1 {
		precision = 1
	}
	if d.IsZero() {
		return decimal.Zero.StringFixed(int32(precision - 1))
	}

	e := magnitude(d)
	rounded := d.Round(int32(precision - 1 - e))
	// rounding can carry into a new digit (9.9996 -> 10.00)
	if e2 := magnitude(rounded); e2 != e {
		e = e2
		rounded = d.Round(int32(precision - 1 - e))
	}

	if e < -6 || e >= precision {
		mantissa := rounded.Shift(int32(-e)).StringFixed(int32(precision - 1))
		sign := "+"
		if e < 0 {
			sign = "-"
			e = -e
		}
		return fmt.Sprintf("%se%s%d", mantissa, sign, e)
	}

	places := precision - 1 - e
	if places < 0 {
		places = 0
	}
	return rounded.StringFixed(int32(places))
}

// magnitude returns the base-10 exponent of the leading digit of d.
func magnitude(d decimal.Decimal) int {
	abs := d.Abs()
	return len(abs.Coefficient().String()) + int(abs.Exponent()) - 1
}

// CompactUSD renders a dollar amount as $1.2M / $3.4K / $12.
func CompactUSD(v float64) string {
	switch {
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.1fK", v/1e3)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

// Truncate shortens s to width runes, marking the cut with "…".
func Truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
