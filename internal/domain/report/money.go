package report

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// toFloat64 converts decimal to float64 at the payload edge
func toFloat64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// ratio returns num/den, or zero when den is zero
func ratio(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}

// percentOf returns part/total*100, or zero when total is zero
func percentOf(part, total decimal.Decimal) decimal.Decimal {
	return ratio(part, total).Mul(hundred)
}
