package settlement

import "github.com/shopspring/decimal"

// Display formats an amount with two decimals. Rounding happens here only.
func Display(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Round2 is Display as a number, for report cells.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
