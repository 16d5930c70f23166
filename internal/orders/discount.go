package orders

import "github.com/shopspring/decimal"

var (
	tierHigh    = decimal.NewFromInt(200)
	tierLow     = decimal.NewFromInt(100)
	rateHigh    = decimal.NewFromFloat(0.10)
	rateLow     = decimal.NewFromFloat(0.05)
	moneyDigits = int32(2)
)

// LineDiscount applies the tiered discount to a line's gross amount
// (quantity x unit price). Thresholds are strict: a gross of exactly 200
// gets the 5% tier, not 10%.
func LineDiscount(gross decimal.Decimal) decimal.Decimal {
	switch {
	case gross.GreaterThan(tierHigh):
		return gross.Mul(rateHigh).Round(moneyDigits)
	case gross.GreaterThan(tierLow):
		return gross.Mul(rateLow).Round(moneyDigits)
	default:
		return decimal.Zero
	}
}
