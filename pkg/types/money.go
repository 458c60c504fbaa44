package types

import "github.com/shopspring/decimal"

// RupeesFromPaise converts a paise amount into a rupee decimal with two places.
// Prices are stored as integer paise; decimals only appear at the display edge.
func RupeesFromPaise(paise int64) decimal.Decimal {
	return decimal.NewFromInt(paise).Div(decimal.NewFromInt(100)).Round(2)
}

// PaiseFromRupees converts a rupee decimal into integer paise, rounding to the
// nearest paisa.
func PaiseFromRupees(rupees decimal.Decimal) int64 {
	return rupees.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
