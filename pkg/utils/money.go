package utils

// All balances and prices are stored as int64 minor units (paise). The helpers
// here keep the rounding rules in one place.

// PercentOf computes pct% of an amount in minor units, rounding half-up.
func PercentOf(amountMinor int64, pct int) int64 {
	if amountMinor <= 0 || pct <= 0 {
		return 0
	}
	return (amountMinor*int64(pct) + 50) / 100
}

// CeilDiv divides rounding up. Used for pro-rated seat pricing.
func CeilDiv(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}
