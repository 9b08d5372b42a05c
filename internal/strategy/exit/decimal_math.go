package exit

import (
	"math"

	"github.com/shopspring/decimal"
)

// Threshold comparisons run on decimals so float noise in configured
// percentages never flips a trigger at the boundary.

func decFromFloat(val float64) decimal.Decimal {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(val)
}

func decimalGTE(a, b float64) bool {
	return decFromFloat(a).Cmp(decFromFloat(b)) >= 0
}

func decimalLTE(a, b float64) bool {
	return decFromFloat(a).Cmp(decFromFloat(b)) <= 0
}
