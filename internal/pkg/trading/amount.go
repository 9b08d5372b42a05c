// Package trading provides trading calculation utilities.
package trading

// CalcCloseContracts computes how many contracts a ratio of the remaining
// position covers. Rounds down, never below 1 and never above remaining.
func CalcCloseContracts(remaining int, ratio float64) int {
	if remaining <= 0 || ratio <= 0 {
		return 0
	}
	n := int(float64(remaining) * ratio)
	if n < 1 {
		n = 1
	}
	if n > remaining {
		n = remaining
	}
	return n
}
