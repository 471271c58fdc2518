package calculator

import (
	"errors"
	"math"
)

// CalculateRange returns the highest and lowest of the given prices.
func CalculateRange(prices []float64) (high, low float64, err error) {
	if len(prices) == 0 {
		return 0, 0, errors.New("no prices provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, p := range prices {
		if p > high {
			high = p
		}
		if p < low {
			low = p
		}
	}
	return high, low, nil
}
