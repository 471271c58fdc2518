package calculator

import (
	"errors"

	"DayAheadArchiver/internal/model"
)

// CalculateAverage computes the arithmetic mean of the given values.
func CalculateAverage(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.New("not enough data for average calculation")
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), nil
}

// CalculateTotalVolume sums the published volumes, skipping records without one.
func CalculateTotalVolume(records []model.PriceRecord) float64 {
	total := 0.0
	for _, r := range records {
		if r.Volume != nil {
			total += *r.Volume
		}
	}
	return total
}

func extractPrices(records []model.PriceRecord) []float64 {
	prices := make([]float64, len(records))
	for i, r := range records {
		prices[i] = r.Price
	}
	return prices
}
