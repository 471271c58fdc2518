package calculator

import "DayAheadArchiver/internal/model"

// YearSummary condenses one year archive for logs, the run journal and reports.
type YearSummary struct {
	Year        int
	Count       int
	AvgPrice    float64
	MinPrice    float64
	MaxPrice    float64
	TotalVolume float64
}

// Summarize computes the summary of one year. An empty year yields zero prices.
func Summarize(year int, records []model.PriceRecord) YearSummary {
	s := YearSummary{Year: year, Count: len(records)}
	prices := extractPrices(records)
	if avg, err := CalculateAverage(prices); err == nil {
		s.AvgPrice = avg
	}
	if high, low, err := CalculateRange(prices); err == nil {
		s.MaxPrice = high
		s.MinPrice = low
	}
	s.TotalVolume = CalculateTotalVolume(records)
	return s
}
