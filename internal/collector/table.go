package collector

import (
	"math"
	"strconv"
	"strings"
)

// parseCell reads a displayed number such as "1,234.5". Anything else
// yields NaN so the caller can drop the slot.
func parseCell(text string) float64 {
	s := strings.TrimSpace(strings.ReplaceAll(text, ",", ""))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// transpose turns rows into columns. Short rows are padded with NaN.
func transpose(rows [][]float64) [][]float64 {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	cols := make([][]float64, width)
	for j := range cols {
		cols[j] = make([]float64, len(rows))
		for i, r := range rows {
			if j < len(r) {
				cols[j][i] = r[j]
			} else {
				cols[j][i] = math.NaN()
			}
		}
	}
	return cols
}

type pricePair struct {
	price  float64
	volume float64
}

// pairs flattens the transposed matrix and chunks it into [price, volume]
// pairs. Pairs without a price are dropped; the returned count says how many.
func pairs(rows [][]float64) ([]pricePair, int) {
	var flat []float64
	for _, col := range transpose(rows) {
		flat = append(flat, col...)
	}

	var out []pricePair
	dropped := 0
	for i := 0; i < len(flat); i += 2 {
		p := pricePair{price: flat[i], volume: math.NaN()}
		if i+1 < len(flat) {
			p.volume = flat[i+1]
		}
		if math.IsNaN(p.price) {
			dropped++
			continue
		}
		out = append(out, p)
	}
	return out, dropped
}
