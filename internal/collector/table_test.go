package collector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCell(t *testing.T) {
	assert.Equal(t, 1234.5, parseCell(" 1,234.5 "))
	assert.Equal(t, -3.2, parseCell("-3.2"))
	assert.True(t, math.IsNaN(parseCell("-")))
	assert.True(t, math.IsNaN(parseCell("")))
}

func TestTranspose_PadsShortRows(t *testing.T) {
	cols := transpose([][]float64{{1, 2, 3}, {4}})

	require.Len(t, cols, 3)
	assert.Equal(t, []float64{1, 4}, cols[0])
	assert.Equal(t, 2.0, cols[1][0])
	assert.True(t, math.IsNaN(cols[1][1]))
}

func TestPairs_InterleavedPriceAndVolume(t *testing.T) {
	nan := math.NaN()
	rows := [][]float64{
		{10, 20}, // hour 0 price, day 1 and 2
		{100, 200},
		{nan, 21}, // hour 1 skipped on day 1
		{nan, 201},
	}

	got, dropped := pairs(rows)

	assert.Equal(t, 1, dropped)
	require.Len(t, got, 3)
	assert.Equal(t, pricePair{10, 100}, got[0])
	assert.Equal(t, pricePair{20, 200}, got[1])
	assert.Equal(t, pricePair{21, 201}, got[2])
}
