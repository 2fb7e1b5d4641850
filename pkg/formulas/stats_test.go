package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateReturns(t *testing.T) {
	prices := []float64{100, 110, 99}

	returns := CalculateReturns(prices)

	assert.Len(t, returns, 2)
	assert.InDelta(t, 0.1, returns[0], 1e-12)
	assert.InDelta(t, -0.1, returns[1], 1e-12)
}

func TestCalculateReturns_TooShort(t *testing.T) {
	assert.Empty(t, CalculateReturns([]float64{100}))
	assert.Empty(t, CalculateReturns(nil))
}

func TestReturnsMatrixFromPrices(t *testing.T) {
	prices := [][]float64{
		{100, 50},
		{110, 45},
		{121, 54},
	}

	returns := ReturnsMatrixFromPrices(prices)

	assert.Len(t, returns, 2)
	assert.InDelta(t, 0.1, returns[0][0], 1e-12)
	assert.InDelta(t, -0.1, returns[0][1], 1e-12)
	assert.InDelta(t, 0.1, returns[1][0], 1e-12)
	assert.InDelta(t, 0.2, returns[1][1], 1e-12)
}

func TestMeanVarianceStdDev_Empty(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, Variance(nil))
	assert.Equal(t, 0.0, StdDev(nil))
}
