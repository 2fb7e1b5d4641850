// Package formulas provides pure numeric helpers shared across modules.
package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// Variance calculates the sample variance of a slice of float64 values
func Variance(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Variance(data, nil)
}

// StdDev calculates the sample standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// CalculateReturns converts a price series to simple percentage returns.
// Returns[i] = (Price[i+1] - Price[i]) / Price[i]
func CalculateReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			returns[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
		}
	}

	return returns
}

// ReturnsMatrixFromPrices converts a T×N chronological price matrix to a
// (T-1)×N simple-returns matrix. Rows are periods, columns are assets.
func ReturnsMatrixFromPrices(prices [][]float64) [][]float64 {
	if len(prices) < 2 {
		return [][]float64{}
	}

	rows := len(prices) - 1
	cols := len(prices[0])
	returns := make([][]float64, rows)
	for t := 0; t < rows; t++ {
		returns[t] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			prev := prices[t][j]
			if prev != 0 && !math.IsNaN(prev) {
				returns[t][j] = (prices[t+1][j] - prev) / prev
			}
		}
	}

	return returns
}
