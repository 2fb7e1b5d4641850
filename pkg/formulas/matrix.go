package formulas

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// CovarianceMatrixFromReturns calculates the sample covariance matrix from a
// T×N returns matrix (rows are periods, columns are assets).
func CovarianceMatrixFromReturns(returns [][]float64) ([][]float64, error) {
	rows := len(returns)
	if rows < 2 {
		return nil, fmt.Errorf("need at least 2 return periods, got %d", rows)
	}
	cols := len(returns[0])
	if cols == 0 {
		return nil, fmt.Errorf("empty returns matrix")
	}

	data := make([]float64, 0, rows*cols)
	for t := 0; t < rows; t++ {
		if len(returns[t]) != cols {
			return nil, fmt.Errorf("returns matrix is ragged at row %d", t)
		}
		data = append(data, returns[t]...)
	}

	x := mat.NewDense(rows, cols, data)
	sym := mat.NewSymDense(cols, nil)
	stat.CovarianceMatrix(sym, x, nil)

	cov := make([][]float64, cols)
	for i := 0; i < cols; i++ {
		cov[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			cov[i][j] = sym.At(i, j)
		}
	}

	return cov, nil
}

// CorrelationMatrixFromCovariance calculates the correlation matrix from a
// covariance matrix.
//
// Formula: corr(i,j) = cov(i,j) / sqrt(cov(i,i) * cov(j,j))
func CorrelationMatrixFromCovariance(cov [][]float64) ([][]float64, error) {
	n := len(cov)
	if n == 0 {
		return nil, fmt.Errorf("empty covariance matrix")
	}
	for i := 0; i < n; i++ {
		if len(cov[i]) != n {
			return nil, fmt.Errorf("covariance matrix is not square")
		}
	}

	vars := make([]float64, n)
	for i := 0; i < n; i++ {
		v := cov[i][i]
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("invalid variance on diagonal at %d: %v", i, v)
		}
		vars[i] = v
	}

	corr := make([][]float64, n)
	for i := 0; i < n; i++ {
		corr[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		corr[i][i] = 1.0
		for j := i + 1; j < n; j++ {
			den := math.Sqrt(vars[i] * vars[j])
			val := 0.0
			if den > 0 {
				val = cov[i][j] / den
			}
			// Clamp to valid range.
			val = math.Max(-1.0, math.Min(1.0, val))
			corr[i][j] = val
			corr[j][i] = val
		}
	}

	return corr, nil
}

// CorrelationToDistance converts a correlation matrix to the distance matrix
// used for hierarchical clustering.
//
// Distance formula: d_ij = sqrt((1 - ρ_ij) / 2), which maps correlation
// [-1, 1] onto distance [0, 1]. The (1 - ρ) term is rounded to 5 decimals
// before the square root so that floating point noise around ρ = 1 cannot
// produce a negative operand.
func CorrelationToDistance(corr [][]float64) [][]float64 {
	n := len(corr)
	dist := make([][]float64, n)

	for i := 0; i < n; i++ {
		dist[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			c := math.Max(-1.0, math.Min(1.0, corr[i][j]))
			oneMinus := math.Round((1.0-c)*1e5) / 1e5
			if oneMinus < 0 {
				oneMinus = 0
			}
			dist[i][j] = math.Sqrt(oneMinus / 2.0)
		}
		dist[i][i] = 0.0
	}

	return dist
}
