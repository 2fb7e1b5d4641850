package hrp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClusterVariance_Singleton(t *testing.T) {
	cov := [][]float64{
		{0.04, 0.01},
		{0.01, 0.09},
	}

	v, warnings, err := clusterVariance(cov, []int{1, 0}, span{0, 1})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.InDelta(t, 0.09, v, 1e-12)
}

func TestClusterVariance_SingletonFloorsZeroVariance(t *testing.T) {
	cov := [][]float64{
		{0, 0},
		{0, 0.04},
	}

	v, warnings, err := clusterVariance(cov, []int{0, 1}, span{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, varianceFloor, v, 1e-24)
	assert.NotEmpty(t, warnings)
}

func TestClusterVariance_InverseVariancePortfolio(t *testing.T) {
	// Equal unit variances with 0.9 correlation: IVP weights are 0.5/0.5 and
	// the quadratic form is 0.25*(1 + 0.9 + 0.9 + 1) = 0.95.
	cov := [][]float64{
		{1.0, 0.9},
		{0.9, 1.0},
	}

	v, warnings, err := clusterVariance(cov, []int{0, 1}, span{0, 2})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.InDelta(t, 0.95, v, 1e-12)
}

func TestClusterVariance_FloorsZeroVariance(t *testing.T) {
	cov := [][]float64{
		{0.0, 0.0},
		{0.0, 0.04},
	}

	_, warnings, err := clusterVariance(cov, []int{0, 1}, span{0, 2})
	require.NoError(t, err)
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "asset 0")
}

func TestRecursiveBisection_EqualDiagonalGivesEqualWeights(t *testing.T) {
	// Identity covariance over three assets: the odd split puts one asset
	// left and two right, alpha = 1 - 1/(1+0.5) = 1/3, and the right pair
	// halves again, so everything lands at 1/3.
	cov := [][]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}

	weights, warnings, err := recursiveBisection(cov, []int{0, 1, 2}, false)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	for i, w := range weights {
		assert.InDelta(t, 1.0/3.0, w, 1e-12, "asset %d", i)
	}
}

func TestRecursiveBisection_SingletonOrder(t *testing.T) {
	cov := [][]float64{{0.04}}

	weights, _, err := recursiveBisection(cov, []int{0}, false)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0}, weights)
}

func TestRecursiveBisection_RespectsOrderPermutation(t *testing.T) {
	// Bisection splits positions in the ordered list, not raw indices: with
	// order [2,0,1], asset 2 sits alone on the left of the first split.
	cov := [][]float64{
		{0.02, 0, 0},
		{0, 0.02, 0},
		{0, 0, 0.08},
	}

	weights, _, err := recursiveBisection(cov, []int{2, 0, 1}, false)
	require.NoError(t, err)

	// vLeft = 0.08, vRight = IVP of two 0.02 assets = 0.01.
	// alpha = 1 - 0.08/0.09 = 1/9 for asset 2, the rest split evenly.
	assert.InDelta(t, 1.0/9.0, weights[2], 1e-12)
	assert.InDelta(t, 4.0/9.0, weights[0], 1e-12)
	assert.InDelta(t, 4.0/9.0, weights[1], 1e-12)
}
