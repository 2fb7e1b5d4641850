package hrp

import (
	"fmt"

	"github.com/aristath/hierarch/pkg/formulas"
)

// resolveInputs turns whatever matrix sources the request carries into the
// covariance matrix needed by recursive bisection and the distance matrix
// needed by clustering.
//
// Priority: a supplied distance matrix is used verbatim; otherwise distance
// is derived from correlation, which is derived from covariance, which is
// derived from returns, which are derived from prices.
func resolveInputs(req Request) (cov, dist [][]float64, err error) {
	n := len(req.Assets)

	if req.Covariance != nil {
		if err := checkSquare(req.Covariance, n, "covariance"); err != nil {
			return nil, nil, err
		}
	}
	if req.Distance != nil {
		if err := checkSquare(req.Distance, n, "distance"); err != nil {
			return nil, nil, err
		}
	}

	returns := req.Returns
	if returns != nil {
		if err := checkColumns(returns, n, "returns"); err != nil {
			return nil, nil, err
		}
	}
	if returns == nil && req.Covariance == nil && req.Prices != nil {
		if err := checkColumns(req.Prices, n, "prices"); err != nil {
			return nil, nil, err
		}
		returns = formulas.ReturnsMatrixFromPrices(req.Prices)
	}

	cov = req.Covariance
	if cov == nil {
		if returns == nil {
			return nil, nil, fmt.Errorf("%w: supply prices, returns or a covariance matrix", ErrInvalidInput)
		}
		cov, err = formulas.CovarianceMatrixFromReturns(returns)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	dist = req.Distance
	if dist == nil {
		corr, err := formulas.CorrelationMatrixFromCovariance(cov)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		dist = formulas.CorrelationToDistance(corr)
	}

	return cov, dist, nil
}

func checkSquare(m [][]float64, n int, name string) error {
	if len(m) != n {
		return fmt.Errorf("%w: %s matrix has %d rows, expected %d", ErrInvalidInput, name, len(m), n)
	}
	for i := range m {
		if len(m[i]) != n {
			return fmt.Errorf("%w: %s matrix row %d has %d columns, expected %d", ErrInvalidInput, name, i, len(m[i]), n)
		}
	}
	return nil
}

func checkColumns(m [][]float64, n int, name string) error {
	if len(m) < 2 {
		return fmt.Errorf("%w: %s matrix needs at least 2 rows, got %d", ErrInvalidInput, name, len(m))
	}
	for t := range m {
		if len(m[t]) != n {
			return fmt.Errorf("%w: %s matrix row %d has %d columns, expected %d", ErrInvalidInput, name, t, len(m[t]), n)
		}
	}
	return nil
}
