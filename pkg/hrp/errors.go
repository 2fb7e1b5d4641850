package hrp

import "errors"

// Sentinel errors returned by Allocate. Callers match with errors.Is; the
// returned error wraps these with stage and index context.
var (
	// ErrNoAssets is returned when the request contains no asset names.
	ErrNoAssets = errors.New("hrp: no assets provided")

	// ErrInvalidInput is returned when no usable returns/covariance/distance
	// source is supplied, or when a supplied matrix disagrees with the asset
	// count.
	ErrInvalidInput = errors.New("hrp: invalid input")

	// ErrUnsupportedLinkage is returned for unrecognized linkage method names.
	ErrUnsupportedLinkage = errors.New("hrp: unsupported linkage method")

	// ErrSingularCluster is returned when a cluster variance is not finite
	// even after the variance floor has been applied.
	ErrSingularCluster = errors.New("hrp: singular cluster variance")
)
