package rates

import "errors"

var (
	// ErrRateNotConfigured means no base rate covers the requested date. The
	// previous system treated this as rate zero and let it flow into reports;
	// callers now have to handle it explicitly.
	ErrRateNotConfigured = errors.New("no base rate configured for date")

	ErrUnionClassNotFound = errors.New("union class not found")
	ErrInvalidRate        = errors.New("base rate must be positive")
)
