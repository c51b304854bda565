package riot

import "errors"

// Sentinel errors for the retryable failure classes. Callers pick backoff
// policy per class; the client itself never retries beyond limiter pacing.
var (
	// ErrRateLimited signals an upstream 429.
	ErrRateLimited = errors.New("riot: rate limited")

	// ErrServerError signals an upstream 5xx.
	ErrServerError = errors.New("riot: upstream server error")
)
