package domain

import "errors"

var (
	// ErrValidation is returned when request parameters are missing or invalid
	ErrValidation = errors.New("invalid request parameters")

	// ErrNotFound is returned when none of the requested products exist
	ErrNotFound = errors.New("no products found")

	// ErrMalformedRecord marks a recalculation result that cannot be used as a match key
	ErrMalformedRecord = errors.New("malformed recalculation record")

	// ErrNoPlatforms is returned when there is nothing to rank
	ErrNoPlatforms = errors.New("no platforms to rank")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrRecalcUnavailable is returned when the recalculation backend request fails
	ErrRecalcUnavailable = errors.New("recalculation backend request failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrUnknownPincode is returned when a pincode has no known coordinates
	ErrUnknownPincode = errors.New("unknown pincode")

	// ErrEstimatorUnavailable is returned when a carbon estimator cannot produce a value
	ErrEstimatorUnavailable = errors.New("carbon estimator unavailable")
)
