package rate

import "errors"

var (
	// ErrRateLimited is returned once the failure budget is spent.
	ErrRateLimited = errors.New("rate limited")
	// ErrRedisUnavailable wraps Redis transport failures.
	ErrRedisUnavailable = errors.New("redis unavailable")
)
