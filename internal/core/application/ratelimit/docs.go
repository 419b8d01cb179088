// Package ratelimit guards lifecycle-mutating operations with fixed-window
// counters kept in the ephemeral store.
//
// A window is keyed by client identity and action class. The first request
// starts the window; requests past the limit are blocked but still counted, so
// the count shows how hard a client is pushing.
//
// When the store fails the limiter lets the request through and marks the
// result Degraded. A Policy may opt into failing closed instead, which turns
// the store failure into a retryable errs.StorageError.
//
// Example:
//
//	limiter, _ := ratelimit.NewRateLimiter(store, clock, logger, ratelimit.DefaultPolicies())
//	res, err := limiter.Allow(ctx, actor.UserID(), ratelimit.ActionQuoteAccept)
//	if err != nil {
//	    return err // errs.RateLimitedError or, fail-closed only, errs.StorageError
//	}
//	w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
package ratelimit
