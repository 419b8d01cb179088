package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

const keyPrefix = "ratelimit:"

// Result describes the window after the current request was counted.
type Result struct {
	Key       string
	Count     int64
	Limit     int64
	Remaining int64
	ResetAt   time.Time
	Blocked   bool
	// Degraded is set when the store failed and the request was let through.
	Degraded bool
}

type RateLimiter struct {
	store    ports.EphemeralStore
	clock    ports.Clock
	logger   *slog.Logger
	policies map[Action]Policy
}

func NewRateLimiter(
	store ports.EphemeralStore,
	clock ports.Clock,
	logger *slog.Logger,
	policies map[Action]Policy,
) (*RateLimiter, error) {
	if err := validatePolicies(policies); err != nil {
		return nil, err
	}
	return &RateLimiter{
		store:    store,
		clock:    clock,
		logger:   logger.With("component", "rate_limiter"),
		policies: maps.Clone(policies),
	}, nil
}

// Key builds the window key of identity for action.
func Key(identity string, action Action) string {
	return fmt.Sprintf("%s%s:%s", keyPrefix, action, identity)
}

// Policy returns the configured window of action.
func (l *RateLimiter) Policy(action Action) (Policy, bool) {
	p, ok := l.policies[action]
	return p, ok
}

// Check counts one request against key. It never fails: a store error yields
// a Degraded, unblocked result.
func (l *RateLimiter) Check(ctx context.Context, key string, limit int64, window time.Duration) Result {
	now := l.clock.Now()

	count, ttl, err := l.store.IncrWithExpiry(ctx, key, window)
	if err != nil {
		l.logger.WarnContext(ctx, "rate limit store unavailable, letting request through",
			"key", key, "error", err)
		return Result{
			Key:       key,
			Limit:     limit,
			Remaining: limit,
			ResetAt:   now.Add(window),
			Degraded:  true,
		}
	}
	if ttl <= 0 || ttl > window {
		ttl = window
	}

	res := Result{
		Key:       key,
		Count:     count,
		Limit:     limit,
		Remaining: max(limit-count, 0),
		ResetAt:   now.Add(ttl),
		Blocked:   count > limit,
	}
	if res.Blocked {
		l.logger.WarnContext(ctx, "rate limit exceeded", "key", key, "count", count, "limit", limit)
	}
	return res
}

// Allow applies the policy of action to identity. A blocked request fails with
// errs.RateLimitedError. A store failure fails with errs.StorageError only
// under a fail-closed policy.
func (l *RateLimiter) Allow(ctx context.Context, identity string, action Action) (Result, error) {
	if identity == "" {
		return Result{}, errs.NewValueIsRequiredError("identity")
	}
	p, ok := l.policies[action]
	if !ok {
		return Result{}, errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%q has no policy", action))
	}

	res := l.Check(ctx, Key(identity, action), p.Limit, p.Window)
	switch {
	case res.Degraded && p.FailClosed:
		return res, errs.NewStorageError("rate limit "+string(action), fmt.Errorf("window %s unavailable", res.Key))
	case res.Blocked:
		return res, errs.NewRateLimitedError(res.Key, res.Count, res.ResetAt)
	}
	return res, nil
}
