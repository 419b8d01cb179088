package ratelimit_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"freight/internal/adapters/out/memorystore"
	"freight/internal/core/application/ratelimit"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)

type MockEphemeralStore struct {
	mock.Mock
}

func (m *MockEphemeralStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockEphemeralStore) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockEphemeralStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockEphemeralStore) IncrWithExpiry(ctx context.Context, key string, ttl time.Duration) (int64, time.Duration, error) {
	args := m.Called(ctx, key, ttl)
	return args.Get(0).(int64), args.Get(1).(time.Duration), args.Error(2)
}

func clock() ports.Clock {
	return ports.ClockFunc(func() time.Time { return now })
}

func newLimiter(t *testing.T, store ports.EphemeralStore, out io.Writer, policies map[ratelimit.Action]ratelimit.Policy) *ratelimit.RateLimiter {
	t.Helper()
	l, err := ratelimit.NewRateLimiter(store, clock(), slog.New(slog.NewJSONHandler(out, nil)), policies)
	require.NoError(t, err)
	return l
}

func TestCheck_SixthCallInWindowIsBlocked(t *testing.T) {
	var logs bytes.Buffer
	store := memorystore.NewStoreWithClock(func() time.Time { return now })
	l := newLimiter(t, store, &logs, ratelimit.DefaultPolicies())

	var results []ratelimit.Result
	for range 7 {
		results = append(results, l.Check(context.Background(), "ratelimit:test:u1", 5, 60*time.Second))
	}

	for i, want := range []int64{4, 3, 2, 1, 0, 0, 0} {
		assert.Equal(t, want, results[i].Remaining, "call %d", i+1)
		assert.Equal(t, int64(i+1), results[i].Count)
		assert.Equal(t, i >= 5, results[i].Blocked, "call %d", i+1)
		assert.False(t, results[i].Degraded)
		assert.False(t, results[i].ResetAt.After(now.Add(60*time.Second)))
		assert.True(t, results[i].ResetAt.After(now))
	}
	assert.Contains(t, logs.String(), `"msg":"rate limit exceeded"`)
	assert.Contains(t, logs.String(), `"count":7`)
}

func TestCheck_StoreFailureFailsOpen(t *testing.T) {
	var logs bytes.Buffer
	store := new(MockEphemeralStore)
	store.On("IncrWithExpiry", mock.Anything, "k", time.Minute).
		Return(int64(0), time.Duration(0), errs.NewStorageError("redis incr", errors.New("connection refused")))
	l := newLimiter(t, store, &logs, ratelimit.DefaultPolicies())

	res := l.Check(context.Background(), "k", 5, time.Minute)

	assert.False(t, res.Blocked)
	assert.True(t, res.Degraded)
	assert.Equal(t, int64(5), res.Remaining)
	assert.Equal(t, now.Add(time.Minute), res.ResetAt)
	assert.Contains(t, logs.String(), "rate limit store unavailable")
	store.AssertExpectations(t)
}

func TestCheck_ClampsReportedTTLToWindow(t *testing.T) {
	store := new(MockEphemeralStore)
	store.On("IncrWithExpiry", mock.Anything, "k", time.Minute).Return(int64(1), time.Duration(-1), nil)
	l := newLimiter(t, store, io.Discard, ratelimit.DefaultPolicies())

	res := l.Check(context.Background(), "k", 5, time.Minute)

	assert.Equal(t, now.Add(time.Minute), res.ResetAt)
}

func TestAllow(t *testing.T) {
	policies := ratelimit.DefaultPolicies()
	policies[ratelimit.ActionOrderCancel] = ratelimit.Policy{Limit: 2, Window: time.Minute}
	store := memorystore.NewStoreWithClock(func() time.Time { return now })
	l := newLimiter(t, store, io.Discard, policies)
	ctx := context.Background()

	for range 2 {
		_, err := l.Allow(ctx, "u1", ratelimit.ActionOrderCancel)
		require.NoError(t, err)
	}
	res, err := l.Allow(ctx, "u1", ratelimit.ActionOrderCancel)
	require.ErrorIs(t, err, errs.ErrRateLimited)
	assert.Equal(t, errs.KindRateLimited, errs.Kind(err))
	assert.Equal(t, "ratelimit:order_cancel:u1", res.Key)

	_, err = l.Allow(ctx, "u2", ratelimit.ActionOrderCancel)
	require.NoError(t, err, "windows are per identity")
	_, err = l.Allow(ctx, "u1", ratelimit.ActionOrderCreate)
	require.NoError(t, err, "windows are per action class")
}

func TestAllow_FailClosedPolicy(t *testing.T) {
	policies := ratelimit.DefaultPolicies()
	policies[ratelimit.ActionQuoteAccept] = ratelimit.Policy{Limit: 10, Window: time.Minute, FailClosed: true}
	store := new(MockEphemeralStore)
	store.On("IncrWithExpiry", mock.Anything, mock.Anything, time.Minute).
		Return(int64(0), time.Duration(0), errors.New("i/o timeout"))
	l := newLimiter(t, store, io.Discard, policies)

	res, err := l.Allow(context.Background(), "u1", ratelimit.ActionQuoteAccept)
	require.ErrorIs(t, err, errs.ErrStorageUnavailable)
	assert.True(t, errs.IsRetryable(err))
	assert.True(t, res.Degraded)

	_, err = l.Allow(context.Background(), "u1", ratelimit.ActionQuoteSubmit)
	require.NoError(t, err, "other classes still fail open")
}

func TestAllow_InvalidInput(t *testing.T) {
	l := newLimiter(t, new(MockEphemeralStore), io.Discard, ratelimit.DefaultPolicies())

	_, err := l.Allow(context.Background(), "", ratelimit.ActionPosition)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = l.Allow(context.Background(), "u1", "teleport")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewRateLimiter_ValidatesPolicies(t *testing.T) {
	policies := ratelimit.DefaultPolicies()
	policies[ratelimit.ActionPosition] = ratelimit.Policy{Limit: 0, Window: time.Minute}
	delete(policies, ratelimit.ActionOrderCreate)

	_, err := ratelimit.NewRateLimiter(new(MockEphemeralStore), clock(), slog.Default(), policies)

	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
