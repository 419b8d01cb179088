package errs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("userId", "123")

		assert.Equal(t, "userId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("userId", "123", cause)

		assert.Equal(t, "userId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: userId, ID is: 123 (cause: database connection failed)",
			err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("Error with different ID types", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("orderId", 456)
		assert.Equal(t, "object not found: %!s(int=456)", err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("email")

		assert.Equal(t, "email", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: email", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("invalid format")
		err := errs.NewValueIsInvalidErrorWithCause("email", cause)

		assert.Equal(t, "email", err.ParamName)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: email (cause: invalid format)", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("NewValueIsOutOfRangeError", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("age", 150, 0, 120)

		assert.Equal(t, "age", err.ParamName)
		assert.Equal(t, 150, err.Value)
		assert.Equal(t, 0, err.Min)
		assert.Equal(t, 120, err.Max)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: 150 is age, min value is 0, max value is 120", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("NewValueIsOutOfRangeErrorWithCause", func(t *testing.T) {
		cause := errors.New("validation failed")
		err := errs.NewValueIsOutOfRangeErrorWithCause("score", -5, 0, 100, cause)

		assert.Equal(t, "score", err.ParamName)
		assert.Equal(t, -5, err.Value)
		assert.Equal(t, 0, err.Min)
		assert.Equal(t, 100, err.Max)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"value is invalid: -5 is score, min value is 0, max value is 100 (cause: validation failed)",
			err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("sanitize function with newlines", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("text", "hello\nworld", 0, 10)
		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	t.Run("NewValueIsRequiredError", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("username")

		assert.Equal(t, "username", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is required: username", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})

	t.Run("NewValueIsRequiredErrorWithCause", func(t *testing.T) {
		cause := errors.New("missing required field")
		err := errs.NewValueIsRequiredErrorWithCause("username", cause)

		assert.Equal(t, "username", err.ParamName)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is required: username (cause: missing required field)", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})
}

func TestSentinelErrors(t *testing.T) {
	t.Run("sentinel errors are defined", func(t *testing.T) {
		require.Error(t, errs.ErrObjectNotFound)
		require.Error(t, errs.ErrValueIsInvalid)
		require.Error(t, errs.ErrValueIsOutOfRange)
		require.Error(t, errs.ErrValueIsRequired)
		require.Error(t, errs.ErrInvalidTransition)
		require.Error(t, errs.ErrConcurrentModification)
	})

	t.Run("error messages match expectations", func(t *testing.T) {
		assert.Equal(t, "object not found", errs.ErrObjectNotFound.Error())
		assert.Equal(t, "value is invalid", errs.ErrValueIsInvalid.Error())
		assert.Equal(t, "value is out of range", errs.ErrValueIsOutOfRange.Error())
		assert.Equal(t, "value is required", errs.ErrValueIsRequired.Error())
		assert.Equal(t, "invalid transition", errs.ErrInvalidTransition.Error())
		assert.Equal(t, "concurrent modification", errs.ErrConcurrentModification.Error())
	})
}

func TestErrorsCanBeUnwrapped(t *testing.T) {
	t.Run("errors.Is works with custom errors", func(t *testing.T) {
		objectNotFoundErr := errs.NewObjectNotFoundError("userId", "123")
		require.ErrorIs(t, objectNotFoundErr, errs.ErrObjectNotFound)

		valueInvalidErr := errs.NewValueIsInvalidError("email")
		require.ErrorIs(t, valueInvalidErr, errs.ErrValueIsInvalid)

		valueOutOfRangeErr := errs.NewValueIsOutOfRangeError("age", 150, 0, 120)
		require.ErrorIs(t, valueOutOfRangeErr, errs.ErrValueIsOutOfRange)

		valueRequiredErr := errs.NewValueIsRequiredError("username")
		require.ErrorIs(t, valueRequiredErr, errs.ErrValueIsRequired)

		transitionErr := errs.NewInvalidTransitionError("order", "DEMANDE", "start transport")
		require.ErrorIs(t, transitionErr, errs.ErrInvalidTransition)

		storageErr := errs.NewStorageError("update order", context.DeadlineExceeded)
		require.ErrorIs(t, storageErr, errs.ErrStorageUnavailable)
		require.ErrorIs(t, storageErr, context.DeadlineExceeded)
	})
}

func TestInvalidTransitionError(t *testing.T) {
	t.Run("names current state and requested action", func(t *testing.T) {
		err := errs.NewInvalidTransitionError("order", "LIVRE", "start transport")

		assert.Equal(t, "invalid transition: order in status LIVRE cannot start transport", err.Error())
		assert.Equal(t, errs.ErrInvalidTransition, err.Unwrap())
	})

	t.Run("appends guard reason", func(t *testing.T) {
		err := errs.NewInvalidTransitionErrorWithReason("order", "CONFIRME", "start transport", "no vehicle assigned")

		assert.Equal(t,
			"invalid transition: order in status CONFIRME cannot start transport: no vehicle assigned",
			err.Error())
	})
}

func TestExpiredError(t *testing.T) {
	expiredAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	err := errs.NewExpiredError("quote", "DEV-1", expiredAt)

	assert.Equal(t, "validity window elapsed: quote DEV-1 expired at 2026-01-02T03:04:05Z", err.Error())
	assert.Equal(t, errs.ErrExpired, err.Unwrap())
}

func TestConcurrentModificationError(t *testing.T) {
	err := errs.NewConcurrentModificationError("order", "abc", 3)

	assert.Equal(t, "concurrent modification: order abc is no longer at version 3", err.Error())
	require.ErrorIs(t, err, errs.ErrConcurrentModification)
}

func TestConflictError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewConflictError("quote", "carrier already has an active quote")
		assert.Equal(t, "conflict: quote: carrier already has an active quote", err.Error())
		assert.Equal(t, errs.ErrConflict, err.Unwrap())
	})

	t.Run("with cause", func(t *testing.T) {
		err := errs.NewConflictErrorWithCause("quote", "duplicate", errors.New("unique violation"))
		assert.Equal(t, "conflict: quote: duplicate (cause: unique violation)", err.Error())
	})
}

func TestRateLimitedError(t *testing.T) {
	resetAt := time.Date(2026, 1, 1, 0, 1, 0, 0, time.UTC)
	err := errs.NewRateLimitedError("user:quote_accept", 6, resetAt)

	assert.Equal(t, "rate limited: user:quote_accept reached 6 requests, retry after 2026-01-01T00:01:00Z", err.Error())
	require.ErrorIs(t, err, errs.ErrRateLimited)
}

func TestAuthorizationErrors(t *testing.T) {
	t.Run("authorization", func(t *testing.T) {
		err := errs.NewAuthorizationError("carrier 1", "start transport", "not the assigned carrier")
		assert.Equal(t, "action is not authorized: carrier 1 may not start transport: not the assigned carrier", err.Error())
		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("profile required", func(t *testing.T) {
		err := errs.NewProfileRequiredError("u-1", "shipper")
		assert.Equal(t, "profile is required: user u-1 has no shipper profile", err.Error())
		require.ErrorIs(t, err, errs.ErrProfileRequired)
	})
}
