package errs

import (
	"context"
	"errors"
	"net/http"
)

// Machine-readable error kinds exposed to API clients.
const (
	KindValidation        = "validation_error"
	KindNotFound          = "not_found"
	KindAuthorization     = "authorization_error"
	KindInvalidTransition = "invalid_transition"
	KindExpired           = "expired"
	KindConflict          = "conflict"
	KindNoSuitableVehicle = "no_suitable_vehicle"
	KindRateLimited       = "rate_limited"
	KindUnavailable       = "unavailable"
	KindTimeout           = "timeout"
	KindCanceled          = "canceled"
	KindInternal          = "internal"
)

// Kind classifies err into one of the Kind* constants.
// An empty string is returned for a nil error.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValueIsInvalid),
		errors.Is(err, ErrValueIsOutOfRange),
		errors.Is(err, ErrValueIsRequired):
		return KindValidation
	case errors.Is(err, ErrObjectNotFound):
		return KindNotFound
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrProfileRequired):
		return KindAuthorization
	case errors.Is(err, ErrInvalidTransition):
		return KindInvalidTransition
	case errors.Is(err, ErrExpired):
		return KindExpired
	case errors.Is(err, ErrConflict), errors.Is(err, ErrConcurrentModification):
		return KindConflict
	case errors.Is(err, ErrNoSuitableVehicle):
		return KindNoSuitableVehicle
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.Is(err, ErrStorageUnavailable):
		return KindUnavailable
	default:
		return KindInternal
	}
}

// HTTPStatus maps err to the status code used by the HTTP adapter.
func HTTPStatus(err error) int {
	switch Kind(err) {
	case "":
		return http.StatusOK
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthorization:
		return http.StatusForbidden
	case KindInvalidTransition, KindConflict:
		return http.StatusConflict
	case KindExpired:
		return http.StatusGone
	case KindNoSuitableVehicle:
		return http.StatusUnprocessableEntity
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindTimeout:
		return http.StatusGatewayTimeout
	case KindCanceled:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// IsRetryable reports whether the caller may retry the same request unchanged.
func IsRetryable(err error) bool {
	switch Kind(err) {
	case KindConflict:
		// a duplicate active quote will not resolve itself by retrying
		return errors.Is(err, ErrConcurrentModification)
	case KindUnavailable, KindTimeout:
		return true
	default:
		return false
	}
}
