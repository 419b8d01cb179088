// Package errs provides standardized error types for the freight marketplace.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes error types for the following scenarios:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: malformed input
//   - ObjectNotFoundError: a referenced order, quote, address or vehicle is absent
//   - AuthorizationError, ProfileRequiredError: the actor lacks a profile or relationship
//   - InvalidTransitionError: a lifecycle guard failed
//   - ExpiredError: a quote validity window elapsed
//   - ConflictError, ConcurrentModificationError: duplicates and lost compare-and-swap writes
//   - NoSuitableVehicleError: automatic pricing found no matching vehicle
//   - RateLimitedError: the request was blocked by the rate limiter
//   - StorageError: a backing store failed; always retryable
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// Kind and HTTPStatus classify any error chain into a machine-readable kind and
// a transport status, so lifecycle failures reach callers verbatim instead of
// being downgraded to a generic failure.
package errs
