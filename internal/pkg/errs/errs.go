package errs

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrObjectNotFound         = errors.New("object not found")
	ErrValueIsInvalid         = errors.New("value is invalid")
	ErrValueIsOutOfRange      = errors.New("value is out of range")
	ErrValueIsRequired        = errors.New("value is required")
	ErrUnauthorized           = errors.New("action is not authorized")
	ErrProfileRequired        = errors.New("profile is required")
	ErrInvalidTransition      = errors.New("invalid transition")
	ErrExpired                = errors.New("validity window elapsed")
	ErrConflict               = errors.New("conflict")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrNoSuitableVehicle      = errors.New("no suitable vehicle")
	ErrRateLimited            = errors.New("rate limited")
	ErrStorageUnavailable     = errors.New("storage unavailable")
)

// ObjectNotFoundError reports a referenced object that does not exist.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %v)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError reports a malformed value.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError reports a value outside of [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value any, minValue any, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string, value any, minValue any, maxValue any, cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, sanitize(e.Value), e.ParamName, sanitize(e.Min), sanitize(e.Max))
	if e.Cause != nil {
		msg += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError reports a missing value.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// AuthorizationError reports an actor lacking the relationship required for an action.
type AuthorizationError struct {
	Actor  string
	Action string
	Reason string
}

func NewAuthorizationError(actor string, action string, reason string) *AuthorizationError {
	return &AuthorizationError{Actor: actor, Action: action, Reason: reason}
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s: %s may not %s: %s", ErrUnauthorized, e.Actor, e.Action, e.Reason)
}

func (e *AuthorizationError) Unwrap() error {
	return ErrUnauthorized
}

// ProfileRequiredError reports an authenticated user with no matching shipper or carrier profile.
type ProfileRequiredError struct {
	UserID  string
	Profile string
}

func NewProfileRequiredError(userID string, profile string) *ProfileRequiredError {
	return &ProfileRequiredError{UserID: userID, Profile: profile}
}

func (e *ProfileRequiredError) Error() string {
	return fmt.Sprintf("%s: user %s has no %s profile", ErrProfileRequired, e.UserID, e.Profile)
}

func (e *ProfileRequiredError) Unwrap() error {
	return ErrProfileRequired
}

// InvalidTransitionError reports a state machine guard failure.
type InvalidTransitionError struct {
	Entity  string
	Current string
	Action  string
	Reason  string
}

func NewInvalidTransitionError(entity string, current string, action string) *InvalidTransitionError {
	return &InvalidTransitionError{Entity: entity, Current: current, Action: action}
}

func NewInvalidTransitionErrorWithReason(
	entity string, current string, action string, reason string,
) *InvalidTransitionError {
	return &InvalidTransitionError{Entity: entity, Current: current, Action: action, Reason: reason}
}

func (e *InvalidTransitionError) Error() string {
	msg := fmt.Sprintf("%s: %s in status %s cannot %s", ErrInvalidTransition, e.Entity, e.Current, e.Action)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ExpiredError reports an elapsed validity window.
type ExpiredError struct {
	ParamName string
	ID        any
	ExpiredAt time.Time
}

func NewExpiredError(paramName string, id any, expiredAt time.Time) *ExpiredError {
	return &ExpiredError{ParamName: paramName, ID: id, ExpiredAt: expiredAt}
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("%s: %s %s expired at %s",
		ErrExpired, e.ParamName, e.ID, e.ExpiredAt.UTC().Format(time.RFC3339))
}

func (e *ExpiredError) Unwrap() error {
	return ErrExpired
}

// ConflictError reports a state conflict such as a duplicate active object.
type ConflictError struct {
	ParamName string
	Reason    string
	Cause     error
}

func NewConflictError(paramName string, reason string) *ConflictError {
	return &ConflictError{ParamName: paramName, Reason: reason}
}

func NewConflictErrorWithCause(paramName string, reason string, cause error) *ConflictError {
	return &ConflictError{ParamName: paramName, Reason: reason, Cause: cause}
}

func (e *ConflictError) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", ErrConflict, e.ParamName, e.Reason)
	if e.Cause != nil {
		msg += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return msg
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// ConcurrentModificationError reports a failed compare-and-swap write.
type ConcurrentModificationError struct {
	Entity          string
	ID              any
	ExpectedVersion int64
}

func NewConcurrentModificationError(entity string, id any, expectedVersion int64) *ConcurrentModificationError {
	return &ConcurrentModificationError{Entity: entity, ID: id, ExpectedVersion: expectedVersion}
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("%s: %s %s is no longer at version %d",
		ErrConcurrentModification, e.Entity, e.ID, e.ExpectedVersion)
}

func (e *ConcurrentModificationError) Unwrap() error {
	return ErrConcurrentModification
}

// NoSuitableVehicleError reports an auto-quote that found no matching vehicle.
type NoSuitableVehicleError struct {
	WeightKg  float64
	GoodsType string
}

func NewNoSuitableVehicleError(weightKg float64, goodsType string) *NoSuitableVehicleError {
	return &NoSuitableVehicleError{WeightKg: weightKg, GoodsType: goodsType}
}

func (e *NoSuitableVehicleError) Error() string {
	return fmt.Sprintf("%s: need capacity %.2f kg for goods type %q", ErrNoSuitableVehicle, e.WeightKg, e.GoodsType)
}

func (e *NoSuitableVehicleError) Unwrap() error {
	return ErrNoSuitableVehicle
}

// RateLimitedError reports a request blocked by the rate limiter.
type RateLimitedError struct {
	Key     string
	Count   int64
	ResetAt time.Time
}

func NewRateLimitedError(key string, count int64, resetAt time.Time) *RateLimitedError {
	return &RateLimitedError{Key: key, Count: count, ResetAt: resetAt}
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s: %s reached %d requests, retry after %s",
		ErrRateLimited, e.Key, e.Count, e.ResetAt.UTC().Format(time.RFC3339))
}

func (e *RateLimitedError) Unwrap() error {
	return ErrRateLimited
}

// StorageError wraps a backing-store failure. It is always retryable.
type StorageError struct {
	Operation string
	Cause     error
}

func NewStorageError(operation string, cause error) *StorageError {
	return &StorageError{Operation: operation, Cause: cause}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s (cause: %v)", ErrStorageUnavailable, e.Operation, e.Cause)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorageUnavailable, e.Cause}
}

func sanitize(v any) any {
	if s, ok := v.(string); ok {
		return strings.ReplaceAll(s, "\n", " ")
	}
	return v
}
