package ports

import (
	"context"

	"freight/internal/core/domain/model/kernel"
)

// Profile links an authenticated user to a shipper or carrier profile.
type Profile struct {
	ID     kernel.UUID
	UserID string
	Role   kernel.Role
}

// ProfileRepository looks up the marketplace profiles owned by a user.
type ProfileRepository interface {
	// FindByUser returns the user's profiles, shipper first. An empty slice
	// means the user has no marketplace profile.
	FindByUser(ctx context.Context, userID string) ([]Profile, error)
}

// IdentityResolver turns an authenticated user id into the acting profile.
// It fails with errs.ProfileRequiredError when the user has no matching profile.
type IdentityResolver interface {
	Resolve(ctx context.Context, userID string, preferred kernel.Role) (kernel.Actor, error)
}
