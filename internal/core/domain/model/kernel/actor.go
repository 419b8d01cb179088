package kernel

import (
	"freight/internal/pkg/errs"
)

// Role is the marketplace profile an actor acts under.
type Role string

const (
	RoleShipper Role = "expediteur"
	RoleCarrier Role = "transporteur"
	RoleAdmin   Role = "admin"
)

// Actor is a caller resolved to a profile. ProfileID references the shipper or
// carrier profile; it is zero for administrators and for the system itself.
type Actor struct {
	userID    string
	profileID UUID
	role      Role
}

// NewActor builds an actor. Shippers and carriers need a profile id.
func NewActor(userID string, profileID UUID, role Role) (Actor, error) {
	if userID == "" {
		return Actor{}, errs.NewValueIsRequiredError("userID")
	}
	switch role {
	case RoleShipper, RoleCarrier:
		if err := profileID.Validate(); err != nil {
			return Actor{}, errs.NewValueIsRequiredErrorWithCause("profileID", err)
		}
	case RoleAdmin:
	default:
		return Actor{}, errs.NewValueIsInvalidError("role")
	}
	return Actor{userID: userID, profileID: profileID, role: role}, nil
}

// SystemActor represents scheduled jobs and internal callers. It has admin rights.
func SystemActor() Actor {
	return Actor{userID: "system", role: RoleAdmin}
}

func (a Actor) UserID() string {
	return a.userID
}

func (a Actor) ProfileID() UUID {
	return a.profileID
}

func (a Actor) Role() Role {
	return a.role
}

func (a Actor) IsShipper() bool {
	return a.role == RoleShipper
}

func (a Actor) IsCarrier() bool {
	return a.role == RoleCarrier
}

func (a Actor) IsAdmin() bool {
	return a.role == RoleAdmin
}

// String renders the actor for error messages and logs.
func (a Actor) String() string {
	if a.profileID.IsZero() {
		return string(a.role) + ":" + a.userID
	}
	return string(a.role) + ":" + a.profileID.String()
}
