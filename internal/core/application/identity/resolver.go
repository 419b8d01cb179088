// Package identity resolves authenticated users to the marketplace profile
// they act under.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

const DefaultCacheTTL = 5 * time.Minute

// CacheKey is the ephemeral store key of a user's cached profiles.
func CacheKey(userID string) string {
	return "profile:" + userID
}

type cachedProfile struct {
	ID   string      `json:"id"`
	Role kernel.Role `json:"role"`
}

// Resolver implements ports.IdentityResolver. Profiles are cached in the
// ephemeral store for cacheTTL; cache failures fall back to the repository.
// Users listed as admins act as kernel.RoleAdmin without a profile.
type Resolver struct {
	profiles ports.ProfileRepository
	cache    ports.EphemeralStore
	admins   map[string]struct{}
	cacheTTL time.Duration
	logger   *slog.Logger
}

func NewResolver(
	profiles ports.ProfileRepository,
	cache ports.EphemeralStore,
	admins []string,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *Resolver {
	set := make(map[string]struct{}, len(admins))
	for _, a := range admins {
		if a != "" {
			set[a] = struct{}{}
		}
	}
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &Resolver{
		profiles: profiles,
		cache:    cache,
		admins:   set,
		cacheTTL: cacheTTL,
		logger:   logger.With("component", "identity_resolver"),
	}
}

// Resolve picks the profile matching preferred. An empty preferred role takes
// the admin role for admins and otherwise the user's first profile, shipper
// first.
func (r *Resolver) Resolve(ctx context.Context, userID string, preferred kernel.Role) (kernel.Actor, error) {
	if userID == "" {
		return kernel.Actor{}, errs.NewValueIsRequiredError("userID")
	}

	_, isAdmin := r.admins[userID]
	switch preferred {
	case kernel.RoleAdmin:
		if !isAdmin {
			return kernel.Actor{}, errs.NewProfileRequiredError(userID, string(kernel.RoleAdmin))
		}
		return kernel.NewActor(userID, kernel.UUID{}, kernel.RoleAdmin)
	case "":
		if isAdmin {
			return kernel.NewActor(userID, kernel.UUID{}, kernel.RoleAdmin)
		}
	case kernel.RoleShipper, kernel.RoleCarrier:
	default:
		return kernel.Actor{}, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("unknown role %q", preferred))
	}

	profiles, err := r.load(ctx, userID)
	if err != nil {
		return kernel.Actor{}, err
	}
	for _, p := range profiles {
		if preferred == "" || p.Role == preferred {
			return kernel.NewActor(userID, p.ID, p.Role)
		}
	}

	wanted := string(preferred)
	if wanted == "" {
		wanted = fmt.Sprintf("%s or %s", kernel.RoleShipper, kernel.RoleCarrier)
	}
	return kernel.Actor{}, errs.NewProfileRequiredError(userID, wanted)
}

// Forget drops the cached profiles of userID, typically after a profile change.
func (r *Resolver) Forget(ctx context.Context, userID string) error {
	return r.cache.Delete(ctx, CacheKey(userID))
}

func (r *Resolver) load(ctx context.Context, userID string) ([]ports.Profile, error) {
	if profiles, ok := r.fromCache(ctx, userID); ok {
		return profiles, nil
	}

	profiles, err := r.profiles.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(profiles) > 0 {
		r.toCache(ctx, userID, profiles)
	}
	return profiles, nil
}

func (r *Resolver) fromCache(ctx context.Context, userID string) ([]ports.Profile, bool) {
	raw, ok, err := r.cache.Get(ctx, CacheKey(userID))
	if err != nil {
		r.logger.WarnContext(ctx, "profile cache read failed", "user_id", userID, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var cached []cachedProfile
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		r.logger.WarnContext(ctx, "dropping unreadable cached profile", "user_id", userID, "error", err)
		return nil, false
	}
	profiles := make([]ports.Profile, 0, len(cached))
	for _, c := range cached {
		id, err := kernel.UUIDFromString(c.ID)
		if err != nil {
			return nil, false
		}
		profiles = append(profiles, ports.Profile{ID: id, UserID: userID, Role: c.Role})
	}
	return profiles, true
}

func (r *Resolver) toCache(ctx context.Context, userID string, profiles []ports.Profile) {
	cached := make([]cachedProfile, 0, len(profiles))
	for _, p := range profiles {
		cached = append(cached, cachedProfile{ID: p.ID.String(), Role: p.Role})
	}
	raw, err := json.Marshal(cached)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, CacheKey(userID), string(raw), r.cacheTTL); err != nil {
		r.logger.WarnContext(ctx, "profile cache write failed", "user_id", userID, "error", err)
	}
}
