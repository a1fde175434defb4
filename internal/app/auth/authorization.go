// Package auth carries the authenticated identity through a request and holds
// the rules deciding what that identity may do.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/siprista/backend/internal/app/models"
	"github.com/siprista/backend/internal/pkg/apperrors"
)

// Authorization errors. Both map to 403.
var (
	ErrAdminOnly       = apperrors.NewForbiddenError("Hanya admin yang dapat melakukan aksi ini")
	ErrNotOwner        = apperrors.NewForbiddenError("Anda hanya dapat mengubah prestasi yang Anda catat")
	ErrRoleNotAllowed  = apperrors.NewForbiddenError("Role tidak diizinkan")
	ErrMissingIdentity = &apperrors.CustomError{Err: apperrors.ErrUnauthorized, Message: "Silakan login terlebih dahulu", Code: "AUTH_REQUIRED"}
)

// Identity is the account a request acts for, resolved from a live session.
type Identity struct {
	AccountID string      `json:"accountId"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	SessionID string      `json:"sessionId"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// IsAdmin reports whether the identity has the ADMIN role
func (i Identity) IsAdmin() bool { return i.Role == models.RoleAdmin }

// IsGuru reports whether the identity has the GURU role
func (i Identity) IsGuru() bool { return i.Role == models.RoleGuru }

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity stored by WithIdentity.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// MustFromContext returns the identity or ErrMissingIdentity.
func MustFromContext(ctx context.Context) (Identity, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return Identity{}, ErrMissingIdentity
	}
	return id, nil
}

// RequireRole returns a Forbidden error unless id has one of roles.
func RequireRole(id Identity, roles ...models.Role) error {
	for _, r := range roles {
		if id.Role == r {
			return nil
		}
	}
	if len(roles) == 1 && roles[0] == models.RoleAdmin {
		return ErrAdminOnly
	}
	return ErrRoleNotAllowed
}

// AchievementGetter loads an achievement for an ownership check.
type AchievementGetter interface {
	GetByID(ctx context.Context, id string) (*models.Achievement, error)
}

// AuthorizationService handles the ownership rules that need stored data
type AuthorizationService struct {
	achievements AchievementGetter
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(achievements AchievementGetter) *AuthorizationService {
	return &AuthorizationService{achievements: achievements}
}

// CanModifyAchievement reports whether id may update or delete a.
// Admins may modify any achievement; a guru only the ones they recorded.
func CanModifyAchievement(id Identity, a *models.Achievement) bool {
	if id.IsAdmin() {
		return true
	}
	return id.IsGuru() && a != nil && a.GuruID == id.AccountID
}

// ValidateAchievementOwnership loads the achievement and returns ErrNotOwner when id may not modify it.
// A missing achievement is returned as the getter's error.
func (s *AuthorizationService) ValidateAchievementOwnership(ctx context.Context, id Identity, achievementID string) (*models.Achievement, error) {
	a, err := s.achievements.GetByID(ctx, achievementID)
	if err != nil {
		return nil, err
	}
	if !CanModifyAchievement(id, a) {
		return nil, ErrNotOwner
	}
	return a, nil
}

// RecordingGuru returns the guru id an achievement is recorded under: a guru always
// records under their own id, an admin under the requested one.
func RecordingGuru(id Identity, requested string) string {
	if id.IsGuru() {
		return id.AccountID
	}
	return requested
}

// ListGuruScope returns the guruId filter forced onto a non-public achievement list.
// Gurus only see their own records; admins see whatever they asked for.
func ListGuruScope(id Identity, requested string) string {
	if id.IsGuru() {
		return id.AccountID
	}
	return requested
}

// IsForbidden reports whether err is an authorization failure.
func IsForbidden(err error) bool {
	return errors.Is(err, apperrors.ErrPermissionDenied)
}
