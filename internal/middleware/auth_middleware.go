package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	authz "github.com/siprista/backend/internal/app/auth"
	"github.com/siprista/backend/internal/app/models"
	"github.com/siprista/backend/internal/pkg/apperrors"
	"github.com/siprista/backend/internal/pkg/auth"
	"github.com/siprista/backend/internal/pkg/logger"
)

// IdentityKey is the gin context key holding the resolved authz.Identity.
const IdentityKey = "identity"

var errMissingToken = &apperrors.CustomError{Err: apperrors.ErrUnauthorized, Message: "Token tidak ditemukan", Code: "AUTH_TOKEN_MISSING"}

// IdentityResolver turns a bearer token into the identity of a live session.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (authz.Identity, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	resolver IdentityResolver
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(resolver IdentityResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// JWTAuth requires a valid token for a live session.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := tokenFromRequest(c)
		if !ok {
			abortWithError(c, errMissingToken)
			return
		}
		if !m.authenticate(c, token) {
			return
		}
		c.Next()
	}
}

// OptionalAuth resolves a token when one is sent and passes anonymous requests through.
// A token that is sent but invalid is still rejected.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := tokenFromRequest(c)
		if ok && !m.authenticate(c, token) {
			return
		}
		c.Next()
	}
}

// RoleRequired middleware to check if the identity has one of roles
func (m *AuthMiddleware) RoleRequired(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := GetIdentity(c)
		if !ok {
			abortWithError(c, authz.ErrMissingIdentity)
			return
		}
		if err := authz.RequireRole(id, roles...); err != nil {
			abortWithError(c, err)
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context, token string) bool {
	ctx := c.Request.Context()
	id, err := m.resolver.Resolve(ctx, token)
	if err != nil {
		abortWithError(c, err)
		return false
	}

	l := logger.Ctx(ctx).With().Str("accountID", id.AccountID).Str("role", string(id.Role)).Logger()
	ctx = logger.WithContext(authz.WithIdentity(ctx, id), l)
	c.Request = c.Request.WithContext(ctx)
	c.Set(IdentityKey, id)
	return true
}

// GetIdentity returns the identity placed by JWTAuth or OptionalAuth.
func GetIdentity(c *gin.Context) (authz.Identity, bool) {
	if v, ok := c.Get(IdentityKey); ok {
		if id, ok := v.(authz.Identity); ok {
			return id, true
		}
	}
	return authz.FromContext(c.Request.Context())
}

// tokenFromRequest reads the Authorization header, falling back to the token query
// parameter used by websocket clients.
func tokenFromRequest(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		header = c.Query("token")
	}
	if header == "" {
		return "", false
	}
	token, err := auth.ExtractBearerToken(header)
	if err != nil {
		// Present but malformed; let the resolver reject it.
		return header, true
	}
	return token, true
}
