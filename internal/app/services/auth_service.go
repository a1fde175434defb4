package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	authz "github.com/siprista/backend/internal/app/auth"
	"github.com/siprista/backend/internal/app/models"
	"github.com/siprista/backend/internal/app/models/dto"
	"github.com/siprista/backend/internal/app/repositories"
	"github.com/siprista/backend/internal/pkg/apperrors"
	"github.com/siprista/backend/internal/pkg/auth"
	"github.com/siprista/backend/internal/pkg/helpers"
	"github.com/siprista/backend/internal/pkg/session"
)

// LoginMessage is returned with every successful login
const LoginMessage = "Login berhasil"

var errLoginFieldsRequired = apperrors.NewValidationError("Email, password, dan role harus diisi")

// AuthService verifies credentials and manages the sessions minted for them
type AuthService struct {
	accounts   AccountStore
	sessions   session.Store
	jwtService *auth.JWTService
	clock      helpers.Clock
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	accounts AccountStore,
	sessions session.Store,
	jwtService *auth.JWTService,
	clock helpers.Clock,
	logger zerolog.Logger,
) *AuthService {
	if clock == nil {
		clock = helpers.SystemClock
	}
	return &AuthService{
		accounts:   accounts,
		sessions:   sessions,
		jwtService: jwtService,
		clock:      clock,
		logger:     logger,
	}
}

// Login verifies email, password and the claimed role, in that order.
// The returned account has no password hash.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*models.Account, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" || strings.TrimSpace(req.Role) == "" {
		return nil, errLoginFieldsRequired
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if !auth.CheckPassword(account.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if account.Role != models.NormalizeRole(req.Role) {
		return nil, apperrors.ErrRoleMismatch
	}

	sanitized := account.Sanitized()
	return &sanitized, nil
}

// StartSession mints a session and its token for a verified account.
func (s *AuthService) StartSession(ctx context.Context, account *models.Account) (*dto.LoginResponse, error) {
	now := s.clock()
	sess := &session.Session{
		ID:        newSessionID(),
		AccountID: account.ID,
		Role:      string(account.Role),
		CreatedAt: now,
		ExpiresAt: now.Add(s.jwtService.TTL()),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	token, err := s.jwtService.GenerateToken(auth.TokenSubject{
		AccountID: account.ID,
		Email:     account.Email,
		Role:      string(account.Role),
		SessionID: sess.ID,
	}, sess.ExpiresAt)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("accountID", account.ID).Str("role", string(account.Role)).Msg("Session started")
	return &dto.LoginResponse{
		Message:   LoginMessage,
		User:      *account,
		Token:     token,
		ExpiresAt: sess.ExpiresAt,
	}, nil
}

// Authenticate runs Login and StartSession.
func (s *AuthService) Authenticate(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	account, err := s.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.StartSession(ctx, account)
}

// Resolve turns a bearer token into the identity of a live session.
func (s *AuthService) Resolve(ctx context.Context, token string) (authz.Identity, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return authz.Identity{}, apperrors.ErrTokenExpired
		}
		return authz.Identity{}, apperrors.ErrTokenInvalid
	}

	sess, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return authz.Identity{}, apperrors.ErrSessionNotFound
		}
		return authz.Identity{}, fmt.Errorf("failed to load session: %w", err)
	}
	if sess.AccountID != claims.AccountID {
		return authz.Identity{}, apperrors.ErrTokenInvalid
	}
	switch err := sess.Check(s.clock()); {
	case errors.Is(err, session.ErrRevoked):
		return authz.Identity{}, apperrors.ErrSessionRevoked
	case errors.Is(err, session.ErrExpired):
		return authz.Identity{}, apperrors.ErrTokenExpired
	}

	return authz.Identity{
		AccountID: claims.AccountID,
		Email:     claims.Email,
		Role:      models.Role(sess.Role),
		SessionID: sess.ID,
		ExpiresAt: sess.ExpiresAt,
	}, nil
}

// Logout revokes the session of id. Revoking an already gone session is not an error.
func (s *AuthService) Logout(ctx context.Context, id authz.Identity) error {
	if err := s.sessions.Revoke(ctx, id.SessionID); err != nil && !errors.Is(err, session.ErrNotFound) {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	s.logger.Info().Str("accountID", id.AccountID).Msg("Session revoked")
	return nil
}

// Me returns the account behind id without its password hash.
func (s *AuthService) Me(ctx context.Context, id authz.Identity) (*models.Account, error) {
	account, err := s.accounts.GetByID(ctx, id.AccountID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	sanitized := account.Sanitized()
	return &sanitized, nil
}

// PurgeExpiredSessions removes sessions past expiry.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx)
}

func newSessionID() string {
	return uuid.NewString()
}
