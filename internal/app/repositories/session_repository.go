package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/siprista/backend/internal/pkg/logger"
	"github.com/siprista/backend/internal/pkg/session"
)

// SessionRepository is the Postgres session.Store.
type SessionRepository struct {
	db  *pgxpool.Pool
	sb  squirrel.StatementBuilderType
	now func() time.Time
}

var _ session.Store = (*SessionRepository)(nil)

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{
		db:  db,
		sb:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		now: time.Now,
	}
}

// Create stores s. CreatedAt is set when empty.
func (r *SessionRepository) Create(ctx context.Context, s *session.Session) error {
	if s.ID == "" {
		s.ID = newID()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = r.now()
	}
	sql, args, err := r.sb.Insert("sessions").
		Columns("id", "account_id", "role", "created_at", "expires_at").
		Values(s.ID, s.AccountID, s.Role, s.CreatedAt, s.ExpiresAt).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create session SQL")
		return fmt.Errorf("failed to build create session query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("accountID", s.AccountID).Msg("Error executing create session query")
		return fmt.Errorf("error creating session: %w", err)
	}
	return nil
}

// Get returns the session with id, revoked or not.
func (r *SessionRepository) Get(ctx context.Context, id string) (*session.Session, error) {
	if !validID(id) {
		return nil, session.ErrNotFound
	}
	sql, args, err := r.sb.Select("id", "account_id", "role", "created_at", "expires_at", "revoked_at").
		From("sessions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get session query: %w", err)
	}

	s := &session.Session{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.AccountID, &s.Role, &s.CreatedAt, &s.ExpiresAt, &s.RevokedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, session.ErrNotFound
		}
		logger.Error().Err(err).Str("sessionID", id).Msg("Error scanning session row")
		return nil, fmt.Errorf("error retrieving session: %w", err)
	}
	return s, nil
}

// Revoke marks a session revoked. Revoking twice keeps the first timestamp.
func (r *SessionRepository) Revoke(ctx context.Context, id string) error {
	if !validID(id) {
		return session.ErrNotFound
	}
	sql, args, err := r.sb.Update("sessions").
		Set("revoked_at", squirrel.Expr("COALESCE(revoked_at, ?)", r.now())).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build revoke session query: %w", err)
	}
	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("sessionID", id).Msg("Error executing revoke session query")
		return fmt.Errorf("error revoking session: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return session.ErrNotFound
	}
	return nil
}

// DeleteExpired removes sessions past expiry, revoked ones included.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Delete("sessions").
		Where(squirrel.Lt{"expires_at": r.now()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build cleanup sessions query: %w", err)
	}
	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing cleanup sessions query")
		return 0, fmt.Errorf("error cleaning up sessions: %w", err)
	}
	deleted := cmdTag.RowsAffected()
	logger.Info().Int64("deletedCount", deleted).Msg("Cleaned up expired sessions")
	return deleted, nil
}
