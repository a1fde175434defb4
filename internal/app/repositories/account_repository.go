package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/siprista/backend/internal/app/models"
	"github.com/siprista/backend/internal/pkg/dberrors"
	"github.com/siprista/backend/internal/pkg/helpers"
	"github.com/siprista/backend/internal/pkg/logger"
)

// AccountFilter narrows account lists
type AccountFilter struct {
	Role   models.Role // empty means every role
	Search string      // matches name, email or nip
}

// AccountRepository handles account (admin and guru) database operations
type AccountRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var accountColumns = []string{
	"u.id", "u.email", "u.name", "u.nip", "u.password", "u.role", "u.created_at", "u.updated_at",
}

func scanAccount(row pgx.Row, a *models.Account, extra ...interface{}) error {
	dest := append([]interface{}{&a.ID, &a.Email, &a.Name, &a.NIP, &a.Password, &a.Role, &a.CreatedAt, &a.UpdatedAt}, extra...)
	return row.Scan(dest...)
}

func (f AccountFilter) where() squirrel.Sqlizer {
	cond := squirrel.And{}
	if f.Role != "" {
		cond = append(cond, squirrel.Eq{"u.role": f.Role})
	}
	if f.Search != "" {
		p := helpers.LikePattern(f.Search)
		cond = append(cond, squirrel.Or{
			squirrel.ILike{"u.name": p},
			squirrel.ILike{"u.email": p},
			squirrel.ILike{"u.nip": p},
		})
	}
	return cond
}

// List returns one page of accounts, newest first, with their authored achievement count.
// Password hashes are never returned from here.
func (r *AccountRepository) List(ctx context.Context, filter AccountFilter, page PageRequest) ([]models.Account, int64, error) {
	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("accounts u").Where(filter.where()).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count accounts query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count accounts query")
		return nil, 0, fmt.Errorf("error counting accounts: %w", err)
	}

	q := r.sb.Select(accountColumns...).
		Column("(SELECT COUNT(*) FROM achievements a WHERE a.guru_id = u.id)").
		From("accounts u").
		Where(filter.where()).
		OrderBy("u.created_at DESC", "u.id DESC").
		Offset(page.Offset)
	if page.Limit > 0 {
		q = q.Limit(page.Limit)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list accounts SQL")
		return nil, 0, fmt.Errorf("failed to build list accounts query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list accounts query")
		return nil, 0, fmt.Errorf("error querying accounts: %w", err)
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		var a models.Account
		count := &models.AccountCount{}
		if err := scanAccount(rows, &a, &count.PrestasiCreated); err != nil {
			logger.Error().Err(err).Msg("Error scanning account row")
			return nil, 0, fmt.Errorf("error scanning account row: %w", err)
		}
		a.Count = count
		accounts = append(accounts, a.Sanitized())
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, total, nil
}

// CountByRole returns the number of accounts with role
func (r *AccountRepository) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM accounts WHERE role = $1", role).Scan(&total); err != nil {
		return 0, fmt.Errorf("error counting accounts: %w", err)
	}
	return total, nil
}

// GetByID returns an account (any role) including its password hash
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	return r.getOne(ctx, squirrel.Eq{"u.id": id})
}

// GetByEmail returns an account including its password hash
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.getOne(ctx, squirrel.Eq{"u.email": email})
}

func (r *AccountRepository) getOne(ctx context.Context, cond squirrel.Sqlizer) (*models.Account, error) {
	sql, args, err := r.sb.Select(accountColumns...).From("accounts u").Where(cond).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get account query: %w", err)
	}
	a := &models.Account{}
	if err := scanAccount(r.db.QueryRow(ctx, sql, args...), a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Msg("Error scanning account row")
		return nil, fmt.Errorf("error getting account: %w", err)
	}
	return a, nil
}

// GetDetail returns an account of the given role with the achievements it recorded
// (newest first, each with its student). The password hash is stripped.
func (r *AccountRepository) GetDetail(ctx context.Context, id string, role models.Role) (*models.Account, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	a, err := r.getOne(ctx, squirrel.Eq{"u.id": id, "u.role": role})
	if err != nil {
		return nil, err
	}
	sanitized := a.Sanitized()

	sql, args, err := r.sb.Select(achievementColumns...).
		Columns("s.id", "s.nis", "s.nama", "s.kelas").
		From("achievements a").
		Join("students s ON s.id = a.siswa_id").
		Where(squirrel.Eq{"a.guru_id": id}).
		OrderBy("a.created_at DESC", "a.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build account achievements query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("accountID", id).Msg("Error querying account achievements")
		return nil, fmt.Errorf("error querying account achievements: %w", err)
	}
	defer rows.Close()

	sanitized.PrestasiCreated = []models.Achievement{}
	for rows.Next() {
		var ach models.Achievement
		s := &models.StudentSummary{}
		if err := scanAchievement(rows, &ach, &s.ID, &s.NIS, &s.Nama, &s.Kelas); err != nil {
			return nil, fmt.Errorf("error scanning account achievement row: %w", err)
		}
		ach.Siswa = s
		sanitized.PrestasiCreated = append(sanitized.PrestasiCreated, ach)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account achievement rows: %w", err)
	}
	return &sanitized, nil
}

// ExistsByEmail reports whether another account already uses email. excludeID may be empty.
func (r *AccountRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	return r.exists(ctx, "email", email, excludeID)
}

// ExistsByNIP reports whether another account already uses nip. excludeID may be empty.
func (r *AccountRepository) ExistsByNIP(ctx context.Context, nip, excludeID string) (bool, error) {
	return r.exists(ctx, "nip", nip, excludeID)
}

func (r *AccountRepository) exists(ctx context.Context, column, value, excludeID string) (bool, error) {
	cond := squirrel.And{squirrel.Eq{column: value}}
	if excludeID != "" && validID(excludeID) {
		cond = append(cond, squirrel.NotEq{"id": excludeID})
	}
	sql, args, err := r.sb.Select("1").
		From("accounts").
		Where(cond).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build account existence query: %w", err)
	}
	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Str("column", column).Msg("Error checking account existence")
		return false, fmt.Errorf("error checking account existence: %w", err)
	}
	return exists, nil
}

// CountAchievements returns how many achievements the account recorded
func (r *AccountRepository) CountAchievements(ctx context.Context, id string) (int64, error) {
	if !validID(id) {
		return 0, nil
	}
	var n int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM achievements WHERE guru_id = $1", id).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting account achievements: %w", err)
	}
	return n, nil
}

// Create inserts a, assigning its id and timestamps. a.Password must already be hashed.
func (r *AccountRepository) Create(ctx context.Context, a *models.Account) error {
	if a.ID == "" {
		a.ID = newID()
	}
	sql, args, err := r.sb.Insert("accounts").
		Columns("id", "email", "name", "nip", "password", "role").
		Values(a.ID, a.Email, a.Name, a.NIP, a.Password, a.Role).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create account SQL")
		return fmt.Errorf("failed to build create account query: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		if uerr := uniqueAccountError(err); uerr != nil {
			return uerr
		}
		logger.Error().Err(err).Str("email", a.Email).Msg("Error executing create account query")
		return fmt.Errorf("error creating account: %w", err)
	}
	return nil
}

// Update writes every column of a, including the password hash
func (r *AccountRepository) Update(ctx context.Context, a *models.Account) error {
	if !validID(a.ID) {
		return ErrNotFound
	}
	sql, args, err := r.sb.Update("accounts").
		SetMap(map[string]interface{}{
			"email":      a.Email,
			"name":       a.Name,
			"nip":        a.NIP,
			"password":   a.Password,
			"role":       a.Role,
			"updated_at": squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": a.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update account query: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if uerr := uniqueAccountError(err); uerr != nil {
			return uerr
		}
		logger.Error().Err(err).Str("accountID", a.ID).Msg("Error executing update account query")
		return fmt.Errorf("error updating account: %w", err)
	}
	return nil
}

// Delete removes an account that has recorded no achievements
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	n, err := r.CountAchievements(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrGuruHasAchievements
	}

	cmdTag, err := r.db.Exec(ctx, "DELETE FROM accounts WHERE id = $1", id)
	if err != nil {
		// An achievement inserted after the count still blocks the delete here.
		if name, ok := dberrors.ForeignKeyConstraint(err); ok && name == constraintAchievementGuru {
			return ErrGuruHasAchievements
		}
		logger.Error().Err(err).Str("accountID", id).Msg("Error executing delete account query")
		return fmt.Errorf("error deleting account: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func uniqueAccountError(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, constraintAccountsEmail):
		return ErrEmailExists
	case dberrors.IsDuplicateConstraintError(err, constraintAccountsNIP):
		return ErrNIPExists
	}
	return nil
}
