package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/siprista/backend/internal/app/models"
	"github.com/siprista/backend/internal/pkg/dberrors"
	"github.com/siprista/backend/internal/pkg/helpers"
	"github.com/siprista/backend/internal/pkg/logger"
)

// AchievementFilter narrows achievement lists. Empty fields do not filter.
type AchievementFilter struct {
	Search        string // matches namaPrestasi, student nama or penyelenggara
	Tingkat       models.Tingkat
	JenisPrestasi models.JenisPrestasi
	GuruID        string
	SiswaID       string
}

// AchievementRepository handles achievement database operations
type AchievementRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAchievementRepository creates a new AchievementRepository
func NewAchievementRepository(db *pgxpool.Pool) *AchievementRepository {
	return &AchievementRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var achievementColumns = []string{
	"a.id", "a.siswa_id", "a.guru_id", "a.jenis_prestasi", "a.nama_prestasi", "a.tingkat",
	"a.penyelenggara", "a.tanggal", "a.deskripsi", "a.created_at", "a.updated_at",
}

// scanAchievement scans achievementColumns followed by any extra joined columns.
func scanAchievement(row pgx.Row, a *models.Achievement, extra ...interface{}) error {
	var tanggal time.Time
	dest := append([]interface{}{&a.ID, &a.SiswaID, &a.GuruID, &a.JenisPrestasi, &a.NamaPrestasi,
		&a.Tingkat, &a.Penyelenggara, &tanggal, &a.Deskripsi, &a.CreatedAt, &a.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	a.Tanggal = models.NewDate(tanggal)
	return nil
}

func (f AchievementFilter) where() (squirrel.Sqlizer, bool) {
	cond := squirrel.And{}
	if f.Tingkat != "" {
		cond = append(cond, squirrel.Eq{"a.tingkat": f.Tingkat})
	}
	if f.JenisPrestasi != "" {
		cond = append(cond, squirrel.Eq{"a.jenis_prestasi": f.JenisPrestasi})
	}
	if f.GuruID != "" {
		if !validID(f.GuruID) {
			return nil, false
		}
		cond = append(cond, squirrel.Eq{"a.guru_id": f.GuruID})
	}
	if f.SiswaID != "" {
		if !validID(f.SiswaID) {
			return nil, false
		}
		cond = append(cond, squirrel.Eq{"a.siswa_id": f.SiswaID})
	}
	if f.Search != "" {
		p := helpers.LikePattern(f.Search)
		cond = append(cond, squirrel.Or{
			squirrel.ILike{"a.nama_prestasi": p},
			squirrel.ILike{"s.nama": p},
			squirrel.ILike{"a.penyelenggara": p},
		})
	}
	return cond, true
}

// List returns one page of achievements, newest first, with student and guru summaries.
func (r *AchievementRepository) List(ctx context.Context, filter AchievementFilter, page PageRequest) ([]models.Achievement, int64, error) {
	where, ok := filter.where()
	if !ok {
		// An id filter that cannot be a UUID matches nothing.
		return []models.Achievement{}, 0, nil
	}

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").
		From("achievements a").
		Join("students s ON s.id = a.siswa_id").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count achievements query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count achievements query")
		return nil, 0, fmt.Errorf("error counting achievements: %w", err)
	}

	q := r.sb.Select(achievementColumns...).
		Columns("s.id", "s.nis", "s.nama", "s.kelas", "g.id", "g.name", "g.email").
		From("achievements a").
		Join("students s ON s.id = a.siswa_id").
		Join("accounts g ON g.id = a.guru_id").
		Where(where).
		OrderBy("a.created_at DESC", "a.id DESC").
		Offset(page.Offset)
	if page.Limit > 0 {
		q = q.Limit(page.Limit)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list achievements SQL")
		return nil, 0, fmt.Errorf("failed to build list achievements query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list achievements query")
		return nil, 0, fmt.Errorf("error querying achievements: %w", err)
	}
	defer rows.Close()

	achievements := []models.Achievement{}
	for rows.Next() {
		var a models.Achievement
		s := &models.StudentSummary{}
		g := &models.AccountSummary{}
		if err := scanAchievement(rows, &a, &s.ID, &s.NIS, &s.Nama, &s.Kelas, &g.ID, &g.Name, &g.Email); err != nil {
			logger.Error().Err(err).Msg("Error scanning achievement row")
			return nil, 0, fmt.Errorf("error scanning achievement row: %w", err)
		}
		a.Siswa, a.Guru = s, g
		achievements = append(achievements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating achievement rows: %w", err)
	}
	return achievements, total, nil
}

// GetByID returns an achievement with the full student and the guru's id, name, email and nip.
func (r *AchievementRepository) GetByID(ctx context.Context, id string) (*models.Achievement, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	sql, args, err := r.sb.Select(achievementColumns...).
		Columns("s.id", "s.nis", "s.nama", "s.kelas", "s.jurusan", "s.jenis_kelamin",
			"g.id", "g.name", "g.email", "g.nip").
		From("achievements a").
		Join("students s ON s.id = a.siswa_id").
		Join("accounts g ON g.id = a.guru_id").
		Where(squirrel.Eq{"a.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get achievement query: %w", err)
	}

	a := &models.Achievement{}
	s := &models.StudentSummary{}
	g := &models.AccountSummary{}
	var jk models.JenisKelamin
	err = scanAchievement(r.db.QueryRow(ctx, sql, args...), a,
		&s.ID, &s.NIS, &s.Nama, &s.Kelas, &s.Jurusan, &jk, &g.ID, &g.Name, &g.Email, &g.NIP)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Str("achievementID", id).Msg("Error scanning achievement row")
		return nil, fmt.Errorf("error getting achievement by ID: %w", err)
	}
	s.JenisKelamin = &jk
	a.Siswa, a.Guru = s, g
	return a, nil
}

// Count returns the number of achievements
func (r *AchievementRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM achievements").Scan(&total); err != nil {
		return 0, fmt.Errorf("error counting achievements: %w", err)
	}
	return total, nil
}

// Create inserts a, assigning its id and timestamps
func (r *AchievementRepository) Create(ctx context.Context, a *models.Achievement) error {
	if a.ID == "" {
		a.ID = newID()
	}
	sql, args, err := r.sb.Insert("achievements").
		Columns("id", "siswa_id", "guru_id", "jenis_prestasi", "nama_prestasi", "tingkat",
			"penyelenggara", "tanggal", "deskripsi").
		Values(a.ID, a.SiswaID, a.GuruID, a.JenisPrestasi, a.NamaPrestasi, a.Tingkat,
			a.Penyelenggara, a.Tanggal.Time, a.Deskripsi).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create achievement SQL")
		return fmt.Errorf("failed to build create achievement query: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		if rerr := referenceError(err); rerr != nil {
			return rerr
		}
		logger.Error().Err(err).Msg("Error executing create achievement query")
		return fmt.Errorf("error creating achievement: %w", err)
	}
	return nil
}

// Update writes every column of a
func (r *AchievementRepository) Update(ctx context.Context, a *models.Achievement) error {
	if !validID(a.ID) {
		return ErrNotFound
	}
	sql, args, err := r.sb.Update("achievements").
		SetMap(map[string]interface{}{
			"siswa_id":       a.SiswaID,
			"guru_id":        a.GuruID,
			"jenis_prestasi": a.JenisPrestasi,
			"nama_prestasi":  a.NamaPrestasi,
			"tingkat":        a.Tingkat,
			"penyelenggara":  a.Penyelenggara,
			"tanggal":        a.Tanggal.Time,
			"deskripsi":      a.Deskripsi,
			"updated_at":     squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": a.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update achievement query: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if rerr := referenceError(err); rerr != nil {
			return rerr
		}
		logger.Error().Err(err).Str("achievementID", a.ID).Msg("Error executing update achievement query")
		return fmt.Errorf("error updating achievement: %w", err)
	}
	return nil
}

// Delete removes an achievement
func (r *AchievementRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	cmdTag, err := r.db.Exec(ctx, "DELETE FROM achievements WHERE id = $1", id)
	if err != nil {
		logger.Error().Err(err).Str("achievementID", id).Msg("Error executing delete achievement query")
		return fmt.Errorf("error deleting achievement: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// referenceError maps a foreign key violation to the missing side.
func referenceError(err error) error {
	name, ok := dberrors.ForeignKeyConstraint(err)
	if !ok {
		return nil
	}
	switch name {
	case constraintAchievementSiswa:
		return ErrSiswaReference
	case constraintAchievementGuru:
		return ErrGuruReference
	}
	return nil
}
