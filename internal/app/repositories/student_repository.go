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

// StudentFilter narrows student lists
type StudentFilter struct {
	Search string // matches nama, nis or kelas
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var studentColumns = []string{
	"s.id", "s.nis", "s.nama", "s.kelas", "s.jurusan", "s.jenis_kelamin",
	"s.tanggal_lahir", "s.alamat", "s.created_at", "s.updated_at",
}

func scanStudent(row pgx.Row, s *models.Student) error {
	var tanggalLahir *time.Time
	if err := row.Scan(&s.ID, &s.NIS, &s.Nama, &s.Kelas, &s.Jurusan, &s.JenisKelamin,
		&tanggalLahir, &s.Alamat, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return err
	}
	s.TanggalLahir = models.DatePtr(tanggalLahir)
	return nil
}

func (f StudentFilter) where() squirrel.Sqlizer {
	if f.Search == "" {
		return squirrel.And{}
	}
	p := helpers.LikePattern(f.Search)
	return squirrel.Or{
		squirrel.ILike{"s.nama": p},
		squirrel.ILike{"s.nis": p},
		squirrel.ILike{"s.kelas": p},
	}
}

// List returns one page of students, newest first, each with a summary of its achievements.
func (r *StudentRepository) List(ctx context.Context, filter StudentFilter, page PageRequest) ([]models.StudentListItem, int64, error) {
	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("students s").Where(filter.where()).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count students SQL")
		return nil, 0, fmt.Errorf("failed to build count students query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count students query")
		return nil, 0, fmt.Errorf("error counting students: %w", err)
	}

	q := r.sb.Select(studentColumns...).
		From("students s").
		Where(filter.where()).
		OrderBy("s.created_at DESC", "s.id DESC").
		Offset(page.Offset)
	if page.Limit > 0 {
		q = q.Limit(page.Limit)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list students SQL")
		return nil, 0, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, 0, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []models.StudentListItem{}
	for rows.Next() {
		var s models.StudentListItem
		if err := scanStudent(rows, &s.Student); err != nil {
			logger.Error().Err(err).Msg("Error scanning student row")
			return nil, 0, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating student rows: %w", err)
	}

	if err := r.attachAchievementSummaries(ctx, students); err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// attachAchievementSummaries loads {id, namaPrestasi, tingkat, tanggal} for every student in one query.
func (r *StudentRepository) attachAchievementSummaries(ctx context.Context, students []models.StudentListItem) error {
	if len(students) == 0 {
		return nil
	}
	ids := make([]string, len(students))
	index := make(map[string]int, len(students))
	for i, s := range students {
		ids[i] = s.ID
		index[s.ID] = i
		students[i].Prestasi = []models.AchievementSummary{}
	}

	sql, args, err := r.sb.Select("id", "siswa_id", "nama_prestasi", "tingkat", "tanggal").
		From("achievements").
		Where(squirrel.Eq{"siswa_id": ids}).
		OrderBy("tanggal DESC", "created_at DESC").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build student achievements query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying student achievement summaries")
		return fmt.Errorf("error querying student achievements: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a models.AchievementSummary
		var siswaID string
		var tanggal time.Time
		if err := rows.Scan(&a.ID, &siswaID, &a.NamaPrestasi, &a.Tingkat, &tanggal); err != nil {
			return fmt.Errorf("error scanning student achievement row: %w", err)
		}
		a.Tanggal = models.NewDate(tanggal)
		i := index[siswaID]
		students[i].Prestasi = append(students[i].Prestasi, a)
	}
	return rows.Err()
}

// Count returns the number of students
func (r *StudentRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM students").Scan(&total); err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return total, nil
}

// GetByID returns a student with its achievements (newest event first) and their recording guru.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	sql, args, err := r.sb.Select(studentColumns...).
		From("students s").
		Where(squirrel.Eq{"s.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	s := &models.Student{}
	if err := scanStudent(r.db.QueryRow(ctx, sql, args...), s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Str("studentID", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}

	sql, args, err = r.sb.Select(achievementColumns...).
		Columns("g.id", "g.name", "g.email").
		From("achievements a").
		Join("accounts g ON g.id = a.guru_id").
		Where(squirrel.Eq{"a.siswa_id": id}).
		OrderBy("a.tanggal DESC", "a.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student detail achievements query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("studentID", id).Msg("Error querying student achievements")
		return nil, fmt.Errorf("error querying student achievements: %w", err)
	}
	defer rows.Close()

	s.Prestasi = []models.Achievement{}
	for rows.Next() {
		var a models.Achievement
		g := &models.AccountSummary{}
		if err := scanAchievement(rows, &a, &g.ID, &g.Name, &g.Email); err != nil {
			return nil, fmt.Errorf("error scanning student achievement row: %w", err)
		}
		a.Guru = g
		s.Prestasi = append(s.Prestasi, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student achievement rows: %w", err)
	}
	return s, nil
}

// GetByNIS returns the student row for nis without its achievements
func (r *StudentRepository) GetByNIS(ctx context.Context, nis string) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students s").
		Where(squirrel.Eq{"s.nis": nis}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student by NIS query: %w", err)
	}
	s := &models.Student{}
	if err := scanStudent(r.db.QueryRow(ctx, sql, args...), s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Str("nis", nis).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student by NIS: %w", err)
	}
	return s, nil
}

// ExistsByID reports whether a student with id exists
func (r *StudentRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	return r.exists(ctx, squirrel.Eq{"id": id})
}

// ExistsByNIS reports whether another student already uses nis. excludeID may be empty.
func (r *StudentRepository) ExistsByNIS(ctx context.Context, nis, excludeID string) (bool, error) {
	cond := squirrel.And{squirrel.Eq{"nis": nis}}
	if excludeID != "" && validID(excludeID) {
		cond = append(cond, squirrel.NotEq{"id": excludeID})
	}
	return r.exists(ctx, cond)
}

func (r *StudentRepository) exists(ctx context.Context, cond squirrel.Sqlizer) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("students").
		Where(cond).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build student existence query: %w", err)
	}
	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Msg("Error checking student existence")
		return false, fmt.Errorf("error checking student existence: %w", err)
	}
	return exists, nil
}

// Create inserts s, assigning its id and timestamps
func (r *StudentRepository) Create(ctx context.Context, s *models.Student) error {
	if s.ID == "" {
		s.ID = newID()
	}
	sql, args, err := r.sb.Insert("students").
		Columns("id", "nis", "nama", "kelas", "jurusan", "jenis_kelamin", "tanggal_lahir", "alamat").
		Values(s.ID, s.NIS, s.Nama, s.Kelas, s.Jurusan, s.JenisKelamin, dateArg(s.TanggalLahir), s.Alamat).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&s.CreatedAt, &s.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, constraintStudentsNIS) {
			return ErrNISExists
		}
		logger.Error().Err(err).Str("nis", s.NIS).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}
	return nil
}

// Update writes every column of s
func (r *StudentRepository) Update(ctx context.Context, s *models.Student) error {
	if !validID(s.ID) {
		return ErrNotFound
	}
	sql, args, err := r.sb.Update("students").
		SetMap(map[string]interface{}{
			"nis":           s.NIS,
			"nama":          s.Nama,
			"kelas":         s.Kelas,
			"jurusan":       s.Jurusan,
			"jenis_kelamin": s.JenisKelamin,
			"tanggal_lahir": dateArg(s.TanggalLahir),
			"alamat":        s.Alamat,
			"updated_at":    squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": s.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update student SQL")
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if dberrors.IsDuplicateConstraintError(err, constraintStudentsNIS) {
			return ErrNISExists
		}
		logger.Error().Err(err).Str("studentID", s.ID).Msg("Error executing update student query")
		return fmt.Errorf("error updating student: %w", err)
	}
	return nil
}

// Delete removes a student. Its achievements go with it (ON DELETE CASCADE).
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	sql, args, err := r.sb.Delete("students").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete student query: %w", err)
	}
	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("studentID", id).Msg("Error executing delete student query")
		return fmt.Errorf("error deleting student: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func dateArg(d *models.Date) interface{} {
	if d == nil || d.IsZero() {
		return nil
	}
	return d.Time
}
