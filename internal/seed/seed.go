package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/siprista/backend/internal/app/models"
	"github.com/siprista/backend/internal/app/repositories"
	"github.com/siprista/backend/internal/pkg/auth"
)

// DemoPassword is the password of every demo account.
const DemoPassword = "demo123"

// demoNamespace derives stable ids for demo achievements so reseeding finds them again.
var demoNamespace = uuid.MustParse("6f1c2b0e-5d3a-4e8b-9c47-2a1f0e9d8c71")

type accountStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Create(ctx context.Context, a *models.Account) error
}

type studentStore interface {
	GetByNIS(ctx context.Context, nis string) (*models.Student, error)
	Create(ctx context.Context, s *models.Student) error
}

type achievementStore interface {
	GetByID(ctx context.Context, id string) (*models.Achievement, error)
	Create(ctx context.Context, a *models.Achievement) error
}

// Options selects what Run creates.
type Options struct {
	AdminEmail    string
	AdminPassword string
	Demo          bool
}

// Result counts the rows Run inserted. Rows that already existed are not counted.
type Result struct {
	Accounts     int
	Students     int
	Achievements int
}

// Seeder inserts the default admin and, optionally, the demo data set.
type Seeder struct {
	accounts     accountStore
	students     studentStore
	achievements achievementStore
	logger       zerolog.Logger
}

// NewSeeder creates a Seeder over the given stores
func NewSeeder(accounts accountStore, students studentStore, achievements achievementStore, lgr zerolog.Logger) *Seeder {
	return &Seeder{accounts: accounts, students: students, achievements: achievements, logger: lgr}
}

// CreateDefaultData seeds through the PostgreSQL repositories.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, opts Options, lgr zerolog.Logger) (Result, error) {
	repos := repositories.NewRepositories(dbPool)
	s := NewSeeder(repos.AccountRepository, repos.StudentRepository, repos.AchievementRepository, lgr)
	return s.Run(ctx, opts)
}

// Run is idempotent: accounts are matched by email, students by NIS and
// demo achievements by their derived id.
func (s *Seeder) Run(ctx context.Context, opts Options) (Result, error) {
	var res Result

	s.logger.Info().Bool("demo", opts.Demo).Msg("Checking/Creating default data...")

	adminPassword := opts.AdminPassword
	if adminPassword == "" {
		adminPassword = DemoPassword
	}
	_, created, err := s.EnsureAccount(ctx, models.Account{
		Email: opts.AdminEmail,
		Name:  "Administrator SIPRISTA",
		NIP:   strPtr("ADMIN001"),
		Role:  models.RoleAdmin,
	}, adminPassword)
	if err != nil {
		return res, fmt.Errorf("seed admin: %w", err)
	}
	if created {
		res.Accounts++
	}

	if !opts.Demo {
		return res, nil
	}

	guru, created, err := s.EnsureAccount(ctx, models.Account{
		Email: "guru@siprista.com",
		Name:  "Guru SIPRISTA",
		NIP:   strPtr("198001012001"),
		Role:  models.RoleGuru,
	}, DemoPassword)
	if err != nil {
		return res, fmt.Errorf("seed demo guru: %w", err)
	}
	if created {
		res.Accounts++
	}

	var finalErr error
	studentIDs := make(map[string]string, len(demoStudents))
	for _, d := range demoStudents {
		st, created, err := s.ensureStudent(ctx, d)
		if err != nil {
			s.logger.Error().Err(err).Str("nis", d.NIS).Msg("Error creating demo student")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if created {
			res.Students++
		}
		studentIDs[d.NIS] = st.ID
	}

	for _, d := range demoAchievements {
		siswaID, ok := studentIDs[d.nis]
		if !ok {
			continue
		}
		created, err := s.ensureAchievement(ctx, d, siswaID, guru.ID)
		if err != nil {
			s.logger.Error().Err(err).Str("key", d.key).Msg("Error creating demo achievement")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if created {
			res.Achievements++
		}
	}

	s.logger.Info().
		Int("accounts", res.Accounts).
		Int("students", res.Students).
		Int("achievements", res.Achievements).
		Msg("Default data ensured")
	return res, finalErr
}

// EnsureAccount creates a when no account uses its email. The returned account never
// carries the password hash.
func (s *Seeder) EnsureAccount(ctx context.Context, a models.Account, password string) (*models.Account, bool, error) {
	a.Email = strings.TrimSpace(a.Email)
	if a.Email == "" || password == "" {
		return nil, false, errors.New("email and password are required")
	}
	if !a.Role.Valid() {
		return nil, false, fmt.Errorf("unknown role %q", a.Role)
	}

	existing, err := s.accounts.GetByEmail(ctx, a.Email)
	if err == nil {
		out := existing.Sanitized()
		return &out, false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, false, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, false, err
	}
	a.Password = hash
	if err := s.accounts.Create(ctx, &a); err != nil {
		return nil, false, err
	}
	s.logger.Info().Str("email", a.Email).Str("role", string(a.Role)).Msg("Account created")
	out := a.Sanitized()
	return &out, true, nil
}

func (s *Seeder) ensureStudent(ctx context.Context, d models.Student) (*models.Student, bool, error) {
	existing, err := s.students.GetByNIS(ctx, d.NIS)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, false, err
	}
	st := d
	if err := s.students.Create(ctx, &st); err != nil {
		return nil, false, err
	}
	return &st, true, nil
}

func (s *Seeder) ensureAchievement(ctx context.Context, d demoAchievement, siswaID, guruID string) (bool, error) {
	id := DemoAchievementID(d.key)
	_, err := s.achievements.GetByID(ctx, id)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return false, err
	}
	a := d.achievement
	a.ID = id
	a.SiswaID = siswaID
	a.GuruID = guruID
	return true, s.achievements.Create(ctx, &a)
}

// DemoAchievementID is the stable id of the demo achievement named key.
func DemoAchievementID(key string) string {
	return uuid.NewSHA1(demoNamespace, []byte(key)).String()
}

func strPtr(s string) *string { return &s }
