package services

import (
	"context"

	"github.com/siprista/backend/internal/app/models"
	"github.com/siprista/backend/internal/app/repositories"
)

// StudentStore is the student persistence the services depend on.
type StudentStore interface {
	List(ctx context.Context, filter repositories.StudentFilter, page repositories.PageRequest) ([]models.StudentListItem, int64, error)
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id string) (*models.Student, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsByNIS(ctx context.Context, nis, excludeID string) (bool, error)
	Create(ctx context.Context, s *models.Student) error
	Update(ctx context.Context, s *models.Student) error
	Delete(ctx context.Context, id string) error
}

// AccountStore is the account persistence the services depend on.
type AccountStore interface {
	List(ctx context.Context, filter repositories.AccountFilter, page repositories.PageRequest) ([]models.Account, int64, error)
	CountByRole(ctx context.Context, role models.Role) (int64, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetDetail(ctx context.Context, id string, role models.Role) (*models.Account, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	ExistsByNIP(ctx context.Context, nip, excludeID string) (bool, error)
	CountAchievements(ctx context.Context, id string) (int64, error)
	Create(ctx context.Context, a *models.Account) error
	Update(ctx context.Context, a *models.Account) error
	Delete(ctx context.Context, id string) error
}

// AchievementStore is the achievement persistence the services depend on.
type AchievementStore interface {
	List(ctx context.Context, filter repositories.AchievementFilter, page repositories.PageRequest) ([]models.Achievement, int64, error)
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id string) (*models.Achievement, error)
	Create(ctx context.Context, a *models.Achievement) error
	Update(ctx context.Context, a *models.Achievement) error
	Delete(ctx context.Context, id string) error
}

// Entities named in change notifications.
const (
	EntitySiswa    = "siswa"
	EntityGuru     = "guru"
	EntityPrestasi = "prestasi"
)

// Actions named in change notifications.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ChangeNotifier is told about every successful mutation.
type ChangeNotifier interface {
	Publish(entity, action string)
}

type noopNotifier struct{}

func (noopNotifier) Publish(string, string) {}

func notifierOrNoop(n ChangeNotifier) ChangeNotifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}

var (
	_ StudentStore     = (*repositories.StudentRepository)(nil)
	_ AccountStore     = (*repositories.AccountRepository)(nil)
	_ AchievementStore = (*repositories.AchievementRepository)(nil)
)
