package services

import (
	"context"
	"sync"

	"github.com/siprista/backend/internal/app/models"
	"github.com/siprista/backend/internal/app/repositories"
	"github.com/siprista/backend/internal/pkg/session"
	"github.com/stretchr/testify/mock"
)

// MockStudentStore implements StudentStore for testing
type MockStudentStore struct {
	mock.Mock
}

func (m *MockStudentStore) List(ctx context.Context, filter repositories.StudentFilter, page repositories.PageRequest) ([]models.StudentListItem, int64, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).([]models.StudentListItem), args.Get(1).(int64), args.Error(2)
}

func (m *MockStudentStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStudentStore) GetByID(ctx context.Context, id string) (*models.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

func (m *MockStudentStore) ExistsByID(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockStudentStore) ExistsByNIS(ctx context.Context, nis, excludeID string) (bool, error) {
	args := m.Called(ctx, nis, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStudentStore) Create(ctx context.Context, s *models.Student) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStudentStore) Update(ctx context.Context, s *models.Student) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStudentStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAccountStore implements AccountStore for testing
type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) List(ctx context.Context, filter repositories.AccountFilter, page repositories.PageRequest) ([]models.Account, int64, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).([]models.Account), args.Get(1).(int64), args.Error(2)
}

func (m *MockAccountStore) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountStore) GetByID(ctx context.Context, id string) (*models.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountStore) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountStore) GetDetail(ctx context.Context, id string, role models.Role) (*models.Account, error) {
	args := m.Called(ctx, id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountStore) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountStore) ExistsByNIP(ctx context.Context, nip, excludeID string) (bool, error) {
	args := m.Called(ctx, nip, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountStore) CountAchievements(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountStore) Create(ctx context.Context, a *models.Account) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAccountStore) Update(ctx context.Context, a *models.Account) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAccountStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAchievementStore implements AchievementStore for testing
type MockAchievementStore struct {
	mock.Mock
}

func (m *MockAchievementStore) List(ctx context.Context, filter repositories.AchievementFilter, page repositories.PageRequest) ([]models.Achievement, int64, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).([]models.Achievement), args.Get(1).(int64), args.Error(2)
}

func (m *MockAchievementStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAchievementStore) GetByID(ctx context.Context, id string) (*models.Achievement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Achievement), args.Error(1)
}

func (m *MockAchievementStore) Create(ctx context.Context, a *models.Achievement) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAchievementStore) Update(ctx context.Context, a *models.Achievement) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAchievementStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSessionStore implements session.Store for testing
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(ctx context.Context, s *session.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionStore) Get(ctx context.Context, id string) (*session.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockSessionStore) Revoke(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// recordingNotifier remembers published changes.
type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) Publish(entity, action string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, entity+"."+action)
}

func (n *recordingNotifier) Events() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events...)
}

func strPtr(s string) *string { return &s }
