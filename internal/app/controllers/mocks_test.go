package controllers

import (
	"context"
	"io"
	"net/http"

	authz "github.com/siprista/backend/internal/app/auth"
	"github.com/siprista/backend/internal/app/models"
	"github.com/siprista/backend/internal/app/models/dto"
	"github.com/siprista/backend/internal/app/report"
	"github.com/siprista/backend/internal/pkg/apperrors"
	"github.com/siprista/backend/internal/pkg/export"
	"github.com/siprista/backend/internal/pkg/websocket"
	"github.com/stretchr/testify/mock"
)

// MockAuthService implements AuthService for testing
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Authenticate(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoginResponse), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, id authz.Identity) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAuthService) Me(ctx context.Context, id authz.Identity) (*models.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

// MockStudentService implements services.StudentService for testing
type MockStudentService struct {
	mock.Mock
}

func (m *MockStudentService) List(ctx context.Context, q dto.ListQuery) (*dto.Page[models.StudentListItem], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Page[models.StudentListItem]), args.Error(1)
}

func (m *MockStudentService) GetByID(ctx context.Context, id string) (*models.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

func (m *MockStudentService) Create(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

func (m *MockStudentService) Update(ctx context.Context, id string, req *dto.UpdateStudentRequest) (*models.Student, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

func (m *MockStudentService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockAchievementService implements services.AchievementService for testing
type MockAchievementService struct {
	mock.Mock
}

func (m *MockAchievementService) List(ctx context.Context, id *authz.Identity, q dto.AchievementQuery) (*dto.Page[models.Achievement], error) {
	args := m.Called(ctx, id, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Page[models.Achievement]), args.Error(1)
}

func (m *MockAchievementService) GetByID(ctx context.Context, id string) (*models.Achievement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Achievement), args.Error(1)
}

func (m *MockAchievementService) Create(ctx context.Context, id authz.Identity, req *dto.CreateAchievementRequest) (*models.Achievement, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Achievement), args.Error(1)
}

func (m *MockAchievementService) Update(ctx context.Context, id authz.Identity, achievementID string, req *dto.UpdateAchievementRequest) (*models.Achievement, error) {
	args := m.Called(ctx, id, achievementID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Achievement), args.Error(1)
}

func (m *MockAchievementService) Delete(ctx context.Context, id authz.Identity, achievementID string) error {
	return m.Called(ctx, id, achievementID).Error(0)
}

// MockReportService implements services.ReportService for testing
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Build(ctx context.Context, id authz.Identity, guruID string) (*report.Report, error) {
	args := m.Called(ctx, id, guruID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Report), args.Error(1)
}

// Export writes the string given as the first return value to w.
func (m *MockReportService) Export(ctx context.Context, id authz.Identity, guruID string, format export.Format, w io.Writer) (string, error) {
	args := m.Called(ctx, id, guruID, format)
	if err := args.Error(2); err != nil {
		return "", err
	}
	if _, err := io.WriteString(w, args.String(1)); err != nil {
		return "", err
	}
	return args.String(0), nil
}

type stubLive struct {
	accountID string
	fetch     websocket.FetchFunc
}

func (s *stubLive) Serve(w http.ResponseWriter, r *http.Request, accountID string, fetch websocket.FetchFunc) error {
	s.accountID, s.fetch = accountID, fetch
	return nil
}

// staticResolver maps fixed tokens to identities.
type staticResolver map[string]authz.Identity

func (s staticResolver) Resolve(_ context.Context, token string) (authz.Identity, error) {
	id, ok := s[token]
	if !ok {
		return authz.Identity{}, apperrors.ErrTokenInvalid
	}
	return id, nil
}
