package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/siprista/backend/internal/app/models"
	"github.com/siprista/backend/internal/app/models/dto"
	"github.com/siprista/backend/internal/app/repositories"
	"github.com/siprista/backend/internal/pkg/apperrors"
	"github.com/siprista/backend/internal/pkg/auth"
	"github.com/siprista/backend/internal/pkg/helpers"
	"github.com/siprista/backend/internal/pkg/logger"
)

var (
	ErrGuruNotFound       = apperrors.NewResourceNotFoundError("Guru tidak ditemukan")
	errGuruFieldsRequired = apperrors.NewValidationError("Email, nama, dan password harus diisi")
)

// GuruService defines the interface for teacher account operations.
// Every lookup is scoped to accounts with the GURU role.
type GuruService interface {
	List(ctx context.Context, query dto.ListQuery) (*dto.Page[models.Account], error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	Create(ctx context.Context, req *dto.CreateGuruRequest) (*models.Account, error)
	Update(ctx context.Context, id string, req *dto.UpdateGuruRequest) (*models.Account, error)
	Delete(ctx context.Context, id string) error
}

// guruServiceImpl implements the GuruService interface
type guruServiceImpl struct {
	accounts AccountStore
	notifier ChangeNotifier
}

// NewGuruService creates a new guru service instance
func NewGuruService(accounts AccountStore, notifier ChangeNotifier) GuruService {
	return &guruServiceImpl{
		accounts: accounts,
		notifier: notifierOrNoop(notifier),
	}
}

func (s *guruServiceImpl) List(ctx context.Context, query dto.ListQuery) (*dto.Page[models.Account], error) {
	page, limit := helpers.NormalizePagination(query.Page, query.Limit)
	offset, size := helpers.CalculateOffsetLimit(page, limit)

	accounts, total, err := s.accounts.List(ctx,
		repositories.AccountFilter{Role: models.RoleGuru, Search: strings.TrimSpace(query.Search)},
		repositories.PageRequest{Offset: offset, Limit: size},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list guru: %w", err)
	}
	return &dto.Page[models.Account]{
		Items:      accounts,
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

func (s *guruServiceImpl) GetByID(ctx context.Context, id string) (*models.Account, error) {
	account, err := s.accounts.GetDetail(ctx, id, models.RoleGuru)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrGuruNotFound
		}
		return nil, fmt.Errorf("failed to get guru: %w", err)
	}
	return account, nil
}

// load returns the stored GURU account including its password hash.
func (s *guruServiceImpl) load(ctx context.Context, id string) (*models.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrGuruNotFound
		}
		return nil, fmt.Errorf("failed to get guru: %w", err)
	}
	if account.Role != models.RoleGuru {
		return nil, ErrGuruNotFound
	}
	return account, nil
}

func (s *guruServiceImpl) Create(ctx context.Context, req *dto.CreateGuruRequest) (*models.Account, error) {
	email := strings.TrimSpace(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || name == "" || req.Password == "" {
		return nil, errGuruFieldsRequired
	}

	exists, err := s.accounts.ExistsByEmail(ctx, email, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, repositories.ErrEmailExists
	}

	nip := helpers.NilIfEmpty(req.NIP)
	if nip != nil {
		exists, err := s.accounts.ExistsByNIP(ctx, *nip, "")
		if err != nil {
			return nil, fmt.Errorf("failed to check nip: %w", err)
		}
		if exists {
			return nil, repositories.ErrNIPExists
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.Account{
		Email:    email,
		Name:     name,
		NIP:      nip,
		Password: hash,
		Role:     models.RoleGuru,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Info().Str("accountID", account.ID).Str("email", account.Email).Msg("Guru created")
	s.notifier.Publish(EntityGuru, ActionCreated)

	sanitized := account.Sanitized()
	return &sanitized, nil
}

func (s *guruServiceImpl) Update(ctx context.Context, id string, req *dto.UpdateGuruRequest) (*models.Account, error) {
	account, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if helpers.NonEmpty(req.Email) {
		email := strings.TrimSpace(*req.Email)
		if email != account.Email {
			exists, err := s.accounts.ExistsByEmail(ctx, email, account.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			if exists {
				return nil, repositories.ErrEmailExists
			}
		}
		account.Email = email
	}
	if helpers.NonEmpty(req.Name) {
		account.Name = strings.TrimSpace(*req.Name)
	}
	if req.NIP != nil {
		nip := helpers.NilIfEmpty(req.NIP)
		if nip != nil && (account.NIP == nil || *nip != *account.NIP) {
			exists, err := s.accounts.ExistsByNIP(ctx, *nip, account.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to check nip: %w", err)
			}
			if exists {
				return nil, repositories.ErrNIPExists
			}
		}
		account.NIP = nip
	}
	// An empty password keeps the stored hash.
	if req.Password != nil && *req.Password != "" {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		account.Password = hash
	}

	if err := s.accounts.Update(ctx, account); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrGuruNotFound
		}
		return nil, err
	}
	logger.Ctx(ctx).Info().Str("accountID", account.ID).Msg("Guru updated")
	s.notifier.Publish(EntityGuru, ActionUpdated)

	sanitized := account.Sanitized()
	return &sanitized, nil
}

// Delete removes a GURU account that has recorded no achievements.
func (s *guruServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	n, err := s.accounts.CountAchievements(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count achievements: %w", err)
	}
	if n > 0 {
		return repositories.ErrGuruHasAchievements
	}
	if err := s.accounts.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrGuruNotFound
		}
		return err
	}
	logger.Ctx(ctx).Info().Str("accountID", id).Msg("Guru deleted")
	s.notifier.Publish(EntityGuru, ActionDeleted)
	return nil
}
