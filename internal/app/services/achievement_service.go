package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	authz "github.com/siprista/backend/internal/app/auth"
	"github.com/siprista/backend/internal/app/models"
	"github.com/siprista/backend/internal/app/models/dto"
	"github.com/siprista/backend/internal/app/repositories"
	"github.com/siprista/backend/internal/pkg/apperrors"
	"github.com/siprista/backend/internal/pkg/helpers"
	"github.com/siprista/backend/internal/pkg/logger"
)

var (
	ErrAchievementNotFound       = apperrors.NewResourceNotFoundError("Prestasi tidak ditemukan")
	errAchievementFieldsRequired = apperrors.NewValidationError("Field siswa, guru, jenis prestasi, nama prestasi, tingkat, dan tanggal harus diisi")
	errInvalidTingkat            = apperrors.NewValidationError("Tingkat prestasi tidak valid")
	errInvalidJenisPrestasi      = apperrors.NewValidationError("Jenis prestasi tidak valid")
)

// AchievementService defines the interface for achievement operations.
// The acting identity is passed explicitly; List accepts nil for public reads.
type AchievementService interface {
	List(ctx context.Context, identity *authz.Identity, query dto.AchievementQuery) (*dto.Page[models.Achievement], error)
	GetByID(ctx context.Context, id string) (*models.Achievement, error)
	Create(ctx context.Context, identity authz.Identity, req *dto.CreateAchievementRequest) (*models.Achievement, error)
	Update(ctx context.Context, identity authz.Identity, id string, req *dto.UpdateAchievementRequest) (*models.Achievement, error)
	Delete(ctx context.Context, identity authz.Identity, id string) error
}

// achievementServiceImpl implements the AchievementService interface
type achievementServiceImpl struct {
	achievements AchievementStore
	students     StudentStore
	accounts     AccountStore
	authz        *authz.AuthorizationService
	notifier     ChangeNotifier
}

// NewAchievementService creates a new achievement service instance
func NewAchievementService(
	achievements AchievementStore,
	students StudentStore,
	accounts AccountStore,
	notifier ChangeNotifier,
) AchievementService {
	return &achievementServiceImpl{
		achievements: achievements,
		students:     students,
		accounts:     accounts,
		authz:        authz.NewAuthorizationService(achievements),
		notifier:     notifierOrNoop(notifier),
	}
}

func (s *achievementServiceImpl) List(ctx context.Context, identity *authz.Identity, query dto.AchievementQuery) (*dto.Page[models.Achievement], error) {
	filter := repositories.AchievementFilter{
		Search:        strings.TrimSpace(query.Search),
		Tingkat:       models.Tingkat(strings.TrimSpace(query.Tingkat)),
		JenisPrestasi: models.JenisPrestasi(strings.TrimSpace(query.JenisPrestasi)),
		GuruID:        strings.TrimSpace(query.GuruID),
	}
	if filter.Tingkat != "" && !filter.Tingkat.Valid() {
		return nil, errInvalidTingkat
	}
	if filter.JenisPrestasi != "" && !filter.JenisPrestasi.Valid() {
		return nil, errInvalidJenisPrestasi
	}
	if !query.Public {
		if identity == nil {
			return nil, authz.ErrMissingIdentity
		}
		filter.GuruID = authz.ListGuruScope(*identity, filter.GuruID)
	}

	page, limit := helpers.NormalizePagination(query.Page, query.Limit)
	offset, size := helpers.CalculateOffsetLimit(page, limit)
	achievements, total, err := s.achievements.List(ctx, filter, repositories.PageRequest{Offset: offset, Limit: size})
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	if query.Public {
		for i := range achievements {
			achievements[i].HideGuru()
		}
	}
	return &dto.Page[models.Achievement]{
		Items:      achievements,
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

func (s *achievementServiceImpl) GetByID(ctx context.Context, id string) (*models.Achievement, error) {
	a, err := s.achievements.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAchievementNotFound
		}
		return nil, fmt.Errorf("failed to get achievement: %w", err)
	}
	return a, nil
}

func (s *achievementServiceImpl) Create(ctx context.Context, identity authz.Identity, req *dto.CreateAchievementRequest) (*models.Achievement, error) {
	a := &models.Achievement{
		SiswaID:       strings.TrimSpace(req.SiswaID),
		GuruID:        strings.TrimSpace(authz.RecordingGuru(identity, req.GuruID)),
		JenisPrestasi: req.JenisPrestasi,
		NamaPrestasi:  strings.TrimSpace(req.NamaPrestasi),
		Tingkat:       req.Tingkat,
		Penyelenggara: helpers.NilIfEmpty(req.Penyelenggara),
		Tanggal:       req.Tanggal,
		Deskripsi:     helpers.NilIfEmpty(req.Deskripsi),
	}
	if a.SiswaID == "" || a.GuruID == "" || a.JenisPrestasi == "" || a.NamaPrestasi == "" || a.Tingkat == "" || a.Tanggal.IsZero() {
		return nil, errAchievementFieldsRequired
	}
	if !a.JenisPrestasi.Valid() {
		return nil, errInvalidJenisPrestasi
	}
	if !a.Tingkat.Valid() {
		return nil, errInvalidTingkat
	}
	if err := s.checkReferences(ctx, a.SiswaID, a.GuruID); err != nil {
		return nil, err
	}

	// Foreign keys still reject a reference deleted since the check.
	if err := s.achievements.Create(ctx, a); err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Info().Str("achievementID", a.ID).Str("guruID", a.GuruID).Msg("Achievement created")
	s.notifier.Publish(EntityPrestasi, ActionCreated)
	return s.GetByID(ctx, a.ID)
}

func (s *achievementServiceImpl) Update(ctx context.Context, identity authz.Identity, id string, req *dto.UpdateAchievementRequest) (*models.Achievement, error) {
	a, err := s.owned(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	var siswaID, guruID string
	if helpers.NonEmpty(req.SiswaID) {
		siswaID = strings.TrimSpace(*req.SiswaID)
		a.SiswaID = siswaID
	}
	if helpers.NonEmpty(req.GuruID) {
		guruID = strings.TrimSpace(*req.GuruID)
		if identity.IsGuru() && guruID != identity.AccountID {
			return nil, authz.ErrNotOwner
		}
		a.GuruID = guruID
	}
	if req.JenisPrestasi != nil && *req.JenisPrestasi != "" {
		if !req.JenisPrestasi.Valid() {
			return nil, errInvalidJenisPrestasi
		}
		a.JenisPrestasi = *req.JenisPrestasi
	}
	if helpers.NonEmpty(req.NamaPrestasi) {
		a.NamaPrestasi = strings.TrimSpace(*req.NamaPrestasi)
	}
	if req.Tingkat != nil && *req.Tingkat != "" {
		if !req.Tingkat.Valid() {
			return nil, errInvalidTingkat
		}
		a.Tingkat = *req.Tingkat
	}
	if req.Penyelenggara != nil {
		a.Penyelenggara = helpers.NilIfEmpty(req.Penyelenggara)
	}
	if d := nonZeroDate(req.Tanggal); d != nil {
		a.Tanggal = *d
	}
	if req.Deskripsi != nil {
		a.Deskripsi = helpers.NilIfEmpty(req.Deskripsi)
	}

	if err := s.checkReferences(ctx, siswaID, guruID); err != nil {
		return nil, err
	}
	if err := s.achievements.Update(ctx, a); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAchievementNotFound
		}
		return nil, err
	}
	logger.Ctx(ctx).Info().Str("achievementID", a.ID).Msg("Achievement updated")
	s.notifier.Publish(EntityPrestasi, ActionUpdated)
	return s.GetByID(ctx, a.ID)
}

func (s *achievementServiceImpl) Delete(ctx context.Context, identity authz.Identity, id string) error {
	if _, err := s.owned(ctx, identity, id); err != nil {
		return err
	}
	if err := s.achievements.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrAchievementNotFound
		}
		return fmt.Errorf("failed to delete achievement: %w", err)
	}
	logger.Ctx(ctx).Info().Str("achievementID", id).Msg("Achievement deleted")
	s.notifier.Publish(EntityPrestasi, ActionDeleted)
	return nil
}

// owned loads an achievement identity may modify.
func (s *achievementServiceImpl) owned(ctx context.Context, identity authz.Identity, id string) (*models.Achievement, error) {
	a, err := s.authz.ValidateAchievementOwnership(ctx, identity, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAchievementNotFound
		}
		if authz.IsForbidden(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get achievement: %w", err)
	}
	a.Siswa, a.Guru = nil, nil
	return a, nil
}

// checkReferences verifies the student and the GURU account exist. Empty ids are skipped.
func (s *achievementServiceImpl) checkReferences(ctx context.Context, siswaID, guruID string) error {
	if siswaID != "" {
		exists, err := s.students.ExistsByID(ctx, siswaID)
		if err != nil {
			return fmt.Errorf("failed to check student: %w", err)
		}
		if !exists {
			return repositories.ErrSiswaReference
		}
	}
	if guruID != "" {
		account, err := s.accounts.GetByID(ctx, guruID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return repositories.ErrGuruReference
			}
			return fmt.Errorf("failed to check guru: %w", err)
		}
		if account.Role != models.RoleGuru {
			return repositories.ErrGuruReference
		}
	}
	return nil
}
