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
	"github.com/siprista/backend/internal/pkg/helpers"
	"github.com/siprista/backend/internal/pkg/logger"
)

var (
	ErrStudentNotFound       = apperrors.NewResourceNotFoundError("Siswa tidak ditemukan")
	errStudentFieldsRequired = apperrors.NewValidationError("Field NIS, nama, kelas, dan jenis kelamin harus diisi")
)

// StudentService defines the interface for student operations
type StudentService interface {
	List(ctx context.Context, query dto.ListQuery) (*dto.Page[models.StudentListItem], error)
	GetByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error)
	Update(ctx context.Context, id string, req *dto.UpdateStudentRequest) (*models.Student, error)
	Delete(ctx context.Context, id string) error
}

// studentServiceImpl implements the StudentService interface
type studentServiceImpl struct {
	students StudentStore
	notifier ChangeNotifier
}

// NewStudentService creates a new student service instance
func NewStudentService(students StudentStore, notifier ChangeNotifier) StudentService {
	return &studentServiceImpl{
		students: students,
		notifier: notifierOrNoop(notifier),
	}
}

func (s *studentServiceImpl) List(ctx context.Context, query dto.ListQuery) (*dto.Page[models.StudentListItem], error) {
	page, limit := helpers.NormalizePagination(query.Page, query.Limit)
	offset, size := helpers.CalculateOffsetLimit(page, limit)

	students, total, err := s.students.List(ctx,
		repositories.StudentFilter{Search: strings.TrimSpace(query.Search)},
		repositories.PageRequest{Offset: offset, Limit: size},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return &dto.Page[models.StudentListItem]{
		Items:      students,
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

func (s *studentServiceImpl) GetByID(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return student, nil
}

func (s *studentServiceImpl) Create(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error) {
	student := &models.Student{
		NIS:          strings.TrimSpace(req.NIS),
		Nama:         strings.TrimSpace(req.Nama),
		Kelas:        strings.TrimSpace(req.Kelas),
		Jurusan:      helpers.NilIfEmpty(req.Jurusan),
		JenisKelamin: req.JenisKelamin,
		TanggalLahir: nonZeroDate(req.TanggalLahir),
		Alamat:       helpers.NilIfEmpty(req.Alamat),
	}
	if student.NIS == "" || student.Nama == "" || student.Kelas == "" || student.JenisKelamin == "" {
		return nil, errStudentFieldsRequired
	}
	if !student.JenisKelamin.Valid() {
		return nil, apperrors.NewValidationError("Jenis kelamin tidak valid")
	}

	exists, err := s.students.ExistsByNIS(ctx, student.NIS, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check nis: %w", err)
	}
	if exists {
		return nil, repositories.ErrNISExists
	}

	// The unique index still rejects a concurrent duplicate with ErrNISExists.
	if err := s.students.Create(ctx, student); err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Info().Str("studentID", student.ID).Str("nis", student.NIS).Msg("Student created")
	s.notifier.Publish(EntitySiswa, ActionCreated)
	return student, nil
}

func (s *studentServiceImpl) Update(ctx context.Context, id string, req *dto.UpdateStudentRequest) (*models.Student, error) {
	student, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if helpers.NonEmpty(req.NIS) {
		nis := strings.TrimSpace(*req.NIS)
		if nis != student.NIS {
			exists, err := s.students.ExistsByNIS(ctx, nis, student.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to check nis: %w", err)
			}
			if exists {
				return nil, repositories.ErrNISExists
			}
		}
		student.NIS = nis
	}
	if helpers.NonEmpty(req.Nama) {
		student.Nama = strings.TrimSpace(*req.Nama)
	}
	if helpers.NonEmpty(req.Kelas) {
		student.Kelas = strings.TrimSpace(*req.Kelas)
	}
	if req.JenisKelamin != nil && *req.JenisKelamin != "" {
		student.JenisKelamin = *req.JenisKelamin
	}
	if d := nonZeroDate(req.TanggalLahir); d != nil {
		student.TanggalLahir = d
	}
	// Present optional text fields replace the stored value, even when empty.
	if req.Jurusan != nil {
		student.Jurusan = helpers.NilIfEmpty(req.Jurusan)
	}
	if req.Alamat != nil {
		student.Alamat = helpers.NilIfEmpty(req.Alamat)
	}

	if err := s.students.Update(ctx, student); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	student.Prestasi = nil
	logger.Ctx(ctx).Info().Str("studentID", student.ID).Msg("Student updated")
	s.notifier.Publish(EntitySiswa, ActionUpdated)
	return student, nil
}

// Delete removes the student and, through the foreign key cascade, its achievements.
func (s *studentServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.students.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("failed to delete student: %w", err)
	}
	logger.Ctx(ctx).Info().Str("studentID", id).Msg("Student deleted")
	s.notifier.Publish(EntitySiswa, ActionDeleted)
	return nil
}

func nonZeroDate(d *models.Date) *models.Date {
	if d == nil || d.IsZero() {
		return nil
	}
	return d
}
