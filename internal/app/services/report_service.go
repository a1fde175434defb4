package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	authz "github.com/siprista/backend/internal/app/auth"
	"github.com/siprista/backend/internal/app/models"
	"github.com/siprista/backend/internal/app/report"
	"github.com/siprista/backend/internal/app/repositories"
	"github.com/siprista/backend/internal/pkg/apperrors"
	"github.com/siprista/backend/internal/pkg/export"
	"github.com/siprista/backend/internal/pkg/helpers"
	"github.com/siprista/backend/internal/pkg/logger"
)

var (
	ErrNothingToExport = apperrors.NewValidationError("Tidak ada data prestasi untuk diekspor")
	errInvalidFormat   = apperrors.NewValidationError("Format ekspor harus xlsx atau pdf")
)

// ReportService defines the interface for dashboard statistics and exports
type ReportService interface {
	// Build returns the report for identity. Admins get the school-wide view unless
	// guruID narrows it to one teacher; a guru always gets their own view.
	Build(ctx context.Context, identity authz.Identity, guruID string) (*report.Report, error)
	// Export writes the report as format to w and returns the attachment filename.
	Export(ctx context.Context, identity authz.Identity, guruID string, format export.Format, w io.Writer) (string, error)
}

// reportServiceImpl implements the ReportService interface
type reportServiceImpl struct {
	achievements AchievementStore
	students     StudentStore
	accounts     AccountStore
	clock        helpers.Clock
	location     *time.Location
}

// NewReportService creates a new report service instance
func NewReportService(
	achievements AchievementStore,
	students StudentStore,
	accounts AccountStore,
	clock helpers.Clock,
	location *time.Location,
) ReportService {
	if clock == nil {
		clock = helpers.SystemClock
	}
	if location == nil {
		location = time.UTC
	}
	return &reportServiceImpl{
		achievements: achievements,
		students:     students,
		accounts:     accounts,
		clock:        clock,
		location:     location,
	}
}

func (s *reportServiceImpl) Build(ctx context.Context, identity authz.Identity, guruID string) (*report.Report, error) {
	r, _, err := s.build(ctx, identity, guruID)
	return r, err
}

func (s *reportServiceImpl) Export(ctx context.Context, identity authz.Identity, guruID string, format export.Format, w io.Writer) (string, error) {
	format, ok := export.ParseFormat(string(format))
	if !ok {
		return "", errInvalidFormat
	}
	r, achievements, err := s.build(ctx, identity, guruID)
	if err != nil {
		return "", err
	}
	if len(achievements) == 0 {
		return "", ErrNothingToExport
	}

	switch format {
	case export.FormatPDF:
		err = export.WritePDF(w, report.PDF(*r))
	default:
		err = export.WriteXLSX(w, report.Workbook(*r, achievements))
	}
	if err != nil {
		return "", fmt.Errorf("failed to render %s export: %w", format, err)
	}
	logger.Ctx(ctx).Info().Str("format", string(format)).Int("achievements", len(achievements)).Msg("Report exported")
	return report.Filename(r.GeneratedAt, format), nil
}

// build loads the unpaginated data for the scope and aggregates it.
func (s *reportServiceImpl) build(ctx context.Context, identity authz.Identity, guruID string) (*report.Report, []models.Achievement, error) {
	scope := report.ScopeAll
	filter := repositories.AchievementFilter{}
	if identity.IsGuru() {
		scope, filter.GuruID = report.ScopeGuru, identity.AccountID
	} else if g := strings.TrimSpace(guruID); g != "" {
		scope, filter.GuruID = report.ScopeGuru, g
	}

	achievements, _, err := s.achievements.List(ctx, filter, repositories.PageRequest{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load achievements: %w", err)
	}
	totalSiswa, err := s.students.Count(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count students: %w", err)
	}

	in := report.Input{Achievements: achievements, TotalSiswa: totalSiswa}
	if scope == report.ScopeAll {
		gurus, _, err := s.accounts.List(ctx, repositories.AccountFilter{Role: models.RoleGuru}, repositories.PageRequest{})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load guru: %w", err)
		}
		in.Gurus = gurus
	}

	r := report.Build(in, report.Options{Scope: scope, Now: s.clock(), Location: s.location})
	return &r, achievements, nil
}
