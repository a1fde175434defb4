package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	authz "github.com/siprista/backend/internal/app/auth"
	"github.com/siprista/backend/internal/app/report"
	"github.com/siprista/backend/internal/app/services"
	"github.com/siprista/backend/internal/pkg/export"
	"github.com/siprista/backend/internal/pkg/filestorage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockReportService struct {
	mock.Mock
}

func (m *mockReportService) Build(ctx context.Context, identity authz.Identity, guruID string) (*report.Report, error) {
	args := m.Called(ctx, identity, guruID)
	r, _ := args.Get(0).(*report.Report)
	return r, args.Error(1)
}

func (m *mockReportService) Export(ctx context.Context, identity authz.Identity, guruID string, format export.Format, w io.Writer) (string, error) {
	args := m.Called(ctx, identity, guruID, format, w)
	if body := args.String(2); body != "" {
		_, _ = io.WriteString(w, body)
	}
	return args.String(0), args.Error(1)
}

func TestExportReportStoresFile(t *testing.T) {
	storage, err := filestorage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	svc := new(mockReportService)
	svc.On("Export", mock.Anything, operatorIdentity, "g-1", export.FormatPDF, mock.Anything).
		Return("laporan-prestasi-2024-03-10.pdf", nil, "%PDF-1.3").Once()

	path, err := exportReport(context.Background(), svc, storage, export.FormatPDF, "g-1")
	require.NoError(t, err)
	assert.Equal(t, storage.GetFullPath("laporan-prestasi-2024-03-10.pdf"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(content))
	svc.AssertExpectations(t)
}

func TestExportReportNothingToExport(t *testing.T) {
	dir := t.TempDir()
	storage, err := filestorage.NewLocalStorage(dir)
	require.NoError(t, err)

	svc := new(mockReportService)
	svc.On("Export", mock.Anything, operatorIdentity, "", export.FormatXLSX, mock.Anything).
		Return("", services.ErrNothingToExport, "").Once()

	_, err = exportReport(context.Background(), svc, storage, export.FormatXLSX, "")
	assert.ErrorIs(t, err, services.ErrNothingToExport)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateAdminRequiresFlags(t *testing.T) {
	app := newApp()
	var out bytes.Buffer
	app.Writer, app.ErrWriter = &out, &out

	err := app.RunContext(context.Background(), []string{"siprista", "create-admin", "--email", "a@siprista.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password")
}

func TestAppCommands(t *testing.T) {
	app := newApp()
	names := make([]string, 0, len(app.Commands))
	for _, c := range app.Commands {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"migrate", "seed", "create-admin", "export"}, names)
}
