package services

import (
	"context"
	"testing"

	authz "github.com/siprista/backend/internal/app/auth"
	"github.com/siprista/backend/internal/app/models"
	"github.com/siprista/backend/internal/app/models/dto"
	"github.com/siprista/backend/internal/app/repositories"
	"github.com/siprista/backend/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	adminIdentity = authz.Identity{AccountID: "admin-1", Email: "admin@siprista.com", Role: models.RoleAdmin}
	guruIdentity  = authz.Identity{AccountID: "g-1", Email: "guru@siprista.com", Role: models.RoleGuru}
)

type achievementFixture struct {
	achievements *MockAchievementStore
	students     *MockStudentStore
	accounts     *MockAccountStore
	notifier     *recordingNotifier
	svc          AchievementService
}

func newAchievementFixture() *achievementFixture {
	f := &achievementFixture{
		achievements: new(MockAchievementStore),
		students:     new(MockStudentStore),
		accounts:     new(MockAccountStore),
		notifier:     &recordingNotifier{},
	}
	f.svc = NewAchievementService(f.achievements, f.students, f.accounts, f.notifier)
	return f
}

func createRequest(siswaID, guruID string) *dto.CreateAchievementRequest {
	tanggal, _ := models.ParseDate("2024-01-15")
	return &dto.CreateAchievementRequest{
		SiswaID:       siswaID,
		GuruID:        guruID,
		JenisPrestasi: models.JenisAkademik,
		NamaPrestasi:  "Juara 1 Olimpiade Matematika",
		Tingkat:       models.TingkatProvinsi,
		Penyelenggara: strPtr("Dinas Pendidikan Provinsi"),
		Tanggal:       tanggal,
	}
}

func TestAchievementService_CreateRejectsMissingReferences(t *testing.T) {
	ctx := context.Background()

	t.Run("siswa", func(t *testing.T) {
		f := newAchievementFixture()
		f.students.On("ExistsByID", ctx, "s-missing").Return(false, nil)

		_, err := f.svc.Create(ctx, adminIdentity, createRequest("s-missing", "g-1"))
		assert.ErrorIs(t, err, apperrors.ErrReferential)
		msg, _ := apperrors.Message(err)
		assert.Equal(t, "Siswa tidak ditemukan", msg)
		f.achievements.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("guru", func(t *testing.T) {
		f := newAchievementFixture()
		f.students.On("ExistsByID", ctx, "s-1").Return(true, nil)
		f.accounts.On("GetByID", ctx, "g-missing").Return(nil, repositories.ErrNotFound)

		_, err := f.svc.Create(ctx, adminIdentity, createRequest("s-1", "g-missing"))
		assert.ErrorIs(t, err, repositories.ErrGuruReference)
		f.achievements.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("account is not a guru", func(t *testing.T) {
		f := newAchievementFixture()
		f.students.On("ExistsByID", ctx, "s-1").Return(true, nil)
		f.accounts.On("GetByID", ctx, "admin-1").Return(&models.Account{ID: "admin-1", Role: models.RoleAdmin}, nil)

		_, err := f.svc.Create(ctx, adminIdentity, createRequest("s-1", "admin-1"))
		assert.ErrorIs(t, err, repositories.ErrGuruReference)
	})
}

func TestAchievementService_CreateRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newAchievementFixture()

	f.students.On("ExistsByID", ctx, "s-1").Return(true, nil)
	f.accounts.On("GetByID", ctx, "g-1").Return(&models.Account{ID: "g-1", Role: models.RoleGuru}, nil)

	var stored models.Achievement
	f.achievements.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		a := args.Get(1).(*models.Achievement)
		a.ID = "a-1"
		stored = *a
	}).Return(nil)
	f.achievements.On("GetByID", ctx, "a-1").Return(&stored, nil)

	// A guru passing someone else's id still records under their own.
	created, err := f.svc.Create(ctx, guruIdentity, createRequest(" s-1 ", "g-other"))
	require.NoError(t, err)

	assert.Equal(t, "a-1", created.ID)
	assert.Equal(t, "s-1", created.SiswaID)
	assert.Equal(t, "g-1", created.GuruID)
	assert.Equal(t, models.JenisAkademik, created.JenisPrestasi)
	assert.Equal(t, models.TingkatProvinsi, created.Tingkat)
	assert.Equal(t, "2024-01-15", created.Tanggal.String())
	require.NotNil(t, created.Penyelenggara)
	assert.Equal(t, "Dinas Pendidikan Provinsi", *created.Penyelenggara)
	assert.Nil(t, created.Deskripsi)
	assert.Equal(t, []string{"prestasi.created"}, f.notifier.Events())
}

func TestAchievementService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newAchievementFixture()

	req := createRequest("s-1", "g-1")
	req.NamaPrestasi = ""
	_, err := f.svc.Create(ctx, adminIdentity, req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	req = createRequest("s-1", "g-1")
	req.Tingkat = "RT"
	_, err = f.svc.Create(ctx, adminIdentity, req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	f.students.AssertNotCalled(t, "ExistsByID", mock.Anything, mock.Anything)
}

func TestAchievementService_ListPublicHidesGuru(t *testing.T) {
	ctx := context.Background()
	f := newAchievementFixture()

	rows := []models.Achievement{
		{ID: "a-1", GuruID: "g-1", Guru: &models.AccountSummary{ID: "g-1", Name: "Guru"}},
		{ID: "a-2", GuruID: "g-2", Guru: &models.AccountSummary{ID: "g-2", Name: "Guru Dua"}},
	}
	f.achievements.On("List", ctx, repositories.AchievementFilter{}, repositories.PageRequest{Offset: 0, Limit: 10}).
		Return(rows, int64(2), nil)

	page, err := f.svc.List(ctx, nil, dto.AchievementQuery{Public: true})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	for _, a := range page.Items {
		assert.Empty(t, a.GuruID)
		assert.Nil(t, a.Guru)
	}
}

func TestAchievementService_ListScoping(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous non-public is rejected", func(t *testing.T) {
		f := newAchievementFixture()
		_, err := f.svc.List(ctx, nil, dto.AchievementQuery{})
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("guru sees only own records", func(t *testing.T) {
		f := newAchievementFixture()
		f.achievements.On("List", ctx, repositories.AchievementFilter{GuruID: "g-1", Tingkat: models.TingkatNasional}, mock.Anything).
			Return([]models.Achievement{}, int64(0), nil)

		id := guruIdentity
		_, err := f.svc.List(ctx, &id, dto.AchievementQuery{GuruID: "g-2", Tingkat: "NASIONAL"})
		require.NoError(t, err)
		f.achievements.AssertExpectations(t)
	})

	t.Run("admin filter passes through", func(t *testing.T) {
		f := newAchievementFixture()
		f.achievements.On("List", ctx, repositories.AchievementFilter{GuruID: "g-2", Search: "olimpiade"}, mock.Anything).
			Return([]models.Achievement{}, int64(0), nil)

		id := adminIdentity
		_, err := f.svc.List(ctx, &id, dto.AchievementQuery{ListQuery: dto.ListQuery{Search: "olimpiade"}, GuruID: "g-2"})
		require.NoError(t, err)
		f.achievements.AssertExpectations(t)
	})

	t.Run("unknown tingkat", func(t *testing.T) {
		f := newAchievementFixture()
		_, err := f.svc.List(ctx, nil, dto.AchievementQuery{Public: true, Tingkat: "GALAKSI"})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestAchievementService_Ownership(t *testing.T) {
	ctx := context.Background()
	f := newAchievementFixture()
	foreign := &models.Achievement{ID: "a-9", SiswaID: "s-1", GuruID: "g-2"}
	f.achievements.On("GetByID", ctx, "a-9").Return(foreign, nil)

	_, err := f.svc.Update(ctx, guruIdentity, "a-9", &dto.UpdateAchievementRequest{NamaPrestasi: strPtr("Juara 2")})
	assert.ErrorIs(t, err, authz.ErrNotOwner)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	err = f.svc.Delete(ctx, guruIdentity, "a-9")
	assert.ErrorIs(t, err, authz.ErrNotOwner)

	f.achievements.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.achievements.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	assert.Empty(t, f.notifier.Events())
}

func TestAchievementService_GuruCannotReassign(t *testing.T) {
	ctx := context.Background()
	f := newAchievementFixture()
	f.achievements.On("GetByID", ctx, "a-1").Return(&models.Achievement{ID: "a-1", GuruID: "g-1"}, nil)

	_, err := f.svc.Update(ctx, guruIdentity, "a-1", &dto.UpdateAchievementRequest{GuruID: strPtr("g-2")})
	assert.ErrorIs(t, err, authz.ErrNotOwner)
}

func TestAchievementService_UpdateOwn(t *testing.T) {
	ctx := context.Background()
	f := newAchievementFixture()
	tanggal, _ := models.ParseDate("2024-01-15")
	stored := &models.Achievement{
		ID: "a-1", SiswaID: "s-1", GuruID: "g-1", JenisPrestasi: models.JenisAkademik,
		NamaPrestasi: "Juara 1", Tingkat: models.TingkatSekolah, Tanggal: tanggal, Deskripsi: strPtr("lama"),
	}
	f.achievements.On("GetByID", ctx, "a-1").Return(stored, nil)
	f.achievements.On("Update", ctx, mock.MatchedBy(func(a *models.Achievement) bool {
		return a.NamaPrestasi == "Juara 1" && a.Tingkat == models.TingkatNasional && a.Deskripsi == nil
	})).Return(nil)

	nasional := models.TingkatNasional
	updated, err := f.svc.Update(ctx, guruIdentity, "a-1", &dto.UpdateAchievementRequest{
		NamaPrestasi: strPtr(""),
		Tingkat:      &nasional,
		Deskripsi:    strPtr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "a-1", updated.ID)
	f.students.AssertNotCalled(t, "ExistsByID", mock.Anything, mock.Anything)
	f.achievements.AssertExpectations(t)
	assert.Equal(t, []string{"prestasi.updated"}, f.notifier.Events())
}

func TestAchievementService_AdminDeletesAny(t *testing.T) {
	ctx := context.Background()
	f := newAchievementFixture()
	f.achievements.On("GetByID", ctx, "a-9").Return(&models.Achievement{ID: "a-9", GuruID: "g-2"}, nil)
	f.achievements.On("Delete", ctx, "a-9").Return(nil)
	f.achievements.On("GetByID", ctx, "gone").Return(nil, repositories.ErrNotFound)

	require.NoError(t, f.svc.Delete(ctx, adminIdentity, "a-9"))
	assert.ErrorIs(t, f.svc.Delete(ctx, adminIdentity, "gone"), ErrAchievementNotFound)
}
