package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/siprista/backend/internal/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentRepository_CreateGetUpdate(t *testing.T) {
	db := testDB(t)
	repo := NewStudentRepository(db)
	ctx := context.Background()

	s := fakeStudent()
	require.NoError(t, repo.Create(ctx, s))
	assert.NotEmpty(t, s.ID)
	assert.False(t, s.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.NIS, got.NIS)
	assert.Equal(t, s.Nama, got.Nama)
	assert.Equal(t, s.TanggalLahir.Format(models.DateLayout), got.TanggalLahir.Format(models.DateLayout))
	assert.Empty(t, got.Prestasi)

	got.Kelas = "XI IPS 2"
	got.Alamat = nil
	require.NoError(t, repo.Update(ctx, got))

	again, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "XI IPS 2", again.Kelas)
	assert.Nil(t, again.Alamat)
	assert.Equal(t, s.NIS, again.NIS)
}

func TestStudentRepository_DuplicateNIS(t *testing.T) {
	db := testDB(t)
	repo := NewStudentRepository(db)
	ctx := context.Background()

	first := fakeStudent()
	require.NoError(t, repo.Create(ctx, first))

	second := fakeStudent()
	second.NIS = first.NIS
	assert.ErrorIs(t, repo.Create(ctx, second), ErrNISExists)

	exists, err := repo.ExistsByNIS(ctx, first.NIS, "")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByNIS(ctx, first.NIS, first.ID)
	require.NoError(t, err)
	assert.False(t, exists, "a student does not conflict with itself")

	byNIS, err := repo.GetByNIS(ctx, first.NIS)
	require.NoError(t, err)
	assert.Equal(t, first.ID, byNIS.ID)

	_, err = repo.GetByNIS(ctx, "no-such-nis")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStudentRepository_ListSearchAndPaging(t *testing.T) {
	db := testDB(t)
	repo := NewStudentRepository(db)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		s := fakeStudent()
		if i == 3 {
			s.Nama = "Budi Santoso"
		}
		require.NoError(t, repo.Create(ctx, s))
	}

	page, total, err := repo.List(ctx, StudentFilter{}, PageRequest{Offset: 10, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	assert.Len(t, page, 2)

	found, total, err := repo.List(ctx, StudentFilter{Search: "budi"}, PageRequest{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, found, 1)
	assert.Equal(t, "Budi Santoso", found[0].Nama)
	assert.NotNil(t, found[0].Prestasi)
}

func TestStudentRepository_ListAchievementSummaries(t *testing.T) {
	db := testDB(t)
	students := NewStudentRepository(db)
	accounts := NewAccountRepository(db)
	achievements := NewAchievementRepository(db)
	ctx := context.Background()

	s := fakeStudent()
	require.NoError(t, students.Create(ctx, s))
	g := fakeGuru()
	require.NoError(t, accounts.Create(ctx, g))
	a := fakeAchievement(s.ID, g.ID)
	a.Tanggal = models.NewDate(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, achievements.Create(ctx, a))

	rows, _, err := students.List(ctx, StudentFilter{Search: s.NIS}, PageRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []models.AchievementSummary{{
		ID:           a.ID,
		NamaPrestasi: a.NamaPrestasi,
		Tingkat:      a.Tingkat,
		Tanggal:      a.Tanggal,
	}}, rows[0].Prestasi)
	assert.Nil(t, rows[0].Student.Prestasi)
}

func TestStudentRepository_DeleteCascadesAchievements(t *testing.T) {
	db := testDB(t)
	students := NewStudentRepository(db)
	accounts := NewAccountRepository(db)
	achievements := NewAchievementRepository(db)
	ctx := context.Background()

	s := fakeStudent()
	require.NoError(t, students.Create(ctx, s))
	g := fakeGuru()
	require.NoError(t, accounts.Create(ctx, g))

	older := fakeAchievement(s.ID, g.ID)
	older.Tanggal = models.NewDate(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	newer := fakeAchievement(s.ID, g.ID)
	newer.Tanggal = models.NewDate(time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, achievements.Create(ctx, older))
	require.NoError(t, achievements.Create(ctx, newer))

	detail, err := students.GetByID(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, detail.Prestasi, 2)
	assert.Equal(t, newer.ID, detail.Prestasi[0].ID, "newest event first")
	assert.Equal(t, g.Name, detail.Prestasi[0].Guru.Name)

	require.NoError(t, students.Delete(ctx, s.ID))

	n, err := achievements.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.ErrorIs(t, students.Delete(ctx, s.ID), ErrNotFound)
}

func TestStudentRepository_UnknownIDs(t *testing.T) {
	db := testDB(t)
	repo := NewStudentRepository(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetByID(ctx, "7c1f4a52-2b0e-4a4f-9a5e-1d2f3c4b5a69")
	assert.ErrorIs(t, err, ErrNotFound)

	missing := fakeStudent()
	missing.ID = "7c1f4a52-2b0e-4a4f-9a5e-1d2f3c4b5a69"
	assert.ErrorIs(t, repo.Update(ctx, missing), ErrNotFound)
}
