package repositories

import (
	"context"
	"testing"

	"github.com/siprista/backend/internal/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_UniqueEmailAndNIP(t *testing.T) {
	db := testDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	g := fakeGuru()
	require.NoError(t, repo.Create(ctx, g))

	sameEmail := fakeGuru()
	sameEmail.Email = g.Email
	assert.ErrorIs(t, repo.Create(ctx, sameEmail), ErrEmailExists)

	sameNIP := fakeGuru()
	sameNIP.NIP = g.NIP
	assert.ErrorIs(t, repo.Create(ctx, sameNIP), ErrNIPExists)

	noNIP := fakeGuru()
	noNIP.NIP = nil
	require.NoError(t, repo.Create(ctx, noNIP))
	other := fakeGuru()
	other.NIP = nil
	require.NoError(t, repo.Create(ctx, other), "several accounts may omit the NIP")
}

func TestAccountRepository_ListHidesPasswordAndCounts(t *testing.T) {
	db := testDB(t)
	accounts := NewAccountRepository(db)
	students := NewStudentRepository(db)
	achievements := NewAchievementRepository(db)
	ctx := context.Background()

	admin := fakeGuru()
	admin.Role = models.RoleAdmin
	admin.NIP = nil
	require.NoError(t, accounts.Create(ctx, admin))

	g := fakeGuru()
	require.NoError(t, accounts.Create(ctx, g))
	s := fakeStudent()
	require.NoError(t, students.Create(ctx, s))
	require.NoError(t, achievements.Create(ctx, fakeAchievement(s.ID, g.ID)))
	require.NoError(t, achievements.Create(ctx, fakeAchievement(s.ID, g.ID)))

	list, total, err := accounts.List(ctx, AccountFilter{Role: models.RoleGuru}, PageRequest{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Password)
	require.NotNil(t, list[0].Count)
	assert.Equal(t, int64(2), list[0].Count.PrestasiCreated)

	detail, err := accounts.GetDetail(ctx, g.ID, models.RoleGuru)
	require.NoError(t, err)
	assert.Empty(t, detail.Password)
	assert.Len(t, detail.PrestasiCreated, 2)
	assert.Equal(t, s.Nama, detail.PrestasiCreated[0].Siswa.Nama)

	_, err = accounts.GetDetail(ctx, admin.ID, models.RoleGuru)
	assert.ErrorIs(t, err, ErrNotFound, "admins are not visible as guru")
}

func TestAccountRepository_DeleteBlockedByAchievements(t *testing.T) {
	db := testDB(t)
	accounts := NewAccountRepository(db)
	students := NewStudentRepository(db)
	achievements := NewAchievementRepository(db)
	ctx := context.Background()

	g := fakeGuru()
	require.NoError(t, accounts.Create(ctx, g))
	s := fakeStudent()
	require.NoError(t, students.Create(ctx, s))
	a := fakeAchievement(s.ID, g.ID)
	require.NoError(t, achievements.Create(ctx, a))

	assert.ErrorIs(t, accounts.Delete(ctx, g.ID), ErrGuruHasAchievements)

	require.NoError(t, achievements.Delete(ctx, a.ID))
	require.NoError(t, accounts.Delete(ctx, g.ID))

	_, err := accounts.GetByID(ctx, g.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccountRepository_GetByEmailKeepsHash(t *testing.T) {
	db := testDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	g := fakeGuru()
	require.NoError(t, repo.Create(ctx, g))

	got, err := repo.GetByEmail(ctx, g.Email)
	require.NoError(t, err)
	assert.Equal(t, g.Password, got.Password)
	assert.Equal(t, models.RoleGuru, got.Role)

	_, err = repo.GetByEmail(ctx, "nobody@sekolah.sch.id")
	assert.ErrorIs(t, err, ErrNotFound)
}
