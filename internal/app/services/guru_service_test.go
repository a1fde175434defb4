package services

import (
	"context"
	"testing"

	"github.com/siprista/backend/internal/app/models"
	"github.com/siprista/backend/internal/app/models/dto"
	"github.com/siprista/backend/internal/app/repositories"
	"github.com/siprista/backend/internal/pkg/apperrors"
	"github.com/siprista/backend/internal/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGuruService_Create(t *testing.T) {
	ctx := context.Background()
	accounts := new(MockAccountStore)
	svc := NewGuruService(accounts, nil)

	accounts.On("ExistsByEmail", ctx, "dewi@siprista.com", "").Return(false, nil)
	accounts.On("ExistsByNIP", ctx, "198502022010", "").Return(false, nil)

	var created *models.Account
	accounts.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*models.Account)
		created.ID = "g-2"
	}).Return(nil)

	g, err := svc.Create(ctx, &dto.CreateGuruRequest{Email: "dewi@siprista.com", Name: "Dewi", NIP: strPtr("198502022010"), Password: "rahasia123"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleGuru, g.Role)
	assert.Empty(t, g.Password, "returned account has no hash")
	require.NotNil(t, created)
	assert.True(t, auth.CheckPassword(created.Password, "rahasia123"), "stored password is a bcrypt hash")
}

func TestGuruService_CreateDuplicates(t *testing.T) {
	ctx := context.Background()

	t.Run("email", func(t *testing.T) {
		accounts := new(MockAccountStore)
		accounts.On("ExistsByEmail", ctx, "guru@siprista.com", "").Return(true, nil)
		_, err := NewGuruService(accounts, nil).Create(ctx, &dto.CreateGuruRequest{Email: "guru@siprista.com", Name: "X", Password: "p"})
		assert.ErrorIs(t, err, repositories.ErrEmailExists)
	})

	t.Run("nip", func(t *testing.T) {
		accounts := new(MockAccountStore)
		accounts.On("ExistsByEmail", ctx, "baru@siprista.com", "").Return(false, nil)
		accounts.On("ExistsByNIP", ctx, "198001012001", "").Return(true, nil)
		_, err := NewGuruService(accounts, nil).Create(ctx, &dto.CreateGuruRequest{Email: "baru@siprista.com", Name: "X", NIP: strPtr("198001012001"), Password: "p"})
		assert.ErrorIs(t, err, repositories.ErrNIPExists)
		msg, _ := apperrors.Message(err)
		assert.Equal(t, "NIP sudah terdaftar", msg)
	})

	t.Run("required", func(t *testing.T) {
		_, err := NewGuruService(new(MockAccountStore), nil).Create(ctx, &dto.CreateGuruRequest{Email: "a@b.c", Name: "X"})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestGuruService_UpdatePassword(t *testing.T) {
	ctx := context.Background()
	oldHash, err := auth.HashPassword("lama123")
	require.NoError(t, err)

	newStored := func() *models.Account {
		return &models.Account{ID: "g-1", Email: "guru@siprista.com", Name: "Guru", NIP: strPtr("198001012001"), Password: oldHash, Role: models.RoleGuru}
	}

	t.Run("empty password keeps hash", func(t *testing.T) {
		accounts := new(MockAccountStore)
		accounts.On("GetByID", ctx, "g-1").Return(newStored(), nil)
		accounts.On("Update", ctx, mock.MatchedBy(func(a *models.Account) bool {
			return a.Password == oldHash && a.Name == "Guru Baru"
		})).Return(nil)

		g, err := NewGuruService(accounts, nil).Update(ctx, "g-1", &dto.UpdateGuruRequest{Name: strPtr("Guru Baru"), Password: strPtr("")})
		require.NoError(t, err)
		assert.Empty(t, g.Password)
		accounts.AssertExpectations(t)
	})

	t.Run("new password is rehashed", func(t *testing.T) {
		accounts := new(MockAccountStore)
		accounts.On("GetByID", ctx, "g-1").Return(newStored(), nil)
		accounts.On("Update", ctx, mock.MatchedBy(func(a *models.Account) bool {
			return a.Password != oldHash && auth.CheckPassword(a.Password, "baru456")
		})).Return(nil)

		_, err := NewGuruService(accounts, nil).Update(ctx, "g-1", &dto.UpdateGuruRequest{Password: strPtr("baru456")})
		require.NoError(t, err)
		accounts.AssertExpectations(t)
	})

	t.Run("present empty nip clears it", func(t *testing.T) {
		accounts := new(MockAccountStore)
		accounts.On("GetByID", ctx, "g-1").Return(newStored(), nil)
		accounts.On("Update", ctx, mock.MatchedBy(func(a *models.Account) bool { return a.NIP == nil })).Return(nil)

		g, err := NewGuruService(accounts, nil).Update(ctx, "g-1", &dto.UpdateGuruRequest{NIP: strPtr("")})
		require.NoError(t, err)
		assert.Nil(t, g.NIP)
	})
}

func TestGuruService_LookupsAreScopedToGuru(t *testing.T) {
	ctx := context.Background()
	accounts := new(MockAccountStore)
	svc := NewGuruService(accounts, nil)

	accounts.On("GetDetail", ctx, "admin-1", models.RoleGuru).Return(nil, repositories.ErrNotFound)
	accounts.On("GetByID", ctx, "admin-1").Return(&models.Account{ID: "admin-1", Role: models.RoleAdmin}, nil)

	_, err := svc.GetByID(ctx, "admin-1")
	assert.ErrorIs(t, err, ErrGuruNotFound)
	_, err = svc.Update(ctx, "admin-1", &dto.UpdateGuruRequest{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrGuruNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "admin-1"), ErrGuruNotFound)
	accounts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestGuruService_Delete(t *testing.T) {
	ctx := context.Background()
	stored := &models.Account{ID: "g-1", Role: models.RoleGuru}

	t.Run("blocked by achievements", func(t *testing.T) {
		accounts := new(MockAccountStore)
		accounts.On("GetByID", ctx, "g-1").Return(stored, nil)
		accounts.On("CountAchievements", ctx, "g-1").Return(int64(2), nil)

		err := NewGuruService(accounts, nil).Delete(ctx, "g-1")
		assert.ErrorIs(t, err, apperrors.ErrDependency)
		accounts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("succeeds without achievements then not found", func(t *testing.T) {
		accounts := new(MockAccountStore)
		notifier := &recordingNotifier{}
		svc := NewGuruService(accounts, notifier)
		accounts.On("GetByID", ctx, "g-1").Return(stored, nil).Once()
		accounts.On("CountAchievements", ctx, "g-1").Return(int64(0), nil)
		accounts.On("Delete", ctx, "g-1").Return(nil)
		accounts.On("GetDetail", ctx, "g-1", models.RoleGuru).Return(nil, repositories.ErrNotFound)

		require.NoError(t, svc.Delete(ctx, "g-1"))
		_, err := svc.GetByID(ctx, "g-1")
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
		assert.Equal(t, []string{"guru.deleted"}, notifier.Events())
	})
}
