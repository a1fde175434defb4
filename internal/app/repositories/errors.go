package repositories

import (
	"errors"

	"github.com/google/uuid"
	"github.com/siprista/backend/internal/pkg/apperrors"
)

// ErrNotFound is returned when a row addressed by id does not exist.
var ErrNotFound = errors.New("record not found")

// Unique-field and relation errors. The same values are returned by the
// application pre-checks and by the storage constraint translation.
var (
	ErrNISExists           = apperrors.NewDuplicateError("NIS sudah terdaftar")
	ErrEmailExists         = apperrors.NewDuplicateError("Email sudah terdaftar")
	ErrNIPExists           = apperrors.NewDuplicateError("NIP sudah terdaftar")
	ErrSiswaReference      = apperrors.NewReferentialError("Siswa tidak ditemukan")
	ErrGuruReference       = apperrors.NewReferentialError("Guru tidak ditemukan")
	ErrGuruHasAchievements = apperrors.NewDependencyError("Tidak dapat menghapus guru yang memiliki data prestasi terkait")
)

// Constraint names from the schema migrations.
const (
	constraintStudentsNIS      = "students_nis_key"
	constraintAccountsEmail    = "accounts_email_key"
	constraintAccountsNIP      = "accounts_nip_key"
	constraintAchievementSiswa = "achievements_siswa_id_fkey"
	constraintAchievementGuru  = "achievements_guru_id_fkey"
)

// PageRequest is an offset window. Limit 0 means no limit.
type PageRequest struct {
	Offset uint64
	Limit  uint64
}

// validID reports whether id can address a UUID primary key. Anything else cannot match a row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func newID() string {
	return uuid.NewString()
}
