package models

import "time"

// Achievement defines one recorded accomplishment based on the 'achievements' table
type Achievement struct {
	ID            string        `json:"id" db:"id"`
	SiswaID       string        `json:"siswaId" db:"siswa_id"`
	GuruID        string        `json:"guruId,omitempty" db:"guru_id"`
	JenisPrestasi JenisPrestasi `json:"jenisPrestasi" db:"jenis_prestasi" example:"AKADEMIK"`
	NamaPrestasi  string        `json:"namaPrestasi" db:"nama_prestasi" example:"Juara 1 Olimpiade Matematika"`
	Tingkat       Tingkat       `json:"tingkat" db:"tingkat" example:"PROVINSI"`
	Penyelenggara *string       `json:"penyelenggara" db:"penyelenggara"`
	Tanggal       Date          `json:"tanggal" db:"tanggal" swaggertype:"string" example:"2024-01-15"`
	Deskripsi     *string       `json:"deskripsi" db:"deskripsi"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time     `json:"updatedAt" db:"updated_at"`

	Siswa *StudentSummary `json:"siswa,omitempty"`
	Guru  *AccountSummary `json:"guru,omitempty"`
}

// AchievementSummary is the short achievement shape listed under each student.
type AchievementSummary struct {
	ID           string  `json:"id"`
	NamaPrestasi string  `json:"namaPrestasi"`
	Tingkat      Tingkat `json:"tingkat"`
	Tanggal      Date    `json:"tanggal" swaggertype:"string" example:"2024-01-15"`
}

// HideGuru strips the recording account for public responses.
func (a *Achievement) HideGuru() {
	a.GuruID = ""
	a.Guru = nil
}
