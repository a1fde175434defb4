package dto

import "github.com/siprista/backend/internal/app/models"

// AchievementQuery holds achievement list filters
type AchievementQuery struct {
	ListQuery
	Tingkat       string `form:"tingkat"`
	JenisPrestasi string `form:"jenisPrestasi"`
	GuruID        string `form:"guruId"`
	Public        bool   `form:"public"`
}

// CreateAchievementRequest represents a new achievement
type CreateAchievementRequest struct {
	SiswaID       string               `json:"siswaId" validate:"required"`
	GuruID        string               `json:"guruId"`
	JenisPrestasi models.JenisPrestasi `json:"jenisPrestasi" validate:"required" example:"AKADEMIK"`
	NamaPrestasi  string               `json:"namaPrestasi" validate:"required" example:"Juara 1 Olimpiade Matematika"`
	Tingkat       models.Tingkat       `json:"tingkat" validate:"required" example:"PROVINSI"`
	Penyelenggara *string              `json:"penyelenggara" example:"Dinas Pendidikan Provinsi DKI"`
	Tanggal       models.Date          `json:"tanggal" validate:"required" swaggertype:"string" example:"2024-01-15"`
	Deskripsi     *string              `json:"deskripsi"`
}

// UpdateAchievementRequest is a partial update; nil fields keep their stored value
type UpdateAchievementRequest struct {
	SiswaID       *string               `json:"siswaId"`
	GuruID        *string               `json:"guruId"`
	JenisPrestasi *models.JenisPrestasi `json:"jenisPrestasi"`
	NamaPrestasi  *string               `json:"namaPrestasi"`
	Tingkat       *models.Tingkat       `json:"tingkat"`
	Penyelenggara *string               `json:"penyelenggara"`
	Tanggal       *models.Date          `json:"tanggal" swaggertype:"string"`
	Deskripsi     *string               `json:"deskripsi"`
}
