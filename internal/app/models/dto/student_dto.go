package dto

import "github.com/siprista/backend/internal/app/models"

// ListQuery holds the common list query parameters
type ListQuery struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Search string `form:"search"`
}

// CreateStudentRequest represents a new student
type CreateStudentRequest struct {
	NIS          string              `json:"nis" validate:"required" example:"2024001"`
	Nama         string              `json:"nama" validate:"required" example:"Ahmad Rizki"`
	Kelas        string              `json:"kelas" validate:"required" example:"XII IPA 1"`
	Jurusan      *string             `json:"jurusan" example:"IPA"`
	JenisKelamin models.JenisKelamin `json:"jenisKelamin" validate:"required" example:"LAKI_LAKI"`
	TanggalLahir *models.Date        `json:"tanggalLahir" swaggertype:"string" example:"2006-05-15"`
	Alamat       *string             `json:"alamat"`
}

// UpdateStudentRequest is a partial update; nil fields keep their stored value
type UpdateStudentRequest struct {
	NIS          *string              `json:"nis"`
	Nama         *string              `json:"nama"`
	Kelas        *string              `json:"kelas"`
	Jurusan      *string              `json:"jurusan"`
	JenisKelamin *models.JenisKelamin `json:"jenisKelamin"`
	TanggalLahir *models.Date         `json:"tanggalLahir" swaggertype:"string"`
	Alamat       *string              `json:"alamat"`
}
