package models

import "time"

// Student defines the student model based on the 'students' table
type Student struct {
	ID           string       `json:"id" db:"id" example:"5f0c3c1e-6a8e-4a59-9a57-5c0f3c7d9b11"`
	NIS          string       `json:"nis" db:"nis" example:"2024001"`
	Nama         string       `json:"nama" db:"nama" example:"Ahmad Rizki"`
	Kelas        string       `json:"kelas" db:"kelas" example:"XII IPA 1"`
	Jurusan      *string      `json:"jurusan" db:"jurusan" example:"IPA"`
	JenisKelamin JenisKelamin `json:"jenisKelamin" db:"jenis_kelamin" example:"LAKI_LAKI"`
	TanggalLahir *Date        `json:"tanggalLahir" db:"tanggal_lahir" swaggertype:"string" example:"2006-05-15"`
	Alamat       *string      `json:"alamat" db:"alamat"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time    `json:"updatedAt" db:"updated_at"`

	// Populated by the detail query, each row with its guru.
	Prestasi []Achievement `json:"prestasi,omitempty"`
}

// StudentListItem is a student list row. Its Prestasi replaces the detail rows of Student.
type StudentListItem struct {
	Student
	Prestasi []AchievementSummary `json:"prestasi"`
}

// StudentSummary is the student shape nested inside achievements
type StudentSummary struct {
	ID    string `json:"id"`
	NIS   string `json:"nis"`
	Nama  string `json:"nama"`
	Kelas string `json:"kelas"`
	// Set only on achievement detail
	Jurusan      *string       `json:"jurusan,omitempty"`
	JenisKelamin *JenisKelamin `json:"jenisKelamin,omitempty"`
}
