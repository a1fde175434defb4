package seed

import (
	"time"

	"github.com/siprista/backend/internal/app/models"
)

type demoAchievement struct {
	key         string
	nis         string
	achievement models.Achievement
}

var demoStudents = []models.Student{
	{
		NIS:          "2024001",
		Nama:         "Ahmad Rizki",
		Kelas:        "XII IPA 1",
		Jurusan:      strPtr("IPA"),
		JenisKelamin: models.LakiLaki,
		TanggalLahir: datePtr(2006, time.May, 15),
		Alamat:       strPtr("Jl. Merdeka No. 123, Jakarta"),
	},
	{
		NIS:          "2024002",
		Nama:         "Siti Nurhaliza",
		Kelas:        "XII IPS 2",
		Jurusan:      strPtr("IPS"),
		JenisKelamin: models.Perempuan,
		TanggalLahir: datePtr(2006, time.August, 20),
		Alamat:       strPtr("Jl. Sudirman No. 456, Jakarta"),
	},
	{
		NIS:          "2024003",
		Nama:         "Budi Santoso",
		Kelas:        "XI IPA 3",
		Jurusan:      strPtr("IPA"),
		JenisKelamin: models.LakiLaki,
		TanggalLahir: datePtr(2007, time.January, 10),
		Alamat:       strPtr("Jl. Gatot Subroto No. 789, Jakarta"),
	},
}

var demoAchievements = []demoAchievement{
	{
		key: "prestasi-1",
		nis: "2024001",
		achievement: models.Achievement{
			JenisPrestasi: models.JenisAkademik,
			NamaPrestasi:  "Juara 1 Olimpiade Matematika",
			Tingkat:       models.TingkatProvinsi,
			Penyelenggara: strPtr("Dinas Pendidikan Provinsi DKI"),
			Tanggal:       date(2024, time.January, 15),
			Deskripsi:     strPtr("Meraih juara 1 dalam Olimpiade Matematika tingkat Provinsi DKI Jakarta"),
		},
	},
	{
		key: "prestasi-2",
		nis: "2024002",
		achievement: models.Achievement{
			JenisPrestasi: models.JenisNonAkademik,
			NamaPrestasi:  "Best Speaker English Debate",
			Tingkat:       models.TingkatNasional,
			Penyelenggara: strPtr("Universitas Indonesia"),
			Tanggal:       date(2024, time.January, 20),
			Deskripsi:     strPtr("Meraih penghargaan Best Speaker dalam kompetisi English Debate tingkat Nasional"),
		},
	},
	{
		key: "prestasi-3",
		nis: "2024003",
		achievement: models.Achievement{
			JenisPrestasi: models.JenisEkstrakurikuler,
			NamaPrestasi:  "Juara 2 Lomba Pidato",
			Tingkat:       models.TingkatKabupaten,
			Penyelenggara: strPtr("Pemerintah Kabupaten Bekasi"),
			Tanggal:       date(2024, time.January, 25),
			Deskripsi:     strPtr("Meraih juara 2 dalam Lomba Pidato tingkat Kabupaten Bekasi"),
		},
	},
}

func date(y int, m time.Month, d int) models.Date {
	return models.NewDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func datePtr(y int, m time.Month, d int) *models.Date {
	v := date(y, m, d)
	return &v
}
