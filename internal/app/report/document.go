package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/siprista/backend/internal/app/models"
	"github.com/siprista/backend/internal/pkg/export"
)

// Document titles and sheet names.
const (
	Title          = "Laporan Prestasi Siswa"
	SheetStatistik = "Statistik"
	SheetPrestasi  = "Data Prestasi"
	// displayDateLayout is day/month/year without padding, as dates are printed in Indonesia.
	displayDateLayout = "2/1/2006"
)

// Filename returns laporan-prestasi-YYYY-MM-DD.<ext> for the date of now.
func Filename(now time.Time, f export.Format) string {
	return fmt.Sprintf("laporan-prestasi-%s.%s", now.Format(models.DateLayout), f)
}

// Workbook lays r and its achievements out as the two-sheet export.
func Workbook(r Report, achievements []models.Achievement) export.Workbook {
	header := export.Table{
		Title: "LAPORAN PRESTASI SISWA",
		Rows:  [][]string{{"Tanggal", r.GeneratedAt.Format(displayDateLayout)}},
	}
	stats := []export.Table{header, {
		Title: "STATISTIK UMUM",
		Rows:  generalRows(r.Scope, r.Totals),
	}, {
		Title:  "PRESTASI PER JENIS",
		Header: []string{"Jenis Prestasi", "Jumlah", "Persentase"},
		Rows:   breakdownRows(r.PrestasiPerJenis),
	}, {
		Title:  "PRESTASI PER TINGKAT",
		Header: []string{"Tingkat", "Jumlah", "Persentase"},
		Rows:   breakdownRows(r.PrestasiPerTingkat),
	}}
	if r.Scope == ScopeAll {
		rows := make([][]string, 0, len(r.TopGuru))
		for _, g := range r.TopGuru {
			rows = append(rows, []string{g.Name, g.Email, itoa(g.Count)})
		}
		stats = append(stats, export.Table{
			Title:  fmt.Sprintf("TOP %d GURU", TopGuruLimit),
			Header: []string{"Nama Guru", "Email", "Total Prestasi"},
			Rows:   rows,
		})
	}
	siswaRows := make([][]string, 0, len(r.TopSiswa))
	for _, s := range r.TopSiswa {
		siswaRows = append(siswaRows, []string{s.Nama, s.Kelas, itoa(s.Count)})
	}
	bulanRows := make([][]string, 0, len(r.PrestasiPerBulan))
	for _, b := range r.PrestasiPerBulan {
		bulanRows = append(bulanRows, []string{b.Nama, itoa(b.Count)})
	}
	stats = append(stats, export.Table{
		Title:  fmt.Sprintf("TOP %d SISWA", topSiswaLimit(r.Scope)),
		Header: []string{"Nama Siswa", "Kelas", "Jumlah Prestasi"},
		Rows:   siswaRows,
	}, export.Table{
		Title:  "PRESTASI PER BULAN",
		Header: []string{"Bulan", "Jumlah"},
		Rows:   bulanRows,
	})

	detail := make([][]string, 0, len(achievements))
	for _, a := range achievements {
		var nama, kelas, guru string
		if a.Siswa != nil {
			nama, kelas = a.Siswa.Nama, a.Siswa.Kelas
		}
		if a.Guru != nil {
			guru = a.Guru.Name
		}
		detail = append(detail, []string{
			nama, kelas, a.NamaPrestasi, a.JenisPrestasi.Label(), a.Tingkat.Label(),
			a.Tanggal.Format(displayDateLayout), guru,
		})
	}

	return export.Workbook{Sheets: []export.Sheet{
		{Name: SheetStatistik, Tables: stats},
		{Name: SheetPrestasi, Tables: []export.Table{{
			Title:  "DATA PRESTASI DETAIL",
			Header: []string{"Nama Siswa", "Kelas", "Nama Prestasi", "Jenis", "Tingkat", "Tanggal", "Guru"},
			Rows:   detail,
		}}},
	}}
}

// PDF lays r out as the printable report.
func PDF(r Report) export.Report {
	jenis := make([][]string, 0, len(r.PrestasiPerJenis))
	for _, b := range r.PrestasiPerJenis {
		jenis = append(jenis, []string{b.Label, itoa(b.Count), b.Percentage + "%"})
	}
	siswa := make([][]string, 0, len(r.TopSiswa))
	for i, s := range r.TopSiswa {
		siswa = append(siswa, []string{strconv.Itoa(i + 1), s.Nama, s.Kelas, itoa(s.Count)})
	}

	general := make([]string, 0, 6)
	for _, row := range generalRows(r.Scope, r.Totals) {
		general = append(general, row[0]+": "+row[1])
	}

	return export.Report{
		Title:    Title,
		Subtitle: "Tanggal: " + r.GeneratedAt.Format(displayDateLayout),
		Sections: []export.Section{
			{Heading: "Statistik Umum", Lines: general},
			{Heading: "Prestasi per Jenis", Table: &export.Table{
				Header: []string{"Jenis Prestasi", "Jumlah", "Persentase"},
				Rows:   jenis,
			}},
			{Heading: fmt.Sprintf("Top %d Siswa Berprestasi", topSiswaLimit(r.Scope)), Table: &export.Table{
				Header: []string{"No", "Nama Siswa", "Kelas", "Jumlah Prestasi"},
				Rows:   siswa,
			}},
		},
	}
}

// generalRows lists the headline counters. The teacher view replaces the school totals
// with its distinct-student figures.
func generalRows(scope Scope, t Totals) [][]string {
	if scope == ScopeGuru {
		rows := [][]string{
			{"Total Prestasi", itoa(t.TotalPrestasi)},
			{"Prestasi Bulan Ini", itoa(t.PrestasiBulanIni)},
		}
		if t.SiswaBerprestasi != nil {
			rows = append(rows,
				[]string{"Siswa Berprestasi", itoa(*t.SiswaBerprestasi)},
				[]string{"Rata-rata Prestasi/Siswa", t.RataPrestasi},
			)
		}
		return rows
	}
	var gurus int64
	if t.TotalGuru != nil {
		gurus = *t.TotalGuru
	}
	return [][]string{
		{"Total Siswa", itoa(t.TotalSiswa)},
		{"Total Guru", itoa(gurus)},
		{"Total Prestasi", itoa(t.TotalPrestasi)},
		{"Prestasi Bulan Ini", itoa(t.PrestasiBulanIni)},
	}
}

func breakdownRows(bs []Breakdown) [][]string {
	rows := make([][]string, 0, len(bs))
	for _, b := range bs {
		rows = append(rows, []string{b.Label, itoa(b.Count), b.Percentage + "%"})
	}
	return rows
}

func topSiswaLimit(s Scope) int {
	if s == ScopeGuru {
		return TopSiswaLimitGuru
	}
	return TopSiswaLimitAll
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
