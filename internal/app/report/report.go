// Package report builds the achievement statistics shown on the dashboards and
// written into the exported workbooks. Build is pure: it never touches storage and
// always returns a result, falling back to zero values for empty input.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/siprista/backend/internal/app/models"
	"github.com/siprista/backend/internal/pkg/helpers"
)

// Scope selects which dashboard the report is built for.
type Scope string

const (
	// ScopeAll is the administrator view over every achievement.
	ScopeAll Scope = "all"
	// ScopeGuru is a teacher's view over the achievements they recorded.
	ScopeGuru Scope = "guru"
)

// Ranking sizes per scope.
const (
	TopGuruLimit       = 5
	TopSiswaLimitAll   = 10
	TopSiswaLimitGuru  = 5
	zeroPercentage     = "0"
	percentageDecimals = 1
)

// Input is the already fetched data a report is computed from.
type Input struct {
	Achievements []models.Achievement
	TotalSiswa   int64
	// Gurus are the GURU accounts in list order. Ties in the guru ranking keep this order.
	Gurus []models.Account
}

// Options controls the clock and the view.
type Options struct {
	Scope    Scope
	Now      time.Time
	Location *time.Location
}

// Totals are the headline counters
type Totals struct {
	TotalSiswa       int64  `json:"totalSiswa"`
	// Administrator view only; a guru-scoped report has no school-wide guru count.
	TotalGuru        *int64 `json:"totalGuru,omitempty"`
	TotalPrestasi    int64  `json:"totalPrestasi"`
	PrestasiBulanIni int64  `json:"prestasiBulanIni"`
	// Teacher view only.
	SiswaBerprestasi *int64 `json:"siswaBerprestasi,omitempty"`
	RataPrestasi     string `json:"rataPrestasi,omitempty"`
}

// Breakdown is the share of one category or level.
type Breakdown struct {
	Kode       string `json:"kode"`
	Label      string `json:"label"`
	Count      int64  `json:"count"`
	Percentage string `json:"percentage"`
}

// MonthCount is one calendar month of the current year.
type MonthCount struct {
	Bulan int    `json:"bulan"`
	Nama  string `json:"nama"`
	Count int64  `json:"count"`
}

// GuruRank is one entry of the recording-account ranking.
type GuruRank struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Count int64  `json:"count"`
}

// SiswaRank is one entry of the student ranking.
type SiswaRank struct {
	ID    string `json:"id"`
	Nama  string `json:"nama"`
	Kelas string `json:"kelas"`
	Count int64  `json:"count"`
}

// Report is the full aggregate.
type Report struct {
	Scope              Scope        `json:"scope"`
	Tahun              int          `json:"tahun"`
	GeneratedAt        time.Time    `json:"generatedAt"`
	Totals             Totals       `json:"totals"`
	PrestasiPerJenis   []Breakdown  `json:"prestasiPerJenis"`
	PrestasiPerTingkat []Breakdown  `json:"prestasiPerTingkat"`
	PrestasiPerBulan   []MonthCount `json:"prestasiPerBulan"`
	TopGuru            []GuruRank   `json:"topGuru,omitempty"`
	TopSiswa           []SiswaRank  `json:"topSiswa"`
}

// Build computes the report for in.
func Build(in Input, opts Options) Report {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.In(loc)
	scope := opts.Scope
	if scope == "" {
		scope = ScopeAll
	}

	total := int64(len(in.Achievements))
	r := Report{
		Scope:       scope,
		Tahun:       now.Year(),
		GeneratedAt: now,
		Totals: Totals{
			TotalSiswa:    in.TotalSiswa,
			TotalPrestasi: total,
		},
	}

	perJenis := make(map[models.JenisPrestasi]int64, len(models.JenisPrestasis))
	perTingkat := make(map[models.Tingkat]int64, len(models.Tingkats))
	var perBulan [12]int64
	for _, a := range in.Achievements {
		perJenis[a.JenisPrestasi]++
		perTingkat[a.Tingkat]++
		// Tanggal is a calendar date, so its year and month are read as stored.
		if a.Tanggal.Year() == now.Year() {
			perBulan[a.Tanggal.Month()-1]++
			if a.Tanggal.Month() == now.Month() {
				r.Totals.PrestasiBulanIni++
			}
		}
	}

	r.PrestasiPerJenis = make([]Breakdown, 0, len(models.JenisPrestasis))
	for _, j := range models.JenisPrestasis {
		r.PrestasiPerJenis = append(r.PrestasiPerJenis, Breakdown{
			Kode: string(j), Label: j.Label(), Count: perJenis[j], Percentage: Percentage(perJenis[j], total),
		})
	}
	r.PrestasiPerTingkat = make([]Breakdown, 0, len(models.Tingkats))
	for _, t := range models.Tingkats {
		r.PrestasiPerTingkat = append(r.PrestasiPerTingkat, Breakdown{
			Kode: string(t), Label: t.Label(), Count: perTingkat[t], Percentage: Percentage(perTingkat[t], total),
		})
	}
	r.PrestasiPerBulan = make([]MonthCount, 12)
	for i := range perBulan {
		r.PrestasiPerBulan[i] = MonthCount{Bulan: i + 1, Nama: helpers.MonthNames[i], Count: perBulan[i]}
	}

	siswaLimit := topSiswaLimit(scope)
	if scope == ScopeAll {
		gurus := int64(len(in.Gurus))
		r.Totals.TotalGuru = &gurus
		r.TopGuru = topGuru(in.Gurus, in.Achievements, TopGuruLimit)
	}
	ranks := rankSiswa(in.Achievements)

	if scope == ScopeGuru {
		distinct := int64(len(ranks))
		r.Totals.SiswaBerprestasi = &distinct
		r.Totals.RataPrestasi = Average(total, distinct)
	}
	if len(ranks) > siswaLimit {
		ranks = ranks[:siswaLimit]
	}
	r.TopSiswa = ranks
	return r
}

// Percentage renders count/total*100 rounded half up to one decimal ("33.3", "0.0").
// It returns "0" when total is zero.
func Percentage(count, total int64) string {
	if total == 0 {
		return zeroPercentage
	}
	return decimal.NewFromInt(count).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total)).
		Round(percentageDecimals).
		StringFixed(percentageDecimals)
}

// Average renders achievements per student with one decimal, or "0" when there are no students.
func Average(achievements, students int64) string {
	if students == 0 {
		return zeroPercentage
	}
	return decimal.NewFromInt(achievements).
		Div(decimal.NewFromInt(students)).
		Round(percentageDecimals).
		StringFixed(percentageDecimals)
}

func topGuru(gurus []models.Account, achievements []models.Achievement, n int) []GuruRank {
	counts := make(map[string]int64, len(gurus))
	for _, a := range achievements {
		counts[a.GuruID]++
	}
	ranks := make([]GuruRank, 0, len(gurus))
	for _, g := range gurus {
		ranks = append(ranks, GuruRank{ID: g.ID, Name: g.Name, Email: g.Email, Count: counts[g.ID]})
	}
	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].Count > ranks[j].Count })
	if len(ranks) > n {
		ranks = ranks[:n]
	}
	return ranks
}

// rankSiswa groups by student id in first-encounter order, then sorts stably by count.
func rankSiswa(achievements []models.Achievement) []SiswaRank {
	index := make(map[string]int)
	ranks := []SiswaRank{}
	for _, a := range achievements {
		i, ok := index[a.SiswaID]
		if !ok {
			rank := SiswaRank{ID: a.SiswaID}
			if a.Siswa != nil {
				rank.Nama, rank.Kelas = a.Siswa.Nama, a.Siswa.Kelas
			}
			ranks = append(ranks, rank)
			i = len(ranks) - 1
			index[a.SiswaID] = i
		}
		ranks[i].Count++
	}
	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].Count > ranks[j].Count })
	return ranks
}
