package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Role is the role of an account allowed to log in.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleGuru  Role = "GURU"
)

// JenisPrestasi is the category of an achievement.
type JenisPrestasi string

const (
	JenisAkademik        JenisPrestasi = "AKADEMIK"
	JenisNonAkademik     JenisPrestasi = "NON_AKADEMIK"
	JenisEkstrakurikuler JenisPrestasi = "EKSTRAKURIKULER"
	JenisLainnya         JenisPrestasi = "LAINNYA"
)

// Tingkat is the ordinal scope of an achievement, from school up to international.
type Tingkat string

const (
	TingkatSekolah       Tingkat = "SEKOLAH"
	TingkatKecamatan     Tingkat = "KECAMATAN"
	TingkatKabupaten     Tingkat = "KABUPATEN"
	TingkatProvinsi      Tingkat = "PROVINSI"
	TingkatNasional      Tingkat = "NASIONAL"
	TingkatInternasional Tingkat = "INTERNASIONAL"
)

// JenisKelamin is the sex of a student.
type JenisKelamin string

const (
	LakiLaki  JenisKelamin = "LAKI_LAKI"
	Perempuan JenisKelamin = "PEREMPUAN"
)

// Ordered value lists. Reports and exports iterate these, so the order is part of the output.
var (
	Roles          = []Role{RoleAdmin, RoleGuru}
	JenisPrestasis = []JenisPrestasi{JenisAkademik, JenisNonAkademik, JenisEkstrakurikuler, JenisLainnya}
	Tingkats       = []Tingkat{TingkatSekolah, TingkatKecamatan, TingkatKabupaten, TingkatProvinsi, TingkatNasional, TingkatInternasional}
	JenisKelamins  = []JenisKelamin{LakiLaki, Perempuan}
)

var (
	roleLabels = map[Role]string{
		RoleAdmin: "Administrator",
		RoleGuru:  "Guru",
	}
	jenisPrestasiLabels = map[JenisPrestasi]string{
		JenisAkademik:        "Akademik",
		JenisNonAkademik:     "Non-Akademik",
		JenisEkstrakurikuler: "Ekstrakurikuler",
		JenisLainnya:         "Lainnya",
	}
	tingkatLabels = map[Tingkat]string{
		TingkatSekolah:       "Sekolah",
		TingkatKecamatan:     "Kecamatan",
		TingkatKabupaten:     "Kabupaten",
		TingkatProvinsi:      "Provinsi",
		TingkatNasional:      "Nasional",
		TingkatInternasional: "Internasional",
	}
	jenisKelaminLabels = map[JenisKelamin]string{
		LakiLaki:  "Laki-laki",
		Perempuan: "Perempuan",
	}
)

// Label returns the display label, or the raw code when unknown.
func (r Role) Label() string { return labelOr(roleLabels, r) }

// Valid reports whether r is a known role.
func (r Role) Valid() bool { _, ok := roleLabels[r]; return ok }

// NormalizeRole upper-cases s without validating it.
func NormalizeRole(s string) Role {
	return Role(cases.Upper(language.Und).String(strings.TrimSpace(s)))
}

// ParseRole accepts any letter case ("guru", "Guru", "GURU").
func ParseRole(s string) (Role, error) {
	r := NormalizeRole(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (j JenisPrestasi) Label() string { return labelOr(jenisPrestasiLabels, j) }
func (j JenisPrestasi) Valid() bool   { _, ok := jenisPrestasiLabels[j]; return ok }

func (t Tingkat) Label() string { return labelOr(tingkatLabels, t) }
func (t Tingkat) Valid() bool   { _, ok := tingkatLabels[t]; return ok }

func (k JenisKelamin) Label() string { return labelOr(jenisKelaminLabels, k) }
func (k JenisKelamin) Valid() bool   { _, ok := jenisKelaminLabels[k]; return ok }

// UnmarshalJSON rejects values outside the enumeration so a bad category never reaches storage.
func (j *JenisPrestasi) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, (*string)(j), func(s string) bool { return JenisPrestasi(s).Valid() }, "jenisPrestasi")
}

func (t *Tingkat) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, (*string)(t), func(s string) bool { return Tingkat(s).Valid() }, "tingkat")
}

func (k *JenisKelamin) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, (*string)(k), func(s string) bool { return JenisKelamin(s).Valid() }, "jenisKelamin")
}

// EnumError is returned when a JSON payload carries an unknown enumeration value.
type EnumError struct {
	Field string
	Value string
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("nilai %s tidak valid: %q", e.Field, e.Value)
}

func unmarshalEnum(b []byte, dst *string, valid func(string) bool, field string) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s != "" && !valid(s) {
		return &EnumError{Field: field, Value: s}
	}
	*dst = s
	return nil
}

func labelOr[K ~string](labels map[K]string, k K) string {
	if l, ok := labels[k]; ok {
		return l
	}
	return string(k)
}
