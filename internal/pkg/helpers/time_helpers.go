package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// MonthNames are the Indonesian month names, January first.
var MonthNames = [12]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// LoadLocation resolves an IANA zone name, falling back to UTC.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().Err(err).Str("timezone", name).Msg("Unknown timezone, using UTC")
		return time.UTC
	}
	return loc
}

// Clock returns the current time. Tests substitute a fixed clock.
type Clock func() time.Time

// SystemClock is the wall clock.
func SystemClock() time.Time { return time.Now() }
