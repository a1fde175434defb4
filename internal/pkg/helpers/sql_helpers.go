package helpers

import "strings"

// NilIfEmpty maps blank strings to nil so optional columns store NULL.
func NilIfEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// NonEmpty reports whether s is set and not blank.
func NonEmpty(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// LikePattern wraps term for a case-insensitive substring match, escaping LIKE metacharacters.
func LikePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(term)) + "%"
}
