package dto

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Error string `json:"error" example:"Siswa tidak ditemukan"`
	Code  string `json:"code,omitempty" example:"NOT_FOUND"`
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(message, code string) ErrorResponse {
	return ErrorResponse{Error: message, Code: code}
}
