package dto

// CreateGuruRequest represents a new teacher account. Role is always GURU.
type CreateGuruRequest struct {
	Email    string  `json:"email" validate:"required,email" example:"guru2@siprista.com"`
	Name     string  `json:"name" validate:"required" example:"Dewi Lestari"`
	NIP      *string `json:"nip" example:"198502022010"`
	Password string  `json:"password" validate:"required" example:"rahasia123"`
}

// UpdateGuruRequest is a partial update; an empty password keeps the stored hash
type UpdateGuruRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Name     *string `json:"name"`
	NIP      *string `json:"nip"`
	Password *string `json:"password"`
}
