package models

import "time"

// Account defines a login-capable user (admin or guru) based on the 'accounts' table
type Account struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email" example:"guru@siprista.com"`
	Name      string    `json:"name" db:"name" example:"Guru SIPRISTA"`
	NIP       *string   `json:"nip" db:"nip" example:"198001012001"`
	Password  string    `json:"-" db:"password"` // bcrypt hash, never serialized
	Role      Role      `json:"role" db:"role" example:"GURU"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Count           *AccountCount `json:"_count,omitempty"`
	PrestasiCreated []Achievement `json:"prestasiCreated,omitempty"`
}

// AccountCount carries relation counts on list rows
type AccountCount struct {
	PrestasiCreated int64 `json:"prestasiCreated"`
}

// AccountSummary is the account shape nested inside achievements
type AccountSummary struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	NIP   *string `json:"nip,omitempty"`
}

// Sanitized returns a copy without the password hash.
func (a Account) Sanitized() Account {
	a.Password = ""
	return a
}
