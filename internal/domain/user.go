package domain

import "github.com/johnwards/aethertool/internal/id"

// User is an account in the backend. Only the columns the tooling writes
// are modelled.
type User struct {
	ID           id.ID  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}
