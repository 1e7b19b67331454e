package models

import "time"

// Admin is an operator allowed to sign in to the console.
type Admin struct {
	ID           string
	Email        string
	PasswordHash []byte
	Role         string
	CreatedAt    time.Time
}
