package model

import "time"

// User represents an account that owns contacts
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Do not expose password hash in JSON responses
	PhotoPath    *string   `json:"photo_path,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterInput is a validated registration payload
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}
