package model

import "time"

// GlobalOwner is the implicit owner of contacts created without an
// authenticated user (user_id NULL).
const GlobalOwner int64 = 0

// UncategorizedLabel names the stats bucket for contacts without a category.
const UncategorizedLabel = "Sem categoria"

// Contact represents an entry in a user's address book
type Contact struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	IsFavorite   bool      `json:"is_favorite"`
	CategoryID   *int64    `json:"category_id"`
	CategoryName *string   `json:"category_name"` // joined from categories on reads
	PhotoPath    *string   `json:"photo_path"`
	UserID       int64     `json:"-"` // GlobalOwner when the row has no owner
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ContactInput is a validated create/update payload
type ContactInput struct {
	Name       string
	Email      string
	Phone      string
	IsFavorite bool
	CategoryID *int64
}

// CategoryStat is one row of the per-category dashboard
type CategoryStat struct {
	Category string `json:"category"`
	Total    int64  `json:"total"`
}
