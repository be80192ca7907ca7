package models

import "time"

// Category defines the struct for the 'categories' table
type Category struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"` // Use pointer for NULL
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CategoryInput is the payload for both adding and updating a category.
// Name is required by the admin form; an empty Description is stored as NULL.
type CategoryInput struct {
	Name        string
	Description *string
}
