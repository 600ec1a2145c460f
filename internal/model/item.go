package model

import "time"

// Item is the example resource shipped with the starter.
// It is a pure domain model with no storage-specific tags; replace or extend it with your own.
type Item struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// ItemCreate is the request body for creating an item.
type ItemCreate struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

// ItemUpdate is the request body for a partial update. Nil fields are left unchanged.
type ItemUpdate struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}
