package domain

import "time"

// MinTaskContentLength is the shortest task content accepted by input validation.
const MinTaskContentLength = 8

// Task is a content item inside a collection.
type Task struct {
	ID           int64      `json:"id"`
	UserID       string     `json:"user_id"`
	CollectionID int64      `json:"collection_id"`
	Content      string     `json:"content"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Done         bool       `json:"done"`
	CreatedAt    time.Time  `json:"created_at"`
}

// IsExpired reports whether the task has an expiry strictly before now.
func (t Task) IsExpired(now time.Time) bool {
	return t.ExpiresAt != nil && t.ExpiresAt.Before(now)
}

// CreateTaskInput is the payload of the create-task operation.
type CreateTaskInput struct {
	CollectionID int64      `json:"collection_id" validate:"gte=0"`
	Content      string     `json:"content" validate:"required,min=8"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}
