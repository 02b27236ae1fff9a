package database

import (
	"errors"
	"time"
)

// ErrAlreadyExists is returned when a unique key (user email, object path) is taken.
var ErrAlreadyExists = errors.New("already exists")

type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// Item is a shoppable product attached to a result.
type Item struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Price      string   `json:"price"`
	ImageURL   string   `json:"image_url"`
	ProductURL string   `json:"product_url"`
	Rating     *float64 `json:"rating,omitempty"`
}

// Result is one completed design session. Rows are immutable once written.
type Result struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	BeforeImage string    `db:"before_image" json:"before_image"`
	AfterImage  string    `db:"after_image" json:"after_image"`
	Prompt      string    `db:"prompt" json:"prompt"`
	Style       string    `db:"style" json:"style"`
	Budget      *float64  `db:"budget" json:"budget"`
	Size        *string   `db:"size" json:"size"`
	Items       []Item    `db:"items" json:"items"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Object is a stored blob addressed by bucket and path.
type Object struct {
	Bucket      string    `db:"bucket"`
	Path        string    `db:"path"`
	ContentType string    `db:"content_type"`
	Data        []byte    `db:"data"`
	CreatedAt   time.Time `db:"created_at"`
}
