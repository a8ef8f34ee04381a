// Package article manages the editorial articles shown to every signed-in
// user and written by admins.
package article

import (
	"errors"
	"time"
)

const Collection = "articles"

type Article struct {
	ID          string     `json:"id" firestore:"-"`
	Title       string     `json:"title" firestore:"title"`
	Description string     `json:"description" firestore:"description"`
	Content     string     `json:"content" firestore:"content"`
	Category    string     `json:"category,omitempty" firestore:"category,omitempty"`
	Author      string     `json:"author" firestore:"author"`
	CreatedAt   time.Time  `json:"createdAt" firestore:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty" firestore:"updatedAt,omitempty"`
}

type Input struct {
	Title       string `json:"title" validate:"notblank,max=200"`
	Description string `json:"description" validate:"notblank,max=1000"`
	Content     string `json:"content" validate:"notblank"`
	Category    string `json:"category,omitempty" validate:"omitempty,max=60"`
}

// Patch carries the fields to change; nil means keep.
type Patch struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Content     *string `json:"content,omitempty"`
	Category    *string `json:"category,omitempty" validate:"omitempty,max=60"`
}

// Changes is a Patch after sanitising, plus the update stamp.
type Changes struct {
	Title       *string
	Description *string
	Content     *string
	Category    *string
	UpdatedAt   time.Time
}

var (
	ErrNotFound     = errors.New("article not found")
	ErrInvalidInput = errors.New("title, description and content are required")
)
