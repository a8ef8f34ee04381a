// Package favorites stores each user's list of favourite catalog volumes
// and reconciles it with live catalog data for display.
package favorites

import (
	"errors"
	"time"
)

const Collection = "favorites"

type Favorite struct {
	ID       string    `json:"id" firestore:"-"`
	UserID   string    `json:"userId" firestore:"userId"`
	BookID   string    `json:"bookId" firestore:"bookId"`
	Title    string    `json:"title" firestore:"title"`
	ImageURL string    `json:"imageUrl,omitempty" firestore:"imageUrl,omitempty"`
	Authors  []string  `json:"authors,omitempty" firestore:"authors,omitempty"`
	AddedAt  time.Time `json:"addedAt" firestore:"addedAt"`
}

type AddInput struct {
	BookID   string   `json:"bookId" validate:"notblank,volumeid"`
	Title    string   `json:"title" validate:"notblank"`
	ImageURL string   `json:"imageUrl,omitempty" validate:"omitempty,url"`
	Authors  []string `json:"authors,omitempty"`
}

var (
	ErrInvalidInput = errors.New("bookId and title are required")
	ErrNotFound     = errors.New("favorite not found")
)
