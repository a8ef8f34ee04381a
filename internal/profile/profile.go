// Package profile keeps the users collection: one document per account
// recording the email and the role derived for it at sign-up.
package profile

import (
	"errors"
	"time"
)

const Collection = "users"

type Profile struct {
	UserID    string    `json:"uid" firestore:"-"`
	Email     string    `json:"email" firestore:"email"`
	Role      string    `json:"role" firestore:"role"`
	IsAdmin   bool      `json:"isAdmin" firestore:"isAdmin"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

var ErrNotFound = errors.New("profile not found")
