package profile

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type FirestoreRepo struct {
	client  *firestore.Client
	timeout time.Duration
}

func NewFirestoreRepo(client *firestore.Client, timeout time.Duration) *FirestoreRepo {
	return &FirestoreRepo{client: client, timeout: timeout}
}

func (r *FirestoreRepo) Upsert(ctx context.Context, p *Profile) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	ref := r.client.Collection(Collection).Doc(p.UserID)
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return tx.Create(ref, p)
		}
		if err != nil {
			return err
		}

		var existing Profile
		if err := snap.DataTo(&existing); err != nil {
			return err
		}
		p.CreatedAt = existing.CreatedAt
		return tx.Update(ref, []firestore.Update{
			{Path: "email", Value: p.Email},
			{Path: "role", Value: p.Role},
			{Path: "isAdmin", Value: p.IsAdmin},
		})
	})
}

func (r *FirestoreRepo) Get(ctx context.Context, userID string) (Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	snap, err := r.client.Collection(Collection).Doc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, err
	}

	var p Profile
	if err := snap.DataTo(&p); err != nil {
		return Profile{}, err
	}
	p.UserID = snap.Ref.ID
	return p, nil
}
