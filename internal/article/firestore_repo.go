package article

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
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

func (r *FirestoreRepo) Create(ctx context.Context, a *Article) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	ref, _, err := r.client.Collection(Collection).Add(ctx, a)
	if err != nil {
		return err
	}
	a.ID = ref.ID
	return nil
}

func (r *FirestoreRepo) Update(ctx context.Context, id string, c Changes) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	updates := []firestore.Update{{Path: "updatedAt", Value: c.UpdatedAt}}
	add := func(path string, v *string) {
		if v != nil {
			updates = append(updates, firestore.Update{Path: path, Value: *v})
		}
	}
	add("title", c.Title)
	add("description", c.Description)
	add("content", c.Content)
	if c.Category != nil {
		if *c.Category == "" {
			updates = append(updates, firestore.Update{Path: "category", Value: firestore.Delete})
		} else {
			add("category", c.Category)
		}
	}

	_, err := r.client.Collection(Collection).Doc(id).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

func (r *FirestoreRepo) Get(ctx context.Context, id string) (Article, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	snap, err := r.client.Collection(Collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return Article{}, ErrNotFound
	}
	if err != nil {
		return Article{}, err
	}
	return fromSnapshot(snap)
}

func (r *FirestoreRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	ref := r.client.Collection(Collection).Doc(id)
	_, err := ref.Delete(ctx, firestore.Exists)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

func (r *FirestoreRepo) List(ctx context.Context) ([]Article, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	iter := r.client.Collection(Collection).OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var list []Article
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		a, err := fromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, nil
}

func fromSnapshot(snap *firestore.DocumentSnapshot) (Article, error) {
	var a Article
	if err := snap.DataTo(&a); err != nil {
		return Article{}, err
	}
	a.ID = snap.Ref.ID
	return a, nil
}
