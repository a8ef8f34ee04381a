package favorites

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreRepo keys each favorite by "userId:bookId" so a second Create for
// the same pair fails with AlreadyExists instead of writing a duplicate.
type FirestoreRepo struct {
	client  *firestore.Client
	timeout time.Duration
}

func NewFirestoreRepo(client *firestore.Client, timeout time.Duration) *FirestoreRepo {
	return &FirestoreRepo{client: client, timeout: timeout}
}

func docID(userID, bookID string) string {
	return userID + ":" + bookID
}

func (r *FirestoreRepo) Insert(ctx context.Context, f *Favorite) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	ref := r.client.Collection(Collection).Doc(docID(f.UserID, f.BookID))
	_, err := ref.Create(ctx, f)
	if status.Code(err) == codes.AlreadyExists {
		f.ID = ref.ID
		return false, nil
	}
	if err != nil {
		return false, err
	}
	f.ID = ref.ID
	return true, nil
}

func (r *FirestoreRepo) matching(userID, bookID string) firestore.Query {
	return r.client.Collection(Collection).
		Where("userId", "==", userID).
		Where("bookId", "==", bookID)
}

// DeleteByBook removes every match, including records written before the
// deterministic id scheme.
func (r *FirestoreRepo) DeleteByBook(ctx context.Context, userID, bookID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var deleted int
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		deleted = 0
		snaps, err := tx.Documents(r.matching(userID, bookID)).GetAll()
		if err != nil {
			return err
		}
		for _, s := range snaps {
			if err := tx.Delete(s.Ref); err != nil {
				return err
			}
			deleted++
		}
		return nil
	})
	return deleted, err
}

func (r *FirestoreRepo) ListByUser(ctx context.Context, userID string) ([]Favorite, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	iter := r.client.Collection(Collection).
		Where("userId", "==", userID).
		OrderBy("addedAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var favs []Favorite
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var f Favorite
		if err := snap.DataTo(&f); err != nil {
			return nil, err
		}
		f.ID = snap.Ref.ID
		favs = append(favs, f)
	}
	return favs, nil
}

func (r *FirestoreRepo) Exists(ctx context.Context, userID, bookID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	snaps, err := r.matching(userID, bookID).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return false, err
	}
	return len(snaps) > 0, nil
}
