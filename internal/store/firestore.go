package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
)

// OpenFirestore connects to the project's default database. Credentials come
// from the environment (GOOGLE_APPLICATION_CREDENTIALS or the emulator host).
func OpenFirestore(ctx context.Context, projectID string) (*firestore.Client, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return client, nil
}
