package favorites_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biglibrary/internal/favorites"
	"biglibrary/internal/favorites/mocks"
	"biglibrary/internal/testutil"
)

func TestService_Add(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockRepository(ctrl)
	svc := favorites.NewService(mockRepo, testutil.DiscardLogger())
	ctx := context.Background()

	t.Run("success - optional fields omitted when empty", func(t *testing.T) {
		mockRepo.EXPECT().
			Insert(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, f *favorites.Favorite) (bool, error) {
				assert.Equal(t, "vol-1", f.BookID)
				assert.Empty(t, f.ImageURL)
				assert.Nil(t, f.Authors)
				assert.False(t, f.AddedAt.IsZero())
				f.ID = "fav-1"
				return true, nil
			})

		id, created, err := svc.Add(ctx, "u1", favorites.AddInput{BookID: "vol-1", Title: "Dune", Authors: []string{" ", ""}})

		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "fav-1", id)
	})

	t.Run("duplicate - reports existing id", func(t *testing.T) {
		mockRepo.EXPECT().
			Insert(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, f *favorites.Favorite) (bool, error) {
				f.ID = "fav-1"
				return false, nil
			})

		id, created, err := svc.Add(ctx, "u1", favorites.AddInput{BookID: "vol-1", Title: "Dune"})

		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "fav-1", id)
	})

	t.Run("error - missing title never reaches the store", func(t *testing.T) {
		_, _, err := svc.Add(ctx, "u1", favorites.AddInput{BookID: "vol-1", Title: "  "})

		assert.True(t, errors.Is(err, favorites.ErrInvalidInput))
	})

	t.Run("error - store failure is wrapped", func(t *testing.T) {
		mockRepo.EXPECT().Insert(ctx, gomock.Any()).Return(false, testutil.ErrStoreDown)

		_, _, err := svc.Add(ctx, "u1", favorites.AddInput{BookID: "vol-2", Title: "T"})

		assert.ErrorIs(t, err, testutil.ErrStoreDown)
	})
}

func TestService_Exists_FalseOnStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockRepository(ctrl)
	svc := favorites.NewService(mockRepo, testutil.DiscardLogger())

	mockRepo.EXPECT().Exists(gomock.Any(), "u1", "vol-1").Return(true, testutil.ErrStoreDown)

	assert.False(t, svc.Exists(context.Background(), "u1", "vol-1"))
}

func TestService_List_EmptyIsNotNil(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockRepository(ctrl)
	svc := favorites.NewService(mockRepo, testutil.DiscardLogger())
	mockRepo.EXPECT().ListByUser(gomock.Any(), "u1").Return(nil, nil)

	list, err := svc.List(context.Background(), "u1")

	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestService_AddIsIdempotent(t *testing.T) {
	repo := testutil.NewMemoryFavorites()
	svc := favorites.NewService(repo, testutil.DiscardLogger())
	ctx := context.Background()
	in := favorites.AddInput{BookID: "vol-1", Title: "Dune"}

	id1, created1, err := svc.Add(ctx, "u1", in)
	require.NoError(t, err)
	id2, created2, err := svc.Add(ctx, "u1", in)
	require.NoError(t, err)

	assert.True(t, created1)
	assert.False(t, created2)
	assert.Equal(t, id1, id2)
	assert.Equal(t, 1, repo.Count("u1"))
}

func TestService_AddRemoveExists(t *testing.T) {
	repo := testutil.NewMemoryFavorites()
	svc := favorites.NewService(repo, testutil.DiscardLogger())
	ctx := context.Background()

	_, _, err := svc.Add(ctx, "u1", favorites.AddInput{BookID: "vol-1", Title: "Dune"})
	require.NoError(t, err)
	_, _, err = svc.Add(ctx, "u2", favorites.AddInput{BookID: "vol-1", Title: "Dune"})
	require.NoError(t, err)
	assert.True(t, svc.Exists(ctx, "u1", "vol-1"))

	require.NoError(t, svc.Remove(ctx, "u1", "vol-1"))

	assert.False(t, svc.Exists(ctx, "u1", "vol-1"))
	assert.True(t, svc.Exists(ctx, "u2", "vol-1"))
}
