package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biglibrary/internal/article"
	"biglibrary/internal/role"
	"biglibrary/internal/testutil"
)

func TestFirstAdmin(t *testing.T) {
	assert.Equal(t, "a@x.io", firstAdmin(role.ParseAllowList("z@x.io, a@x.io")))
	assert.Empty(t, firstAdmin(role.ParseAllowList("")))
}

func TestSeed_SkipsWhenArticlesExist(t *testing.T) {
	svc := article.NewService(testutil.NewMemoryArticles())
	ctx := context.Background()

	n, err := seed(ctx, svc, "admin@example.com", false)
	require.NoError(t, err)
	assert.Equal(t, len(samples), n)

	n, err = seed(ctx, svc, "admin@example.com", false)
	require.NoError(t, err)
	assert.Zero(t, n)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, len(samples))
	for _, a := range list {
		assert.Equal(t, "admin@example.com", a.Author)
	}
}

func TestSeed_Force(t *testing.T) {
	svc := article.NewService(testutil.NewMemoryArticles())
	ctx := context.Background()

	_, err := seed(ctx, svc, "admin@example.com", false)
	require.NoError(t, err)
	n, err := seed(ctx, svc, "admin@example.com", true)
	require.NoError(t, err)
	assert.Equal(t, len(samples), n)
}
