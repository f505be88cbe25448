package repository

import (
	"context"
	"testing"

	"fftopup/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepository_FindAll_Empty(t *testing.T) {
	repo := NewProductRepository(testutil.NewDB(t))

	products, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestProductRepository_SeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(testutil.NewDB(t))

	require.NoError(t, repo.Seed(ctx))
	require.NoError(t, repo.Seed(ctx))

	products, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, len(DefaultProducts()))

	for i, p := range products {
		assert.Positive(t, p.Diamonds)
		assert.Positive(t, p.Price)
		if i > 0 {
			assert.GreaterOrEqual(t, p.Price, products[i-1].Price)
		}
	}
}
