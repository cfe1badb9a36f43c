package service

import (
	"testing"

	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistService_AddAndRemove(t *testing.T) {
	env := setupServiceTest(t)
	user := env.createUser(t, "wisher")
	product := env.createProduct(t, "Ring", "120.00", 1)

	items, err := env.wishlist.Add(user.ID, product.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Ring", items[0].Product.Name)

	_, err = env.wishlist.Add(user.ID, product.ID)
	assert.ErrorIs(t, err, ErrWishlistItemAlreadyExists)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	items, err = env.wishlist.Remove(user.ID, product.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = env.wishlist.Remove(user.ID, product.ID)
	assert.ErrorIs(t, err, ErrWishlistItemNotFound)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestWishlistService_Add_UnknownProduct(t *testing.T) {
	env := setupServiceTest(t)
	user := env.createUser(t, "unknown")

	_, err := env.wishlist.Add(user.ID, 777)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
