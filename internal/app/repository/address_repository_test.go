package repository

import (
	"testing"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAddress(userID uint, street string, isDefault bool) *model.ShippingAddress {
	return &model.ShippingAddress{
		UserID: userID, Street: street, City: "Town", State: "ST", ZipCode: "00001", Country: "US", IsDefault: isDefault,
	}
}

func TestAddressRepository_SetDefault(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewAddressRepository(testDB)
	user := createTestUser(t, testDB, "addr")

	a := newAddress(user.ID, "1 A St", true)
	b := newAddress(user.ID, "2 B St", false)
	require.NoError(t, repo.Create(a))
	require.NoError(t, repo.Create(b))

	require.NoError(t, repo.SetDefault(user.ID, b.ID))

	addresses, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, addresses, 2)
	assert.False(t, addresses[0].IsDefault)
	assert.True(t, addresses[1].IsDefault)
}

func TestAddressRepository_ScopedToUser(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewAddressRepository(testDB)
	owner := createTestUser(t, testDB, "addr-owner")
	other := createTestUser(t, testDB, "addr-other")

	a := newAddress(owner.ID, "1 A St", true)
	require.NoError(t, repo.Create(a))

	_, err := repo.FindByUserAndID(other.ID, a.ID)
	assert.Error(t, err)

	affected, err := repo.Delete(other.ID, a.ID)
	require.NoError(t, err)
	assert.Zero(t, affected)

	count, err := repo.CountByUserID(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
