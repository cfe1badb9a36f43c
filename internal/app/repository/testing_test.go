package repository

import (
	"testing"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func createTestUser(t *testing.T, testDB *gorm.DB, subject string) *model.User {
	user := &model.User{
		SubjectID: subject,
		Email:     subject + "@example.com",
		FirstName: "Test",
		LastName:  "User",
		Role:      model.RoleCustomer,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createTestProduct(t *testing.T, testDB *gorm.DB, name, price string, stock int) *model.Product {
	product := &model.Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		Category:      "tops",
		Sizes:         []string{"S", "M", "L"},
		Colors:        []model.Color{{Name: "Red", HexCode: "#FF0000"}},
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}
