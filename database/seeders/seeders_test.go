package seeders_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/marketplace/app/models"
	"github.com/shashiranjanraj/marketplace/database/seeders"
	"github.com/shashiranjanraj/marketplace/pkg/auth"
	"github.com/shashiranjanraj/marketplace/pkg/testkit"
)

func TestSeedersAreIdempotent(t *testing.T) {
	db := testkit.NewDB(t)
	ctx := context.Background()

	for range 2 {
		for _, s := range seeders.All() {
			require.NoError(t, s.Run(ctx, db), s.Name)
		}
	}

	var users, products int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	assert.EqualValues(t, 2, users)
	assert.EqualValues(t, 3, products)

	var seller models.User
	require.NoError(t, db.Where("handle = ?", seeders.SellerHandle).First(&seller).Error)
	assert.True(t, auth.CheckPassword(seller.PasswordHash, seeders.Password))
}

func TestProductsSeederCreatesSeller(t *testing.T) {
	db := testkit.NewDB(t)
	require.NoError(t, seeders.Products(context.Background(), db))

	var sellerID []uint
	require.NoError(t, db.Model(&models.Product{}).Distinct().Pluck("seller_id", &sellerID).Error)
	require.Len(t, sellerID, 1)

	var seller models.User
	require.NoError(t, db.First(&seller, sellerID[0]).Error)
	assert.Equal(t, seeders.SellerHandle, seller.Handle)
}
