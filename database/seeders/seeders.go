// Package seeders fills a fresh database with demo data: one seller, one
// buyer and a few products. Running it twice changes nothing.
package seeders

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/marketplace/app/models"
	"github.com/shashiranjanraj/marketplace/app/repositories"
	"github.com/shashiranjanraj/marketplace/pkg/app"
	"github.com/shashiranjanraj/marketplace/pkg/auth"
)

// Demo account credentials.
const (
	SellerHandle = "demo-seller"
	BuyerHandle  = "demo-buyer"
	Password     = "password123"
)

var demoProducts = []struct {
	name, description, price string
	qty                      int
}{
	{"Widget", "A perfectly ordinary widget.", "9.99", 50},
	{"Gadget", "Does one thing well.", "24.50", 10},
	{"Gizmo", "Limited run.", "99.00", 2},
}

// All returns the seeders in run order.
func All() []app.Seeder {
	return []app.Seeder{
		{Name: "users", Run: Users},
		{Name: "products", Run: Products},
	}
}

// Users creates the demo seller and buyer unless they exist.
func Users(ctx context.Context, db *gorm.DB) error {
	users := repositories.NewStore(db).Users()
	for _, handle := range []string{SellerHandle, BuyerHandle} {
		if _, err := ensureUser(ctx, users, handle); err != nil {
			return err
		}
	}
	return nil
}

// Products lists the demo catalogue under the demo seller. It does
// nothing when the seller already has products.
func Products(ctx context.Context, db *gorm.DB) error {
	store := repositories.NewStore(db)
	seller, err := ensureUser(ctx, store.Users(), SellerHandle)
	if err != nil {
		return err
	}

	for _, err := range store.Products().List(ctx, repositories.ProductFilter{SellerID: seller.ID, Page: repositories.Page{Limit: 1}}) {
		if err != nil {
			return err
		}
		return nil
	}

	return store.Tx(ctx, func(tx *repositories.Store) error {
		for _, d := range demoProducts {
			p := models.Product{
				SellerID:    seller.ID,
				Name:        d.name,
				Description: d.description,
				Price:       decimal.RequireFromString(d.price),
				Quantity:    d.qty,
			}
			if err := tx.Products().Create(ctx, &p); err != nil {
				return fmt.Errorf("create %s: %w", d.name, err)
			}
		}
		return nil
	})
}

func ensureUser(ctx context.Context, users *repositories.UserRepository, handle string) (models.User, error) {
	u, err := users.GetByHandle(ctx, handle)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, err
	}

	hash, err := auth.HashPassword(Password)
	if err != nil {
		return models.User{}, err
	}
	email := handle + "@example.com"
	u = models.User{Handle: handle, Email: &email, PasswordHash: hash, IsActive: true, Role: models.RoleUser}
	if err := users.Create(ctx, &u); err != nil {
		return models.User{}, fmt.Errorf("create %s: %w", handle, err)
	}
	return u, nil
}
