// Package migrations is the ordered schema history of the marketplace.
// Append new steps to All; never reorder or rename applied ones.
package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/marketplace/app/models"
	"github.com/shashiranjanraj/marketplace/pkg/migration"
)

// All returns every migration in apply order.
func All() []migration.Migration {
	return []migration.Migration{
		createTable("20260101000000_create_users_table", &models.User{}),
		createTable("20260101000001_create_products_table", &models.Product{}),
		createTable("20260101000002_create_orders_table", &models.Order{}),
		createTable("20260101000003_create_order_items_table", &models.OrderItem{}),
	}
}

// Models lists the tables in dependency order; DEV auto-schema migrates
// these directly.
func Models() []any {
	return []any{&models.User{}, &models.Product{}, &models.Order{}, &models.OrderItem{}}
}

func createTable(name string, model any) migration.Migration {
	return migration.Migration{
		Name: name,
		Up:   func(tx *gorm.DB) error { return tx.AutoMigrate(model) },
		Down: func(tx *gorm.DB) error { return tx.Migrator().DropTable(model) },
	}
}
