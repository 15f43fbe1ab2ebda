package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalogue item owned by its seller. Deleting a product is a
// soft delete so order items that reference it stay resolvable.
type Product struct {
	gorm.Model
	SellerID    uint            `gorm:"not null;index"`
	Name        string          `gorm:"size:100;not null;index"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Quantity    int             `gorm:"not null"`
}

// InStock reports whether any quantity is available.
func (p Product) InStock() bool { return p.Quantity > 0 }
