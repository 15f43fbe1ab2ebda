package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusCreated   OrderStatus = "created"
	StatusShipped   OrderStatus = "shipped"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

var transitions = map[OrderStatus][]OrderStatus{
	StatusCreated: {StatusShipped, StatusCancelled},
	StatusShipped: {StatusCompleted},
}

// CanTransition reports whether an order may move from s to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is a purchase placed by one buyer. Orders are hard-deleted
// together with their items.
type Order struct {
	ID              uint            `gorm:"primaryKey"`
	UserID          uint            `gorm:"not null;index"`
	DeliveryAddress string          `gorm:"size:255;not null"`
	Status          OrderStatus     `gorm:"size:20;not null;index"`
	TotalPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedAt       time.Time       `gorm:"index"`
	UpdatedAt       time.Time
	Items           []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem is one product line of an order. UnitPrice is the product
// price at the moment the order was placed; Price is UnitPrice × Quantity.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey"`
	OrderID   uint            `gorm:"not null;uniqueIndex:idx_order_items_order_product"`
	ProductID uint            `gorm:"not null;uniqueIndex:idx_order_items_order_product;index"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedAt time.Time

	// Product is attached by the order service for rendering.
	Product *Product `gorm:"-"`
}

// MaxAmount is the largest value a numeric(12,2) money column holds.
var MaxAmount = decimal.New(999999999999, -2)

// Total sums the item prices.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Price)
	}
	return total
}
