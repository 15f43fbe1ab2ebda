// Package resources decides the JSON shape of every model the API returns.
package resources

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/marketplace/app/models"
	"github.com/shashiranjanraj/marketplace/pkg/resource"
)

// Money renders a price as a JSON number with two decimals, e.g. 9.90.
func Money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

var User resource.Transformer[models.User] = func(u models.User) resource.Map {
	m := resource.Map{
		"id":         u.ID,
		"handle":     u.Handle,
		"role":       u.Role,
		"is_active":  u.IsActive,
		"created_at": u.CreatedAt,
	}
	if u.Email != nil {
		m["email"] = *u.Email
	}
	return m
}

var Product resource.Transformer[models.Product] = func(p models.Product) resource.Map {
	return resource.Map{
		"id":          p.ID,
		"seller_id":   p.SellerID,
		"name":        p.Name,
		"description": p.Description,
		"price":       Money(p.Price),
		"qty":         p.Quantity,
		"in_stock":    p.InStock(),
		"created_at":  p.CreatedAt,
		"updated_at":  p.UpdatedAt,
	}
}

var OrderItem resource.Transformer[models.OrderItem] = func(it models.OrderItem) resource.Map {
	m := resource.Map{
		"id":         it.ID,
		"product_id": it.ProductID,
		"quantity":   it.Quantity,
		"unit_price": Money(it.UnitPrice),
		"price":      Money(it.Price),
	}
	if it.Product != nil {
		m["product"] = Product(*it.Product)
	}
	return m
}

var Order resource.Transformer[models.Order] = func(o models.Order) resource.Map {
	return resource.Map{
		"id":               o.ID,
		"user_id":          o.UserID,
		"delivery_address": o.DeliveryAddress,
		"status":           o.Status,
		"total_price":      Money(o.TotalPrice),
		"items":            resource.Slice(OrderItem, o.Items),
		"created_at":       o.CreatedAt,
		"updated_at":       o.UpdatedAt,
	}
}
