package requests

import (
	"github.com/shopspring/decimal"
)

type CreateProduct struct {
	Name        string          `json:"name"        validate:"required,min=3,max=100"`
	Description string          `json:"description" validate:"max=2000"`
	Price       decimal.Decimal `json:"price"       validate:"required,gt=0,lte=1000000,money"`
	Qty         *int            `json:"qty"         validate:"required,gte=0"`
}

// UpdateProduct is a partial update: nil fields are left unchanged. PUT and
// PATCH both use it.
type UpdateProduct struct {
	Name        *string          `json:"name"        validate:"omitempty,min=3,max=100"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price"       validate:"omitempty,gt=0,lte=1000000,money"`
	Qty         *int             `json:"qty"         validate:"omitempty,gte=0"`
}

// Empty reports whether no field was supplied.
func (u UpdateProduct) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil && u.Qty == nil
}

// ProductQuery holds the listing filters parsed from the query string.
type ProductQuery struct {
	SellerID uint             `json:"seller_id" validate:"gte=0"`
	InStock  *bool            `json:"in_stock"`
	MinPrice *decimal.Decimal `json:"min_price" validate:"omitempty,gte=0,money"`
	MaxPrice *decimal.Decimal `json:"max_price" validate:"omitempty,gte=0,money"`
	Q        string           `json:"q"         validate:"max=100"`
	Limit    int              `json:"limit"     validate:"gte=0,lte=100"`
	Offset   int              `json:"offset"    validate:"gte=0"`
}
