package repositories

import (
	"context"
	"iter"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/marketplace/app/models"
)

// ProductFilter narrows a product listing. Zero fields do not filter.
type ProductFilter struct {
	SellerID uint
	InStock  *bool
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Query    string // case-insensitive name substring
	Page
}

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

// Get returns a live (not soft-deleted) product.
func (r *ProductRepository) Get(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	return p, translate(err)
}

// List streams live products matching f, by id.
func (r *ProductRepository) List(ctx context.Context, f ProductFilter) iter.Seq2[models.Product, error] {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if f.SellerID != 0 {
		q = q.Where("seller_id = ?", f.SellerID)
	}
	if f.InStock != nil {
		if *f.InStock {
			q = q.Where("quantity > 0")
		} else {
			q = q.Where("quantity = 0")
		}
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	return scan[models.Product](f.Page.apply(q.Order("id")))
}

// Update writes the named columns of p.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product, columns ...string) error {
	res := r.db.WithContext(ctx).Model(p).Select(columns).Updates(p)
	return affected(res, ErrNotFound)
}

// Delete soft-deletes a product.
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	return affected(r.db.WithContext(ctx).Delete(&models.Product{}, id), ErrNotFound)
}

// ReserveStock takes n units in a single conditional update, so concurrent
// buyers can never drive the quantity below zero.
func (r *ProductRepository) ReserveStock(ctx context.Context, id uint, n int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND quantity >= ?", id, n).
		Update("quantity", gorm.Expr("quantity - ?", n))
	return affected(res, ErrInsufficientStock)
}

// ReleaseStock returns n units. Soft-deleted products are included so
// cancelling an old order still restores their stock.
func (r *ProductRepository) ReleaseStock(ctx context.Context, id uint, n int) error {
	res := r.db.WithContext(ctx).
		Unscoped().
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", n))
	return affected(res, ErrNotFound)
}

// ByIDs loads several products in one query, keyed by id. Soft-deleted
// products are included because order items keep pointing at them.
func (r *ProductRepository) ByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error) {
	out := make(map[uint]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).Unscoped().Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, translate(err)
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}
