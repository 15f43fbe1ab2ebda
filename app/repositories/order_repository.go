package repositories

import (
	"context"
	"iter"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/marketplace/app/models"
)

type OrderFilter struct {
	UserID uint // 0 means every buyer
	Status models.OrderStatus
	Page
}

// OrderRepository handles database operations for Order and its items.
type OrderRepository struct {
	db *gorm.DB
}

// Create inserts o together with o.Items.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	return translate(r.db.WithContext(ctx).Create(o).Error)
}

// Get returns an order with its items.
func (r *OrderRepository) Get(ctx context.Context, id uint) (models.Order, error) {
	var o models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&o, id).Error
	return o, translate(err)
}

// List streams orders without items, newest first. Use ItemsFor to attach
// items once the page has been read.
func (r *OrderRepository) List(ctx context.Context, f OrderFilter) iter.Seq2[models.Order, error] {
	q := r.db.WithContext(ctx).Model(&models.Order{})
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return scan[models.Order](f.Page.apply(q.Order("created_at desc").Order("id desc")))
}

// ItemsFor loads the items of several orders in one query, keyed by order.
func (r *OrderRepository) ItemsFor(ctx context.Context, orderIDs []uint) (map[uint][]models.OrderItem, error) {
	out := make(map[uint][]models.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}
	var items []models.OrderItem
	if err := r.db.WithContext(ctx).Where("order_id IN ?", orderIDs).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	for _, it := range items {
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, nil
}

// SetStatus moves an order from one status to another. It fails with
// ErrStale when the order is no longer in status from.
func (r *OrderRepository) SetStatus(ctx context.Context, id uint, from, to models.OrderStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return affected(res, ErrStale)
}

// Delete removes an order and its items. Run it inside Store.Tx.
func (r *OrderRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	return affected(db.Delete(&models.Order{}, id), ErrNotFound)
}
