package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/marketplace/app/models"
	"github.com/shashiranjanraj/marketplace/app/repositories"
	"github.com/shashiranjanraj/marketplace/app/requests"
	"github.com/shashiranjanraj/marketplace/pkg/apperr"
	"github.com/shashiranjanraj/marketplace/pkg/auth"
	"github.com/shashiranjanraj/marketplace/pkg/logger"
	"github.com/shashiranjanraj/marketplace/pkg/metrics"
)

const orderNotFound = "Order not found"

type OrderService struct {
	store   *repositories.Store
	metrics *metrics.Metrics
}

func NewOrderService(store *repositories.Store, m *metrics.Metrics) *OrderService {
	return &OrderService{store: store, metrics: m}
}

// Place reserves stock for every line and records the order in one
// transaction. Items are priced from the current product price.
func (s *OrderService) Place(ctx context.Context, buyer auth.Identity, in requests.PlaceOrder) (models.Order, error) {
	order := models.Order{
		UserID:          buyer.UserID,
		DeliveryAddress: in.DeliveryAddress,
		Status:          models.StatusCreated,
	}

	err := s.store.Tx(ctx, func(tx *repositories.Store) error {
		for _, line := range in.Merged() {
			p, err := tx.Products().Get(ctx, line.ProductID)
			if err != nil {
				return classify(err, "place order", fmt.Sprintf("Product %d not found", line.ProductID))
			}
			if err := tx.Products().ReserveStock(ctx, p.ID, line.Quantity); err != nil {
				if errors.Is(err, repositories.ErrInsufficientStock) {
					return apperr.Wrap(apperr.Conflict, err, "Insufficient stock for product %d (available %d, requested %d)", p.ID, p.Quantity, line.Quantity)
				}
				return fmt.Errorf("place order: reserve product %d: %w", p.ID, err)
			}
			order.Items = append(order.Items, models.OrderItem{
				ProductID: p.ID,
				Quantity:  line.Quantity,
				UnitPrice: p.Price,
				Price:     p.Price.Mul(decimal.NewFromInt(int64(line.Quantity))),
			})
		}
		order.TotalPrice = order.Total()
		if order.TotalPrice.GreaterThan(models.MaxAmount) {
			return apperr.NewValidation(map[string]string{
				"items": "The order total must not exceed " + models.MaxAmount.StringFixed(2) + ".",
			})
		}
		return classify(tx.Orders().Create(ctx, &order), "place order", orderNotFound)
	})
	if err != nil {
		return models.Order{}, err
	}

	// The order is committed; a failed product lookup only trims the response.
	if err := s.attachProducts(ctx, &order); err != nil {
		logger.WithCtx(ctx).Warn("order products not loaded", "order_id", order.ID, "error", err)
	}

	s.metrics.OrderEvent("placed")
	logger.WithCtx(ctx).Info("order placed", "order_id", order.ID, "user_id", buyer.UserID, "total", order.TotalPrice.StringFixed(2))
	return order, nil
}

// Get returns an order visible to actor. Orders of other buyers are
// reported as missing unless actor is staff.
func (s *OrderService) Get(ctx context.Context, actor auth.Identity, id uint) (models.Order, error) {
	o, err := s.visible(ctx, s.store, actor, id)
	if err != nil {
		return models.Order{}, err
	}
	if err := s.attachProducts(ctx, &o); err != nil {
		return models.Order{}, err
	}
	return o, nil
}

// List returns actor's orders, newest first. Staff may ask for every
// buyer's orders with q.All.
func (s *OrderService) List(ctx context.Context, actor auth.Identity, q requests.OrderQuery) ([]models.Order, repositories.Page, error) {
	f := repositories.OrderFilter{
		UserID: actor.UserID,
		Status: models.OrderStatus(q.Status),
		Page:   repositories.Page{Limit: q.Limit, Offset: q.Offset}.Normalize(),
	}
	if q.All && actor.IsStaff() {
		f.UserID = 0
	}

	orders := make([]models.Order, 0, f.Limit)
	ids := make([]uint, 0, f.Limit)
	for o, err := range s.store.Orders().List(ctx, f) {
		if err != nil {
			return nil, f.Page, fmt.Errorf("list orders: %w", err)
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}

	items, err := s.store.Orders().ItemsFor(ctx, ids)
	if err != nil {
		return nil, f.Page, fmt.Errorf("list orders: %w", err)
	}
	refs := make([]*models.Order, len(orders))
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
		refs[i] = &orders[i]
	}
	if err := s.attachProducts(ctx, refs...); err != nil {
		return nil, f.Page, err
	}
	return orders, f.Page, nil
}

// UpdateStatus moves an order along its lifecycle. Buyers may only cancel;
// staff may make any allowed transition. Cancelling returns the stock.
func (s *OrderService) UpdateStatus(ctx context.Context, actor auth.Identity, id uint, in requests.UpdateOrderStatus) (models.Order, error) {
	next := models.OrderStatus(in.Status)
	var order models.Order

	err := s.store.Tx(ctx, func(tx *repositories.Store) error {
		var err error
		if order, err = s.visible(ctx, tx, actor, id); err != nil {
			return err
		}
		if !actor.IsStaff() && next != models.StatusCancelled {
			return apperr.NewForbidden("Buyers may only cancel orders")
		}
		if !order.Status.CanTransition(next) {
			return apperr.NewConflict("Cannot change order status from %s to %s", order.Status, next)
		}
		if err := tx.Orders().SetStatus(ctx, order.ID, order.Status, next); err != nil {
			return classify(err, "update order status", orderNotFound)
		}
		if next == models.StatusCancelled {
			if err := s.restock(ctx, tx, order); err != nil {
				return err
			}
		}
		order.Status = next
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	if err := s.attachProducts(ctx, &order); err != nil {
		logger.WithCtx(ctx).Warn("order products not loaded", "order_id", order.ID, "error", err)
	}

	s.metrics.OrderEvent(string(next))
	logger.WithCtx(ctx).Info("order status changed", "order_id", order.ID, "status", next, "by", actor.UserID)
	return order, nil
}

// Delete removes a created or cancelled order. A created order's stock is
// returned first; a cancelled one was restocked when it was cancelled.
func (s *OrderService) Delete(ctx context.Context, actor auth.Identity, id uint) error {
	err := s.store.Tx(ctx, func(tx *repositories.Store) error {
		order, err := s.visible(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		if order.UserID != actor.UserID {
			return apperr.NewForbidden("Only the buyer can delete an order")
		}

		switch order.Status {
		case models.StatusCreated:
			if err := s.restock(ctx, tx, order); err != nil {
				return err
			}
		case models.StatusCancelled:
		default:
			return apperr.NewConflict("Only created or cancelled orders can be deleted (status is %s)", order.Status)
		}
		return classify(tx.Orders().Delete(ctx, order.ID), "delete order", orderNotFound)
	})
	if err != nil {
		return err
	}

	s.metrics.OrderEvent("deleted")
	logger.WithCtx(ctx).Info("order deleted", "order_id", id, "user_id", actor.UserID)
	return nil
}

func (s *OrderService) visible(ctx context.Context, store *repositories.Store, actor auth.Identity, id uint) (models.Order, error) {
	o, err := store.Orders().Get(ctx, id)
	if err != nil {
		return models.Order{}, classify(err, "get order", orderNotFound)
	}
	if o.UserID != actor.UserID && !actor.IsStaff() {
		return models.Order{}, apperr.NewNotFound(orderNotFound)
	}
	return o, nil
}

func (s *OrderService) restock(ctx context.Context, tx *repositories.Store, o models.Order) error {
	for _, it := range o.Items {
		if err := tx.Products().ReleaseStock(ctx, it.ProductID, it.Quantity); err != nil {
			return fmt.Errorf("restock product %d: %w", it.ProductID, err)
		}
	}
	return nil
}

// attachProducts loads the product of every item in one query.
func (s *OrderService) attachProducts(ctx context.Context, orders ...*models.Order) error {
	var ids []uint
	for _, o := range orders {
		for _, it := range o.Items {
			ids = append(ids, it.ProductID)
		}
	}
	products, err := s.store.Products().ByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load order products: %w", err)
	}
	for _, o := range orders {
		for i := range o.Items {
			if p, ok := products[o.Items[i].ProductID]; ok {
				o.Items[i].Product = &p
			}
		}
	}
	return nil
}
