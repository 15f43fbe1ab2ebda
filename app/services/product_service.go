package services

import (
	"context"
	"iter"

	"github.com/shashiranjanraj/marketplace/app/models"
	"github.com/shashiranjanraj/marketplace/app/repositories"
	"github.com/shashiranjanraj/marketplace/app/requests"
	"github.com/shashiranjanraj/marketplace/pkg/apperr"
	"github.com/shashiranjanraj/marketplace/pkg/auth"
	"github.com/shashiranjanraj/marketplace/pkg/logger"
)

const productNotFound = "Product not found"

type ProductService struct {
	store *repositories.Store
}

func NewProductService(store *repositories.Store) *ProductService {
	return &ProductService{store: store}
}

// List streams products matching q together with the applied window.
func (s *ProductService) List(ctx context.Context, q requests.ProductQuery) (iter.Seq2[models.Product, error], repositories.Page) {
	f := repositories.ProductFilter{
		SellerID: q.SellerID,
		InStock:  q.InStock,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		Query:    q.Q,
		Page:     repositories.Page{Limit: q.Limit, Offset: q.Offset}.Normalize(),
	}
	return s.store.Products().List(ctx, f), f.Page
}

func (s *ProductService) Get(ctx context.Context, id uint) (models.Product, error) {
	p, err := s.store.Products().Get(ctx, id)
	return p, classify(err, "get product", productNotFound)
}

// Create lists a new product owned by the caller.
func (s *ProductService) Create(ctx context.Context, seller auth.Identity, in requests.CreateProduct) (models.Product, error) {
	p := models.Product{
		SellerID:    seller.UserID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Quantity:    *in.Qty,
	}
	if err := s.store.Products().Create(ctx, &p); err != nil {
		return models.Product{}, classify(err, "create product", productNotFound)
	}
	logger.WithCtx(ctx).Info("product created", "product_id", p.ID, "seller_id", p.SellerID)
	return p, nil
}

// Update applies the supplied fields. Only the seller may edit a product.
func (s *ProductService) Update(ctx context.Context, actor auth.Identity, id uint, in requests.UpdateProduct) (models.Product, error) {
	var p models.Product
	err := s.store.Tx(ctx, func(tx *repositories.Store) error {
		var err error
		if p, err = s.owned(ctx, tx, actor, id); err != nil {
			return err
		}
		if in.Empty() {
			return nil
		}

		var cols []string
		if in.Name != nil {
			p.Name = *in.Name
			cols = append(cols, "name")
		}
		if in.Description != nil {
			p.Description = *in.Description
			cols = append(cols, "description")
		}
		if in.Price != nil {
			p.Price = *in.Price
			cols = append(cols, "price")
		}
		if in.Qty != nil {
			p.Quantity = *in.Qty
			cols = append(cols, "quantity")
		}
		return classify(tx.Products().Update(ctx, &p, cols...), "update product", productNotFound)
	})
	if err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// Delete removes a product from the catalogue. Only the seller may do so.
func (s *ProductService) Delete(ctx context.Context, actor auth.Identity, id uint) error {
	return s.store.Tx(ctx, func(tx *repositories.Store) error {
		if _, err := s.owned(ctx, tx, actor, id); err != nil {
			return err
		}
		if err := tx.Products().Delete(ctx, id); err != nil {
			return classify(err, "delete product", productNotFound)
		}
		logger.WithCtx(ctx).Info("product deleted", "product_id", id, "seller_id", actor.UserID)
		return nil
	})
}

func (s *ProductService) owned(ctx context.Context, tx *repositories.Store, actor auth.Identity, id uint) (models.Product, error) {
	p, err := tx.Products().Get(ctx, id)
	if err != nil {
		return models.Product{}, classify(err, "load product", productNotFound)
	}
	if p.SellerID != actor.UserID {
		return models.Product{}, apperr.NewForbidden("Not enough permissions")
	}
	return p, nil
}
