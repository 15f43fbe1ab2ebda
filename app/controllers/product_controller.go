package controllers

import (
	"github.com/shashiranjanraj/marketplace/app/requests"
	"github.com/shashiranjanraj/marketplace/app/resources"
	"github.com/shashiranjanraj/marketplace/app/services"
	"github.com/shashiranjanraj/marketplace/pkg/ctx"
	"github.com/shashiranjanraj/marketplace/pkg/resource"
)

type ProductController struct {
	service *services.ProductService
}

func NewProductController(service *services.ProductService) *ProductController {
	return &ProductController{service: service}
}

// Index GET /products
func (pc *ProductController) Index(c *ctx.Context) {
	q, errs := requests.ParseProductQuery(c.R.URL.Query())
	if len(errs) > 0 {
		c.ValidationError(errs)
		return
	}
	seq, page := pc.service.List(c.Context(), q)
	items, err := resource.Collect(resources.Product, seq)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resource.NewPage(items, page.Limit, page.Offset))
}

// Show GET /products/{id}
func (pc *ProductController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	p, err := pc.service.Get(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resource.One(resources.Product, p))
}

// Store POST /products
func (pc *ProductController) Store(c *ctx.Context) {
	var in requests.CreateProduct
	if !c.BindJSON(&in) {
		return
	}
	p, err := pc.service.Create(c.Context(), c.MustIdentity(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(resource.One(resources.Product, p))
}

// Update PUT|PATCH /products/{id}
func (pc *ProductController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in requests.UpdateProduct
	if !c.BindJSON(&in) {
		return
	}
	p, err := pc.service.Update(c.Context(), c.MustIdentity(), id, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resource.One(resources.Product, p))
}

// Destroy DELETE /products/{id}
func (pc *ProductController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := pc.service.Delete(c.Context(), c.MustIdentity(), id); err != nil {
		c.Fail(err)
		return
	}
	c.Success(resource.Map{"msg": "Product deleted"})
}
