package controllers

import (
	"github.com/shashiranjanraj/marketplace/app/requests"
	"github.com/shashiranjanraj/marketplace/app/resources"
	"github.com/shashiranjanraj/marketplace/app/services"
	"github.com/shashiranjanraj/marketplace/pkg/ctx"
	"github.com/shashiranjanraj/marketplace/pkg/resource"
)

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

// Index GET /orders
func (oc *OrderController) Index(c *ctx.Context) {
	q, errs := requests.ParseOrderQuery(c.R.URL.Query())
	if len(errs) > 0 {
		c.ValidationError(errs)
		return
	}
	orders, page, err := oc.service.List(c.Context(), c.MustIdentity(), q)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resource.NewPage(resource.Slice(resources.Order, orders), page.Limit, page.Offset))
}

// Show GET /orders/{id}
func (oc *OrderController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	o, err := oc.service.Get(c.Context(), c.MustIdentity(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resource.One(resources.Order, o))
}

// Store POST /orders
func (oc *OrderController) Store(c *ctx.Context) {
	var in requests.PlaceOrder
	if !c.BindJSON(&in) {
		return
	}
	o, err := oc.service.Place(c.Context(), c.MustIdentity(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(resource.One(resources.Order, o))
}

// UpdateStatus PATCH /orders/{id}/status
func (oc *OrderController) UpdateStatus(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in requests.UpdateOrderStatus
	if !c.BindJSON(&in) {
		return
	}
	o, err := oc.service.UpdateStatus(c.Context(), c.MustIdentity(), id, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resource.One(resources.Order, o))
}

// Destroy DELETE /orders/{id}
func (oc *OrderController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := oc.service.Delete(c.Context(), c.MustIdentity(), id); err != nil {
		c.Fail(err)
		return
	}
	c.Success(resource.Map{"msg": "Order deleted"})
}
