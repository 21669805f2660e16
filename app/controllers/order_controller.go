package controllers

import (
	"github.com/shashiranjanraj/storefront/app/resources"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/resource"
)

type OrderController struct {
	service *services.SaleService
}

func NewOrderController(service *services.SaleService) *OrderController {
	return &OrderController{service: service}
}

// Confirm POST /api/orders/confirm
func (oc *OrderController) Confirm(c *ctx.Context) {
	var input services.SaleInput
	if !c.BindJSON(&input) {
		return
	}
	receipt, err := oc.service.ConfirmSale(c.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Created("Sale confirmed", resource.Map{"receipt": resource.One(resources.SaleReceipt, receipt)})
}

// Receipt GET /api/orders/receipt/{id}
func (oc *OrderController) Receipt(c *ctx.Context) {
	receipt, err := oc.service.GetReceipt(c.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(resource.One(resources.Receipt, receipt))
}

// Index GET /api/orders?status=
func (oc *OrderController) Index(c *ctx.Context) {
	orders, err := oc.service.ListOrders(c.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(resource.Many(resources.Receipt, orders))
}

// UpdateStatus PATCH /api/orders/{id}
func (oc *OrderController) UpdateStatus(c *ctx.Context) {
	var input services.OrderStatusInput
	if !c.BindJSON(&input) {
		return
	}
	order, err := oc.service.UpdateStatus(c.Context(), c.Param("id"), input.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(resource.One(resources.Receipt, order))
}
