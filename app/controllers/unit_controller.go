package controllers

import (
	"github.com/shashiranjanraj/storefront/app/resources"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/resource"
)

type UnitController struct {
	service *services.UnitService
}

func NewUnitController(service *services.UnitService) *UnitController {
	return &UnitController{service: service}
}

// ShowByTag GET /api/units/tag/{tag}
func (uc *UnitController) ShowByTag(c *ctx.Context) {
	unit, err := uc.service.FindByTag(c.Context(), c.Param("tag"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(resource.One(resources.Unit, unit))
}

// ByProduct GET /api/units/product/{productId}
func (uc *UnitController) ByProduct(c *ctx.Context) {
	id, ok := c.ParamUint("productId")
	if !ok {
		c.NotFound("Product not found")
		return
	}
	units, err := uc.service.ListByProduct(c.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(resource.Many(resources.Unit, units))
}

// Index GET /api/units?status=
func (uc *UnitController) Index(c *ctx.Context) {
	units, err := uc.service.ListAll(c.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(resource.Many(resources.Unit, units))
}

// Store POST /api/units
func (uc *UnitController) Store(c *ctx.Context) {
	var input services.CreateUnitInput
	if !c.BindJSON(&input) {
		return
	}
	unit, err := uc.service.Create(c.Context(), input.ProductID, input.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Created("Unit created", resource.One(resources.CreatedUnit, unit))
}

// UpdateStatus PATCH /api/units/{tag}
func (uc *UnitController) UpdateStatus(c *ctx.Context) {
	var input services.UnitStatusInput
	if !c.BindJSON(&input) {
		return
	}
	unit, err := uc.service.SetStatus(c.Context(), c.Param("tag"), input.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(resource.One(resources.Unit, unit))
}

// Destroy DELETE /api/units/{tag}
func (uc *UnitController) Destroy(c *ctx.Context) {
	if err := uc.service.Delete(c.Context(), c.Param("tag")); err != nil {
		respondError(c, err)
		return
	}
	c.SuccessMessage("Unit deleted")
}
