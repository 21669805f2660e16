package controllers

import (
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type ProductController struct {
	inventory *services.InventoryService
	catalog   *services.CatalogService
}

func NewProductController(inventory *services.InventoryService, catalog *services.CatalogService) *ProductController {
	return &ProductController{inventory: inventory, catalog: catalog}
}

// Index GET /api/products?brand=&category=&minPrice=&maxPrice=
func (pc *ProductController) Index(c *ctx.Context) {
	f := repositories.ProductFilter{Brand: c.Query("brand"), Category: c.Query("category")}
	var err error
	if f.MinPrice, err = c.QueryInt64("minPrice"); err != nil {
		c.ValidationError(map[string]string{"minPrice": "The minPrice must be an integer."})
		return
	}
	if f.MaxPrice, err = c.QueryInt64("maxPrice"); err != nil {
		c.ValidationError(map[string]string{"maxPrice": "The maxPrice must be an integer."})
		return
	}

	products, err := pc.inventory.ListProductsWithCounts(c.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(products)
}

// Featured GET /api/products/featured
func (pc *ProductController) Featured(c *ctx.Context) {
	products, err := pc.catalog.Featured(c.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(products)
}

// Show GET /api/products/{id}
func (pc *ProductController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Product not found")
		return
	}
	detail, err := pc.inventory.GetProductWithUnits(c.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(detail)
}

// Store POST /api/products
func (pc *ProductController) Store(c *ctx.Context) {
	var input services.ProductInput
	if !c.BindJSON(&input) {
		return
	}
	p, err := pc.catalog.Create(c.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Created("Product created", p)
}

// Update PUT /api/products/{id}
func (pc *ProductController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Product not found")
		return
	}
	var input services.ProductInput
	if !c.BindJSON(&input) {
		return
	}
	p, err := pc.catalog.Update(c.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(p)
}

// Destroy DELETE /api/products/{id}
func (pc *ProductController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Product not found")
		return
	}
	if err := pc.catalog.Delete(c.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.SuccessMessage("Product deleted")
}
