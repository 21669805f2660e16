package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/collection"
	"gorm.io/gorm"
)

// ProductWithCounts is a catalog row with its live inventory summary.
type ProductWithCounts struct {
	models.Product
	UnitCounts models.UnitCounts `json:"unitCounts"`
}

// UnitSummary is the short unit form shown on a product page.
type UnitSummary struct {
	ID     uint              `json:"id"`
	Tag    string            `json:"tag"`
	Status models.UnitStatus `json:"status"`
}

// ProductDetail is a product with every one of its units.
type ProductDetail struct {
	models.Product
	Units []UnitSummary `json:"units"`
}

// InventoryService answers catalog questions that need unit counts.
// Counts are computed per request and never stored.
type InventoryService struct {
	products *repositories.ProductRepository
	units    *repositories.UnitRepository
}

func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{
		products: repositories.NewProductRepository(db),
		units:    repositories.NewUnitRepository(db),
	}
}

// ListProductsWithCounts returns the filtered catalog, newest first, each
// product with its unit counts.
func (s *InventoryService) ListProductsWithCounts(ctx context.Context, f repositories.ProductFilter) ([]ProductWithCounts, error) {
	products, err := s.products.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	ids := collection.Pluck(products, func(p models.Product) uint { return p.ID })
	counts, err := s.units.CountsByProduct(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count units: %w", err)
	}

	out := make([]ProductWithCounts, len(products))
	for i, p := range products {
		out[i] = ProductWithCounts{Product: p, UnitCounts: counts[p.ID]}
	}
	return out, nil
}

// GetProductWithUnits returns one product and all of its units.
func (s *InventoryService) GetProductWithUnits(ctx context.Context, id uint) (ProductDetail, error) {
	p, err := s.products.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ProductDetail{}, ErrProductNotFound
	}
	if err != nil {
		return ProductDetail{}, fmt.Errorf("find product %d: %w", id, err)
	}

	units, err := s.units.ListByProduct(ctx, id)
	if err != nil {
		return ProductDetail{}, fmt.Errorf("list units of product %d: %w", id, err)
	}
	summary := collection.Map(units, func(u models.Unit) UnitSummary {
		return UnitSummary{ID: u.ID, Tag: u.UniqueTag, Status: u.Status}
	})
	return ProductDetail{Product: p, Units: summary}, nil
}

// Totals returns store-wide unit counts.
func (s *InventoryService) Totals(ctx context.Context) (models.UnitCounts, error) {
	c, err := s.units.Totals(ctx)
	if err != nil {
		return c, fmt.Errorf("count units: %w", err)
	}
	return c, nil
}
