package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shashiranjanraj/storefront/app/events"
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"gorm.io/gorm"
)

const (
	// FeaturedLimit caps the featured products list.
	FeaturedLimit = 6

	featuredCacheKey = "products:featured"
	featuredCacheTTL = 10 * time.Minute
)

// CatalogService handles product writes and the cached featured list.
type CatalogService struct {
	db       *gorm.DB
	products *repositories.ProductRepository
	units    *repositories.UnitRepository
	cache    *cache.Cache
	bus      *event.Bus
}

// NewCatalogService builds the service. c may be nil, which disables caching.
func NewCatalogService(db *gorm.DB, c *cache.Cache, bus *event.Bus) *CatalogService {
	return &CatalogService{
		db:       db,
		products: repositories.NewProductRepository(db),
		units:    repositories.NewUnitRepository(db),
		cache:    c,
		bus:      bus,
	}
}

// Featured returns up to FeaturedLimit featured products.
func (s *CatalogService) Featured(ctx context.Context) ([]models.Product, error) {
	return cache.Remember(ctx, s.cache, featuredCacheKey, featuredCacheTTL, func() ([]models.Product, error) {
		products, err := s.products.Featured(ctx, FeaturedLimit)
		if err != nil {
			return nil, fmt.Errorf("list featured products: %w", err)
		}
		return products, nil
	})
}

// Create adds a product to the catalog.
func (s *CatalogService) Create(ctx context.Context, in ProductInput) (models.Product, error) {
	var p models.Product
	in.apply(&p)
	if err := s.products.Create(ctx, &p); err != nil {
		return models.Product{}, fmt.Errorf("create product: %w", err)
	}
	s.changed(ctx, p.ID, "created")
	return p, nil
}

// Update replaces a product's writable fields.
func (s *CatalogService) Update(ctx context.Context, id uint, in ProductInput) (models.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("find product %d: %w", id, err)
	}

	in.apply(&p)
	if err := s.products.Update(ctx, &p); err != nil {
		return models.Product{}, fmt.Errorf("update product %d: %w", id, err)
	}
	s.changed(ctx, p.ID, "updated")
	return p, nil
}

// Delete removes a product together with all of its units.
func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.units.WithTx(tx).DeleteByProduct(ctx, id); err != nil {
			return fmt.Errorf("delete units of product %d: %w", id, err)
		}
		n, err := s.products.WithTx(tx).Delete(ctx, id)
		if err != nil {
			return fmt.Errorf("delete product %d: %w", id, err)
		}
		if n == 0 {
			return ErrProductNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.changed(ctx, id, "deleted")
	return nil
}

func (s *CatalogService) changed(ctx context.Context, id uint, action string) {
	if err := s.cache.Forget(ctx, featuredCacheKey); err != nil {
		logger.WithCtx(ctx).Warn("cache forget", "key", featuredCacheKey, "error", err)
	}
	s.bus.FireAsync(ctx, events.CatalogChanged, events.ProductRef{ID: id, Action: action})
}
