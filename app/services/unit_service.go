package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/storefront/app/events"
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/tag"
	"gorm.io/gorm"
)

// UnitService owns the unit inventory and its status machine. Only
// SaleService may move a unit to taken.
type UnitService struct {
	units    *repositories.UnitRepository
	products *repositories.ProductRepository
	bus      *event.Bus
}

func NewUnitService(db *gorm.DB, bus *event.Bus) *UnitService {
	return &UnitService{
		units:    repositories.NewUnitRepository(db),
		products: repositories.NewProductRepository(db),
		bus:      bus,
	}
}

// Create adds a unit to a product under a freshly generated tag.
// An empty status means available.
func (s *UnitService) Create(ctx context.Context, productID uint, status string) (models.Unit, error) {
	initial := models.UnitAvailable
	if status != "" {
		initial = models.UnitStatus(status)
	}
	if initial != models.UnitAvailable && initial != models.UnitComingSoon {
		return models.Unit{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	product, err := s.products.FindByID(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Unit{}, ErrProductNotFound
	}
	if err != nil {
		return models.Unit{}, fmt.Errorf("find product %d: %w", productID, err)
	}

	var unit models.Unit
	exists := func(ctx context.Context, t string) (bool, error) {
		taken, err := s.units.TagExists(ctx, t)
		if taken {
			metrics.TagCollisions.Inc()
		}
		return taken, err
	}
	insert := func(ctx context.Context, t string) error {
		unit = models.Unit{ProductID: product.ID, UniqueTag: t, Status: initial}
		err := s.units.Create(ctx, &unit)
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			metrics.TagCollisions.Inc()
			return fmt.Errorf("insert unit %s: %w", t, tag.ErrCollision)
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			return ErrProductNotFound
		}
		return err
	}
	if _, err := tag.Claim(ctx, exists, insert); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return models.Unit{}, err
		}
		return models.Unit{}, fmt.Errorf("create unit: %w", err)
	}

	unit.Product = &product
	metrics.UnitsCreated.Inc()
	logger.WithCtx(ctx).Info("unit created", "tag", unit.UniqueTag, "product_id", product.ID, "status", unit.Status)
	s.bus.FireAsync(ctx, events.UnitCreated, unit)
	return unit, nil
}

// FindByTag looks a unit up by tag, case-insensitively.
func (s *UnitService) FindByTag(ctx context.Context, rawTag string) (models.Unit, error) {
	t := tag.Normalize(rawTag)
	unit, err := s.units.FindByTag(ctx, t)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Unit{}, ErrUnitNotFound
	}
	if err != nil {
		return models.Unit{}, fmt.Errorf("find unit %s: %w", t, err)
	}
	return unit, nil
}

// SetStatus moves a unit between available and coming_soon.
func (s *UnitService) SetStatus(ctx context.Context, rawTag, status string) (models.Unit, error) {
	requested := models.UnitStatus(status)
	if !requested.Valid() {
		return models.Unit{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if requested == models.UnitTaken {
		return models.Unit{}, fmt.Errorf("%w: units are taken by confirming a sale", ErrInvalidTransition)
	}

	unit, err := s.FindByTag(ctx, rawTag)
	if err != nil {
		return models.Unit{}, err
	}
	if err := models.Transition(unit.Status, requested); err != nil {
		return models.Unit{}, err
	}

	n, err := s.units.UpdateStatus(ctx, unit.ID, requested)
	if err != nil {
		return models.Unit{}, fmt.Errorf("update unit %s: %w", unit.UniqueTag, err)
	}
	if n == 0 {
		// sold between the read and the write
		return models.Unit{}, ErrUnitSold
	}

	unit.Status = requested
	s.bus.FireAsync(ctx, events.UnitUpdated, unit)
	return unit, nil
}

// Delete removes a unit by tag.
func (s *UnitService) Delete(ctx context.Context, rawTag string) error {
	t := tag.Normalize(rawTag)
	n, err := s.units.DeleteByTag(ctx, t)
	if err != nil {
		return fmt.Errorf("delete unit %s: %w", t, err)
	}
	if n == 0 {
		return ErrUnitNotFound
	}
	s.bus.FireAsync(ctx, events.UnitDeleted, events.UnitRef{Tag: t})
	return nil
}

// ListByProduct returns a product's units, newest first.
func (s *UnitService) ListByProduct(ctx context.Context, productID uint) ([]models.Unit, error) {
	units, err := s.units.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list units of product %d: %w", productID, err)
	}
	return units, nil
}

// ListAll returns every unit, newest first. An empty status lists all.
func (s *UnitService) ListAll(ctx context.Context, status string) ([]models.Unit, error) {
	var filter *models.UnitStatus
	if status != "" {
		st := models.UnitStatus(status)
		if !st.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
		}
		filter = &st
	}
	units, err := s.units.ListAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	return units, nil
}
