package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shashiranjanraj/storefront/app/events"
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/tag"
	"gorm.io/gorm"
)

// NewReceiptID returns "RCP-" followed by the first 8 hex digits of a random
// UUID, upper-cased.
func NewReceiptID() string {
	return "RCP-" + strings.ToUpper(uuid.New().String()[:8])
}

// SaleService confirms sales and manages the receipts they produce.
type SaleService struct {
	db        *gorm.DB
	units     *repositories.UnitRepository
	products  *repositories.ProductRepository
	orders    *repositories.OrderRepository
	bus       *event.Bus
	receiptID func() string
}

func NewSaleService(db *gorm.DB, bus *event.Bus) *SaleService {
	return &SaleService{
		db:        db,
		units:     repositories.NewUnitRepository(db),
		products:  repositories.NewProductRepository(db),
		orders:    repositories.NewOrderRepository(db),
		bus:       bus,
		receiptID: NewReceiptID,
	}
}

// ConfirmSale marks the tagged unit taken and issues its receipt in one
// transaction. Of several concurrent calls for the same unit exactly one
// succeeds; the rest get ErrUnitSold.
func (s *SaleService) ConfirmSale(ctx context.Context, in SaleInput) (models.Order, error) {
	t := tag.Normalize(in.UnitTag)
	log := logger.WithCtx(ctx).With("tag", t)

	var receipt models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		units := s.units.WithTx(tx)

		unit, err := units.FindByTag(ctx, t)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnitNotFound
		}
		if err != nil {
			return fmt.Errorf("find unit %s: %w", t, err)
		}
		if err := models.Transition(unit.Status, models.UnitTaken); err != nil {
			if unit.Status == models.UnitTaken {
				return ErrUnitSold
			}
			return err
		}

		product, err := s.products.WithTx(tx).FindByID(ctx, unit.ProductID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return fmt.Errorf("find product %d: %w", unit.ProductID, err)
		}

		n, err := units.MarkTaken(ctx, unit.ID)
		if err != nil {
			return fmt.Errorf("mark unit %s taken: %w", t, err)
		}
		if n == 0 {
			return ErrUnitSold
		}

		receipt = models.Order{
			ReceiptID:     s.receiptID(),
			UnitTag:       unit.UniqueTag,
			ProductName:   product.Name,
			Price:         product.Price,
			CustomerName:  strings.TrimSpace(in.CustomerName),
			CustomerPhone: in.CustomerPhone,
			CustomerEmail: in.CustomerEmail,
			Status:        models.OrderConfirmed,
			Notes:         in.Notes,
		}
		if err := s.orders.WithTx(tx).Create(ctx, &receipt); err != nil {
			return fmt.Errorf("create receipt: %w", err)
		}
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, ErrUnitSold):
		metrics.SalesRejected.WithLabelValues("sold").Inc()
		log.Warn("sale rejected: unit already sold")
		return models.Order{}, err
	case errors.Is(err, ErrUnitNotFound), errors.Is(err, ErrProductNotFound):
		metrics.SalesRejected.WithLabelValues("not_found").Inc()
		return models.Order{}, err
	case errors.Is(err, ErrInvalidTransition):
		metrics.SalesRejected.WithLabelValues("transition").Inc()
		log.Warn("sale rejected", "error", err)
		return models.Order{}, err
	default:
		metrics.SalesRejected.WithLabelValues("error").Inc()
		return models.Order{}, err
	}

	metrics.SalesConfirmed.Inc()
	log.Info("sale confirmed", "receipt_id", receipt.ReceiptID, "price", receipt.Price)
	s.bus.FireAsync(ctx, events.SaleConfirmed, receipt)
	return receipt, nil
}

// GetReceipt looks a receipt up by its public id.
func (s *SaleService) GetReceipt(ctx context.Context, receiptID string) (models.Order, error) {
	id := strings.ToUpper(strings.TrimSpace(receiptID))
	o, err := s.orders.FindByReceiptID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Order{}, ErrReceiptNotFound
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("find receipt %s: %w", id, err)
	}
	return o, nil
}

// ListOrders returns receipts, newest first. An empty status lists all.
func (s *SaleService) ListOrders(ctx context.Context, status string) ([]models.Order, error) {
	var filter *models.OrderStatus
	if status != "" {
		st := models.OrderStatus(status)
		if !st.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
		}
		filter = &st
	}
	orders, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus changes a receipt's back-office status. Any of pending,
// confirmed and completed may follow any other.
func (s *SaleService) UpdateStatus(ctx context.Context, receiptID, status string) (models.Order, error) {
	st := models.OrderStatus(status)
	if !st.Valid() {
		return models.Order{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	id := strings.ToUpper(strings.TrimSpace(receiptID))
	n, err := s.orders.UpdateStatus(ctx, id, st)
	if err != nil {
		return models.Order{}, fmt.Errorf("update receipt %s: %w", id, err)
	}
	if n == 0 {
		return models.Order{}, ErrReceiptNotFound
	}

	o, err := s.GetReceipt(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	s.bus.FireAsync(ctx, events.OrderUpdated, o)
	return o, nil
}
