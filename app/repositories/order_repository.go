package repositories

import (
	"context"
	"time"

	"github.com/shashiranjanraj/storefront/app/models"
	"gorm.io/gorm"
)

// OrderRepository handles database operations for Order.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// WithTx returns a copy bound to tx.
func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{db: tx}
}

// Create persists a new receipt.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

// FindByReceiptID looks up a receipt by its public id.
func (r *OrderRepository) FindByReceiptID(ctx context.Context, receiptID string) (models.Order, error) {
	var o models.Order
	err := r.db.WithContext(ctx).Where("receipt_id = ?", receiptID).First(&o).Error
	return o, err
}

// List returns orders, optionally filtered by status, newest first.
func (r *OrderRepository) List(ctx context.Context, status *models.OrderStatus) ([]models.Order, error) {
	q := r.db.WithContext(ctx)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var orders []models.Order
	err := q.Order("created_at DESC").Order("id DESC").Find(&orders).Error
	return orders, err
}

// UpdateStatus changes only the status column.
func (r *OrderRepository) UpdateStatus(ctx context.Context, receiptID string, status models.OrderStatus) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("receipt_id = ?", receiptID).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}
