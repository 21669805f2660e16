package repositories

import (
	"context"
	"time"

	"github.com/shashiranjanraj/storefront/app/models"
	"gorm.io/gorm"
)

// UnitRepository handles database operations for Unit. Reads preload the
// owning product so callers can show its name, brand and price.
type UnitRepository struct {
	db *gorm.DB
}

func NewUnitRepository(db *gorm.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

// WithTx returns a copy bound to tx.
func (r *UnitRepository) WithTx(tx *gorm.DB) *UnitRepository {
	return &UnitRepository{db: tx}
}

// TagExists reports whether any unit carries tag.
func (r *UnitRepository) TagExists(ctx context.Context, tag string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Unit{}).Where("unique_tag = ?", tag).Count(&n).Error
	return n > 0, err
}

// Create persists a new unit.
func (r *UnitRepository) Create(ctx context.Context, u *models.Unit) error {
	return r.db.WithContext(ctx).Create(u).Error
}

// FindByTag looks up a unit by its normalized tag.
func (r *UnitRepository) FindByTag(ctx context.Context, tag string) (models.Unit, error) {
	var u models.Unit
	err := r.db.WithContext(ctx).Preload("Product").Where("unique_tag = ?", tag).First(&u).Error
	return u, err
}

// ListByProduct returns a product's units, newest first.
func (r *UnitRepository) ListByProduct(ctx context.Context, productID uint) ([]models.Unit, error) {
	var units []models.Unit
	err := r.db.WithContext(ctx).Preload("Product").
		Where("product_id = ?", productID).
		Order("created_at DESC").Order("id DESC").
		Find(&units).Error
	return units, err
}

// ListAll returns every unit, optionally filtered by status, newest first.
func (r *UnitRepository) ListAll(ctx context.Context, status *models.UnitStatus) ([]models.Unit, error) {
	q := r.db.WithContext(ctx).Preload("Product")
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var units []models.Unit
	err := q.Order("created_at DESC").Order("id DESC").Find(&units).Error
	return units, err
}

// UpdateStatus sets a unit's status only when its current status has an
// allowed edge to the new one. The returned count is zero when the unit is
// missing or was moved (sold, say) in the meantime.
func (r *UnitRepository) UpdateStatus(ctx context.Context, id uint, status models.UnitStatus) (int64, error) {
	from := models.Sources(status)
	if len(from) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&models.Unit{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}

// MarkTaken is the sale's compare-and-set: exactly one caller sees 1.
func (r *UnitRepository) MarkTaken(ctx context.Context, id uint) (int64, error) {
	return r.UpdateStatus(ctx, id, models.UnitTaken)
}

// DeleteByTag removes a unit and reports how many rows went.
func (r *UnitRepository) DeleteByTag(ctx context.Context, tag string) (int64, error) {
	res := r.db.WithContext(ctx).Where("unique_tag = ?", tag).Delete(&models.Unit{})
	return res.RowsAffected, res.Error
}

// DeleteByProduct removes every unit of a product.
func (r *UnitRepository) DeleteByProduct(ctx context.Context, productID uint) error {
	return r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&models.Unit{}).Error
}

type statusCount struct {
	ProductID uint
	Status    models.UnitStatus
	N         int64
}

// CountsByProduct groups unit counts by product and status in one query.
// Products without units are absent from the map.
func (r *UnitRepository) CountsByProduct(ctx context.Context, productIDs []uint) (map[uint]models.UnitCounts, error) {
	out := make(map[uint]models.UnitCounts, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}

	var rows []statusCount
	err := r.db.WithContext(ctx).Model(&models.Unit{}).
		Select("product_id, status, COUNT(*) AS n").
		Where("product_id IN ?", productIDs).
		Group("product_id, status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		c := out[row.ProductID]
		c.Add(row.Status, row.N)
		out[row.ProductID] = c
	}
	return out, nil
}

// Totals counts every unit in the store by status.
func (r *UnitRepository) Totals(ctx context.Context) (models.UnitCounts, error) {
	var rows []statusCount
	err := r.db.WithContext(ctx).Model(&models.Unit{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	var out models.UnitCounts
	if err != nil {
		return out, err
	}
	for _, row := range rows {
		out.Add(row.Status, row.N)
	}
	return out, nil
}
