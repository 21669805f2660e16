package repositories

import (
	"context"

	"github.com/shashiranjanraj/storefront/app/models"
	"gorm.io/gorm"
)

// ProductFilter narrows a catalog listing. Empty fields match everything;
// set fields are ANDed and price bounds are inclusive.
type ProductFilter struct {
	Brand    string
	Category string
	MinPrice *int64
	MaxPrice *int64
}

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// WithTx returns a copy bound to tx.
func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}

// FindByID looks up a product by primary key.
func (r *ProductRepository) FindByID(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	return p, err
}

// List returns the products matching f, newest first.
func (r *ProductRepository) List(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if f.Brand != "" {
		q = q.Where("brand = ?", f.Brand)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}

	var products []models.Product
	err := q.Order("created_at DESC").Order("id DESC").Find(&products).Error
	return products, err
}

// Featured returns up to limit featured products, newest first.
func (r *ProductRepository) Featured(ctx context.Context, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("featured = ?", true).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

// Create persists a new product.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// Update persists every field of an existing product.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete removes a product and reports how many rows went.
func (r *ProductRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	return res.RowsAffected, res.Error
}
