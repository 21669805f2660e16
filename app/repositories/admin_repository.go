package repositories

import (
	"context"

	"github.com/shashiranjanraj/storefront/app/models"
	"gorm.io/gorm"
)

// AdminRepository handles database operations for Admin.
type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// FindByEmail looks up an admin by their email address.
func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (models.Admin, error) {
	var a models.Admin
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&a).Error
	return a, err
}

// FindByID looks up an admin by primary key.
func (r *AdminRepository) FindByID(ctx context.Context, id uint) (models.Admin, error) {
	var a models.Admin
	err := r.db.WithContext(ctx).First(&a, id).Error
	return a, err
}

// Create persists a new admin.
func (r *AdminRepository) Create(ctx context.Context, a *models.Admin) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// UpdatePassword stores a new password hash.
func (r *AdminRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	return r.db.WithContext(ctx).Model(&models.Admin{}).Where("id = ?", id).Update("password", hash).Error
}
