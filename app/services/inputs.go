package services

import (
	"github.com/shashiranjanraj/storefront/app/models"
	"gorm.io/datatypes"
)

// MediaInput carries product media URLs.
type MediaInput struct {
	Images []string `json:"images" validate:"omitempty,dive,uri"`
	Videos []string `json:"videos" validate:"omitempty,dive,uri"`
}

// ProductInput is the writable part of a product.
type ProductInput struct {
	Name           string            `json:"name"        validate:"required,notblank,max=255"`
	Brand          string            `json:"brand"       validate:"required,max=120"`
	Category       string            `json:"category"    validate:"required,oneof=Laptop Accessory"`
	Description    string            `json:"description" validate:"required"`
	Price          *int64            `json:"price"       validate:"required,gte=0"`
	Specifications map[string]string `json:"specifications"`
	Media          MediaInput        `json:"media"`
	Featured       bool              `json:"featured"`
}

func (in ProductInput) apply(p *models.Product) {
	p.Name = in.Name
	p.Brand = in.Brand
	p.Category = models.Category(in.Category)
	p.Description = in.Description
	if in.Price != nil {
		p.Price = *in.Price
	}
	specs := in.Specifications
	if specs == nil {
		specs = map[string]string{}
	}
	p.Specifications = datatypes.NewJSONType(specs)
	p.Media = datatypes.NewJSONType(models.Media{Images: orEmpty(in.Media.Images), Videos: orEmpty(in.Media.Videos)})
	p.Featured = in.Featured
}

// CreateUnitInput adds one unit to a product.
type CreateUnitInput struct {
	ProductID uint   `json:"productId" validate:"required"`
	Status    string `json:"status"    validate:"omitempty,unit_status"`
}

// UnitStatusInput moves a unit between available and coming_soon.
type UnitStatusInput struct {
	Status string `json:"status" validate:"required,unit_status"`
}

// SaleInput is what the back office records when a unit is sold.
type SaleInput struct {
	UnitTag       string  `json:"unitTag"       validate:"required,unit_tag"`
	CustomerName  string  `json:"customerName"  validate:"required,notblank,max=255"`
	CustomerPhone *string `json:"customerPhone" validate:"omitempty,max=50"`
	CustomerEmail *string `json:"customerEmail" validate:"omitempty,email"`
	Notes         *string `json:"notes"         validate:"omitempty,max=2000"`
}

// OrderStatusInput changes a receipt's back-office status.
type OrderStatusInput struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed"`
}

// LoginInput authenticates an admin.
type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordInput replaces the current admin's password.
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=6"`
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
