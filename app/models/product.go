package models

import (
	"time"

	"github.com/gosimple/slug"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Category is the catalog section a product is listed under.
type Category string

const (
	CategoryLaptop    Category = "Laptop"
	CategoryAccessory Category = "Accessory"
)

// Media holds ordered image and video URLs. Upload and hosting happen
// outside this service.
type Media struct {
	Images []string `json:"images"`
	Videos []string `json:"videos"`
}

// Product is a catalog entry. Price is a whole currency amount.
type Product struct {
	ID             uint                                  `gorm:"primaryKey" json:"id"`
	Name           string                                `gorm:"size:255;not null" json:"name"`
	Slug           string                                `gorm:"size:255;index" json:"slug"`
	Brand          string                                `gorm:"size:120;not null;index" json:"brand"`
	Category       Category                              `gorm:"size:20;not null;index" json:"category"`
	Description    string                                `gorm:"type:text" json:"description"`
	Price          int64                                 `gorm:"not null;default:0;index" json:"price"`
	Specifications datatypes.JSONType[map[string]string] `json:"specifications"`
	Media          datatypes.JSONType[Media]             `json:"media"`
	Featured       bool                                  `gorm:"not null;default:false;index" json:"featured"`
	CreatedAt      time.Time                             `json:"createdAt"`
	UpdatedAt      time.Time                             `json:"updatedAt"`
}

// BeforeSave keeps the slug in step with the name.
func (p *Product) BeforeSave(*gorm.DB) error {
	p.Slug = slug.Make(p.Name)
	return nil
}

// Specs returns the specification map, never nil.
func (p Product) Specs() map[string]string {
	if s := p.Specifications.Data(); s != nil {
		return s
	}
	return map[string]string{}
}

// MediaURLs returns the media lists with nil slices replaced by empty ones.
func (p Product) MediaURLs() Media {
	m := p.Media.Data()
	if m.Images == nil {
		m.Images = []string{}
	}
	if m.Videos == nil {
		m.Videos = []string{}
	}
	return m
}
