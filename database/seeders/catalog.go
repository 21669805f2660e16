package seeders

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/services"
	"gorm.io/gorm"
)

type sampleProduct struct {
	input      services.ProductInput
	available  int
	comingSoon int
}

func price(v int64) *int64 { return &v }

func laptop(name, brand string, p int64, desc, image string, specs map[string]string, featured bool) sampleProduct {
	return sampleProduct{
		input: services.ProductInput{
			Name: name, Brand: brand, Category: string(models.CategoryLaptop), Price: price(p),
			Description: desc, Specifications: specs, Featured: featured,
			Media: services.MediaInput{Images: []string{image}},
		},
		available:  2,
		comingSoon: 1,
	}
}

func accessory(name, brand string, p int64, desc, image string, specs map[string]string) sampleProduct {
	return sampleProduct{
		input: services.ProductInput{
			Name: name, Brand: brand, Category: string(models.CategoryAccessory), Price: price(p),
			Description: desc, Specifications: specs,
			Media: services.MediaInput{Images: []string{image}},
		},
		available: 5,
	}
}

var sampleCatalog = []sampleProduct{
	laptop(`MacBook Pro 14" M3`, "Apple", 1850000,
		"Apple M3 chip, 14-inch Liquid Retina XDR display, 18GB unified memory, 512GB SSD storage. Space Black finish.",
		"/products/macbook-pro-14.jpg",
		map[string]string{"processor": "Apple M3 Pro", "ram": "18GB Unified Memory", "storage": "512GB SSD", "display": `14.2" Liquid Retina XDR`, "battery": "Up to 17 hours"},
		true),
	laptop("Dell XPS 15", "Dell", 1450000,
		`Intel Core i7-13700H, 15.6" OLED 3.5K display, 16GB RAM, 512GB SSD. Premium ultrabook design.`,
		"/products/dell-xps-15.jpg",
		map[string]string{"processor": "Intel Core i7-13700H", "ram": "16GB DDR5", "storage": "512GB NVMe SSD", "display": `15.6" OLED 3.5K`, "battery": "Up to 13 hours"},
		true),
	laptop("HP Spectre x360", "HP", 1250000,
		"2-in-1 convertible laptop with Intel Core i7, 16GB RAM, 1TB SSD, and stunning OLED touchscreen display.",
		"/products/hp-spectre-x360.jpg",
		map[string]string{"processor": "Intel Core i7-1360P", "ram": "16GB DDR5", "storage": "1TB SSD", "display": `13.5" OLED Touch`, "battery": "Up to 15 hours"},
		true),
	laptop("ASUS ROG Strix G16", "ASUS", 1650000,
		"Gaming powerhouse with Intel Core i9, RTX 4070, 16GB RAM, and 240Hz display for ultimate gaming experience.",
		"/products/asus-rog-strix-g16.jpg",
		map[string]string{"processor": "Intel Core i9-13980HX", "ram": "16GB DDR5", "storage": "1TB SSD", "display": `16" QHD 240Hz`, "graphics": "NVIDIA RTX 4070"},
		true),
	laptop("Lenovo ThinkPad X1 Carbon", "Lenovo", 1550000,
		"Business ultrabook with Intel Core i7, 32GB RAM, 1TB SSD. Legendary ThinkPad reliability and keyboard.",
		"/products/lenovo-thinkpad-x1.jpg",
		map[string]string{"processor": "Intel Core i7-1365U", "ram": "32GB LPDDR5", "storage": "1TB SSD", "display": `14" 2.8K OLED`, "battery": "Up to 15 hours"},
		false),
	laptop(`MacBook Air 15" M2`, "Apple", 1350000,
		"Incredibly thin and light with M2 chip, 15.3-inch Liquid Retina display, all-day battery life.",
		"/products/macbook-air-15.jpg",
		map[string]string{"processor": "Apple M2", "ram": "8GB Unified Memory", "storage": "256GB SSD", "display": `15.3" Liquid Retina`, "battery": "Up to 18 hours"},
		false),
	accessory("Logitech MX Master 3S", "Logitech", 85000,
		"Premium wireless mouse with MagSpeed scrolling, 8K DPI sensor, and quiet clicks. Perfect for productivity.",
		"/products/gaming-mouse.jpg",
		map[string]string{"connectivity": "Bluetooth + USB Receiver", "battery": "70 days on full charge", "dpi": "8000 DPI"}),
	accessory("Anker USB-C Hub 7-in-1", "Anker", 45000,
		"Expand your laptop connectivity with HDMI 4K, USB-A, USB-C, SD card reader, and 100W Power Delivery.",
		"/products/usb-c-hub.jpg",
		map[string]string{"ports": "7 ports total", "powerDelivery": "100W pass-through", "hdmi": "4K@60Hz output"}),
}

// Catalog inserts the sample products with a few units each. It does
// nothing when the catalog already has products.
func Catalog(ctx context.Context, db *gorm.DB) error {
	var n int64
	if err := db.WithContext(ctx).Model(&models.Product{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	catalog := services.NewCatalogService(db, nil, nil)
	units := services.NewUnitService(db, nil)
	for _, sp := range sampleCatalog {
		p, err := catalog.Create(ctx, sp.input)
		if err != nil {
			return err
		}
		for i := 0; i < sp.available+sp.comingSoon; i++ {
			status := string(models.UnitAvailable)
			if i >= sp.available {
				status = string(models.UnitComingSoon)
			}
			if _, err := units.Create(ctx, p.ID, status); err != nil {
				return fmt.Errorf("units for %s: %w", p.Name, err)
			}
		}
	}
	return nil
}
