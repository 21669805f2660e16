// Package resources defines the JSON shapes of units and receipts as the
// back office sees them.
package resources

import (
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/resource"
)

// Unit includes the owning product's name, brand and price.
var Unit resource.Transformer[models.Unit] = func(u models.Unit) resource.Map {
	out := resource.Map{
		"id":        u.ID,
		"uniqueTag": u.UniqueTag,
		"status":    u.Status,
		"productId": u.ProductID,
		"createdAt": u.CreatedAt,
		"updatedAt": u.UpdatedAt,
	}
	if u.Product != nil {
		out["product"] = resource.Map{
			"id":    u.Product.ID,
			"name":  u.Product.Name,
			"brand": u.Product.Brand,
			"price": u.Product.Price,
		}
	}
	return out
}

// CreatedUnit is the short form returned when a unit is added.
var CreatedUnit resource.Transformer[models.Unit] = func(u models.Unit) resource.Map {
	out := resource.Map{"id": u.ID, "tag": u.UniqueTag, "status": u.Status}
	if u.Product != nil {
		out["productName"] = u.Product.Name
	}
	return out
}

// Receipt is the full public receipt.
var Receipt resource.Transformer[models.Order] = func(o models.Order) resource.Map {
	return resource.Map{
		"receiptId":     o.ReceiptID,
		"productName":   o.ProductName,
		"unitTag":       o.UnitTag,
		"customerName":  o.CustomerName,
		"customerPhone": resource.Optional(o.CustomerPhone),
		"customerEmail": resource.Optional(o.CustomerEmail),
		"price":         o.Price,
		"date":          o.CreatedAt,
		"status":        o.Status,
		"notes":         resource.Optional(o.Notes),
	}
}

// SaleReceipt is the receipt summary returned by sale confirmation.
var SaleReceipt resource.Transformer[models.Order] = func(o models.Order) resource.Map {
	return resource.Map{
		"receiptId":    o.ReceiptID,
		"productName":  o.ProductName,
		"unitTag":      o.UnitTag,
		"customerName": o.CustomerName,
		"price":        o.Price,
		"date":         o.CreatedAt,
		"status":       o.Status,
	}
}
