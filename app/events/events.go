// Package events names the domain events fired by app/services.
package events

const (
	UnitCreated    = "unit.created"    // payload models.Unit
	UnitUpdated    = "unit.updated"    // payload models.Unit
	UnitDeleted    = "unit.deleted"    // payload UnitRef
	SaleConfirmed  = "sale.confirmed"  // payload models.Order
	OrderUpdated   = "order.updated"   // payload models.Order
	CatalogChanged = "catalog.changed" // payload ProductRef
)

// UnitRef identifies a unit that no longer exists.
type UnitRef struct {
	Tag string `json:"tag"`
}

// ProductRef identifies a product that was created, changed or removed.
type ProductRef struct {
	ID     uint   `json:"id"`
	Action string `json:"action"`
}
