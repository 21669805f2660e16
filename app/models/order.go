package models

import "time"

// OrderStatus is the back-office lifecycle of a receipt.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderCompleted OrderStatus = "completed"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderCompleted:
		return true
	}
	return false
}

// Order is the receipt issued for a sale. Every field except Status is a
// snapshot taken at sale time and never re-read from the product or unit.
type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	ReceiptID     string      `gorm:"size:12;not null;uniqueIndex" json:"receiptId"`
	UnitTag       string      `gorm:"size:6;not null;index" json:"unitTag"`
	ProductName   string      `gorm:"size:255;not null" json:"productName"`
	Price         int64       `gorm:"not null" json:"price"`
	CustomerName  string      `gorm:"size:255;not null" json:"customerName"`
	CustomerPhone *string     `gorm:"size:50" json:"customerPhone,omitempty"`
	CustomerEmail *string     `gorm:"size:255" json:"customerEmail,omitempty"`
	Status        OrderStatus `gorm:"size:20;not null;default:confirmed;index" json:"status"`
	Notes         *string     `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time   `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}
