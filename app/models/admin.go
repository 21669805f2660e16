package models

import "time"

// Admin is a back-office account.
type Admin struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"` // bcrypt hash
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// All lists every model, in dependency order, for migrations and tests.
func All() []interface{} {
	return []interface{}{&Product{}, &Unit{}, &Order{}, &Admin{}}
}
