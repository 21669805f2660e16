package models

import (
	"errors"
	"fmt"
	"time"
)

// UnitStatus is where a physical unit is in its sales lifecycle.
type UnitStatus string

const (
	UnitAvailable  UnitStatus = "available"
	UnitComingSoon UnitStatus = "coming_soon"
	UnitTaken      UnitStatus = "taken"
)

// Valid reports whether s is a known status.
func (s UnitStatus) Valid() bool {
	switch s {
	case UnitAvailable, UnitComingSoon, UnitTaken:
		return true
	}
	return false
}

// ErrInvalidTransition is returned by Transition for a disallowed edge.
var ErrInvalidTransition = errors.New("invalid unit status transition")

// transitions lists every allowed edge. taken has no outgoing edges.
var transitions = map[UnitStatus]map[UnitStatus]bool{
	UnitAvailable:  {UnitAvailable: true, UnitComingSoon: true, UnitTaken: true},
	UnitComingSoon: {UnitAvailable: true, UnitComingSoon: true, UnitTaken: true},
}

// Transition checks that a unit may move from current to requested.
func Transition(current, requested UnitStatus) error {
	if transitions[current][requested] {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, requested)
}

// Sources lists, in a fixed order, the statuses a unit may move to requested
// from.
func Sources(requested UnitStatus) []UnitStatus {
	var out []UnitStatus
	for _, s := range []UnitStatus{UnitAvailable, UnitComingSoon, UnitTaken} {
		if transitions[s][requested] {
			out = append(out, s)
		}
	}
	return out
}

// Unit is one physical, sellable item of a Product, identified by the tag
// printed on its sticker.
type Unit struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	ProductID uint       `gorm:"not null;index" json:"productId"`
	UniqueTag string     `gorm:"size:6;not null;uniqueIndex" json:"uniqueTag"`
	Status    UnitStatus `gorm:"size:20;not null;default:available;index" json:"status"`
	CreatedAt time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}

// UnitCounts summarises a product's inventory. Taken is derived, so the four
// numbers always add up.
type UnitCounts struct {
	Total      int64 `json:"total"`
	Available  int64 `json:"available"`
	ComingSoon int64 `json:"comingSoon"`
	Taken      int64 `json:"taken"`
}

// Add folds n units of status s into the counts.
func (c *UnitCounts) Add(s UnitStatus, n int64) {
	c.Total += n
	switch s {
	case UnitAvailable:
		c.Available += n
	case UnitComingSoon:
		c.ComingSoon += n
	}
	c.Taken = c.Total - c.Available - c.ComingSoon
}
