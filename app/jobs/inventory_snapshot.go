package jobs

import (
	"context"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/schedule"
)

const InventorySnapshotName = "inventory.snapshot"

// TotalsSource reports store-wide unit counts.
type TotalsSource interface {
	Totals(ctx context.Context) (models.UnitCounts, error)
}

// InventorySnapshot publishes the current unit counts as the
// storefront_inventory_units gauge.
func InventorySnapshot(src TotalsSource) schedule.Task {
	return func(ctx context.Context) error {
		c, err := src.Totals(ctx)
		if err != nil {
			return err
		}
		metrics.UnitsInStock.WithLabelValues(string(models.UnitAvailable)).Set(float64(c.Available))
		metrics.UnitsInStock.WithLabelValues(string(models.UnitComingSoon)).Set(float64(c.ComingSoon))
		metrics.UnitsInStock.WithLabelValues(string(models.UnitTaken)).Set(float64(c.Taken))
		return nil
	}
}
