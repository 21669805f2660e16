package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedTotals struct {
	c   models.UnitCounts
	err error
}

func (f fixedTotals) Totals(context.Context) (models.UnitCounts, error) { return f.c, f.err }

func TestInventorySnapshotSetsGauges(t *testing.T) {
	task := InventorySnapshot(fixedTotals{c: models.UnitCounts{Total: 6, Available: 3, ComingSoon: 1, Taken: 2}})
	require.NoError(t, task(context.Background()))

	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.UnitsInStock.WithLabelValues("available")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.UnitsInStock.WithLabelValues("coming_soon")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.UnitsInStock.WithLabelValues("taken")))
}

func TestInventorySnapshotPropagatesErrors(t *testing.T) {
	task := InventorySnapshot(fixedTotals{err: errors.New("db down")})
	assert.EqualError(t, task(context.Background()), "db down")
}
