package seeders

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSeedTwiceIsIdempotent(t *testing.T) {
	db := testkit.DB(t, models.All()...)
	ctx := context.Background()
	all := All(AdminConfig{Email: "admin@example.com", Password: "Admin@123", Name: "Admin"})

	var out bytes.Buffer
	require.NoError(t, RunAll(ctx, db, all, &out))
	require.NoError(t, RunAll(ctx, db, all, nil))
	assert.Contains(t, out.String(), "Running seeder: catalog")

	var products, units, admins int64
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	require.NoError(t, db.Model(&models.Unit{}).Count(&units).Error)
	require.NoError(t, db.Model(&models.Admin{}).Count(&admins).Error)

	assert.EqualValues(t, len(sampleCatalog), products)
	assert.EqualValues(t, 6*3+2*5, units)
	assert.EqualValues(t, 1, admins)
}

func TestRunAllStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	ran := false
	err := RunAll(context.Background(), nil, []Seeder{
		{Name: "bad", Run: func(context.Context, *gorm.DB) error { return boom }},
		{Name: "never", Run: func(context.Context, *gorm.DB) error { ran = true; return nil }},
	}, nil)
	assert.ErrorIs(t, err, boom)
	assert.False(t, ran)
}
