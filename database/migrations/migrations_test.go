package migrations

import (
	"testing"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/migration"
	"github.com/shashiranjanraj/storefront/pkg/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAndRollbackAll(t *testing.T) {
	db := testkit.DB(t)
	runner := migration.New(db, All(), nil)

	require.NoError(t, runner.Run())
	for _, name := range []string{"products", "units", "orders", "admins", "failed_jobs"} {
		assert.True(t, db.Migrator().HasTable(name), name)
	}
	assert.True(t, db.Migrator().HasIndex(&models.Unit{}, "UniqueTag"))
	assert.True(t, db.Migrator().HasIndex(&models.Order{}, "ReceiptID"))

	pending, err := runner.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)

	require.NoError(t, runner.Rollback())
	assert.False(t, db.Migrator().HasTable("units"))
	assert.False(t, db.Migrator().HasTable("products"))
}

func TestNamesAreOrdered(t *testing.T) {
	all := All()
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Name, all[i].Name)
	}
}
