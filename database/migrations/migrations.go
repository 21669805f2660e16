// Package migrations lists the schema migrations run by `storefront migrate`.
package migrations

import (
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/migration"
	"github.com/shashiranjanraj/storefront/pkg/queue"
	"gorm.io/gorm"
)

// All returns every migration. Names sort in run order.
func All() []migration.Named {
	return []migration.Named{
		{Name: "20260101000000_create_products_table", Migration: table{model: &models.Product{}, name: "products"}},
		{Name: "20260101000001_create_units_table", Migration: table{model: &models.Unit{}, name: "units"}},
		{Name: "20260101000002_create_orders_table", Migration: table{model: &models.Order{}, name: "orders"}},
		{Name: "20260101000003_create_admins_table", Migration: table{model: &models.Admin{}, name: "admins"}},
		{Name: "20260101000004_create_failed_jobs_table", Migration: table{model: &queue.FailedJobRecord{}, name: "failed_jobs"}},
	}
}

// table creates one model's table (columns, indexes and constraints) and
// drops it on rollback.
type table struct {
	model interface{}
	name  string
}

func (m table) Up(db *gorm.DB) error {
	return db.AutoMigrate(m.model)
}

func (m table) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(m.name)
}
