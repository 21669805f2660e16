package services

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/shashiranjanraj/storefront/app/events"
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	bus       *event.Bus
	units     *UnitService
	sales     *SaleService
	inventory *InventoryService
	catalog   *CatalogService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return fixtureOn(testkit.DB(t, models.All()...))
}

func fixtureOn(db *gorm.DB) *fixture {
	bus := event.NewBus(nil)
	return &fixture{
		db:        db,
		bus:       bus,
		units:     NewUnitService(db, bus),
		sales:     NewSaleService(db, bus),
		inventory: NewInventoryService(db),
		catalog:   NewCatalogService(db, nil, bus),
	}
}

func (f *fixture) product(t *testing.T, name string, price int64) models.Product {
	t.Helper()
	p, err := f.catalog.Create(context.Background(), ProductInput{
		Name: name, Brand: "Dell", Category: "Laptop", Description: "d", Price: &price,
	})
	require.NoError(t, err)
	return p
}

// unitWithTag inserts a unit under a known tag, bypassing the generator.
func (f *fixture) unitWithTag(t *testing.T, productID uint, tag string, status models.UnitStatus) models.Unit {
	t.Helper()
	u := models.Unit{ProductID: productID, UniqueTag: tag, Status: status}
	require.NoError(t, repositories.NewUnitRepository(f.db).Create(context.Background(), &u))
	return u
}

func (f *fixture) record(name string) *[]interface{} {
	var mu sync.Mutex
	got := &[]interface{}{}
	f.bus.Listen(name, func(_ context.Context, payload interface{}) error {
		mu.Lock()
		defer mu.Unlock()
		*got = append(*got, payload)
		return nil
	})
	return got
}

var receiptIDPattern = regexp.MustCompile(`^RCP-[0-9A-F]{8}$`)

func TestConfirmSaleScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	confirmed := f.record(events.SaleConfirmed)

	p := f.product(t, "XPS 13", 100000)
	f.unitWithTag(t, p.ID, "AB12CD", models.UnitAvailable)

	receipt, err := f.sales.ConfirmSale(ctx, SaleInput{UnitTag: "ab12cd", CustomerName: "Jane"})
	require.NoError(t, err)
	assert.Regexp(t, receiptIDPattern, receipt.ReceiptID)
	assert.Equal(t, "AB12CD", receipt.UnitTag)
	assert.Equal(t, "XPS 13", receipt.ProductName)
	assert.Equal(t, int64(100000), receipt.Price)
	assert.Equal(t, "Jane", receipt.CustomerName)
	assert.Equal(t, models.OrderConfirmed, receipt.Status)
	require.Len(t, *confirmed, 1)

	unit, err := f.units.FindByTag(ctx, "AB12CD")
	require.NoError(t, err)
	assert.Equal(t, models.UnitTaken, unit.Status)

	_, err = f.sales.ConfirmSale(ctx, SaleInput{UnitTag: "AB12CD", CustomerName: "John"})
	assert.ErrorIs(t, err, ErrUnitSold)

	orders, err := f.sales.ListOrders(ctx, "")
	require.NoError(t, err)
	assert.Len(t, orders, 1, "a rejected sale leaves no receipt")
}

func TestConfirmSaleNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.sales.ConfirmSale(context.Background(), SaleInput{UnitTag: "ZZZZZZ", CustomerName: "Jane"})
	assert.ErrorIs(t, err, ErrUnitNotFound)
}

func TestConfirmSaleFromComingSoon(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "XPS 13", 100000)
	f.unitWithTag(t, p.ID, "CS0001", models.UnitComingSoon)

	_, err := f.sales.ConfirmSale(context.Background(), SaleInput{UnitTag: "CS0001", CustomerName: "Jane"})
	assert.NoError(t, err)
}

func TestConfirmSaleConcurrent(t *testing.T) {
	f := fixtureOn(testkit.PooledDB(t, models.All()...))
	p := f.product(t, "XPS 13", 100000)
	f.unitWithTag(t, p.ID, "RACE01", models.UnitAvailable)

	const callers = 16
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ok   int
		sold int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.sales.ConfirmSale(context.Background(), SaleInput{UnitTag: "race01", CustomerName: "Jane"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case assert.ErrorIs(t, err, ErrUnitSold):
				sold++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, callers-1, sold)

	orders, err := f.sales.ListOrders(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestConfirmSaleChecksTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "XPS 13", 100000)
	f.unitWithTag(t, p.ID, "ODD001", models.UnitAvailable)
	require.NoError(t, f.db.Exec("UPDATE units SET status = ? WHERE unique_tag = ?", "reserved", "ODD001").Error)

	_, err := f.sales.ConfirmSale(ctx, SaleInput{UnitTag: "ODD001", CustomerName: "Jane"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.NotErrorIs(t, err, ErrUnitSold)

	unit, err := f.units.FindByTag(ctx, "ODD001")
	require.NoError(t, err)
	assert.Equal(t, models.UnitStatus("reserved"), unit.Status)

	orders, err := f.sales.ListOrders(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestConfirmSaleOrphanedUnit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "XPS 13", 100000)
	f.unitWithTag(t, p.ID, "ORPH01", models.UnitAvailable)

	// Remove the product behind the unit's back, as a manual DB edit would.
	require.NoError(t, f.db.Exec("PRAGMA foreign_keys = OFF").Error)
	require.NoError(t, f.db.Exec("DELETE FROM products WHERE id = ?", p.ID).Error)

	_, err := f.sales.ConfirmSale(ctx, SaleInput{UnitTag: "ORPH01", CustomerName: "Jane"})
	assert.ErrorIs(t, err, ErrProductNotFound)

	unit, err := f.units.FindByTag(ctx, "ORPH01")
	require.NoError(t, err)
	assert.Equal(t, models.UnitAvailable, unit.Status)

	orders, err := f.sales.ListOrders(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestConfirmSaleRollsBackOnReceiptCollision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.sales.receiptID = func() string { return "RCP-0000000A" }

	p := f.product(t, "XPS 13", 100000)
	f.unitWithTag(t, p.ID, "UNIT01", models.UnitAvailable)
	f.unitWithTag(t, p.ID, "UNIT02", models.UnitAvailable)

	_, err := f.sales.ConfirmSale(ctx, SaleInput{UnitTag: "UNIT01", CustomerName: "Jane"})
	require.NoError(t, err)

	_, err = f.sales.ConfirmSale(ctx, SaleInput{UnitTag: "UNIT02", CustomerName: "John"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnitSold)

	unit, err := f.units.FindByTag(ctx, "UNIT02")
	require.NoError(t, err)
	assert.Equal(t, models.UnitAvailable, unit.Status, "unit update rolled back with the receipt")
}

func TestReceiptSnapshotSurvivesProductEdits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "XPS 13", 100000)
	f.unitWithTag(t, p.ID, "SNAP01", models.UnitAvailable)

	receipt, err := f.sales.ConfirmSale(ctx, SaleInput{UnitTag: "SNAP01", CustomerName: "Jane"})
	require.NoError(t, err)

	price := int64(1)
	_, err = f.catalog.Update(ctx, p.ID, ProductInput{Name: "Renamed", Brand: "Dell", Category: "Laptop", Description: "d", Price: &price})
	require.NoError(t, err)

	got, err := f.sales.GetReceipt(ctx, receipt.ReceiptID)
	require.NoError(t, err)
	assert.Equal(t, "XPS 13", got.ProductName)
	assert.Equal(t, int64(100000), got.Price)
}

func TestOrderStatusUpdates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	updated := f.record(events.OrderUpdated)
	p := f.product(t, "XPS 13", 100000)
	f.unitWithTag(t, p.ID, "ORD001", models.UnitAvailable)
	receipt, err := f.sales.ConfirmSale(ctx, SaleInput{UnitTag: "ORD001", CustomerName: "Jane"})
	require.NoError(t, err)

	for _, st := range []string{"completed", "pending", "confirmed"} {
		o, err := f.sales.UpdateStatus(ctx, receipt.ReceiptID, st)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatus(st), o.Status)
	}
	assert.Len(t, *updated, 3)

	_, err = f.sales.UpdateStatus(ctx, receipt.ReceiptID, "shipped")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = f.sales.UpdateStatus(ctx, "RCP-FFFFFFFF", "completed")
	assert.ErrorIs(t, err, ErrReceiptNotFound)
	_, err = f.sales.GetReceipt(ctx, "RCP-FFFFFFFF")
	assert.ErrorIs(t, err, ErrReceiptNotFound)
}

func TestCreateUnit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.record(events.UnitCreated)
	p := f.product(t, "XPS 13", 100000)

	u, err := f.units.Create(ctx, p.ID, "")
	require.NoError(t, err)
	assert.Regexp(t, `^[A-Z0-9]{6}$`, u.UniqueTag)
	assert.Equal(t, models.UnitAvailable, u.Status)
	require.NotNil(t, u.Product)
	assert.Equal(t, "XPS 13", u.Product.Name)
	assert.Len(t, *created, 1)

	u, err = f.units.Create(ctx, p.ID, "coming_soon")
	require.NoError(t, err)
	assert.Equal(t, models.UnitComingSoon, u.Status)

	_, err = f.units.Create(ctx, p.ID, "taken")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = f.units.Create(ctx, 9999, "")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCreatedTagsAreDistinct(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "XPS 13", 100000)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		u, err := f.units.Create(context.Background(), p.ID, "")
		require.NoError(t, err)
		assert.False(t, seen[u.UniqueTag])
		seen[u.UniqueTag] = true
	}
}

func TestSetStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "XPS 13", 100000)
	f.unitWithTag(t, p.ID, "STAT01", models.UnitAvailable)

	u, err := f.units.SetStatus(ctx, "stat01", "coming_soon")
	require.NoError(t, err)
	assert.Equal(t, models.UnitComingSoon, u.Status)

	u, err = f.units.SetStatus(ctx, "STAT01", "available")
	require.NoError(t, err)
	assert.Equal(t, models.UnitAvailable, u.Status)

	_, err = f.units.SetStatus(ctx, "STAT01", "taken")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = f.units.SetStatus(ctx, "STAT01", "sold")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = f.units.SetStatus(ctx, "NOPE00", "available")
	assert.ErrorIs(t, err, ErrUnitNotFound)

	_, err = f.sales.ConfirmSale(ctx, SaleInput{UnitTag: "STAT01", CustomerName: "Jane"})
	require.NoError(t, err)
	_, err = f.units.SetStatus(ctx, "STAT01", "available")
	assert.ErrorIs(t, err, ErrInvalidTransition, "taken is terminal")
}

func TestDeleteAndListUnits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "XPS 13", 100000)
	f.unitWithTag(t, p.ID, "LIST01", models.UnitAvailable)
	f.unitWithTag(t, p.ID, "LIST02", models.UnitComingSoon)

	all, err := f.units.ListAll(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "LIST02", all[0].UniqueTag, "newest first")

	soon, err := f.units.ListAll(ctx, "coming_soon")
	require.NoError(t, err)
	require.Len(t, soon, 1)
	_, err = f.units.ListAll(ctx, "reserved")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	require.NoError(t, f.units.Delete(ctx, "list01"))
	assert.ErrorIs(t, f.units.Delete(ctx, "LIST01"), ErrUnitNotFound)

	byProduct, err := f.units.ListByProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, byProduct, 1)
	assert.Equal(t, "LIST02", byProduct[0].UniqueTag)
}

func TestInventoryCountsScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "XPS 13", 100000)
	empty := f.product(t, "XPS 15", 150000)

	for _, tg := range []string{"CNT001", "CNT002", "CNT003", "CNT004", "CNT005"} {
		f.unitWithTag(t, p.ID, tg, models.UnitAvailable)
	}
	for _, tg := range []string{"CNT004", "CNT005"} {
		_, err := f.sales.ConfirmSale(ctx, SaleInput{UnitTag: tg, CustomerName: "Jane"})
		require.NoError(t, err)
	}

	list, err := f.inventory.ListProductsWithCounts(ctx, repositories.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)

	byID := map[uint]models.UnitCounts{}
	for _, row := range list {
		byID[row.ID] = row.UnitCounts
	}
	assert.Equal(t, models.UnitCounts{Total: 5, Available: 3, ComingSoon: 0, Taken: 2}, byID[p.ID])
	assert.Equal(t, models.UnitCounts{}, byID[empty.ID])

	detail, err := f.inventory.GetProductWithUnits(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Units, 5)

	_, err = f.inventory.GetProductWithUnits(ctx, 9999)
	assert.ErrorIs(t, err, ErrProductNotFound)

	f.unitWithTag(t, empty.ID, "CNT006", models.UnitComingSoon)
	totals, err := f.inventory.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.UnitCounts{Total: 6, Available: 3, ComingSoon: 1, Taken: 2}, totals)
}

func TestDeleteProductCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "XPS 13", 100000)
	f.unitWithTag(t, p.ID, "DEL001", models.UnitAvailable)
	f.unitWithTag(t, p.ID, "DEL002", models.UnitTaken)

	require.NoError(t, f.catalog.Delete(ctx, p.ID))

	_, err := f.units.FindByTag(ctx, "DEL001")
	assert.ErrorIs(t, err, ErrUnitNotFound)
	all, err := f.units.ListAll(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)

	assert.ErrorIs(t, f.catalog.Delete(ctx, p.ID), ErrProductNotFound)
}

func TestFeaturedIsCapped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	price := int64(1000)
	for i := 0; i < FeaturedLimit+2; i++ {
		_, err := f.catalog.Create(ctx, ProductInput{Name: "Bag", Brand: "B", Category: "Accessory", Description: "d", Price: &price, Featured: true})
		require.NoError(t, err)
	}
	_, err := f.catalog.Create(ctx, ProductInput{Name: "Plain", Brand: "B", Category: "Accessory", Description: "d", Price: &price})
	require.NoError(t, err)

	featured, err := f.catalog.Featured(ctx)
	require.NoError(t, err)
	assert.Len(t, featured, FeaturedLimit)
	for _, p := range featured {
		assert.True(t, p.Featured)
	}
}

func TestAuthService(t *testing.T) {
	db := testkit.DB(t, models.All()...)
	ctx := context.Background()
	svc := NewAuthService(db, auth.NewIssuer("test-secret", time.Hour))

	created, err := svc.EnsureDefaultAdmin(ctx, "Admin@Example.com", "secret1", "Admin")
	require.NoError(t, err)
	assert.True(t, created)
	created, err = svc.EnsureDefaultAdmin(ctx, "admin@example.com", "other", "Admin")
	require.NoError(t, err)
	assert.False(t, created)

	res, err := svc.Login(ctx, "admin@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "admin@example.com", res.Admin.Email)

	_, err = svc.Login(ctx, "admin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.ErrorIs(t, svc.ChangePassword(ctx, res.Admin.ID, "wrong", "newpass"), ErrInvalidCredentials)
	require.NoError(t, svc.ChangePassword(ctx, res.Admin.ID, "secret1", "newpass"))
	_, err = svc.Login(ctx, "admin@example.com", "newpass")
	assert.NoError(t, err)

	_, err = svc.CreateAdmin(ctx, "admin@example.com", "x", "Dup")
	assert.ErrorIs(t, err, ErrDuplicate)
	_, err = svc.Profile(ctx, 9999)
	assert.ErrorIs(t, err, ErrAdminNotFound)
}
