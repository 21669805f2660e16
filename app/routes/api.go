package routes

import (
	"net/http"

	"github.com/shashiranjanraj/storefront/app/controllers"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/router"
	"gorm.io/gorm"
)

// Deps are the collaborators the API routes are built from. GraphQL and Feed
// are optional.
type Deps struct {
	DB        *gorm.DB
	Issuer    *auth.Issuer
	Auth      *services.AuthService
	Units     *services.UnitService
	Sales     *services.SaleService
	Inventory *services.InventoryService
	Catalog   *services.CatalogService
	GraphQL   http.HandlerFunc
	Feed      http.Handler
}

func RegisterAPI(r *router.Router, d Deps) {
	authController := controllers.NewAuthController(d.Auth)
	productController := controllers.NewProductController(d.Inventory, d.Catalog)
	unitController := controllers.NewUnitController(d.Units)
	orderController := controllers.NewOrderController(d.Sales)
	healthController := controllers.NewHealthController(d.DB)

	api := r.Group("/api")
	api.Get("/health", "health", ctx.Wrap(healthController.Health))
	api.Post("/auth/login", "auth.login", ctx.Wrap(authController.Login))

	// Public storefront reads.
	api.Get("/products", "products.index", ctx.Wrap(productController.Index))
	api.Get("/products/featured", "products.featured", ctx.Wrap(productController.Featured))
	api.Get("/products/{id}", "products.show", ctx.Wrap(productController.Show))
	api.Get("/units/tag/{tag}", "units.show", ctx.Wrap(unitController.ShowByTag))
	api.Get("/units/product/{productId}", "units.by_product", ctx.Wrap(unitController.ByProduct))
	api.Get("/orders/receipt/{id}", "orders.receipt", ctx.Wrap(orderController.Receipt))

	if d.GraphQL != nil {
		api.Get("/graphql", "graphql.query", d.GraphQL)
		api.Post("/graphql", "graphql", d.GraphQL)
	}
	if d.Feed != nil {
		r.Handle("/api/ws/inventory", "ws.inventory", d.Feed)
	}

	admin := api.Group("", middleware.Authenticate(d.Issuer), middleware.RequireRole(auth.RoleAdmin))
	admin.Get("/auth/profile", "auth.profile", ctx.Wrap(authController.Profile))
	admin.Post("/auth/change-password", "auth.change_password", ctx.Wrap(authController.ChangePassword))

	admin.Post("/products", "products.store", ctx.Wrap(productController.Store))
	admin.Put("/products/{id}", "products.update", ctx.Wrap(productController.Update))
	admin.Delete("/products/{id}", "products.destroy", ctx.Wrap(productController.Destroy))

	admin.Get("/units", "units.index", ctx.Wrap(unitController.Index))
	admin.Post("/units", "units.store", ctx.Wrap(unitController.Store))
	admin.Patch("/units/{tag}", "units.update", ctx.Wrap(unitController.UpdateStatus))
	admin.Delete("/units/{tag}", "units.destroy", ctx.Wrap(unitController.Destroy))

	admin.Get("/orders", "orders.index", ctx.Wrap(orderController.Index))
	admin.Post("/orders/confirm", "orders.confirm", ctx.Wrap(orderController.Confirm))
	admin.Patch("/orders/{id}", "orders.update", ctx.Wrap(orderController.UpdateStatus))
}
