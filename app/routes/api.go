// Package routes binds the controllers to URLs.
package routes

import (
	"time"

	"github.com/beautydb/backoffice/app/controllers"
	"github.com/beautydb/backoffice/app/imagestore"
	"github.com/beautydb/backoffice/app/models"
	"github.com/beautydb/backoffice/app/services"
	"github.com/beautydb/backoffice/pkg/ctx"
	"github.com/beautydb/backoffice/pkg/database"
	"github.com/beautydb/backoffice/pkg/event"
	"github.com/beautydb/backoffice/pkg/middleware"
	"github.com/beautydb/backoffice/pkg/rbac"
	"github.com/beautydb/backoffice/pkg/router"
)

// Deps carries the shared infrastructure the API is built on.
type Deps struct {
	DB       database.Gateway
	Images   *imagestore.Store
	Events   *event.Bus
	CacheTTL time.Duration
}

// RegisterAPI mounts the public and admin API under /api.
func RegisterAPI(r *router.Router, d Deps) {
	users := services.NewUserService(d.DB)

	products := controllers.NewProductController(services.NewProductService(d.DB, d.Images, d.Events, d.CacheTTL), d.Images)
	treatments := controllers.NewServiceController(services.NewTreatmentService(d.DB, d.Images, d.Events), d.Images)
	courses := controllers.NewCourseController(services.NewCourseService(d.DB, d.Images, d.Events), d.Images)
	events := controllers.NewEventController(services.NewEventService(d.DB, d.Images, d.Events), d.Images)
	catalog := controllers.NewCatalogController(services.NewCatalogService(d.DB, d.Events))
	orders := controllers.NewOrderController(services.NewOrderService(d.DB, d.Events))
	accounts := controllers.NewUserController(users)
	authc := controllers.NewAuthController(users)

	api := r.Group("/api")

	api.Post("/register", "auth.register", ctx.Wrap(authc.Register))
	api.Post("/login", "auth.login", ctx.Wrap(authc.Login))

	api.Get("/products", "products.index", ctx.Wrap(products.Index))
	api.Get("/products/featured", "products.featured", ctx.Wrap(products.Featured))
	api.Get("/products/{id}", "products.show", ctx.Wrap(products.Show))
	api.Get("/categories", "categories.index", ctx.Wrap(catalog.Categories))
	api.Get("/brands", "brands.index", ctx.Wrap(catalog.Brands))
	api.Get("/properties", "properties.index", ctx.Wrap(catalog.Properties))
	api.Get("/services", "services.index", ctx.Wrap(treatments.Index))
	api.Get("/services/{id}", "services.show", ctx.Wrap(treatments.Show))
	api.Get("/services-categories", "service_categories.index", ctx.Wrap(catalog.ServiceCategories))
	api.Get("/courses", "courses.index", ctx.Wrap(courses.Index))
	api.Get("/events", "events.index", ctx.Wrap(events.Index))

	member := api.Group("", middleware.AuthMiddleware)
	member.Post("/orders", "orders.store", ctx.Wrap(orders.Store))

	admin := api.Group("/admin", middleware.AuthMiddleware, rbac.HasRole(models.RoleAdmin))

	admin.Get("/products", "admin.products.index", ctx.Wrap(products.Index))
	admin.Post("/products", "admin.products.store", ctx.Wrap(products.Store))
	admin.Put("/products/{id}", "admin.products.update", ctx.Wrap(products.Update))
	admin.Delete("/products/{id}", "admin.products.destroy", ctx.Wrap(products.Destroy))

	admin.Post("/services", "admin.services.store", ctx.Wrap(treatments.Store))
	admin.Put("/services/{id}", "admin.services.update", ctx.Wrap(treatments.Update))
	admin.Delete("/services/{id}", "admin.services.destroy", ctx.Wrap(treatments.Destroy))

	admin.Post("/courses", "admin.courses.store", ctx.Wrap(courses.Store))
	admin.Put("/courses/{id}", "admin.courses.update", ctx.Wrap(courses.Update))
	admin.Delete("/courses/{id}", "admin.courses.destroy", ctx.Wrap(courses.Destroy))

	admin.Get("/events", "admin.events.index", ctx.Wrap(events.Index))
	admin.Post("/events", "admin.events.store", ctx.Wrap(events.Store))
	admin.Put("/events/{id}", "admin.events.update", ctx.Wrap(events.Update))
	admin.Delete("/events/{id}", "admin.events.destroy", ctx.Wrap(events.Destroy))

	admin.Post("/categories", "admin.categories.store", ctx.Wrap(catalog.StoreCategory))
	admin.Put("/categories/{id}", "admin.categories.update", ctx.Wrap(catalog.UpdateCategory))
	admin.Delete("/categories/{id}", "admin.categories.destroy", ctx.Wrap(catalog.DestroyCategory))

	admin.Post("/services-categories", "admin.service_categories.store", ctx.Wrap(catalog.StoreServiceCategory))
	admin.Put("/services-categories/{id}", "admin.service_categories.update", ctx.Wrap(catalog.UpdateServiceCategory))
	admin.Delete("/services-categories/{id}", "admin.service_categories.destroy", ctx.Wrap(catalog.DestroyServiceCategory))

	admin.Post("/brands", "admin.brands.store", ctx.Wrap(catalog.StoreBrand))
	admin.Put("/brands/{id}", "admin.brands.update", ctx.Wrap(catalog.UpdateBrand))
	admin.Delete("/brands/{id}", "admin.brands.destroy", ctx.Wrap(catalog.DestroyBrand))

	admin.Post("/properties", "admin.properties.store", ctx.Wrap(catalog.StoreProperty))
	admin.Put("/properties/{id}", "admin.properties.update", ctx.Wrap(catalog.UpdateProperty))
	admin.Delete("/properties/{id}", "admin.properties.destroy", ctx.Wrap(catalog.DestroyProperty))

	admin.Get("/orders", "admin.orders.index", ctx.Wrap(orders.Index))
	admin.Put("/orders/{id}", "admin.orders.update", ctx.Wrap(orders.Update))
	admin.Delete("/orders/{id}", "admin.orders.destroy", ctx.Wrap(orders.Destroy))

	admin.Post("/users", "admin.users.store", ctx.Wrap(accounts.Store))
	admin.Get("/users/{id}", "admin.users.show", ctx.Wrap(accounts.Show))
	admin.Put("/users/{id}", "admin.users.update", ctx.Wrap(accounts.Update))
	admin.Delete("/users/{id}", "admin.users.destroy", ctx.Wrap(accounts.Destroy))
}
