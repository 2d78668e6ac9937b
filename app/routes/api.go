package routes

import (
	"github.com/shashiranjanraj/bazaar/app/controllers"
	"github.com/shashiranjanraj/bazaar/config"
	"github.com/shashiranjanraj/bazaar/internal/store"
	"github.com/shashiranjanraj/bazaar/pkg/middleware"
	"github.com/shashiranjanraj/bazaar/pkg/router"
)

func RegisterAPI(r *router.Router, sel *store.Selector) {
	site := controllers.NewSiteController()
	orders := controllers.NewOrderController(sel)
	products := controllers.NewProductController(sel)

	r.Get("/", "home", site.Home)
	r.Get("/healthz", "healthz", site.Health)

	api := r.Group("/api")
	api.Post("/create-order", "orders.create", orders.Create)
	api.Get("/products", "products.list", products.List)

	admin := api.Group("/admin", middleware.AdminOnly(config.AdminSecret()))
	admin.Post("/products", "admin.products.create", products.Create)
	admin.Delete("/products", "admin.products.clear", products.DeleteAll)
	admin.Delete("/products/{id}", "admin.products.delete", products.DeleteOne)

	// Everything unmatched, including known paths hit with the wrong verb,
	// answers the fixed 404 body.
	r.NotFound(site.NotFound)
	r.MethodNotAllowed(site.NotFound)
}
