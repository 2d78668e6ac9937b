// Package kernel assembles the HTTP handler: global middleware stack,
// observability endpoints, and the application routes.
package kernel

import (
	"net/http"

	"github.com/shashiranjanraj/bazaar/app/routes"
	"github.com/shashiranjanraj/bazaar/internal/store"
	"github.com/shashiranjanraj/bazaar/pkg/metrics"
	"github.com/shashiranjanraj/bazaar/pkg/middleware"
	"github.com/shashiranjanraj/bazaar/pkg/reqid"
	"github.com/shashiranjanraj/bazaar/pkg/router"
)

// NewHTTPKernel builds the full handler around the storage selector.
func NewHTTPKernel(sel *store.Selector) http.Handler {
	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics — outermost for accurate total latency
	//  2. Request ID        — inject unique ID before anything logs
	//  3. Logger            — logs request_id from context
	//  4. Recovery          — inside Logger so panic logs carry request_id
	//  5. CORS              — set CORS headers
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS)

	// Prometheus /metrics endpoint — no auth.
	r.Get("/metrics", "metrics", metrics.Handler())

	routes.RegisterAPI(r, sel)

	return r.Handler()
}
