package app

// pkg/app/kernel.go builds the http.Handler from the Application config.
// No project-specific code is imported here; routes arrive through the
// RouteFunc callbacks.

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/marketplace/pkg/bind"
	"github.com/shashiranjanraj/marketplace/pkg/database"
	"github.com/shashiranjanraj/marketplace/pkg/middleware"
	"github.com/shashiranjanraj/marketplace/pkg/reqid"
	"github.com/shashiranjanraj/marketplace/pkg/response"
	"github.com/shashiranjanraj/marketplace/pkg/router"
)

// Router builds the router with the global middleware stack, the
// operational endpoints and every registered route.
func (a *Application) Router(k *Kernel) *router.Router {
	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics for total latency
	//  2. Recovery, before anything can panic
	//  3. Request ID, before anything logs
	//  4. Logger, tagged with the request ID
	//  5. Body limit for every JSON decode
	//  6. CORS
	r.Use(k.Metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger(k.Log))
	r.Use(bind.Limit(k.Config.MaxBodyBytes))
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(k.Config.AllowedOrigins())))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { response.NotFound(w) })
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	if k.Metrics != nil {
		r.Get("/metrics", "metrics", k.Metrics.Handler())
	}
	if k.DB != nil {
		if sqlDB, err := k.DB.DB(); err == nil {
			r.Get("/healthz", "health", database.HealthHandler(sqlDB, 2*time.Second))
		}
	}

	for _, fn := range a.routesFns {
		fn(r, k)
	}
	return r
}

// Handler is Router(k).Handler().
func (a *Application) Handler(k *Kernel) http.Handler {
	return a.Router(k).Handler()
}
