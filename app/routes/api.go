package routes

import (
	"time"

	"github.com/shashiranjanraj/marketplace/app/controllers"
	"github.com/shashiranjanraj/marketplace/app/services"
	"github.com/shashiranjanraj/marketplace/config"
	"github.com/shashiranjanraj/marketplace/pkg/auth"
	"github.com/shashiranjanraj/marketplace/pkg/ctx"
	"github.com/shashiranjanraj/marketplace/pkg/middleware"
	"github.com/shashiranjanraj/marketplace/pkg/rbac"
	"github.com/shashiranjanraj/marketplace/pkg/router"
)

// Deps is everything the API routes need. Build it once at startup.
type Deps struct {
	Tokens   *auth.Issuer
	Policy   config.SecurityPolicy
	Auth     *services.AuthService
	Products *services.ProductService
	Orders   *services.OrderService

	// LoginRateLimit caps credential requests per client per minute; 0 is unlimited.
	LoginRateLimit int
}

func RegisterAPI(r *router.Router, d Deps) {
	authController := controllers.NewAuthController(d.Auth, d.Policy)
	productController := controllers.NewProductController(d.Products)
	orderController := controllers.NewOrderController(d.Orders)

	authenticated := middleware.Auth(d.Tokens, d.Policy, d.Auth)

	var throttle []router.Middleware
	if d.LoginRateLimit > 0 {
		throttle = append(throttle, middleware.NewRateLimiter(d.LoginRateLimit, time.Minute).Middleware)
	}

	// ── Auth ────────────────────────────────────────────────────────────
	a := r.Group("/auth")
	a.Post("/register", "auth.register", ctx.Wrap(authController.Register), throttle...)
	a.Post("/login", "auth.login", ctx.Wrap(authController.Login), throttle...)
	a.Post("/logout", "auth.logout", ctx.Wrap(authController.Logout))
	a.Post("/refresh", "auth.refresh", ctx.Wrap(authController.Refresh), throttle...)
	a.Get("/me", "auth.me", ctx.Wrap(authController.Me), authenticated)

	admin := a.Group("/admin", authenticated)
	admin.Get("/users", "auth.admin.users", ctx.Wrap(authController.Users),
		rbac.HasRole(auth.RoleAdmin, auth.RoleSuperadmin))
	admin.Post("/assign-role", "auth.admin.assign_role", ctx.Wrap(authController.AssignRole),
		rbac.HasRole(auth.RoleSuperadmin))

	// ── Products ────────────────────────────────────────────────────────
	p := r.Group("/products")
	p.Get("/", "products.index", ctx.Wrap(productController.Index))
	p.Get("/{id}", "products.show", ctx.Wrap(productController.Show))

	owner := p.Group("", authenticated)
	owner.Post("/", "products.store", ctx.Wrap(productController.Store))
	owner.Put("/{id}", "products.update", ctx.Wrap(productController.Update))
	owner.Patch("/{id}", "products.patch", ctx.Wrap(productController.Update))
	owner.Delete("/{id}", "products.destroy", ctx.Wrap(productController.Destroy))

	// ── Orders ──────────────────────────────────────────────────────────
	o := r.Group("/orders", authenticated)
	o.Get("/", "orders.index", ctx.Wrap(orderController.Index))
	o.Post("/", "orders.store", ctx.Wrap(orderController.Store))
	o.Get("/{id}", "orders.show", ctx.Wrap(orderController.Show))
	o.Patch("/{id}/status", "orders.status", ctx.Wrap(orderController.UpdateStatus))
	o.Delete("/{id}", "orders.destroy", ctx.Wrap(orderController.Destroy))
}
