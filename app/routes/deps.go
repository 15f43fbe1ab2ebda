package routes

import (
	"context"

	"github.com/shashiranjanraj/marketplace/app/repositories"
	"github.com/shashiranjanraj/marketplace/app/services"
	"github.com/shashiranjanraj/marketplace/pkg/app"
	"github.com/shashiranjanraj/marketplace/pkg/auth"
	"github.com/shashiranjanraj/marketplace/pkg/router"
)

// NewDeps wires the store, token issuer and services from the kernel.
func NewDeps(k *app.Kernel) Deps {
	store := repositories.NewStore(k.DB)
	tokens := newIssuer(k)
	return Deps{
		Tokens:   tokens,
		Policy:   k.Config.Policy(),
		Auth:     services.NewAuthService(store, tokens, k.Metrics),
		Products: services.NewProductService(store),
		Orders:   services.NewOrderService(store, k.Metrics),

		LoginRateLimit: k.Config.LoginRateLimit,
	}
}

func newIssuer(k *app.Kernel) *auth.Issuer {
	return auth.NewIssuer(k.Config.SecretKey, k.Config.AccessTTL(), k.Config.RefreshTTL())
}

// Mount is the app.RouteFunc for the marketplace API.
func Mount(r *router.Router, k *app.Kernel) {
	RegisterAPI(r, NewDeps(k))
}

// BootstrapSuperadmin is the app.BootFunc that creates the SUPERADMIN_HANDLE
// account on first start.
func BootstrapSuperadmin(ctx context.Context, k *app.Kernel) error {
	cfg := k.Config
	users := services.NewAuthService(repositories.NewStore(k.DB), newIssuer(k), k.Metrics)
	created, err := users.EnsureSuperadmin(ctx, cfg.SuperadminHandle, cfg.SuperadminEmail, cfg.SuperadminPassword)
	if err != nil {
		return err
	}
	if created {
		k.Log.Info("superadmin bootstrapped", "handle", cfg.SuperadminHandle)
	}
	return nil
}
