package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/marketplace/pkg/router"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func header(name, value string) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add(name, value)
			next.ServeHTTP(w, r)
		})
	}
}

func TestGroupsAndMiddlewareOrder(t *testing.T) {
	r := router.New()
	api := r.Group("/products", header("X-Trace", "group"))
	api.Patch("/{id}", "products.patch", ok, header("X-Trace", "route"))
	api.Delete("/{id}", "products.destroy", ok)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/products/4", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"group", "route"}, rec.Header().Values("X-Trace"))

	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/products/4", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestNamedRoutes(t *testing.T) {
	r := router.New()
	r.Get("/healthz", "health", ok)
	orders := r.Group("orders")
	orders.Get("", "orders.index", ok)
	orders.Put("/{id}", "orders.update", ok)

	path, found := r.Path("orders.update")
	require.True(t, found)
	assert.Equal(t, "/orders/{id}", path)

	url, err := r.URL("orders.update", map[string]string{"id": "12"})
	require.NoError(t, err)
	assert.Equal(t, "/orders/12", url)

	_, err = r.URL("orders.update", nil)
	assert.Error(t, err)
	_, err = r.URL("nope", nil)
	assert.Error(t, err)

	assert.Equal(t, []router.RouteInfo{
		{Method: http.MethodGet, Path: "/healthz", Name: "health"},
		{Method: http.MethodGet, Path: "/orders", Name: "orders.index"},
		{Method: http.MethodPut, Path: "/orders/{id}", Name: "orders.update"},
	}, r.Routes())
}
