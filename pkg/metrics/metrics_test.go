package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/marketplace/pkg/metrics"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := metrics.New("test")

	r := chi.NewRouter()
	r.Use(m.Middleware())
	r.Get("/products/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})

	for _, id := range []string{"1", "2", "3"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/"+id, nil))
		require.Equal(t, http.StatusTeapot, rec.Code)
	}

	got := testutil.ToFloat64(m.RequestTotal.WithLabelValues(http.MethodGet, "/products/{id}", "418"))
	assert.Equal(t, 3.0, got)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RequestInFlight))
}

func TestDomainCounters(t *testing.T) {
	m := metrics.New("test")
	m.LoginAttempt(true)
	m.LoginAttempt(false)
	m.LoginAttempt(false)
	m.OrderEvent("placed")
	m.ObserveDBQuery("query", "products", time.Now())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoginAttempts.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LoginAttempts.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrderEvents.WithLabelValues("placed")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.DBQueryDuration))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics
	m.LoginAttempt(true)
	m.OrderEvent("placed")
	m.ObserveDBQuery("query", "users", time.Now())

	h := m.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := metrics.New("test")
	m.OrderEvent("placed")

	rec := httptest.NewRecorder()
	m.Handler()(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "test_orders_events_total"))
}
