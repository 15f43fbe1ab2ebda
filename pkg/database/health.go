package database

import (
	"context"
	"net/http"
	"time"

	"github.com/shashiranjanraj/marketplace/pkg/logger"
	"github.com/shashiranjanraj/marketplace/pkg/response"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler answers 200 when the database responds to a ping within
// timeout and 503 otherwise.
func HealthHandler(db Pinger, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			logger.WithCtx(r.Context()).Warn("health check failed", "error", err.Error())
			response.Write(w, http.StatusServiceUnavailable, response.Envelope{
				Status:  http.StatusServiceUnavailable,
				Message: "database unavailable",
				Data:    map[string]string{"database": "down"},
			})
			return
		}
		response.Success(w, map[string]string{"database": "up"})
	}
}
