package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/akinalp/healthy/pkg"
)

// Pinger, health check'in DB bağlantısını yoklamak için kullandığı interface.
// *sql.DB bunu karşılar.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler, GET /api/health.
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler, constructor.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		log.Printf("[health] database ping failed: %v", err)
		pkg.ErrorWithMessage(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
