package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vaughan-dsouza/medium-blog/internal/utils"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	DB Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{DB: db}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.DB.PingContext(ctx); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("database ping failed")
		utils.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
