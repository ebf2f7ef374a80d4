// Package handlers provides HTTP handlers for currency operations.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/periphas/folio/internal/domain"
)

// CurrencySource fetches the currency catalogue.
type CurrencySource interface {
	GetCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// Handler handles currency HTTP requests
type Handler struct {
	source CurrencySource
	log    zerolog.Logger
}

// NewHandler creates a new currency handler
func NewHandler(source CurrencySource, log zerolog.Logger) *Handler {
	return &Handler{
		source: source,
		log:    log.With().Str("handler", "currency").Logger(),
	}
}

// HandleGetCurrencies handles GET /api/currencies
func (h *Handler) HandleGetCurrencies(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.source.GetCurrencies(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to fetch currencies")
		h.writeError(w, http.StatusBadGateway, "Failed to fetch currencies")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"currencies": currencies,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
