// Package handlers provides HTTP handlers for grouped holdings views.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/periphas/folio/internal/domain"
	"github.com/periphas/folio/internal/modules/holdings"
)

// ContractFetcher fetches a portfolio's raw holdings contract.
type ContractFetcher interface {
	GetHoldings(ctx context.Context, portfolioCode string) (*domain.HoldingContract, error)
}

// Handler handles holdings HTTP requests
type Handler struct {
	fetcher    ContractFetcher
	aggregator *holdings.Aggregator
	log        zerolog.Logger
}

// NewHandler creates a new holdings handler
func NewHandler(fetcher ContractFetcher, aggregator *holdings.Aggregator, log zerolog.Logger) *Handler {
	return &Handler{
		fetcher:    fetcher,
		aggregator: aggregator,
		log:        log.With().Str("handler", "holdings").Logger(),
	}
}

// HandleGetHoldings handles GET /api/portfolios/{code}/holdings
// Query params: groupBy (class|sector|market|currency), valueIn
// (trade|base|portfolio), hideEmpty (true|false).
func (h *Handler) HandleGetHoldings(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		h.writeError(w, http.StatusBadRequest, "portfolio code is required")
		return
	}

	dim := holdings.ParseDimension(r.URL.Query().Get("groupBy"))
	basis := domain.ParseBasis(r.URL.Query().Get("valueIn"))
	hideEmpty := r.URL.Query().Get("hideEmpty") == "true"

	contract, err := h.fetcher.GetHoldings(r.Context(), code)
	if err != nil {
		h.log.Error().Err(err).Str("portfolio", code).Msg("Failed to fetch holdings contract")
		h.writeError(w, http.StatusBadGateway, "Failed to fetch holdings")
		return
	}

	view := h.aggregator.Aggregate(*contract, hideEmpty, basis, dim)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": view,
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
