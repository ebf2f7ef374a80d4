// Package handlers provides HTTP handlers for portfolio allocation charts.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/periphas/folio/internal/domain"
	"github.com/periphas/folio/internal/modules/allocation"
	"github.com/periphas/folio/internal/modules/holdings"
)

// ContractFetcher fetches a portfolio's raw holdings contract.
type ContractFetcher interface {
	GetHoldings(ctx context.Context, portfolioCode string) (*domain.HoldingContract, error)
}

// Handler handles allocation HTTP requests
type Handler struct {
	fetcher ContractFetcher
	builder *allocation.Builder
	log     zerolog.Logger
}

// NewHandler creates a new allocation handler
func NewHandler(fetcher ContractFetcher, builder *allocation.Builder, log zerolog.Logger) *Handler {
	return &Handler{
		fetcher: fetcher,
		builder: builder,
		log:     log.With().Str("handler", "allocation").Logger(),
	}
}

// HandleGetAllocations handles GET /api/portfolios/{code}/allocations
// Query params: groupBy (class|sector|market|currency), valueIn
// (trade|base|portfolio).
func (h *Handler) HandleGetAllocations(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		h.writeError(w, http.StatusBadRequest, "portfolio code is required")
		return
	}

	dim := holdings.ParseDimension(r.URL.Query().Get("groupBy"))
	basis := domain.ParseBasis(r.URL.Query().Get("valueIn"))

	contract, err := h.fetcher.GetHoldings(r.Context(), code)
	if err != nil {
		h.log.Error().Err(err).Str("portfolio", code).Msg("Failed to fetch holdings contract")
		h.writeError(w, http.StatusBadGateway, "Failed to fetch holdings")
		return
	}

	slices := h.builder.BuildSlices(*contract, dim, basis)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"slices": slices,
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
