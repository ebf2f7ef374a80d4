// Package handlers provides HTTP handlers for cross-portfolio performance.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/periphas/folio/internal/domain"
	"github.com/periphas/folio/internal/modules/performance"
)

// DefaultMonths is the trailing window used when the request omits one.
const DefaultMonths = 12

// PortfolioCatalogue resolves portfolio metadata for requested codes.
type PortfolioCatalogue interface {
	GetPortfolios(ctx context.Context) ([]domain.Portfolio, error)
}

// Handler handles performance HTTP requests
type Handler struct {
	catalogue    PortfolioCatalogue
	aggregator   *performance.Aggregator
	baseCurrency string
	log          zerolog.Logger
}

// NewHandler creates a new performance handler.
// baseCurrency is the display currency used when the request omits one.
func NewHandler(catalogue PortfolioCatalogue, aggregator *performance.Aggregator, baseCurrency string, log zerolog.Logger) *Handler {
	return &Handler{
		catalogue:    catalogue,
		aggregator:   aggregator,
		baseCurrency: baseCurrency,
		log:          log.With().Str("handler", "performance").Logger(),
	}
}

// HandleGetPerformance handles GET /api/performance
// Query params: codes (comma-separated portfolio codes), months (trailing
// window, default 12), currency (display currency, default base currency).
func (h *Handler) HandleGetPerformance(w http.ResponseWriter, r *http.Request) {
	codes := splitCodes(r.URL.Query().Get("codes"))
	if len(codes) == 0 {
		h.writeError(w, http.StatusBadRequest, "codes query parameter is required")
		return
	}

	months := DefaultMonths
	if raw := r.URL.Query().Get("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.writeError(w, http.StatusBadRequest, "months must be a positive integer")
			return
		}
		months = parsed
	}

	currency := r.URL.Query().Get("currency")
	if currency == "" {
		currency = h.baseCurrency
	}

	portfolios, err := h.resolvePortfolios(r.Context(), codes)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to resolve portfolios")
		h.writeError(w, http.StatusBadGateway, "Failed to resolve portfolios")
		return
	}

	points := h.aggregator.Aggregate(r.Context(), portfolios, months, currency)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"series":   points,
			"currency": currency,
			"months":   months,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// resolvePortfolios maps requested codes to catalogue entries.
// Unknown codes are logged and skipped rather than failing the request.
func (h *Handler) resolvePortfolios(ctx context.Context, codes []string) ([]domain.Portfolio, error) {
	catalogue, err := h.catalogue.GetPortfolios(ctx)
	if err != nil {
		return nil, err
	}

	byCode := make(map[string]domain.Portfolio, len(catalogue))
	for _, p := range catalogue {
		byCode[p.Code] = p
	}

	portfolios := make([]domain.Portfolio, 0, len(codes))
	for _, code := range codes {
		p, ok := byCode[code]
		if !ok {
			h.log.Warn().Str("portfolio", code).Msg("Unknown portfolio code, skipping")
			continue
		}
		portfolios = append(portfolios, p)
	}

	return portfolios, nil
}

func splitCodes(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	codes := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			codes = append(codes, trimmed)
		}
	}
	return codes
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
