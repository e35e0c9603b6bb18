package server

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/aristath/fiiwatch/internal/modules/pipeline"
)

// PipelineService is the orchestrator surface the server needs.
type PipelineService interface {
	Run(ctx context.Context, riskPremium float64) (*pipeline.Result, error)
	Refresh(ctx context.Context) (*pipeline.Result, error)
	Latest() *pipeline.Result
	SetRiskPremium(v float64)
}

// ValuationHandlers handles valuation HTTP endpoints
type ValuationHandlers struct {
	pipeline PipelineService
	log      zerolog.Logger
}

// NewValuationHandlers creates new valuation handlers
func NewValuationHandlers(pipeline PipelineService, log zerolog.Logger) *ValuationHandlers {
	return &ValuationHandlers{
		pipeline: pipeline,
		log:      log.With().Str("handler", "valuation").Logger(),
	}
}

// HandleGetFunds handles GET /api/funds?riskPremium=0.03. It runs the
// pipeline synchronously and returns the fresh result. An absent or
// unparseable riskPremium falls back to the documented default inside the
// pipeline.
func (h *ValuationHandlers) HandleGetFunds(w http.ResponseWriter, r *http.Request) {
	riskPremium := math.NaN()
	if raw := r.URL.Query().Get("riskPremium"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			riskPremium = parsed
		}
	}

	result, err := h.pipeline.Run(r.Context(), riskPremium)
	if err != nil {
		h.log.Error().Err(err).Msg("Pipeline run failed")
		writeError(w, http.StatusBadGateway, "primary feed unavailable")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleRefresh handles POST /api/refresh, the manual trigger that bypasses
// the debounce.
func (h *ValuationHandlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	h.log.Info().Msg("Manual refresh triggered via API")

	result, err := h.pipeline.Refresh(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Manual refresh failed")
		writeError(w, http.StatusBadGateway, "primary feed unavailable")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{"error": message})
}
