// Package handlers provides HTTP handlers for vault strategy generation.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/praxos/vaults/internal/modules/allocation"
	"github.com/praxos/vaults/internal/modules/recommendation"
	"github.com/praxos/vaults/internal/modules/risk"
	"github.com/rs/zerolog"
)

// Handler handles vault strategy HTTP requests
type Handler struct {
	service  *allocation.Service
	ranker   *recommendation.Ranker
	validate *validator.Validate
	log      zerolog.Logger
}

// NewHandler creates a new vault strategy handler
func NewHandler(service *allocation.Service, ranker *recommendation.Ranker, log zerolog.Logger) *Handler {
	return &Handler{
		service:  service,
		ranker:   ranker,
		validate: validator.New(),
		log:      log.With().Str("handler", "allocation").Logger(),
	}
}

type generateRequest struct {
	RWATokens     []risk.Token `json:"rwa_tokens" validate:"dive"`
	StrategyTypes []string     `json:"strategy_types"`
}

type recommendRequest struct {
	UserRiskTolerance     *int         `json:"user_risk_tolerance"`
	InvestmentHorizonDays *int         `json:"investment_horizon_days" validate:"omitempty,gte=0"`
	TargetYieldBps        *int         `json:"target_yield_bps" validate:"omitempty,gte=0"`
	AvailableRWATokens    []risk.Token `json:"available_rwa_tokens" validate:"dive"`
}

// HandleGenerate handles POST /api/vaults/generate
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.RWATokens) == 0 {
		h.writeError(w, http.StatusBadRequest, "rwa_tokens is required")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	strategies, err := h.service.GenerateFromTokens(r.Context(), req.RWATokens, req.StrategyTypes)
	if err != nil {
		h.writeServiceError(w, err, "Failed to generate vault strategies")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"strategies": nonNil(strategies),
	})
}

// HandleRecommend handles POST /api/vaults/recommend
func (h *Handler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.AvailableRWATokens) == 0 {
		h.writeError(w, http.StatusBadRequest, "available_rwa_tokens is required")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	prefs := recommendation.Preferences{
		RiskTolerance:  recommendation.ParseRiskTolerance(intOr(req.UserRiskTolerance, recommendation.DefaultRiskTolerance)),
		HorizonDays:    intOr(req.InvestmentHorizonDays, recommendation.DefaultHorizonDays),
		TargetYieldBps: intOr(req.TargetYieldBps, recommendation.DefaultTargetYieldBps),
	}

	strategies, err := h.service.GenerateFromTokens(r.Context(), req.AvailableRWATokens, nil)
	if err != nil {
		h.writeServiceError(w, err, "Failed to generate vault strategies")
		return
	}

	recs := h.ranker.Rank(prefs, strategies)
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"recommendations": recs,
	})
}

// HandleListStrategies handles GET /api/vaults/strategies
func (h *Handler) HandleListStrategies(w http.ResponseWriter, r *http.Request) {
	strategies := h.service.Strategies()
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"strategies": nonNil(strategies),
		"count":      len(strategies),
	})
}

// HandleGetStrategy handles GET /api/vaults/strategies/{id}
func (h *Handler) HandleGetStrategy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	strategy, err := h.service.Lookup(id)
	if err != nil {
		h.writeServiceError(w, err, "Failed to look up strategy")
		return
	}
	h.writeJSON(w, http.StatusOK, strategy)
}

// HandleGetDeployment handles GET /api/vaults/strategies/{id}/deployment
func (h *Handler) HandleGetDeployment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	q := r.URL.Query()

	baseAsset := strings.TrimSpace(q.Get("base_asset"))
	if baseAsset == "" {
		h.writeError(w, http.StatusBadRequest, "base_asset is required")
		return
	}

	cfg, err := h.service.DeploymentConfig(id, baseAsset, q.Get("name"), q.Get("symbol"))
	if err != nil {
		h.writeServiceError(w, err, "Failed to build deployment config")
		return
	}
	h.writeJSON(w, http.StatusOK, cfg)
}

// HandleExport handles GET /api/vaults/strategies/export
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="vault_strategies.json"`)
	if _, err := h.service.ExportJSON(w); err != nil {
		h.log.Error().Err(err).Msg("Failed to export strategies")
	}
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, allocation.ErrStrategyNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, allocation.ErrMalformedSignature):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Msg(fallback)
		h.writeError(w, http.StatusInternalServerError, fallback)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// validationMessage flattens validator errors into one line
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Namespace()+" failed "+fe.Tag())
	}
	return "invalid request: " + strings.Join(msgs, ", ")
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func nonNil(s []allocation.VaultStrategy) []allocation.VaultStrategy {
	if s == nil {
		return []allocation.VaultStrategy{}
	}
	return s
}
