// Package handlers provides HTTP handlers for risk analysis.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/praxos/vaults/internal/modules/risk"
	"github.com/rs/zerolog"
)

const defaultRiskTier = 3

// Handler handles risk analysis HTTP requests
type Handler struct {
	simulator risk.Simulator
	validate  *validator.Validate
	log       zerolog.Logger
}

// NewHandler creates a new risk analysis handler
func NewHandler(simulator risk.Simulator, log zerolog.Logger) *Handler {
	return &Handler{
		simulator: simulator,
		validate:  validator.New(),
		log:       log.With().Str("handler", "risk").Logger(),
	}
}

type analyzeRequest struct {
	AssetAddress      string `json:"asset_address" validate:"required"`
	AssetType         string `json:"asset_type" validate:"required"`
	AnnualYield       int64  `json:"annual_yield" validate:"gte=0"`
	MaturityTimestamp int64  `json:"maturity_timestamp" validate:"gte=0"`
	RiskTier          *int   `json:"risk_tier" validate:"omitempty,min=1,max=5"`
}

// RiskSignatureResponse is the public view of a simulated signature
type RiskSignatureResponse struct {
	AssetAddress       string             `json:"asset_address"`
	AssetType          string             `json:"asset_type"`
	RiskScore          float64            `json:"risk_score"`
	Volatility         float64            `json:"volatility"`
	LiquidityScore     float64            `json:"liquidity_score"`
	CreditScore        float64            `json:"credit_score"`
	CorrelationFactors map[string]float64 `json:"correlation_factors"`
}

// HandleAnalyze handles POST /api/risk/analyze
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tier := defaultRiskTier
	if req.RiskTier != nil {
		tier = *req.RiskTier
	}

	sig, err := h.simulator.Simulate(r.Context(), risk.Token{
		Address:           req.AssetAddress,
		AssetType:         req.AssetType,
		AnnualYieldBps:    req.AnnualYield,
		MaturityTimestamp: req.MaturityTimestamp,
		RiskTier:          tier,
	})
	if err != nil {
		if errors.Is(err, risk.ErrMalformedSignature) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Str("asset", req.AssetAddress).Msg("Failed to simulate risk")
		h.writeError(w, http.StatusInternalServerError, "Failed to analyze risk")
		return
	}

	factors := sig.CorrelationFactors
	if factors == nil {
		factors = map[string]float64{}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"risk_signature": RiskSignatureResponse{
			AssetAddress:       sig.AssetAddress,
			AssetType:          sig.AssetType,
			RiskScore:          sig.RiskScore,
			Volatility:         sig.Volatility,
			LiquidityScore:     sig.LiquidityScore,
			CreditScore:        sig.CreditScore,
			CorrelationFactors: factors,
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
	h.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
