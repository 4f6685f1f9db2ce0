// Package handlers provides HTTP handlers for vault metadata.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/praxos/vaults/internal/events"
	"github.com/praxos/vaults/internal/modules/metadata"
	"github.com/rs/zerolog"
)

// Handler handles vault metadata HTTP requests
type Handler struct {
	store        metadata.Store
	eventManager *events.Manager
	validate     *validator.Validate
	log          zerolog.Logger
}

// NewHandler creates a new metadata handler
func NewHandler(store metadata.Store, eventManager *events.Manager, log zerolog.Logger) *Handler {
	return &Handler{
		store:        store,
		eventManager: eventManager,
		validate:     validator.New(),
		log:          log.With().Str("handler", "metadata").Logger(),
	}
}

type setMetadataRequest struct {
	Description string               `json:"description"`
	APR         float64              `json:"apr" validate:"gte=0"`
	IsNew       bool                 `json:"isNew"`
	Assets      []metadata.AssetInfo `json:"assets"`
}

type batchRequest struct {
	VaultAddresses []string `json:"vaultAddresses" validate:"max=500,dive,required"`
}

// HandleGet handles GET /api/vaults/{address}/metadata
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")

	meta, err := h.store.Get(r.Context(), address)
	if errors.Is(err, metadata.ErrNotFound) {
		h.writeError(w, http.StatusNotFound, "Vault metadata not found")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("vault", address).Msg("Failed to load vault metadata")
		h.writeError(w, http.StatusInternalServerError, "Failed to load vault metadata")
		return
	}

	h.writeJSON(w, http.StatusOK, meta)
}

// HandleSet handles POST /api/vaults/{address}/metadata
func (h *Handler) HandleSet(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")

	var req setMetadataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	assets := req.Assets
	if assets == nil {
		assets = []metadata.AssetInfo{}
	}
	meta := metadata.VaultMetadata{
		VaultAddress: address,
		Description:  req.Description,
		APR:          req.APR,
		IsNew:        req.IsNew,
		Assets:       assets,
	}
	if err := h.store.Set(r.Context(), meta); err != nil {
		h.log.Error().Err(err).Str("vault", address).Msg("Failed to store vault metadata")
		h.writeError(w, http.StatusInternalServerError, "Failed to store vault metadata")
		return
	}

	h.eventManager.EmitTyped("metadata", &events.MetadataUpdatedData{
		VaultAddress: address,
		AssetCount:   len(assets),
	})

	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":       "success",
		"vaultAddress": address,
	})
}

// HandleBatch handles POST /api/vaults/metadata/batch
func (h *Handler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.store.Batch(r.Context(), req.VaultAddresses)
	if err != nil {
		h.log.Error().Err(err).Int("count", len(req.VaultAddresses)).Msg("Failed to load vault metadata batch")
		h.writeError(w, http.StatusInternalServerError, "Failed to load vault metadata")
		return
	}

	h.writeJSON(w, http.StatusOK, result)
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
