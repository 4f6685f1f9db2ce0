package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers vault metadata routes under the /api router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/vaults/metadata/batch", h.HandleBatch)
	r.Get("/vaults/{address}/metadata", h.HandleGet)
	r.Post("/vaults/{address}/metadata", h.HandleSet)
}
