package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers vault strategy routes under the /api router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/vaults/generate", h.HandleGenerate)
	r.Post("/vaults/recommend", h.HandleRecommend)

	r.Route("/vaults/strategies", func(r chi.Router) {
		r.Get("/", h.HandleListStrategies)
		r.Get("/export", h.HandleExport)
		r.Get("/{id}", h.HandleGetStrategy)
		r.Get("/{id}/deployment", h.HandleGetDeployment)
	})
}
