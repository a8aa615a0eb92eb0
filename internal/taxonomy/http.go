// Copyright (c) 2026 Lurnex. All rights reserved.

package taxonomy

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lurnex/site/internal/platform/respond"
)

// Handler exposes the administrative taxonomy actions.
type Handler struct {
	service *Service
}

// NewHandler constructs a new taxonomy [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] meant to be mounted under /admin.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/generate-slugs", handler.generateSlugs)
	return router
}

/*
POST /api/v1/admin/generate-slugs.

Responds 200 with the run summary, or 500 with the same summary when a
kind could not be listed.
*/
func (handler *Handler) generateSlugs(writer http.ResponseWriter, request *http.Request) {
	result := handler.service.BackfillSlugs(request.Context())

	status := http.StatusOK
	if !result.Success {
		status = http.StatusInternalServerError
	}
	respond.JSON(writer, status, respond.SuccessEnvelope{Data: result})
}
