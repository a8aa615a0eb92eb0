// Copyright (c) 2026 Lurnex. All rights reserved.

package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/lurnex/site/internal/platform/request"
	"github.com/lurnex/site/internal/platform/respond"
)

// Handler implements the public comment endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new comment [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] meant to be mounted at /comments.
//
// # Endpoints
//   - POST /           : Submits a comment for moderation.
//   - GET  /?postId=ID : Lists the approved comments on a post.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.submit)
	router.Get("/", handler.list)

	return router
}

// submit handles POST /api/v1/comments.
//
// # Returns
//   - Writes HTTP 201 Created with the stored, unapproved comment.
//   - Writes HTTP 400 Bad Request for missing or invalid fields.
//   - Writes HTTP 500 if the comment could not be stored.
func (handler *Handler) submit(writer http.ResponseWriter, request *http.Request) {
	var input SubmitInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	submission, err := handler.service.Submit(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, submission)
}

// list handles GET /api/v1/comments?postId=ID.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	comments, err := handler.service.ListApproved(request.Context(), requestutil.Query(request, "postId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comments)
}
