// Copyright (c) 2026 Lurnex. All rights reserved.

package blog

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lurnex/site/internal/platform/apperr"
	"github.com/lurnex/site/internal/platform/constants"
	requestutil "github.com/lurnex/site/internal/platform/request"
	"github.com/lurnex/site/internal/platform/respond"
	"github.com/lurnex/site/pkg/pagination"
)

// # Handler Implementation

// Handler exposes the query catalog and the search composer over HTTP.
// Every route is a public read.
type Handler struct {
	service *Service
}

// NewHandler constructs a new blog [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// pluralKinds maps collection path segments to taxonomy types.
var pluralKinds = map[string]string{
	"sectors":    constants.TypeSector,
	"characters": constants.TypeCharacter,
	"topics":     constants.TypeTopic,
}

// Routes returns a [chi.Router] with the catalog endpoints, meant to be
// mounted at the API root.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/posts", handler.listPosts)
	router.Get("/posts/{slug}", handler.getPost)

	router.Get("/authors", handler.listAuthors)
	router.Get("/authors/{slug}", handler.getAuthor)

	router.Get("/categories", handler.listCategories)
	router.Get("/categories/top", handler.topCategories)
	router.Get("/categories/{slug}", handler.getCategory)

	router.Get("/search", handler.search)
	router.Get("/paths/{kind}", handler.paths)

	// Sectors, characters and topics share one shape.
	for plural, kind := range pluralKinds {
		router.Get("/"+plural, handler.listTaxonomy(kind))
		router.Get("/"+plural+"/{slug}", handler.getTaxonomy(kind))
	}

	return router
}

/*
GET /api/v1/posts.

Without a page parameter every post is returned; with one the list is paged.
*/
func (handler *Handler) listPosts(writer http.ResponseWriter, request *http.Request) {
	values := request.URL.Query()
	if !values.Has("page") {
		posts, err := handler.service.ListPosts(request.Context())
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, posts)
		return
	}

	posts, meta, err := handler.service.ListPostsPage(request.Context(), pagination.FromValues(values))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, posts, meta)
}

// GET /api/v1/posts/{slug}
func (handler *Handler) getPost(writer http.ResponseWriter, request *http.Request) {
	post, err := handler.service.GetPost(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, post)
}

// GET /api/v1/authors
func (handler *Handler) listAuthors(writer http.ResponseWriter, request *http.Request) {
	authors, err := handler.service.ListAuthors(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, authors)
}

// GET /api/v1/authors/{slug}
func (handler *Handler) getAuthor(writer http.ResponseWriter, request *http.Request) {
	page, err := handler.service.AuthorWithPosts(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, page)
}

// GET /api/v1/categories
func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.service.ListCategories(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

// GET /api/v1/categories/top?limit=5
func (handler *Handler) topCategories(writer http.ResponseWriter, request *http.Request) {
	limit := DefaultTopCategories
	if raw := requestutil.Query(request, "limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > pagination.MaxLimit {
			respond.Error(writer, request, apperr.ValidationError("Invalid limit",
				apperr.FieldError{Field: "limit", Message: "Must be a positive integer"}))
			return
		}
		limit = parsed
	}

	categories, err := handler.service.TopCategories(request.Context(), limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

// GET /api/v1/categories/{slug}
func (handler *Handler) getCategory(writer http.ResponseWriter, request *http.Request) {
	page, err := handler.service.CategoryWithPosts(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, page)
}

// GET /api/v1/{sectors|characters|topics}
func (handler *Handler) listTaxonomy(kind string) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		entries, err := handler.service.ListTaxonomy(request.Context(), kind)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, entries)
	}
}

// GET /api/v1/{sectors|characters|topics}/{slug}
func (handler *Handler) getTaxonomy(kind string) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		page, err := handler.service.TaxonomyWithPosts(request.Context(), kind, requestutil.Param(request, "slug"))
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, page)
	}
}

/*
GET /api/v1/search.

Query parameters: author, category, sector, character, topic, title,
publishedFrom, publishedTo, q. All optional, order-independent.
*/
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.Search(request.Context(), FacetsFromValues(request.URL.Query()))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

// GET /api/v1/paths/{kind}
func (handler *Handler) paths(writer http.ResponseWriter, request *http.Request) {
	slugs, err := handler.service.Paths(request.Context(), requestutil.Param(request, "kind"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, slugs)
}
