// Copyright (c) 2026 Lurnex. All rights reserved.

package blog

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/lurnex/site/internal/content"
	"github.com/lurnex/site/internal/platform/apperr"
	"github.com/lurnex/site/internal/platform/constants"
	"github.com/lurnex/site/pkg/pagination"
	"github.com/lurnex/site/pkg/pointer"
	"github.com/lurnex/site/pkg/slice"
)

const (
	// relatedLimit caps the teasers shown under a post.
	relatedLimit = 5
	// DefaultTopCategories is how many categories TopCategories returns by default.
	DefaultTopCategories = 5
)

// newestFirst is the catalog-wide post ordering.
var newestFirst = []content.Order{
	{Field: content.FieldPublishedAt, Desc: true},
	{Field: content.FieldCreatedAt, Desc: true},
}

// # Service Layer

// Service is the query catalog. It owns no state beyond its injected repository.
type Service struct {
	repo         content.Repository
	assetBaseURL string
	logger       *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo content.Repository, assetBaseURL string, logger *slog.Logger) *Service {
	return &Service{
		repo:         repo,
		assetBaseURL: assetBaseURL,
		logger:       logger,
	}
}

// # Post Lookups

// ListPosts returns every post, newest first.
func (service *Service) ListPosts(context context.Context) ([]Post, error) {
	return service.fetchPosts(context, content.Query{Type: constants.TypePost, Order: newestFirst})
}

/*
ListPostsPage returns one page of posts and the pagination metadata.

Parameters:
  - context: context.Context
  - params: pagination.Params (1-indexed page, limit)

Returns:
  - []Post: The posts on the requested page
  - pagination.Meta: Totals for the whole listing
  - error: apperr.Upstream on store failure
*/
func (service *Service) ListPostsPage(context context.Context, params pagination.Params) ([]Post, pagination.Meta, error) {
	query := content.Query{
		Type:   constants.TypePost,
		Order:  newestFirst,
		Offset: params.Offset(),
		Limit:  params.Limit,
	}

	var (
		posts []Post
		total int
	)

	group, groupCtx := errgroup.WithContext(context)
	group.Go(func() (err error) {
		posts, err = service.fetchPosts(groupCtx, query)
		return err
	})
	group.Go(func() (err error) {
		total, err = service.repo.Count(groupCtx, query)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, pagination.Meta{}, upstream(err)
	}

	return posts, pagination.NewMeta(params, total), nil
}

/*
GetPost fetches a single post by slug with its body, reading time and related posts.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - *Post: The fully resolved post
  - error: apperr.NotFound if no post has the slug, apperr.Upstream on store failure
*/
func (service *Service) GetPost(context context.Context, slug string) (*Post, error) {
	documents, err := service.repo.Fetch(context, content.Query{
		Type:    constants.TypePost,
		Clauses: []content.Clause{content.Eq("slug", slug)},
		Limit:   1,
	})
	if err != nil {
		return nil, upstream(err)
	}
	if len(documents) == 0 {
		return nil, apperr.NotFound("Post")
	}

	posts, err := newResolver(service.repo, service.assetBaseURL).posts(context, documents, true)
	if err != nil {
		return nil, upstream(err)
	}
	post := posts[0]

	related, err := service.related(context, documents[0])
	if err != nil {
		return nil, err
	}
	post.Related = related

	return &post, nil
}

// related returns up to relatedLimit posts sharing a category with document, excluding itself.
func (service *Service) related(context context.Context, document content.Document) ([]RelatedPost, error) {
	categoryIDs := document.Refs("categories")
	if len(categoryIDs) == 0 {
		return []RelatedPost{}, nil
	}

	shared := make([]content.Clause, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		shared = append(shared, content.Contains("categories", id))
	}

	documents, err := service.repo.Fetch(context, content.Query{
		Type:    constants.TypePost,
		Clauses: []content.Clause{content.Or(shared...)},
		Order:   newestFirst,
		Limit:   relatedLimit + 1,
	})
	if err != nil {
		return nil, upstream(err)
	}

	resolver := newResolver(service.repo, service.assetBaseURL)
	related := make([]RelatedPost, 0, relatedLimit)
	for _, candidate := range documents {
		if candidate.ID == document.ID || len(related) == relatedLimit {
			continue
		}

		var record postRecord
		if err := candidate.Decode(&record); err != nil {
			return nil, upstream(err)
		}
		related = append(related, RelatedPost{
			Title: record.Title,
			Slug:  record.Slug,
			Date:  content.EffectivePublishedAt(candidate),
			Image: resolver.image(record.MainImage),
		})
	}
	return related, nil
}

// # Entity Pages

// AuthorWithPosts returns an author and the posts they wrote.
func (service *Service) AuthorWithPosts(context context.Context, slug string) (*AuthorPage, error) {
	document, err := service.bySlug(context, constants.TypeAuthor, slug, "Author")
	if err != nil {
		return nil, err
	}

	resolver := newResolver(service.repo, service.assetBaseURL)
	author, err := resolver.author(document)
	if err != nil {
		return nil, upstream(err)
	}

	posts, err := service.fetchPosts(context, content.Query{
		Type:    constants.TypePost,
		Clauses: []content.Clause{content.Deref("author", content.Eq("slug", slug))},
		Order:   newestFirst,
	})
	if err != nil {
		return nil, err
	}

	return &AuthorPage{Author: author, Posts: posts}, nil
}

// CategoryWithPosts returns a category and the posts filed under it.
func (service *Service) CategoryWithPosts(context context.Context, slug string) (*CategoryPage, error) {
	document, err := service.bySlug(context, constants.TypeCategory, slug, "Category")
	if err != nil {
		return nil, err
	}

	resolver := newResolver(service.repo, service.assetBaseURL)
	category, err := resolver.category(document)
	if err != nil {
		return nil, upstream(err)
	}

	posts, err := service.fetchPosts(context, content.Query{
		Type:    constants.TypePost,
		Clauses: []content.Clause{content.Contains("categories", document.ID)},
		Order:   newestFirst,
	})
	if err != nil {
		return nil, err
	}

	return &CategoryPage{Category: category, Posts: posts}, nil
}

/*
TaxonomyWithPosts returns a sector, character or topic and the posts tagged with it.

Parameters:
  - context: context.Context
  - kind: string (sector, character or topic)
  - slug: string

Returns:
  - *TaxonomyPage: The entity and its posts
  - error: apperr.NotFound for an unknown kind or slug
*/
func (service *Service) TaxonomyWithPosts(context context.Context, kind, slug string) (*TaxonomyPage, error) {
	if !IsTaxonomy(kind) {
		return nil, apperr.NotFound("Taxonomy")
	}

	document, err := service.bySlug(context, kind, slug, kindLabel(kind))
	if err != nil {
		return nil, err
	}

	resolver := newResolver(service.repo, service.assetBaseURL)
	taxonomy, err := resolver.taxonomy(document)
	if err != nil {
		return nil, upstream(err)
	}

	posts, err := service.fetchPosts(context, content.Query{
		Type:    constants.TypePost,
		Clauses: []content.Clause{content.Eq(kind, document.ID)},
		Order:   newestFirst,
	})
	if err != nil {
		return nil, err
	}

	return &TaxonomyPage{Taxonomy: taxonomy, Posts: posts}, nil
}

// # Entity Listings

// ListAuthors returns every author, ordered by name.
func (service *Service) ListAuthors(context context.Context) ([]Author, error) {
	documents, err := service.repo.Fetch(context, content.Query{
		Type:  constants.TypeAuthor,
		Order: []content.Order{{Field: "name"}},
	})
	if err != nil {
		return nil, upstream(err)
	}

	resolver := newResolver(service.repo, service.assetBaseURL)
	authors := make([]Author, 0, len(documents))
	for _, document := range documents {
		author, err := resolver.author(document)
		if err != nil {
			return nil, upstream(err)
		}
		authors = append(authors, author)
	}
	return authors, nil
}

// ListCategories returns every category, ordered by title.
func (service *Service) ListCategories(context context.Context) ([]Category, error) {
	documents, err := service.repo.Fetch(context, content.Query{
		Type:  constants.TypeCategory,
		Order: []content.Order{{Field: "title"}},
	})
	if err != nil {
		return nil, upstream(err)
	}

	resolver := newResolver(service.repo, service.assetBaseURL)
	categories := make([]Category, 0, len(documents))
	for _, document := range documents {
		category, err := resolver.category(document)
		if err != nil {
			return nil, upstream(err)
		}
		categories = append(categories, category)
	}
	return categories, nil
}

// TopCategories returns the n categories referenced by the most posts.
// Ties are broken by title.
func (service *Service) TopCategories(context context.Context, n int) ([]Category, error) {
	if n < 1 {
		n = DefaultTopCategories
	}

	categories, err := service.ListCategories(context)
	if err != nil {
		return nil, err
	}

	posts, err := service.repo.Fetch(context, content.Query{Type: constants.TypePost})
	if err != nil {
		return nil, upstream(err)
	}

	counts := make(map[string]int, len(categories))
	for _, post := range posts {
		for _, id := range post.Refs("categories") {
			counts[id]++
		}
	}

	for i := range categories {
		categories[i].Count = pointer.To(counts[categories[i].ID])
	}

	slices.SortStableFunc(categories, func(a, b Category) int {
		if order := cmp.Compare(pointer.Val(b.Count), pointer.Val(a.Count)); order != 0 {
			return order
		}
		return cmp.Compare(a.Title, b.Title)
	})

	if len(categories) > n {
		categories = categories[:n]
	}
	return categories, nil
}

// ListTaxonomy returns every entry of a taxonomy kind, ordered by label.
func (service *Service) ListTaxonomy(context context.Context, kind string) ([]Taxonomy, error) {
	if !IsTaxonomy(kind) {
		return nil, apperr.NotFound("Taxonomy")
	}

	documents, err := service.repo.Fetch(context, content.Query{
		Type:  kind,
		Order: []content.Order{{Field: "label"}},
	})
	if err != nil {
		return nil, upstream(err)
	}

	resolver := newResolver(service.repo, service.assetBaseURL)
	entries := make([]Taxonomy, 0, len(documents))
	for _, document := range documents {
		entry, err := resolver.taxonomy(document)
		if err != nil {
			return nil, upstream(err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Paths returns the defined slugs of a type, for static path generation.
func (service *Service) Paths(context context.Context, kind string) ([]string, error) {
	if !pathKinds[kind] {
		return nil, apperr.NotFound("Path kind")
	}

	documents, err := service.repo.Fetch(context, content.Query{
		Type:    kind,
		Clauses: []content.Clause{content.Defined("slug")},
		Order:   []content.Order{{Field: "slug"}},
	})
	if err != nil {
		return nil, upstream(err)
	}

	slugs := slice.Map(documents, func(document content.Document) string { return document.String("slug") })
	return slice.Filter(slugs, func(slug string) bool { return slug != "" }), nil
}

// # Helpers

func (service *Service) fetchPosts(context context.Context, query content.Query) ([]Post, error) {
	documents, err := service.repo.Fetch(context, query)
	if err != nil {
		return nil, upstream(err)
	}

	posts, err := newResolver(service.repo, service.assetBaseURL).posts(context, documents, false)
	if err != nil {
		return nil, upstream(err)
	}
	return posts, nil
}

func (service *Service) bySlug(context context.Context, kind, slug, resource string) (content.Document, error) {
	documents, err := service.repo.Fetch(context, content.Query{
		Type:    kind,
		Clauses: []content.Clause{content.Eq("slug", slug)},
		Limit:   1,
	})
	if err != nil {
		return content.Document{}, upstream(err)
	}
	if len(documents) == 0 {
		return content.Document{}, apperr.NotFound(resource)
	}
	return documents[0], nil
}

// upstream classifies a store failure. AppErrors pass through untouched.
func upstream(err error) error {
	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Upstream(err)
}

func kindLabel(kind string) string {
	switch kind {
	case constants.TypeSector:
		return "Sector"
	case constants.TypeCharacter:
		return "Character"
	case constants.TypeTopic:
		return "Topic"
	}
	return "Taxonomy"
}
