// Copyright (c) 2026 Lurnex. All rights reserved.

/*
Package taxonomy maintains sector, character and topic documents.

Its one job is the slug backfill: taxonomy entries are created in the CMS
with a label only, and the public site needs a URL slug for each of them.
*/
package taxonomy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lurnex/site/internal/blog"
	"github.com/lurnex/site/internal/content"
	"github.com/lurnex/site/internal/platform/constants"
	"github.com/lurnex/site/pkg/slug"
)

// errEmptySlug marks a label that normalizes to nothing (e.g. "***").
var errEmptySlug = errors.New("label produces an empty slug")

// Summary counts the documents updated per kind, plus failed documents.
type Summary struct {
	Sectors    int `json:"sectors"`
	Characters int `json:"characters"`
	Topics     int `json:"topics"`
	Failed     int `json:"failed"`
}

// Result is the outcome of one backfill run.
//
// A per-document failure is listed in Results and counted in Summary.Failed
// but leaves Success true. Only a kind whose candidates could not be listed
// flips Success and sets Error.
type Result struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Summary Summary  `json:"summary"`
	Results []string `json:"results"`
	Error   string   `json:"error,omitempty"`
}

func (summary *Summary) add(kind string) {
	switch kind {
	case constants.TypeSector:
		summary.Sectors++
	case constants.TypeCharacter:
		summary.Characters++
	case constants.TypeTopic:
		summary.Topics++
	}
}

// # Service Layer

// Invalidator drops cached catalog reads. [*content.CachedRepository] satisfies it.
type Invalidator interface {
	Invalidate(context context.Context)
}

// Service assigns slugs to taxonomy documents.
type Service struct {
	repo        content.Repository
	invalidator Invalidator
	logger      *slog.Logger
}

// NewService constructs a new taxonomy [Service]. repo must be the store
// itself, not a caching decorator that could serve stale candidate lists.
func NewService(repo content.Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// WithInvalidator makes the service drop cached reads after a run that
// updated at least one document.
func (service *Service) WithInvalidator(invalidator Invalidator) *Service {
	service.invalidator = invalidator
	return service
}

/*
BackfillSlugs gives every sector, character and topic lacking a slug one
derived from its label.

Description: Kinds are processed in a fixed order. Within a kind, slugs
already in use and slugs assigned earlier in the run are reserved, and a
collision takes the first free numeric suffix ("tech-ai-2"). Documents that
already carry a slug are never touched, so a second run updates nothing.

Parameters:
  - context: context.Context

Returns:
  - *Result: Always non-nil
*/
func (service *Service) BackfillSlugs(context context.Context) *Result {
	result := &Result{Success: true, Results: []string{}}

	for _, kind := range blog.TaxonomyKinds {
		if err := service.backfillKind(context, kind, result); err != nil {
			service.logger.ErrorContext(context, "slug_backfill_list_failed",
				slog.String("kind", kind),
				slog.Any("error", err),
			)
			result.Success = false
			if result.Error == "" {
				result.Error = fmt.Sprintf("list %s documents: %v", kind, err)
			}
		}
	}

	if result.Success {
		result.Message = "All documents updated successfully!"
	}

	updated := result.Summary.Sectors + result.Summary.Characters + result.Summary.Topics
	if updated > 0 && service.invalidator != nil {
		service.invalidator.Invalidate(context)
	}

	service.logger.InfoContext(context, "slug_backfill_finished",
		slog.Bool("success", result.Success),
		slog.Int("sectors", result.Summary.Sectors),
		slog.Int("characters", result.Summary.Characters),
		slog.Int("topics", result.Summary.Topics),
		slog.Int("failed", result.Summary.Failed),
	)
	return result
}

// backfillKind processes one kind. It returns an error only when the kind
// could not be listed; per-document failures are recorded on result.
func (service *Service) backfillKind(context context.Context, kind string, result *Result) error {
	existing, err := service.repo.Fetch(context, content.Query{
		Type:    kind,
		Clauses: []content.Clause{content.Defined("slug")},
	})
	if err != nil {
		return err
	}

	candidates, err := service.repo.Fetch(context, content.Query{
		Type:    kind,
		Clauses: []content.Clause{content.Undefined("slug")},
		Order:   []content.Order{{Field: content.FieldCreatedAt}},
	})
	if err != nil {
		return err
	}

	reserved := make(map[string]bool, len(existing)+len(candidates))
	for _, document := range existing {
		reserved[document.String("slug")] = true
	}
	taken := func(candidate string) bool { return reserved[candidate] }

	for _, document := range candidates {
		label := document.String("label")

		base := slug.From(label)
		if base == "" {
			service.fail(context, result, document, label, errEmptySlug)
			continue
		}

		assigned := slug.Unique(base, taken)
		if _, err := service.repo.Patch(context, document.ID, map[string]any{"slug": assigned}); err != nil {
			service.fail(context, result, document, label, err)
			continue
		}

		reserved[assigned] = true
		result.Summary.add(kind)
		result.Results = append(result.Results, fmt.Sprintf("Updated %s %q with slug: %s", kind, label, assigned))

		service.logger.InfoContext(context, "slug_assigned",
			slog.String("kind", kind),
			slog.String("id", document.ID),
			slog.String("label", label),
			slog.String("slug", assigned),
		)
	}
	return nil
}

func (service *Service) fail(context context.Context, result *Result, document content.Document, label string, err error) {
	result.Summary.Failed++
	result.Results = append(result.Results, fmt.Sprintf("Failed to update %s %q (%s): %v", document.Type, label, document.ID, err))

	service.logger.WarnContext(context, "slug_assign_failed",
		slog.String("kind", document.Type),
		slog.String("id", document.ID),
		slog.String("label", label),
		slog.Any("error", err),
	)
}
