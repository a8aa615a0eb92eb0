// Copyright (c) 2026 Lurnex. All rights reserved.

package blog

import (
	"context"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lurnex/site/internal/content"
	"github.com/lurnex/site/internal/platform/apperr"
	"github.com/lurnex/site/internal/platform/constants"
)

// # Dynamic Filter Composer

// Facets is a sparse set of search selections. An empty value places no
// constraint on its facet.
type Facets struct {
	Author        string `json:"author,omitempty"`
	Category      string `json:"category,omitempty"`
	Sector        string `json:"sector,omitempty"`
	Character     string `json:"character,omitempty"`
	Topic         string `json:"topic,omitempty"`
	Title         string `json:"title,omitempty"`
	PublishedFrom string `json:"publishedFrom,omitempty"`
	PublishedTo   string `json:"publishedTo,omitempty"`
	Query         string `json:"q,omitempty"`
}

// FacetsFromValues reads facets from URL query parameters. Values are trimmed,
// so a whitespace-only selection is the same as none.
func FacetsFromValues(values url.Values) Facets {
	get := func(key string) string { return strings.TrimSpace(values.Get(key)) }

	return Facets{
		Author:        get("author"),
		Category:      get("category"),
		Sector:        get("sector"),
		Character:     get("character"),
		Topic:         get("topic"),
		Title:         get("title"),
		PublishedFrom: get("publishedFrom"),
		PublishedTo:   get("publishedTo"),
		Query:         get("q"),
	}
}

/*
Clauses builds the conjunctive predicate for the selected facets.

Description: Each non-empty facet contributes exactly one clause. With no
facets selected the list is empty, which matches every post.

  - author, sector, character, topic: slug equality on the referenced document.
  - category: membership, any of the post's categories has the slug.
  - title: substring match on the title.
  - q: substring match on the title OR the excerpt.
  - publishedFrom, publishedTo: inclusive bounds on the effective publish date.

Returns:
  - []content.Clause: The clause list, possibly empty
  - error: apperr.ValidationError for an unparseable date bound
*/
func (facets Facets) Clauses() ([]content.Clause, error) {
	clauses := make([]content.Clause, 0, 9)

	for _, ref := range []struct{ field, slug string }{
		{"author", facets.Author},
		{"categories", facets.Category},
		{"sector", facets.Sector},
		{"character", facets.Character},
		{"topic", facets.Topic},
	} {
		if ref.slug != "" {
			clauses = append(clauses, content.Deref(ref.field, content.Eq("slug", ref.slug)))
		}
	}

	if facets.Title != "" {
		clauses = append(clauses, content.Match("title", facets.Title))
	}

	if facets.Query != "" {
		clauses = append(clauses, content.Or(
			content.Match("title", facets.Query),
			content.Match("excerpt", facets.Query),
		))
	}

	var details []apperr.FieldError

	if facets.PublishedFrom != "" {
		from, err := parseBound(facets.PublishedFrom, false)
		if err != nil {
			details = append(details, apperr.FieldError{Field: "publishedFrom", Message: dateHint})
		} else {
			clauses = append(clauses, content.Gte(content.FieldPublishedAt, from))
		}
	}

	if facets.PublishedTo != "" {
		to, err := parseBound(facets.PublishedTo, true)
		if err != nil {
			details = append(details, apperr.FieldError{Field: "publishedTo", Message: dateHint})
		} else {
			clauses = append(clauses, content.Lte(content.FieldPublishedAt, to))
		}
	}

	if len(details) > 0 {
		return nil, apperr.ValidationError("Invalid filter", details...)
	}
	return clauses, nil
}

// Active counts the selected facets.
func (facets Facets) Active() int {
	active := 0
	for _, value := range []string{
		facets.Author, facets.Category, facets.Sector, facets.Character, facets.Topic,
		facets.Title, facets.PublishedFrom, facets.PublishedTo, facets.Query,
	} {
		if value != "" {
			active++
		}
	}
	return active
}

const dateHint = "Must be a date (YYYY-MM-DD) or an RFC 3339 timestamp"

// parseBound accepts a calendar date or a timestamp. A date used as an upper
// bound covers the whole day.
func parseBound(raw string, upper bool) (time.Time, error) {
	if day, err := time.Parse(time.DateOnly, raw); err == nil {
		if upper {
			return day.Add(24*time.Hour - time.Nanosecond), nil
		}
		return day, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// SearchResult is the filtered post list plus the facet option lists.
type SearchResult struct {
	Facets  Facets       `json:"facets"`
	Active  int          `json:"activeFilters"`
	Posts   []Post       `json:"posts"`
	Options FacetOptions `json:"options"`
}

// FacetOptions feeds the filter dropdowns. The lists are never pruned to the
// values reachable under the current selection.
type FacetOptions struct {
	Authors    []Author   `json:"authors"`
	Categories []Category `json:"categories"`
	Sectors    []Taxonomy `json:"sectors"`
	Characters []Taxonomy `json:"characters"`
	Topics     []Taxonomy `json:"topics"`
}

/*
Search runs the composed predicate and fetches the facet options alongside it.

Description: The six reads run concurrently. If any of them fails the whole
search fails, so callers never render a partial result as if it were complete.

Parameters:
  - context: context.Context
  - facets: Facets

Returns:
  - *SearchResult: Matching posts (possibly none) and the option lists
  - error: apperr.ValidationError for bad dates, apperr.Upstream on store failure
*/
func (service *Service) Search(context context.Context, facets Facets) (*SearchResult, error) {
	clauses, err := facets.Clauses()
	if err != nil {
		return nil, err
	}

	result := &SearchResult{Facets: facets, Active: facets.Active()}

	group, groupCtx := errgroup.WithContext(context)
	group.Go(func() (err error) {
		result.Posts, err = service.fetchPosts(groupCtx, content.Query{
			Type:    constants.TypePost,
			Clauses: clauses,
			Order:   newestFirst,
		})
		return err
	})
	group.Go(func() (err error) {
		result.Options.Authors, err = service.ListAuthors(groupCtx)
		return err
	})
	group.Go(func() (err error) {
		result.Options.Categories, err = service.ListCategories(groupCtx)
		return err
	})
	group.Go(func() (err error) {
		result.Options.Sectors, err = service.ListTaxonomy(groupCtx, constants.TypeSector)
		return err
	})
	group.Go(func() (err error) {
		result.Options.Characters, err = service.ListTaxonomy(groupCtx, constants.TypeCharacter)
		return err
	})
	group.Go(func() (err error) {
		result.Options.Topics, err = service.ListTaxonomy(groupCtx, constants.TypeTopic)
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, upstream(err)
	}
	return result, nil
}
