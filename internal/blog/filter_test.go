// Copyright (c) 2026 Lurnex. All rights reserved.

package blog_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lurnex/site/internal/blog"
	"github.com/lurnex/site/internal/content"
	"github.com/lurnex/site/internal/platform/apperr"
)

/*
TestFacets_Clauses checks that each selected facet adds exactly one clause.
*/
func TestFacets_Clauses(t *testing.T) {
	facets := blog.Facets{Sector: "health", Category: "", Query: "growth"}

	clauses, err := facets.Clauses()
	require.NoError(t, err)

	assert.Equal(t, []content.Clause{
		content.Deref("sector", content.Eq("slug", "health")),
		content.Or(content.Match("title", "growth"), content.Match("excerpt", "growth")),
	}, clauses)
	assert.Equal(t, 2, facets.Active())
}

/*
TestFacetsFromValues_BlankIsUnset treats whitespace selections as absent.
*/
func TestFacetsFromValues_BlankIsUnset(t *testing.T) {
	values, err := url.ParseQuery("author=&category=%20%20&q=")
	require.NoError(t, err)

	facets := blog.FacetsFromValues(values)
	clauses, err := facets.Clauses()
	require.NoError(t, err)

	assert.Empty(t, clauses)
	assert.Zero(t, facets.Active())
}

/*
TestSearch_NoFacetsMatchesEverything returns the full post list.
*/
func TestSearch_NoFacetsMatchesEverything(t *testing.T) {
	service := newService(seed(t))
	ctx := context.Background()

	all, err := service.ListPosts(ctx)
	require.NoError(t, err)

	result, err := service.Search(ctx, blog.Facets{})
	require.NoError(t, err)
	assert.Equal(t, postSlugs(all), postSlugs(result.Posts))
}

/*
TestSearch_SectorAndQuery narrows by sector and free text together.
*/
func TestSearch_SectorAndQuery(t *testing.T) {
	service := newService(seed(t))

	result, err := service.Search(context.Background(), blog.Facets{Sector: "health", Query: "growth"})
	require.NoError(t, err)

	// banking-basics mentions growth but is filed under another sector;
	// clinic-notes is a health post without the word.
	assert.Equal(t, []string{"growth-in-health"}, postSlugs(result.Posts))

	// Options are never pruned to the current selection.
	assert.Len(t, result.Options.Sectors, 2)
	assert.Len(t, result.Options.Authors, 2)
	assert.Len(t, result.Options.Categories, 3)
	assert.Len(t, result.Options.Topics, 1)
	assert.Len(t, result.Options.Characters, 1)
}

/*
TestSearch_SingleFacetIsSubset checks every single-facet search against the full list.
*/
func TestSearch_SingleFacetIsSubset(t *testing.T) {
	service := newService(seed(t))
	ctx := context.Background()

	all, err := service.ListPosts(ctx)
	require.NoError(t, err)

	tests := []struct {
		name   string
		facets blog.Facets
		want   []string
	}{
		{"author", blog.Facets{Author: "ada"}, []string{"banking-basics", "growth-in-health"}},
		{"category", blog.Facets{Category: "guides"}, []string{"banking-basics", "clinic-notes"}},
		{"character", blog.Facets{Character: "owl"}, []string{"clinic-notes"}},
		{"topic", blog.Facets{Topic: "ai"}, []string{"growth-in-health"}},
		{"title_case_insensitive", blog.Facets{Title: "BANKING"}, []string{"banking-basics"}},
		{"unknown_slug", blog.Facets{Sector: "mining"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := service.Search(ctx, tt.facets)
			require.NoError(t, err)

			got := postSlugs(result.Posts)
			assert.Equal(t, tt.want, got)
			assert.Subset(t, postSlugs(all), got)
		})
	}
}

/*
TestSearch_DateBounds treats a date-only upper bound as covering the whole day.
*/
func TestSearch_DateBounds(t *testing.T) {
	service := newService(seed(t))

	result, err := service.Search(context.Background(), blog.Facets{
		PublishedFrom: "2024-03-05",
		PublishedTo:   "2024-03-10",
	})
	require.NoError(t, err)

	// growth-in-health is published at 09:00 on the upper bound day and
	// clinic-notes falls back to its creation time.
	assert.Equal(t, []string{"growth-in-health", "clinic-notes"}, postSlugs(result.Posts))
}

/*
TestSearch_InvalidDate rejects an unparseable bound before querying.
*/
func TestSearch_InvalidDate(t *testing.T) {
	service := newService(seed(t))

	_, err := service.Search(context.Background(), blog.Facets{PublishedFrom: "last tuesday"})
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "publishedFrom", appErr.Details[0].Field)
}

/*
TestSearch_OptionFailureFailsSearch never returns a partial result.
*/
func TestSearch_OptionFailureFailsSearch(t *testing.T) {
	service := newService(failingRepository{Repository: seed(t), kind: "topic"})

	result, err := service.Search(context.Background(), blog.Facets{Sector: "health"})
	assert.Nil(t, result)
	assert.Equal(t, http.StatusBadGateway, apperr.As(err).HTTPStatus)
}
