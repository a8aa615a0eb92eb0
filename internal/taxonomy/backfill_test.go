// Copyright (c) 2026 Lurnex. All rights reserved.

package taxonomy_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lurnex/site/internal/content"
	"github.com/lurnex/site/internal/taxonomy"
)

func entry(id, kind string, minute int, fields map[string]any) content.Document {
	return content.Document{
		ID:        id,
		Type:      kind,
		CreatedAt: time.Date(2024, 1, 1, 0, minute, 0, 0, time.UTC),
		Fields:    fields,
	}
}

func newService(repo content.Repository) *taxonomy.Service {
	return taxonomy.NewService(repo, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func slugOf(t *testing.T, repo content.Repository, id string) string {
	t.Helper()
	document, err := repo.Get(context.Background(), "", id)
	require.NoError(t, err)
	return document.String("slug")
}

/*
TestBackfillSlugs_Sectors assigns slugs only to unslugged sectors.
*/
func TestBackfillSlugs_Sectors(t *testing.T) {
	repo, err := content.NewMemoryRepository(
		entry("s-health", "sector", 0, map[string]any{"label": "Health", "slug": "health"}),
		entry("s-fin", "sector", 1, map[string]any{"label": "Financial Services"}),
		entry("s-tech", "sector", 2, map[string]any{"label": "Tech & AI"}),
	)
	require.NoError(t, err)

	result := newService(repo).BackfillSlugs(context.Background())

	assert.True(t, result.Success)
	assert.Empty(t, result.Error)
	assert.Equal(t, taxonomy.Summary{Sectors: 2}, result.Summary)
	assert.Equal(t, []string{
		`Updated sector "Financial Services" with slug: financial-services`,
		`Updated sector "Tech & AI" with slug: tech-ai`,
	}, result.Results)

	assert.Equal(t, "health", slugOf(t, repo, "s-health"))
	assert.Equal(t, "financial-services", slugOf(t, repo, "s-fin"))
	assert.Equal(t, "tech-ai", slugOf(t, repo, "s-tech"))
}

/*
TestBackfillSlugs_Idempotent updates nothing on a second run.
*/
func TestBackfillSlugs_Idempotent(t *testing.T) {
	repo, err := content.NewMemoryRepository(
		entry("t-ai", "topic", 0, map[string]any{"label": "Machine Learning"}),
		entry("ch-owl", "character", 0, map[string]any{"label": "Wise Owl"}),
	)
	require.NoError(t, err)
	service := newService(repo)

	first := service.BackfillSlugs(context.Background())
	assert.Equal(t, taxonomy.Summary{Characters: 1, Topics: 1}, first.Summary)

	second := service.BackfillSlugs(context.Background())
	assert.True(t, second.Success)
	assert.Equal(t, taxonomy.Summary{}, second.Summary)
	assert.Empty(t, second.Results)
	assert.Equal(t, "machine-learning", slugOf(t, repo, "t-ai"))
}

/*
TestBackfillSlugs_Collisions suffixes labels that normalize to a taken slug.
*/
func TestBackfillSlugs_Collisions(t *testing.T) {
	repo, err := content.NewMemoryRepository(
		entry("s-1", "sector", 0, map[string]any{"label": "Retail", "slug": "retail"}),
		entry("s-2", "sector", 1, map[string]any{"label": "Retail!"}),
		entry("s-3", "sector", 2, map[string]any{"label": "  retail  "}),
		entry("t-1", "topic", 0, map[string]any{"label": "Retail"}),
	)
	require.NoError(t, err)

	result := newService(repo).BackfillSlugs(context.Background())
	require.True(t, result.Success)

	assert.Equal(t, "retail-2", slugOf(t, repo, "s-2"))
	assert.Equal(t, "retail-3", slugOf(t, repo, "s-3"))
	// Slugs are unique per type only.
	assert.Equal(t, "retail", slugOf(t, repo, "t-1"))
}

// flakyRepository fails writes to chosen documents and reads of chosen kinds.
type flakyRepository struct {
	content.Repository
	failPatch map[string]bool
	failFetch string
}

var errStore = errors.New("store unavailable")

func (repository flakyRepository) Fetch(ctx context.Context, query content.Query) ([]content.Document, error) {
	if query.Type == repository.failFetch {
		return nil, errStore
	}
	return repository.Repository.Fetch(ctx, query)
}

func (repository flakyRepository) Patch(ctx context.Context, id string, set map[string]any) (content.Document, error) {
	if repository.failPatch[id] {
		return content.Document{}, errStore
	}
	return repository.Repository.Patch(ctx, id, set)
}

/*
TestBackfillSlugs_DocumentFailureIsIsolated keeps going after a failed write.
*/
func TestBackfillSlugs_DocumentFailureIsIsolated(t *testing.T) {
	memory, err := content.NewMemoryRepository(
		entry("s-a", "sector", 0, map[string]any{"label": "Agriculture"}),
		entry("s-b", "sector", 1, map[string]any{"label": "Banking"}),
		entry("s-c", "sector", 2, map[string]any{"label": "***"}),
	)
	require.NoError(t, err)
	repo := flakyRepository{Repository: memory, failPatch: map[string]bool{"s-a": true}}

	result := newService(repo).BackfillSlugs(context.Background())

	assert.True(t, result.Success)
	assert.Equal(t, taxonomy.Summary{Sectors: 1, Failed: 2}, result.Summary)
	require.Len(t, result.Results, 3)
	assert.Contains(t, result.Results[0], "s-a")
	assert.Equal(t, `Updated sector "Banking" with slug: banking`, result.Results[1])
	assert.Contains(t, result.Results[2], "empty slug")

	assert.Empty(t, slugOf(t, memory, "s-a"))
	assert.Equal(t, "banking", slugOf(t, memory, "s-b"))

	// The failed document is still a candidate next time.
	retry := newService(memory).BackfillSlugs(context.Background())
	assert.Equal(t, 1, retry.Summary.Sectors)
	assert.Equal(t, "agriculture", slugOf(t, memory, "s-a"))
}

/*
TestBackfillSlugs_ListFailure marks the run failed but processes other kinds.
*/
func TestBackfillSlugs_ListFailure(t *testing.T) {
	memory, err := content.NewMemoryRepository(
		entry("s-a", "sector", 0, map[string]any{"label": "Energy"}),
		entry("ch-a", "character", 0, map[string]any{"label": "Fox"}),
		entry("t-a", "topic", 0, map[string]any{"label": "Cloud"}),
	)
	require.NoError(t, err)
	repo := flakyRepository{Repository: memory, failFetch: "character"}

	result := newService(repo).BackfillSlugs(context.Background())

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "character")
	assert.Equal(t, taxonomy.Summary{Sectors: 1, Topics: 1}, result.Summary)
	assert.Equal(t, "cloud", slugOf(t, memory, "t-a"))
}

func TestHandler_GenerateSlugs(t *testing.T) {
	memory, err := content.NewMemoryRepository(
		entry("s-a", "sector", 0, map[string]any{"label": "Energy"}),
	)
	require.NoError(t, err)

	tests := []struct {
		name   string
		repo   content.Repository
		status int
	}{
		{"success", memory, http.StatusOK},
		{"list_failure", flakyRepository{Repository: memory, failFetch: "topic"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := taxonomy.NewHandler(newService(tt.repo)).Routes()

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/generate-slugs", nil))
			require.Equal(t, tt.status, recorder.Code)

			var envelope struct {
				Data taxonomy.Result `json:"data"`
			}
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
			assert.Equal(t, tt.status == http.StatusOK, envelope.Data.Success)
		})
	}
}

type countingInvalidator struct{ calls int }

func (invalidator *countingInvalidator) Invalidate(context.Context) { invalidator.calls++ }

/*
TestBackfillSlugs_InvalidatesOnlyAfterUpdates leaves the cache alone on a no-op run.
*/
func TestBackfillSlugs_InvalidatesOnlyAfterUpdates(t *testing.T) {
	repo, err := content.NewMemoryRepository(
		entry("t-a", "topic", 0, map[string]any{"label": "Cloud"}),
	)
	require.NoError(t, err)

	invalidator := &countingInvalidator{}
	service := newService(repo).WithInvalidator(invalidator)

	service.BackfillSlugs(context.Background())
	assert.Equal(t, 1, invalidator.calls)

	service.BackfillSlugs(context.Background())
	assert.Equal(t, 1, invalidator.calls)
}
