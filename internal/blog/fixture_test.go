// Copyright (c) 2026 Lurnex. All rights reserved.

package blog_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lurnex/site/internal/blog"
	"github.com/lurnex/site/internal/content"
)

const assetBase = "https://cdn.test/images"

func at(raw string) time.Time {
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		panic(err)
	}
	return parsed
}

func doc(id, kind, created string, fields map[string]any) content.Document {
	return content.Document{ID: id, Type: kind, CreatedAt: at(created), Fields: fields}
}

// paragraph builds one rich text block of n characters.
func paragraph(n int) map[string]any {
	return map[string]any{
		"_type":    "block",
		"children": []any{map[string]any{"_type": "span", "text": strings.Repeat("a", n)}},
	}
}

func seed(t *testing.T) *content.MemoryRepository {
	t.Helper()

	repository, err := content.NewMemoryRepository(
		doc("a-ada", "author", "2023-01-01T00:00:00Z", map[string]any{
			"name": "Ada Lovelace", "slug": "ada",
			"image":       map[string]any{"asset": "image-abc123-200x200-png", "alt": "Ada"},
			"socialLinks": map[string]any{"github": "https://github.com/ada"},
		}),
		doc("a-grace", "author", "2023-01-01T00:00:00Z", map[string]any{"name": "Grace Hopper", "slug": "grace"}),

		doc("c-news", "category", "2023-01-01T00:00:00Z", map[string]any{"title": "News", "slug": "news"}),
		doc("c-guides", "category", "2023-01-01T00:00:00Z", map[string]any{"title": "Guides", "slug": "guides"}),
		doc("c-empty", "category", "2023-01-01T00:00:00Z", map[string]any{"title": "Empty", "slug": "empty"}),

		doc("s-health", "sector", "2023-01-01T00:00:00Z", map[string]any{
			"label": "Health", "slug": "health", "icon": map[string]any{"asset": "image-ico1-64x64-svg"},
		}),
		doc("s-fin", "sector", "2023-01-01T00:00:00Z", map[string]any{"label": "Financial Services", "slug": "financial-services"}),
		doc("t-ai", "topic", "2023-01-01T00:00:00Z", map[string]any{"label": "AI", "slug": "ai"}),
		doc("ch-owl", "character", "2023-01-01T00:00:00Z", map[string]any{"label": "Owl", "slug": "owl"}),

		doc("p-growth", "post", "2024-03-01T00:00:00Z", map[string]any{
			"title": "Growth in Health", "slug": "growth-in-health", "excerpt": "How clinics scale",
			"publishedAt": "2024-03-10T09:00:00Z", "featured": true,
			"mainImage":   map[string]any{"asset": "image-main1-1200x800-jpg", "alt": "Clinic"},
			"author":      "a-ada", "categories": []any{"c-news"}, "sector": "s-health", "topic": "t-ai",
			"body": []any{paragraph(600), paragraph(300)},
		}),
		doc("p-bank", "post", "2024-03-02T00:00:00Z", map[string]any{
			"title": "Banking Basics", "slug": "banking-basics", "excerpt": "steady growth for savers",
			"publishedAt": "2024-03-12T09:00:00Z",
			"author":      "a-ada", "categories": []any{"c-news", "c-guides"}, "sector": "s-fin",
		}),
		doc("p-draft", "post", "2024-03-05T00:00:00Z", map[string]any{
			"title": "Clinic Notes", "slug": "clinic-notes",
			"author": "a-gone", "categories": []any{"c-guides", "c-deleted"}, "sector": "s-health", "character": "ch-owl",
		}),
		doc("p-old", "post", "2022-06-01T00:00:00Z", map[string]any{
			"title": "Archive", "slug": "archive", "publishedAt": "2023-01-01T00:00:00Z",
		}),
	)
	require.NoError(t, err)
	return repository
}

func newService(repo content.Repository) *blog.Service {
	return blog.NewService(repo, assetBase, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func postSlugs(posts []blog.Post) []string {
	slugs := make([]string, 0, len(posts))
	for _, post := range posts {
		slugs = append(slugs, post.Slug)
	}
	return slugs
}

// failingRepository fails every read of one document type.
type failingRepository struct {
	content.Repository
	kind string
}

var errStoreDown = errors.New("content store unavailable")

func (repository failingRepository) Fetch(ctx context.Context, query content.Query) ([]content.Document, error) {
	if query.Type == repository.kind {
		return nil, errStoreDown
	}
	return repository.Repository.Fetch(ctx, query)
}
