// Copyright (c) 2026 Lurnex. All rights reserved.

package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

/*
TestCompileFetch_NoClauses verifies that an empty clause list selects every document of the type.
*/
func TestCompileFetch_NoClauses(t *testing.T) {
	statement, args := compileFetch(Query{Type: "post"})

	assert.Equal(t,
		"SELECT d.id, d.type, d.body, d.createdat, d.updatedat FROM content.document d WHERE d.type = $1 ORDER BY d.id ASC",
		statement)
	assert.Equal(t, []any{"post"}, args)
}

/*
TestCompileFetch_FacetPredicate covers a sector slug match combined with a free-text match.
*/
func TestCompileFetch_FacetPredicate(t *testing.T) {
	query := Query{
		Type: "post",
		Clauses: []Clause{
			Deref("sector", Eq("slug", "health")),
			Or(Match("title", "growth"), Match("excerpt", "growth")),
		},
		Order: []Order{{Field: FieldPublishedAt, Desc: true}, {Field: FieldCreatedAt, Desc: true}},
		Limit: 12,
	}

	statement, args := compileFetch(query)

	assert.Contains(t, statement, "EXISTS (SELECT 1 FROM content.document r1 WHERE d.body->'sector' @> to_jsonb(r1.id) AND r1.body->'slug' = $2::jsonb)")
	assert.Contains(t, statement, "(d.body->>'title' ILIKE $3 OR d.body->>'excerpt' ILIKE $4)")
	assert.Contains(t, statement, "ORDER BY COALESCE((d.body->>'publishedAt')::timestamptz, d.createdat) DESC NULLS LAST, d.createdat DESC NULLS LAST, d.id ASC")
	assert.Contains(t, statement, "LIMIT $5")
	assert.NotContains(t, statement, "OFFSET")
	assert.Equal(t, []any{"post", `"health"`, "%growth%", "%growth%", 12}, args)
}

/*
TestCompileFetch_RangeAndPresence covers time bounds and defined checks.
*/
func TestCompileFetch_RangeAndPresence(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	statement, args := compileFetch(Query{
		Type:    "sector",
		Clauses: []Clause{Gte(FieldPublishedAt, from), Undefined("slug"), Defined(FieldID)},
		Offset:  24,
	})

	assert.Contains(t, statement, "COALESCE((d.body->>'publishedAt')::timestamptz, d.createdat) >= $2")
	assert.Contains(t, statement, "COALESCE(d.body->'slug', 'null'::jsonb) = 'null'::jsonb")
	assert.Contains(t, statement, "AND TRUE")
	assert.Contains(t, statement, "OFFSET $3")
	assert.Equal(t, []any{"sector", from, 24}, args)
}

/*
TestCompileFetch_Contains verifies array membership binds a one-element JSON array.
*/
func TestCompileFetch_Contains(t *testing.T) {
	statement, args := compileFetch(Query{Type: "post", Clauses: []Clause{Contains("categories", "cat-1")}})

	assert.Contains(t, statement, "d.body->'categories' @> $2::jsonb")
	assert.Equal(t, `["cat-1"]`, args[1])
}

/*
TestCompileCount ignores ordering and windowing.
*/
func TestCompileCount(t *testing.T) {
	statement, args := compileCount(Query{
		Type:    "comment",
		Clauses: []Clause{Eq("post", "p1"), Eq("approved", true)},
		Order:   []Order{{Field: FieldCreatedAt, Desc: true}},
		Limit:   5,
	})

	assert.Equal(t,
		"SELECT count(*) FROM content.document d WHERE d.type = $1 AND d.body->'post' = $2::jsonb AND d.body->'approved' = $3::jsonb",
		statement)
	assert.Equal(t, []any{"comment", `"p1"`, "true"}, args)
}

/*
TestEscapeLike ensures user text cannot inject LIKE wildcards.
*/
func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\% growth\_rate \\o/`, escapeLike(`100% growth_rate \o/`))
}
