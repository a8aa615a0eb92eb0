// Copyright (c) 2026 Lurnex. All rights reserved.

package blog_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lurnex/site/internal/blog"
)

func serve(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
	return recorder
}

func TestHandler_Routes(t *testing.T) {
	router := blog.NewHandler(newService(seed(t))).Routes()

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"list_posts", "/posts", http.StatusOK},
		{"get_post", "/posts/growth-in-health", http.StatusOK},
		{"missing_post", "/posts/nope", http.StatusNotFound},
		{"author_page", "/authors/ada", http.StatusOK},
		{"top_categories", "/categories/top?limit=2", http.StatusOK},
		{"top_categories_bad_limit", "/categories/top?limit=zero", http.StatusBadRequest},
		{"category_page", "/categories/news", http.StatusOK},
		{"list_sectors", "/sectors", http.StatusOK},
		{"topic_page", "/topics/ai", http.StatusOK},
		{"character_missing", "/characters/fox", http.StatusNotFound},
		{"search", "/search?sector=health&q=growth", http.StatusOK},
		{"search_bad_date", "/search?publishedTo=soon", http.StatusBadRequest},
		{"paths", "/paths/post", http.StatusOK},
		{"paths_unknown", "/paths/comment", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := serve(t, router, tt.target)
			assert.Equal(t, tt.status, recorder.Code, recorder.Body.String())
		})
	}
}

func TestHandler_ListPostsPaged(t *testing.T) {
	router := blog.NewHandler(newService(seed(t))).Routes()

	recorder := serve(t, router, "/posts?page=1&limit=2")
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data []blog.Post `json:"data"`
		Meta struct {
			Total      int `json:"total"`
			TotalPages int `json:"total_pages"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))

	assert.Equal(t, []string{"banking-basics", "growth-in-health"}, postSlugs(envelope.Data))
	assert.Equal(t, 4, envelope.Meta.Total)
	assert.Equal(t, 2, envelope.Meta.TotalPages)
}

func TestHandler_UpstreamFailure(t *testing.T) {
	router := blog.NewHandler(newService(failingRepository{Repository: seed(t), kind: "post"})).Routes()

	recorder := serve(t, router, "/posts")
	require.Equal(t, http.StatusBadGateway, recorder.Code)

	var envelope struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, "UPSTREAM_ERROR", envelope.Code)
	assert.Equal(t, "Something went wrong. Please try again later.", envelope.Error)
}
