// Copyright (c) 2026 Lurnex. All rights reserved.

package comment_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lurnex/site/internal/comment"
	"github.com/lurnex/site/internal/content"
	"github.com/lurnex/site/internal/platform/apperr"
)

func seed(t *testing.T) *content.MemoryRepository {
	t.Helper()
	repo, err := content.NewMemoryRepository(content.Document{
		ID:        "p-1",
		Type:      "post",
		CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Fields:    map[string]any{"title": "Growth in Health", "slug": "growth-in-health"},
	})
	require.NoError(t, err)
	return repo
}

func newService(repo content.Repository) *comment.Service {
	return comment.NewService(repo, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func valid() comment.SubmitInput {
	return comment.SubmitInput{
		Name:    "Reader",
		Email:   "reader@example.com",
		Content: "Really useful breakdown, thanks.",
		PostID:  "p-1",
	}
}

func storedComments(t *testing.T, repo content.Repository) int {
	t.Helper()
	count, err := repo.Count(context.Background(), content.Query{Type: "comment"})
	require.NoError(t, err)
	return count
}

/*
TestSubmit_Rejections checks that no invalid submission reaches the store.
*/
func TestSubmit_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*comment.SubmitInput)
		message string
		field   string
	}{
		{"missing_name", func(in *comment.SubmitInput) { in.Name = "" }, "Missing required fields.", "name"},
		{"missing_email", func(in *comment.SubmitInput) { in.Email = "  " }, "Missing required fields.", "email"},
		{"missing_content", func(in *comment.SubmitInput) { in.Content = "" }, "Missing required fields.", "content"},
		{"missing_post", func(in *comment.SubmitInput) { in.PostID = "" }, "Missing required fields.", "postId"},
		{"short_content", func(in *comment.SubmitInput) { in.Content = "Great" }, "Invalid fields.", "content"},
		{"long_content", func(in *comment.SubmitInput) { in.Content = strings.Repeat("x", 1001) }, "Invalid fields.", "content"},
		{"bad_email", func(in *comment.SubmitInput) { in.Email = "reader@" }, "Invalid fields.", "email"},
		{"unknown_post", func(in *comment.SubmitInput) { in.PostID = "p-404" }, "Invalid fields.", "postId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := seed(t)
			input := valid()
			tt.mutate(&input)

			submission, err := newService(repo).Submit(context.Background(), input)
			assert.Nil(t, submission)

			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
			assert.Equal(t, tt.message, appErr.Message)
			require.Len(t, appErr.Details, 1)
			assert.Equal(t, tt.field, appErr.Details[0].Field)

			assert.Zero(t, storedComments(t, repo))
		})
	}
}

/*
TestModerationGate covers the submit, approve, read lifecycle.
*/
func TestModerationGate(t *testing.T) {
	repo := seed(t)
	service := newService(repo)
	ctx := context.Background()

	submission, err := service.Submit(ctx, valid())
	require.NoError(t, err)
	assert.False(t, submission.Approved)
	assert.NotEmpty(t, submission.ID)
	assert.Equal(t, "p-1", submission.PostID)

	stored, err := repo.Get(ctx, "comment", submission.ID)
	require.NoError(t, err)
	assert.Equal(t, false, stored.Fields["approved"])
	assert.Equal(t, "reader@example.com", stored.String("email"))

	visible, err := service.ListApproved(ctx, "p-1")
	require.NoError(t, err)
	assert.Empty(t, visible)

	// A moderator approves the comment out of band.
	_, err = repo.Patch(ctx, submission.ID, map[string]any{"approved": true})
	require.NoError(t, err)

	visible, err = service.ListApproved(ctx, "p-1")
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, submission.ID, visible[0].ID)
	assert.Equal(t, "Really useful breakdown, thanks.", visible[0].Content)
}

/*
TestListApproved_NewestFirst orders by creation time and keeps posts apart.
*/
func TestListApproved_NewestFirst(t *testing.T) {
	repo := seed(t)
	ctx := context.Background()

	for i, id := range []string{"c-old", "c-new", "c-hidden", "c-elsewhere"} {
		post := "p-1"
		if id == "c-elsewhere" {
			post = "p-2"
		}
		_, err := repo.Create(ctx, content.Document{
			ID:        id,
			Type:      "comment",
			CreatedAt: time.Date(2024, 3, 2+i, 0, 0, 0, 0, time.UTC),
			Fields: map[string]any{
				"name": "Reader", "content": "Comment " + id, "post": post,
				"approved": id != "c-hidden",
			},
		})
		require.NoError(t, err)
	}

	comments, err := newService(repo).ListApproved(ctx, "p-1")
	require.NoError(t, err)

	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"c-new", "c-old"}, ids)

	_, err = newService(repo).ListApproved(ctx, " ")
	assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)
}

// brokenWrites fails every Create.
type brokenWrites struct {
	content.Repository
}

func (brokenWrites) Create(context.Context, content.Document) (content.Document, error) {
	return content.Document{}, errors.New("write refused")
}

/*
TestSubmit_WriteFailure maps a store write error to a 500.
*/
func TestSubmit_WriteFailure(t *testing.T) {
	_, err := newService(brokenWrites{seed(t)}).Submit(context.Background(), valid())

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
	assert.NotContains(t, appErr.Message, "refused")
}
