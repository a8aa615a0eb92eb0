// Copyright (c) 2026 Lurnex. All rights reserved.

package comment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lurnex/site/internal/content"
	"github.com/lurnex/site/internal/platform/apperr"
	"github.com/lurnex/site/internal/platform/constants"
	"github.com/lurnex/site/internal/platform/validate"
	"github.com/lurnex/site/pkg/uuidv7"
)

// Service implements comment submission and retrieval.
//
// It must be given the store directly, never the caching decorator, so that
// a moderator's approval is visible on the next read.
type Service struct {
	repo   content.Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a new comment [Service].
func NewService(repo content.Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

/*
Submit validates a submission and stores it unapproved.

Parameters:
  - context: context.Context
  - input: SubmitInput

Returns:
  - *Submission: The stored comment, always with Approved false
  - error: apperr.ValidationError for missing or invalid fields,
    apperr.Internal when the write fails
*/
func (service *Service) Submit(context context.Context, input SubmitInput) (*Submission, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Content = strings.TrimSpace(input.Content)
	input.PostID = strings.TrimSpace(input.PostID)

	// ── 1. Presence ───────────────────────────────────────────────────────

	err := (&validate.Validator{}).
		Required("name", input.Name).
		Required("email", input.Email).
		Required("content", input.Content).
		Required("postId", input.PostID).
		ErrAs("Missing required fields.")
	if err != nil {
		return nil, err
	}

	// ── 2. Shape ──────────────────────────────────────────────────────────

	err = (&validate.Validator{}).
		MaxLen("name", input.Name, MaxNameLength).
		Email("email", input.Email).
		MinLen("content", input.Content, MinContentLength).
		MaxLen("content", input.Content, MaxContentLength).
		ErrAs("Invalid fields.")
	if err != nil {
		return nil, err
	}

	// ── 3. Target Post ────────────────────────────────────────────────────

	_, err = service.repo.Get(context, constants.TypePost, input.PostID)
	if errors.Is(err, content.ErrNotFound) {
		return nil, (&validate.Validator{}).
			Custom("postId", true, "Must reference an existing post").
			ErrAs("Invalid fields.")
	}
	if err != nil {
		return nil, apperr.Upstream(err)
	}

	// ── 4. Persistence ────────────────────────────────────────────────────

	now := service.now()
	stored, err := service.repo.Create(context, content.Document{
		ID:        uuidv7.New(),
		Type:      constants.TypeComment,
		CreatedAt: now,
		Fields: map[string]any{
			"name":      input.Name,
			"email":     input.Email,
			"content":   input.Content,
			"post":      input.PostID,
			"approved":  false,
			"createdAt": now.Format(time.RFC3339Nano),
		},
	})
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("comment_create_failed: %w", err))
	}

	service.logger.InfoContext(context, "comment_submitted",
		slog.String("comment_id", stored.ID),
		slog.String("post_id", input.PostID),
	)

	return &Submission{
		Comment: Comment{
			ID:        stored.ID,
			Name:      input.Name,
			Content:   input.Content,
			CreatedAt: stored.CreatedAt,
		},
		PostID:   input.PostID,
		Approved: false,
	}, nil
}

/*
ListApproved returns the approved comments on a post, newest first.

Description: The approved filter is part of the store query and is checked
again on every returned document, so an unapproved comment can never leak
through a backend that ignores the clause.
*/
func (service *Service) ListApproved(context context.Context, postID string) ([]Comment, error) {
	postID = strings.TrimSpace(postID)
	if err := (&validate.Validator{}).Required("postId", postID).Err(); err != nil {
		return nil, err
	}

	documents, err := service.repo.Fetch(context, content.Query{
		Type: constants.TypeComment,
		Clauses: []content.Clause{
			content.Eq("post", postID),
			content.Eq("approved", true),
		},
		Order: []content.Order{{Field: content.FieldCreatedAt, Desc: true}},
	})
	if err != nil {
		return nil, apperr.Upstream(err)
	}

	comments := make([]Comment, 0, len(documents))
	for _, document := range documents {
		var stored record
		if err := document.Decode(&stored); err != nil {
			return nil, apperr.Upstream(err)
		}
		if !stored.Approved || stored.Post != postID {
			continue
		}
		comments = append(comments, Comment{
			ID:        document.ID,
			Name:      stored.Name,
			Content:   stored.Content,
			CreatedAt: document.CreatedAt,
		})
	}
	return comments, nil
}
