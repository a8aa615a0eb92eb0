// Copyright (c) 2026 Lurnex. All rights reserved.

// Package comment implements public comment submission and the moderation gate.
//
// # Moderation
//
// Every submission is stored unapproved. A moderator flips the approved
// flag in the CMS; this package never does. Unapproved comments are
// invisible to readers, not merely hidden.
package comment

import "time"

// Field limits for submissions.
const (
	MinContentLength = 10
	MaxContentLength = 1000
	MaxNameLength    = 100
)

// Comment is the public view of an approved comment. The email address is
// never exposed.
type Comment struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Submission is a freshly stored comment, returned to its author.
type Submission struct {
	Comment
	PostID   string `json:"postId"`
	Approved bool   `json:"approved"`
}

// SubmitInput holds an untrusted comment submission.
type SubmitInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Content string `json:"content"`
	PostID  string `json:"postId"`
}

// record is the stored document body as read back. Email is not read.
type record struct {
	Name     string `json:"name"`
	Content  string `json:"content"`
	Post     string `json:"post"`
	Approved bool   `json:"approved"`
}
