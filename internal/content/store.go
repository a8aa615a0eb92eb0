// Copyright (c) 2026 Lurnex. All rights reserved.

package content

import (
	"context"

	"github.com/lurnex/site/internal/platform/dberr"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = dberr.ErrNoRecord

	// ErrConflict is returned when a write would duplicate a slug within a type.
	ErrConflict = dberr.ErrDuplicate
)

// # Content Data Access

// Repository defines the data access contract for the content store.
type Repository interface {

	/*
		Fetch returns the documents matching a query, ordered and windowed.

		Parameters:
		  - context: context.Context
		  - query: Query (type, clauses, order, offset, limit)

		Returns:
		  - []Document: Matching documents, possibly empty
		  - error: ErrInvalidQuery or a store failure
	*/
	Fetch(context context.Context, query Query) ([]Document, error)

	// Count returns how many documents match the query, ignoring order and window.
	Count(context context.Context, query Query) (int, error)

	/*
		Get returns one document by ID.

		Parameters:
		  - context: context.Context
		  - kind: string (document type, "" for any)
		  - id: string

		Returns:
		  - Document: The stored document
		  - error: ErrNotFound if missing or of another type
	*/
	Get(context context.Context, kind, id string) (Document, error)

	// GetMany returns the documents for the given IDs. Missing IDs are skipped.
	GetMany(context context.Context, ids []string) ([]Document, error)

	// Create stores a new document. Zero timestamps are set by the store.
	Create(context context.Context, document Document) (Document, error)

	/*
		Patch sets body fields on one document. A nil value removes the field.

		Parameters:
		  - context: context.Context
		  - id: string
		  - set: map[string]any

		Returns:
		  - Document: The document after the patch
		  - error: ErrNotFound, ErrConflict, or a store failure
	*/
	Patch(context context.Context, id string, set map[string]any) (Document, error)
}

// Pinger is implemented by backends that can report their own health.
type Pinger interface {
	Ping(context context.Context) error
}
