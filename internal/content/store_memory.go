// Copyright (c) 2026 Lurnex. All rights reserved.

package content

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/lurnex/site/pkg/uuidv7"
)

// MemoryRepository keeps documents in process memory.
//
// It implements the same clause semantics as the PostgreSQL backend and is
// safe for concurrent use.
type MemoryRepository struct {
	mu        sync.RWMutex
	documents map[string]Document
	now       func() time.Time
}

// NewMemoryRepository returns a repository holding the given documents.
func NewMemoryRepository(documents ...Document) (*MemoryRepository, error) {
	repository := &MemoryRepository{
		documents: make(map[string]Document, len(documents)),
		now:       func() time.Time { return time.Now().UTC() },
	}

	for _, document := range documents {
		if _, err := repository.Create(context.Background(), document); err != nil {
			return nil, err
		}
	}
	return repository, nil
}

// LoadSeed reads a JSON array of flat documents and returns a repository holding them.
func LoadSeed(path string) (*MemoryRepository, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: read seed: %w", err)
	}

	var documents []Document
	if err := json.Unmarshal(raw, &documents); err != nil {
		return nil, fmt.Errorf("content: decode seed %s: %w", path, err)
	}

	return NewMemoryRepository(documents...)
}

func (repository *MemoryRepository) Fetch(context context.Context, query Query) ([]Document, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := context.Err(); err != nil {
		return nil, err
	}

	repository.mu.RLock()
	defer repository.mu.RUnlock()

	matched := repository.match(query)
	slices.SortStableFunc(matched, func(a, b Document) int {
		return compareDocuments(a, b, query.Order)
	})

	if query.Offset >= len(matched) {
		return []Document{}, nil
	}
	matched = matched[query.Offset:]
	if query.Limit > 0 && query.Limit < len(matched) {
		matched = matched[:query.Limit]
	}
	return matched, nil
}

func (repository *MemoryRepository) Count(context context.Context, query Query) (int, error) {
	if err := query.Validate(); err != nil {
		return 0, err
	}

	repository.mu.RLock()
	defer repository.mu.RUnlock()

	return len(repository.match(query)), nil
}

func (repository *MemoryRepository) Get(context context.Context, kind, id string) (Document, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	document, ok := repository.documents[id]
	if !ok || (kind != "" && document.Type != kind) {
		return Document{}, fmt.Errorf("get document %s: %w", id, ErrNotFound)
	}
	return clone(document), nil
}

func (repository *MemoryRepository) GetMany(context context.Context, ids []string) ([]Document, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	out := make([]Document, 0, len(ids))
	for _, id := range ids {
		if document, ok := repository.documents[id]; ok {
			out = append(out, clone(document))
		}
	}
	return out, nil
}

func (repository *MemoryRepository) Create(context context.Context, document Document) (Document, error) {
	if !identifier.MatchString(document.Type) {
		return Document{}, fmt.Errorf("%w: type %q", ErrInvalidQuery, document.Type)
	}

	fields, err := normalize(document.Fields)
	if err != nil {
		return Document{}, err
	}
	document.Fields = fields

	if document.ID == "" {
		document.ID = uuidv7.New()
	}
	now := repository.now()
	if document.CreatedAt.IsZero() {
		document.CreatedAt = now
	}
	if document.UpdatedAt.IsZero() {
		document.UpdatedAt = document.CreatedAt
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, exists := repository.documents[document.ID]; exists {
		return Document{}, fmt.Errorf("create document %s: %w", document.ID, ErrConflict)
	}
	if err := repository.checkSlug(document); err != nil {
		return Document{}, err
	}

	repository.documents[document.ID] = document
	return clone(document), nil
}

func (repository *MemoryRepository) Patch(context context.Context, id string, set map[string]any) (Document, error) {
	fields, err := normalize(set)
	if err != nil {
		return Document{}, err
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	current, ok := repository.documents[id]
	if !ok {
		return Document{}, fmt.Errorf("patch document %s: %w", id, ErrNotFound)
	}

	next := clone(current)
	for key, value := range fields {
		if value == nil {
			delete(next.Fields, key)
			continue
		}
		next.Fields[key] = value
	}
	next.UpdatedAt = repository.now()

	if err := repository.checkSlug(next); err != nil {
		return Document{}, err
	}

	repository.documents[id] = next
	return clone(next), nil
}

// Ping always succeeds.
func (repository *MemoryRepository) Ping(context context.Context) error {
	return nil
}

func (repository *MemoryRepository) checkSlug(document Document) error {
	slug, ok := document.Fields["slug"].(string)
	if !ok {
		return nil
	}
	for _, other := range repository.documents {
		if other.ID != document.ID && other.Type == document.Type && other.String("slug") == slug {
			return fmt.Errorf("%s slug %q: %w", document.Type, slug, ErrConflict)
		}
	}
	return nil
}

// match returns copies of the documents of the query type satisfying every clause.
func (repository *MemoryRepository) match(query Query) []Document {
	matched := make([]Document, 0)
	for _, document := range repository.documents {
		if document.Type != query.Type {
			continue
		}
		if repository.all(document, query.Clauses) {
			matched = append(matched, clone(document))
		}
	}
	return matched
}

func (repository *MemoryRepository) all(document Document, clauses []Clause) bool {
	for _, clause := range clauses {
		if !repository.eval(document, clause) {
			return false
		}
	}
	return true
}

func (repository *MemoryRepository) eval(document Document, clause Clause) bool {
	if len(clause.Any) > 0 {
		return slices.ContainsFunc(clause.Any, func(member Clause) bool {
			return repository.eval(document, member)
		})
	}

	if clause.Deref == "" {
		return evalOp(document, clause.Field, clause.Op, clause.Value)
	}

	for _, id := range document.Refs(clause.Field) {
		referenced, ok := repository.documents[id]
		if ok && evalOp(referenced, clause.Deref, clause.Op, clause.Value) {
			return true
		}
	}
	return false
}

func evalOp(document Document, field string, op Op, want any) bool {
	switch op {
	case OpDefined:
		return isVirtual(field) || document.Has(field)
	case OpUndefined:
		return !isVirtual(field) && !document.Has(field)
	case OpGte, OpLte:
		at, ok := timeValue(document, field)
		if !ok {
			return false
		}
		bound := want.(time.Time)
		if op == OpGte {
			return !at.Before(bound)
		}
		return !at.After(bound)
	case OpMatch:
		text, ok := fieldValue(document, field).(string)
		return ok && strings.Contains(strings.ToLower(text), strings.ToLower(want.(string)))
	case OpContains:
		items, ok := document.Fields[field].([]any)
		return ok && slices.ContainsFunc(items, func(item any) bool { return scalarEqual(item, want) })
	case OpEq:
		if at, ok := timeValue(document, field); ok && isVirtual(field) {
			bound, err := time.Parse(time.RFC3339Nano, fmt.Sprint(want))
			return err == nil && at.Equal(bound)
		}
		return scalarEqual(fieldValue(document, field), want)
	}
	return false
}

func isVirtual(field string) bool {
	switch field {
	case FieldID, FieldCreatedAt, FieldUpdatedAt, FieldPublishedAt:
		return true
	}
	return false
}

func fieldValue(document Document, field string) any {
	switch field {
	case FieldID:
		return document.ID
	case FieldCreatedAt:
		return document.CreatedAt
	case FieldUpdatedAt:
		return document.UpdatedAt
	case FieldPublishedAt:
		return EffectivePublishedAt(document)
	}
	return document.Fields[field]
}

func timeValue(document Document, field string) (time.Time, bool) {
	switch value := fieldValue(document, field).(type) {
	case time.Time:
		return value, true
	case string:
		at, err := time.Parse(time.RFC3339Nano, value)
		return at, err == nil
	}
	return time.Time{}, false
}

// EffectivePublishedAt is the publish time used for ordering and display:
// the publishedAt field when it holds a valid timestamp, otherwise the
// creation time.
func EffectivePublishedAt(document Document) time.Time {
	if raw := document.String(FieldPublishedAt); raw != "" {
		if at, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			return at
		}
	}
	return document.CreatedAt
}

func scalarEqual(have, want any) bool {
	switch typed := want.(type) {
	case int:
		want = float64(typed)
	case int64:
		want = float64(typed)
	}
	return have == want
}

// compareDocuments applies the order keys, nulls last, then breaks ties by ID.
func compareDocuments(a, b Document, order []Order) int {
	for _, key := range order {
		va, vb := fieldValue(a, key.Field), fieldValue(b, key.Field)
		if va == nil || vb == nil {
			switch {
			case va == nil && vb == nil:
				continue
			case va == nil:
				return 1
			default:
				return -1
			}
		}

		result := compareValues(va, vb)
		if key.Desc {
			result = -result
		}
		if result != 0 {
			return result
		}
	}
	return cmp.Compare(a.ID, b.ID)
}

func compareValues(a, b any) int {
	switch va := a.(type) {
	case time.Time:
		if vb, ok := b.(time.Time); ok {
			return va.Compare(vb)
		}
	case string:
		if vb, ok := b.(string); ok {
			return cmp.Compare(va, vb)
		}
	case float64:
		if vb, ok := b.(float64); ok {
			return cmp.Compare(va, vb)
		}
	case bool:
		if vb, ok := b.(bool); ok {
			return cmp.Compare(boolRank(va), boolRank(vb))
		}
	}
	return 0
}

func boolRank(value bool) int {
	if value {
		return 1
	}
	return 0
}

func clone(document Document) Document {
	document.Fields = maps.Clone(document.Fields)
	if document.Fields == nil {
		document.Fields = map[string]any{}
	}
	return document
}
