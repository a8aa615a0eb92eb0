// Copyright (c) 2026 Lurnex. All rights reserved.

package content

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ErrInvalidQuery is returned when a [Query] fails validation before reaching a backend.
var ErrInvalidQuery = errors.New("content: invalid query")

// Op is a clause operator.
type Op string

const (
	// OpEq matches a scalar field exactly.
	OpEq Op = "=="
	// OpContains matches an array field holding the value.
	OpContains Op = "contains"
	// OpMatch is a case-insensitive substring match on a string field.
	OpMatch Op = "match"
	// OpGte and OpLte are inclusive time bounds.
	OpGte Op = ">="
	OpLte Op = "<="
	// OpDefined and OpUndefined test presence of a non-null value.
	OpDefined   Op = "defined"
	OpUndefined Op = "undefined"
)

// Virtual fields resolve to document metadata rather than body fields.
const (
	FieldID          = KeyID
	FieldCreatedAt   = KeyCreatedAt
	FieldUpdatedAt   = KeyUpdatedAt
	FieldPublishedAt = "publishedAt"
)

// Clause is one predicate of a query. Clauses in a list are ANDed.
//
// When Deref is set, Field is a reference (or reference list) and the clause
// holds if ANY referenced document satisfies Op on its Deref field. When Any
// is set the clause is the disjunction of its members and the other fields
// are ignored.
type Clause struct {
	Field string
	Deref string
	Op    Op
	Value any
	Any   []Clause
}

// Eq builds an exact-match clause.
func Eq(field string, value any) Clause { return Clause{Field: field, Op: OpEq, Value: value} }

// Contains builds an array membership clause.
func Contains(field string, value any) Clause {
	return Clause{Field: field, Op: OpContains, Value: value}
}

// Match builds a case-insensitive substring clause.
func Match(field, text string) Clause { return Clause{Field: field, Op: OpMatch, Value: text} }

// Gte builds an inclusive lower time bound.
func Gte(field string, at time.Time) Clause { return Clause{Field: field, Op: OpGte, Value: at} }

// Lte builds an inclusive upper time bound.
func Lte(field string, at time.Time) Clause { return Clause{Field: field, Op: OpLte, Value: at} }

// Defined matches documents where field holds a non-null value.
func Defined(field string) Clause { return Clause{Field: field, Op: OpDefined} }

// Undefined matches documents where field is absent or null.
func Undefined(field string) Clause { return Clause{Field: field, Op: OpUndefined} }

// Or builds a disjunction.
func Or(clauses ...Clause) Clause { return Clause{Any: clauses} }

// Deref lifts inner onto the documents referenced by field.
//
//	content.Deref("sector", content.Eq("slug", "health")) // sector->slug == "health"
func Deref(field string, inner Clause) Clause {
	return Clause{Field: field, Deref: inner.Field, Op: inner.Op, Value: inner.Value}
}

// Order is one sort key.
type Order struct {
	Field string
	Desc  bool
}

// Query selects documents of one type.
type Query struct {
	Type    string
	Clauses []Clause
	Order   []Order
	Offset  int
	Limit   int // 0 means no limit
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate rejects queries a backend cannot compile safely.
func (query Query) Validate() error {
	if !identifier.MatchString(query.Type) {
		return fmt.Errorf("%w: type %q", ErrInvalidQuery, query.Type)
	}
	if query.Offset < 0 || query.Limit < 0 {
		return fmt.Errorf("%w: negative offset or limit", ErrInvalidQuery)
	}

	for _, clause := range query.Clauses {
		if err := clause.validate(); err != nil {
			return err
		}
	}

	for _, order := range query.Order {
		if !identifier.MatchString(order.Field) {
			return fmt.Errorf("%w: order field %q", ErrInvalidQuery, order.Field)
		}
	}
	return nil
}

func (clause Clause) validate() error {
	if len(clause.Any) > 0 {
		for _, member := range clause.Any {
			if err := member.validate(); err != nil {
				return err
			}
		}
		return nil
	}

	if !identifier.MatchString(clause.Field) {
		return fmt.Errorf("%w: field %q", ErrInvalidQuery, clause.Field)
	}
	if clause.Deref != "" && !identifier.MatchString(clause.Deref) {
		return fmt.Errorf("%w: deref field %q", ErrInvalidQuery, clause.Deref)
	}

	switch clause.Op {
	case OpEq, OpContains:
		switch clause.Value.(type) {
		case string, bool, int, int64, float64:
		default:
			return fmt.Errorf("%w: %s on %q needs a scalar value", ErrInvalidQuery, clause.Op, clause.Field)
		}
	case OpMatch:
		if _, ok := clause.Value.(string); !ok {
			return fmt.Errorf("%w: match on %q needs a string", ErrInvalidQuery, clause.Field)
		}
	case OpGte, OpLte:
		if _, ok := clause.Value.(time.Time); !ok {
			return fmt.Errorf("%w: %s on %q needs a time", ErrInvalidQuery, clause.Op, clause.Field)
		}
	case OpDefined, OpUndefined:
	default:
		return fmt.Errorf("%w: unknown operator %q", ErrInvalidQuery, clause.Op)
	}
	return nil
}

// target is the field the operator applies to, after dereferencing.
func (clause Clause) target() string {
	if clause.Deref != "" {
		return clause.Deref
	}
	return clause.Field
}
