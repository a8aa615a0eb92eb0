// Copyright (c) 2026 Lurnex. All rights reserved.

// Package dberr provides a bridge between low-level database errors and
// the sentinels the content layer exposes.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNoRecord is returned when a queried document doesn't exist.
	ErrNoRecord = errors.New("no record")

	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("duplicate record")
)

// Wrap inspects a database error and classifies it against the package sentinels.
// The original error stays in the chain for logging.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", action, ErrNoRecord)
	}

	// 2. Unique constraint mapping (SQLSTATE 23505)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("%s: %w: %s", action, ErrDuplicate, pgErr.ConstraintName)
	}

	// 3. Everything else is an opaque store failure
	return fmt.Errorf("%s: %w", action, err)
}
