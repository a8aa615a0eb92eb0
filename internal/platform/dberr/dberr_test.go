// Copyright (c) 2026 Lurnex. All rights reserved.

package dberr_test

import (
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/lurnex/site/internal/platform/dberr"
)

func TestWrap(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "get"))

	err := dberr.Wrap(pgx.ErrNoRows, "get document")
	assert.ErrorIs(t, err, dberr.ErrNoRecord)

	err = dberr.Wrap(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "document_slug_key"}, "create document")
	assert.ErrorIs(t, err, dberr.ErrDuplicate)
	assert.Contains(t, err.Error(), "document_slug_key")

	boom := errors.New("connection reset")
	err = dberr.Wrap(boom, "fetch documents")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, dberr.ErrNoRecord)
}
