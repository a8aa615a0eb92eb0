// Copyright (c) 2026 Lurnex. All rights reserved.

package uuidv7_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lurnex/site/pkg/uuidv7"
)

func TestNew(t *testing.T) {
	first, second := uuidv7.New(), uuidv7.New()

	assert.True(t, uuidv7.Valid(first))
	assert.NotEqual(t, first, second)
	// Time-ordered: a later ID never sorts before an earlier one.
	assert.LessOrEqual(t, first[:13], second[:13])
}

func TestValid(t *testing.T) {
	assert.False(t, uuidv7.Valid("p-1"))
	assert.False(t, uuidv7.Valid("6ba7b810-9dad-11d1-80b4-00c04fd430c8")) // v1
	assert.False(t, uuidv7.Valid(""))
}
