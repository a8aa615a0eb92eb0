// Copyright (c) 2026 Lurnex. All rights reserved.

package slice_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lurnex/site/pkg/slice"
)

func TestMap(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, slice.Map([]string{"a", "b"}, strings.ToUpper))
	assert.Equal(t, []int{}, slice.Map(nil, func(s string) int { return len(s) }))
}

func TestFilter(t *testing.T) {
	nonEmpty := func(s string) bool { return s != "" }

	assert.Equal(t, []string{"health", "ai"}, slice.Filter([]string{"health", "", "ai"}, nonEmpty))
	assert.NotNil(t, slice.Filter(nil, nonEmpty))
}
