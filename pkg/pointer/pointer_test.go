// Copyright (c) 2026 Lurnex. All rights reserved.

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lurnex/site/pkg/pointer"
)

func TestToAndVal(t *testing.T) {
	count := pointer.To(3)
	assert.Equal(t, 3, pointer.Val(count))

	var missing *int
	assert.Zero(t, pointer.Val(missing))
}
