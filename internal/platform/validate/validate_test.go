// Copyright (c) 2026 Lurnex. All rights reserved.

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lurnex/site/internal/platform/apperr"
	"github.com/lurnex/site/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		hasError bool
	}{
		{"valid_string", "Ada", false},
		{"empty_string", "", true},
		{"whitespace_only", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required("name", tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				ae := apperr.As(v.Err())
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, "name", ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "reader@example.com", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "reader@", false},
		{"no_tld", "reader@localhost", false},
		{"display_name", "Reader <reader@example.com>", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", tt.email)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_LengthBounds checks MinLen and MaxLen count characters, not bytes.
*/
func TestValidator_LengthBounds(t *testing.T) {
	v := &validate.Validator{}
	v.MinLen("content", "éééééééééé", 10).MaxLen("content", "éééééééééé", 10)
	assert.False(t, v.HasErrors())

	v = &validate.Validator{}
	v.MinLen("content", "short", 10)
	assert.True(t, v.HasErrors())
}

/*
TestValidator_ErrAs tests error accumulation and the custom top-level message.
*/
func TestValidator_ErrAs(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("name", "").
		Required("email", "").
		OneOf("kind", "planet", "sector", "topic").
		ErrAs("Missing required fields.")

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "Missing required fields.", ae.Message)
	assert.Len(t, ae.Details, 3)
}
