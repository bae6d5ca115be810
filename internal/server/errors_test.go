package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ad-quality/internal/rules"
	"github.com/jonathan/ad-quality/internal/schemas"
	"github.com/jonathan/ad-quality/internal/types"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "headlines", Message: "is required"}
	assert.Equal(t, "validation error: headlines - is required", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestErrNotFound(t *testing.T) {
	err := &ErrNotFound{Resource: "entity rules", ID: "acme"}
	assert.Equal(t, "entity rules not found: acme", err.Error())
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "nil",
			err:      nil,
			expected: http.StatusOK,
		},
		{
			name:     "ErrValidation wrapped",
			err:      fmt.Errorf("decode: %w", &ErrValidation{Field: "a", Message: "b"}),
			expected: http.StatusBadRequest,
		},
		{
			name:     "schema validation",
			err:      &schemas.ValidationError{Errors: []schemas.FieldError{{Field: "entities", Message: "bad"}}},
			expected: http.StatusBadRequest,
		},
		{
			name:     "validator errors",
			err:      (&types.EntityRules{ProhibitedWords: []string{""}}).Validate(),
			expected: http.StatusBadRequest,
		},
		{
			name:     "read-only rules",
			err:      fmt.Errorf("save: %w", rules.ErrReadOnly),
			expected: http.StatusNotImplemented,
		},
		{
			name:     "cancelled",
			err:      context.Canceled,
			expected: http.StatusInternalServerError,
		},
		{
			name:     "generic error",
			err:      errors.New("generic error"),
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestValidationError(t *testing.T) {
	err := validationError((&types.PatternRequest{}).Validate())

	var ve *ErrValidation
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Headlines", ve.Field)
	assert.Equal(t, "is required", ve.Message)

	plain := errors.New("plain")
	assert.Same(t, plain, validationError(plain))
}

func TestFieldName(t *testing.T) {
	assert.Equal(t, "Ads[0].ID", fieldName("EvaluateRequest.Ads[0].ID"))
	assert.Equal(t, "ID", fieldName("ID"))
}
