package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"not found", NotFound("customer", 42), http.StatusNotFound},
		{"validation", Validation("bad input"), http.StatusBadRequest},
		{"conflict", Conflict("duplicate"), http.StatusConflict},
		{"unauthorized", Unauthorized("nope"), http.StatusUnauthorized},
		{"internal", Internal(fmt.Errorf("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestNotFoundMessage(t *testing.T) {
	err := NotFound("customer", 42)
	assert.Equal(t, "customer not found with id: 42", err.Message)
}

func TestAsAppError(t *testing.T) {
	appErr := Validation("bad input")
	wrapped := fmt.Errorf("handling request: %w", appErr)

	got, ok := AsAppError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, KindValidation, got.Kind)

	_, ok = AsAppError(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("address", 1)))
	assert.False(t, IsNotFound(Conflict("duplicate")))
	assert.False(t, IsNotFound(fmt.Errorf("plain")))
}

func TestInternalHidesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Internal(cause)

	assert.Equal(t, "internal server error", err.Message)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}
