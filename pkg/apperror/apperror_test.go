package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NewNotFound("experience", "1"), http.StatusNotFound},
		{"validation", NewValidation("bad", map[string]string{"title": "is required"}), http.StatusBadRequest},
		{"conflict", NewConflict("profile", "handle", "alice"), http.StatusConflict},
		{"unauthorized", NewUnauthorized("wrong password", nil), http.StatusUnauthorized},
		{"unauthenticated", NewUnauthenticated("expired", nil), http.StatusUnauthorized},
		{"internal", NewInternal("db down", errors.New("boom")), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("outer: %w", NewNotFound("education", "2")), http.StatusNotFound},
		{"plain error", errors.New("unknown"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToHTTPStatus(tt.err))
		})
	}
}

func TestNotFoundMessageDoesNotLeakIdentifier(t *testing.T) {
	a := NewNotFound("experience", "owned-by-someone-else")
	b := NewNotFound("experience", "missing")

	assert.Equal(t, a.ToJSON(), b.ToJSON())
}

func TestToJSON_IncludesFieldErrors(t *testing.T) {
	err := NewValidation("experience validation failed", map[string]string{"title": "is required"})

	body := err.ToJSON()

	assert.Equal(t, "invalid input", body["error"])
	assert.Equal(t, map[string]string{"title": "is required"}, body["details"])
}

func TestToJSON_InternalHidesCause(t *testing.T) {
	err := NewInternal("failed to query profile", errors.New("pq: password authentication failed"))

	body := err.ToJSON()

	assert.Equal(t, "An internal server error occurred", body["message"])
	assert.NotContains(t, fmt.Sprint(body), "password authentication")
}

func TestErrorsIsMatchesBase(t *testing.T) {
	err := NewConflict("user", "email", "a@x.com")

	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrNotFound))
}
