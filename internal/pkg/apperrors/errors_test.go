package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMapsStatusAndSuggestion(t *testing.T) {
	err := NewRateLimited(12)
	assert.Equal(t, http.StatusTooManyRequests, err.HTTPStatus)
	assert.Equal(t, 12, err.RetryAfter)
	assert.NotEmpty(t, err.Suggestion)
	assert.Equal(t, "rate limit reached, wait 12s", err.Error())

	assert.Equal(t, http.StatusBadGateway, NewUpstream("API error: 500", nil).HTTPStatus)
	assert.Equal(t, http.StatusBadRequest, NewInvalidConfig("too short").HTTPStatus)
	assert.Equal(t, http.StatusInternalServerError, New(ErrInternal, "boom", nil).HTTPStatus)
}

func TestWrapKeepsAppError(t *testing.T) {
	orig := NewUpstream("price request failed", errors.New("dial tcp: timeout"))
	wrapped := fmt.Errorf("refresh: %w", orig)

	assert.Same(t, orig, Wrap(wrapped))
	assert.True(t, Is(wrapped, ErrUpstream))
	assert.False(t, Is(wrapped, ErrRateLimited))
	assert.Equal(t, "price request failed: dial tcp: timeout", orig.Error())
}

func TestWrapPlainError(t *testing.T) {
	appErr := Wrap(errors.New("unexpected"))
	assert.Equal(t, ErrInternal, appErr.Type)
	assert.Nil(t, Wrap(nil))
}
