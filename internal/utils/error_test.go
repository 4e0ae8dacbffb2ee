package utils

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorBuilder(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := NewErrorBuilder(ErrCodeInvalidJSON).
		WithDetails("body is not an array").
		WithCause(cause).
		Build()

	assert.Equal(t, ErrCodeInvalidJSON, err.Code)
	assert.Equal(t, "Invalid JSON format", err.Message)
	assert.Equal(t, "INVALID_JSON: Invalid JSON format - body is not an array", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusBadRequest, err.Status())
}

func TestNewInvalidJSONError(t *testing.T) {
	cause := errors.New("invalid character 'x'")

	err := NewInvalidJSONError("", cause)
	assert.Equal(t, "invalid character 'x'", err.Details)
	assert.ErrorIs(t, err, cause)

	err = NewInvalidJSONError("request body must be a JSON array", cause)
	assert.Equal(t, "request body must be a JSON array", err.Details)
	assert.Equal(t, http.StatusBadRequest, err.Status())
}

func TestAppError_Status(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{name: "payload too large", err: NewPayloadTooLargeError("1001 items"), want: http.StatusRequestEntityTooLarge},
		{name: "rate limit", err: NewRateLimitError(""), want: http.StatusTooManyRequests},
		{name: "invalid request", err: NewErrorBuilder(ErrCodeInvalidRequest).Build(), want: http.StatusBadRequest},
		{name: "unknown code", err: &AppError{Code: "NOPE"}, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Status())
		})
	}
	assert.Equal(t, "Unknown error", NewErrorBuilder("NOPE").Build().Message)
}

func TestNormalizeCorrelationID(t *testing.T) {
	assert.Equal(t, "req-123", NormalizeCorrelationID("req-123"))

	isUUID := func(s string) bool {
		_, err := uuid.Parse(s)
		return err == nil
	}
	require.True(t, isUUID(NormalizeCorrelationID("")))
	assert.True(t, isUUID(NormalizeCorrelationID("has space")))
	assert.True(t, isUUID(NormalizeCorrelationID(string(make([]byte, 200)))))
	assert.NotEqual(t, GenerateUUID(), GenerateUUID())
}
