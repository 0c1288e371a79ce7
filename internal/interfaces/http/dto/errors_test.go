package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeValidationFormat, http.StatusBadRequest},
		{ErrCodeValidationRange, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeFetchFailed, http.StatusBadGateway},
		{ErrCodeUnavailable, http.StatusServiceUnavailable},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"INVALID_INPUT", ErrCodeValidation},
		{"INVALID_RANGE", ErrCodeValidationRange},
		{"FETCH_FAILED", ErrCodeFetchFailed},
		{"NOT_FOUND", ErrCodeNotFound},
		{"INTERNAL_ERROR", ErrCodeInternal},
		{ErrCodeValidationFormat, ErrCodeValidationFormat},
		{"SOMETHING_ELSE", "SOMETHING_ELSE"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	t.Run("fetch failures are retryable", func(t *testing.T) {
		resp := NewErrorResponseWithRequestID(ErrCodeFetchFailed, "store down", "req-1")

		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "req-1", resp.Error.RequestID)
		assert.True(t, resp.Error.Retryable)
	})

	t.Run("validation errors are not retryable", func(t *testing.T) {
		resp := NewErrorResponse(ErrCodeValidation, "bad range")

		require.NotNil(t, resp.Error)
		assert.False(t, resp.Error.Retryable)

		raw, err := json.Marshal(resp)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "retryable")
		assert.NotContains(t, string(raw), "request_id")
	})
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta(map[string]int{"total": 0}, Meta{Empty: true})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"total":0},"meta":{"empty":true,"duration_ms":0}}`, string(raw))
}
