package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeValidation, http.StatusBadRequest},
		{shared.CodeInvalidInput, http.StatusBadRequest},
		{shared.CodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{shared.CodeForbidden, http.StatusForbidden},
		{shared.CodeNotFound, http.StatusNotFound},
		{shared.CodeAlreadyExists, http.StatusConflict},
		{ErrCodeAlreadyProcessed, http.StatusConflict},
		{shared.CodeSameBranch, http.StatusUnprocessableEntity},
		{shared.CodeInsufficientStock, http.StatusUnprocessableEntity},
		{shared.CodeInvalidState, http.StatusUnprocessableEntity},
		{shared.CodeAlreadyReceived, http.StatusUnprocessableEntity},
		{shared.CodeTransferConflict, http.StatusUnprocessableEntity},
		{shared.CodeWrongBranch, http.StatusUnprocessableEntity},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeInternal, http.StatusInternalServerError},
		{"SOMETHING_NEW", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestErrorResponse_Envelope(t *testing.T) {
	body, err := json.Marshal(NewErrorResponseWithRequestID(shared.CodeNotFound, "Transfer not found", "req-1"))
	require.NoError(t, err)

	assert.JSONEq(t, `{"success":false,"error":{"code":"NOT_FOUND","message":"Transfer not found","request_id":"req-1"}}`, string(body))
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]int{1, 2}, 41, 2, 20)
	require.NotNil(t, resp.Meta)
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.Meta.TotalPages)

	resp = NewSuccessResponseWithMeta(nil, 0, 1, 0)
	assert.Equal(t, 0, resp.Meta.TotalPages)
}
