package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/erp/pos/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodePersistence, http.StatusInternalServerError},
		{ErrCodeUnavailable, http.StatusServiceUnavailable},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeInvalidJSON, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeInsufficientStock, http.StatusUnprocessableEntity},
		{ErrCodeOverpayment, http.StatusUnprocessableEntity},
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
		name     string
		err      *shared.DomainError
		expected string
	}{
		{"stock", shared.ErrInsufficientStock, ErrCodeInsufficientStock},
		{"overpayment", shared.NewValidationError("OVERPAYMENT", "too much"), ErrCodeOverpayment},
		{"plain validation", shared.ErrInvalidQuantity, ErrCodeValidation},
		{"not found", shared.NewNotFoundError("Product", "P-001"), ErrCodeNotFound},
		{"conflict", shared.NewConflictError("DUPLICATE_CNIC", "dup"), ErrCodeConflict},
		{"persistence", shared.NewPersistenceError("products", assert.AnError), ErrCodePersistence},
		{"unknown kind", &shared.DomainError{Kind: "ODD", Code: "ODD"}, ErrCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.err))
		})
	}
}

func TestNewPageResponse(t *testing.T) {
	page := shared.NewPaginated([]string{"a", "b"}, 5, 1, 2)
	resp := NewPageResponse(page)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":["a","b"],"meta":{"total":5,"page":1,"page_size":2,"total_pages":3}}`, string(raw))
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "phone", Message: "Invalid phone number"},
	})

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 1)
}
