package dto

import (
	"net/http"

	"github.com/erp/pos/internal/domain/shared"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodePersistence is used when the record store rejects a read or write
	ErrCodePersistence = "ERR_PERSISTENCE"
	// ErrCodeUnavailable is used when an optional backend (PDF, storage) is not configured
	ErrCodeUnavailable = "ERR_UNAVAILABLE"
)

// Validation error codes
const (
	ErrCodeValidation  = "ERR_VALIDATION"
	ErrCodeBadRequest  = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Resource error codes
const (
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeInsufficientStock is used when a sale asks for more units than are on hand
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	// ErrCodeOverpayment is used when an installment payment exceeds the balance
	ErrCodeOverpayment = "ERR_OVERPAYMENT"
	// ErrCodeNotInstallmentSale is used when a payment targets a cash invoice
	ErrCodeNotInstallmentSale = "ERR_NOT_INSTALLMENT_SALE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:     http.StatusInternalServerError,
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodePersistence: http.StatusInternalServerError,
	ErrCodeUnavailable: http.StatusServiceUnavailable,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:  http.StatusBadRequest,
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeBusinessRule:       http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock:  http.StatusUnprocessableEntity,
	ErrCodeOverpayment:        http.StatusUnprocessableEntity,
	ErrCodeNotInstallmentSale: http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainCodeMapping lifts domain codes that break a business rule out of the
// generic validation bucket
var domainCodeMapping = map[string]string{
	"INSUFFICIENT_STOCK":   ErrCodeInsufficientStock,
	"OVERPAYMENT":          ErrCodeOverpayment,
	"NOT_INSTALLMENT_SALE": ErrCodeNotInstallmentSale,
	"INVALID_ADVANCE":      ErrCodeBusinessRule,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
}

// kindErrorCode is the fallback code for each error kind
var kindErrorCode = map[shared.ErrorKind]string{
	shared.KindValidation:  ErrCodeValidation,
	shared.KindNotFound:    ErrCodeNotFound,
	shared.KindConflict:    ErrCodeConflict,
	shared.KindPersistence: ErrCodePersistence,
}

// NormalizeErrorCode converts a domain error into the API error code
func NormalizeErrorCode(de *shared.DomainError) string {
	if code, ok := domainCodeMapping[de.Code]; ok {
		return code
	}
	if code, ok := kindErrorCode[de.Kind]; ok {
		return code
	}
	return ErrCodeUnknown
}
