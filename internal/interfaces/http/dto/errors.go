package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is returned when request binding or validation fails
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeBodyTooLarge = "ERR_BODY_TOO_LARGE"
)

// Authentication error codes
const (
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeTokenExpired       = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "ERR_TOKEN_INVALID"
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeAccountInactive    = "ERR_ACCOUNT_INACTIVE"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeHasDependencies     = "ERR_HAS_DEPENDENCIES"
	// ErrCodeRequestInProgress is returned while a request with the same idempotency key runs
	ErrCodeRequestInProgress = "ERR_REQUEST_IN_PROGRESS"
)

// Business rule error codes
const (
	ErrCodeInvalidState         = "ERR_INVALID_STATE"
	ErrCodeBusinessRule         = "ERR_BUSINESS_RULE"
	ErrCodeInsufficientStock    = "ERR_INSUFFICIENT_STOCK"
	ErrCodeCreditLimitExceeded  = "ERR_CREDIT_LIMIT_EXCEEDED"
	ErrCodeBusinessLineInactive = "ERR_BUSINESS_LINE_INACTIVE"
	ErrCodeBusinessLineRequired = "ERR_BUSINESS_LINE_REQUIRED"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeBodyTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeAccountInactive:    http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeHasDependencies:     http.StatusConflict,
	ErrCodeRequestInProgress:   http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:         http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:         http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock:    http.StatusUnprocessableEntity,
	ErrCodeCreditLimitExceeded:  http.StatusUnprocessableEntity,
	ErrCodeBusinessLineInactive: http.StatusForbidden,
	ErrCodeBusinessLineRequired: http.StatusBadRequest,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Codes outside the catalogue follow their shape: ERR_INVALID_* is a 400,
// ERR_*_ERROR is a 500 and anything else is a business rule violation (422).
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case code == "" || strings.HasSuffix(code, "_ERROR"):
		return http.StatusInternalServerError
	case strings.HasPrefix(code, "ERR_INVALID_"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "ERR_"):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// DomainErrorCodeMapping maps domain error codes to catalogue codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":              ErrCodeNotFound,
	"ALREADY_EXISTS":         ErrCodeAlreadyExists,
	"INVALID_INPUT":          ErrCodeInvalidInput,
	"INVALID_STATE":          ErrCodeInvalidState,
	"INVALID_TRANSITION":     ErrCodeInvalidState,
	"INVOICE_HAS_PAYMENTS":   ErrCodeInvalidState,
	"UNAUTHORIZED":           ErrCodeUnauthorized,
	"FORBIDDEN":              ErrCodeForbidden,
	"CONCURRENCY_CONFLICT":   ErrCodeConcurrencyConflict,
	"HAS_DEPENDENCIES":       ErrCodeHasDependencies,
	"INSUFFICIENT_STOCK":     ErrCodeInsufficientStock,
	"CREDIT_LIMIT_EXCEEDED":  ErrCodeCreditLimitExceeded,
	"BUSINESS_LINE_INACTIVE": ErrCodeBusinessLineInactive,
	"INVALID_CREDENTIALS":    ErrCodeInvalidCredentials,
	"ACCOUNT_INACTIVE":       ErrCodeAccountInactive,
	"REQUEST_IN_PROGRESS":    ErrCodeRequestInProgress,
	"TOKEN_ERROR":            ErrCodeInternal,
	"PASSWORD_HASH_ERROR":    ErrCodeInternal,
	"DB_ERROR":               ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the catalogue format.
// Catalogue codes pass through; other domain codes get the ERR_ prefix.
func NormalizeErrorCode(code string) string {
	if mapped, ok := DomainErrorCodeMapping[code]; ok {
		return mapped
	}
	if code == "" {
		return ErrCodeUnknown
	}
	if strings.HasPrefix(code, "ERR_") {
		return code
	}
	return "ERR_" + code
}
