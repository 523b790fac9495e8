package dto

import (
	"net/http"
	"strings"
)

// Transport-level error codes, used when the request never reaches a
// domain operation.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeRateLimited  = "RATE_LIMIT_EXCEEDED"
	ErrCodeTooLarge     = "REQUEST_TOO_LARGE"
)

// domainCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed here fall back to the prefix rules in StatusForCode.
var domainCodeHTTPStatus = map[string]int{
	// Transport codes map to themselves
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeConflict:     http.StatusConflict,
	ErrCodeRateLimited:  http.StatusTooManyRequests,
	ErrCodeTooLarge:     http.StatusRequestEntityTooLarge,

	// Identity
	"EMAIL_TAKEN":         http.StatusConflict,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"ACCOUNT_DEACTIVATED": http.StatusForbidden,
	"USER_NOT_FOUND":      http.StatusNotFound,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":   http.StatusUnauthorized,
	"TOKEN_ERROR":         http.StatusInternalServerError,
	"PASSWORD_HASH_ERROR": http.StatusInternalServerError,

	// Catalog and enrollment
	"DUPLICATE_CODE":        http.StatusConflict,
	"ALREADY_ENROLLED":      http.StatusConflict,
	"COURSE_NOT_ENROLLABLE": http.StatusUnprocessableEntity,

	// Billing ledger
	"EXCEEDS_OUTSTANDING":   http.StatusUnprocessableEntity,
	"EXCEEDS_SETTLED":       http.StatusUnprocessableEntity,
	"EXCEEDS_PAID":          http.StatusUnprocessableEntity,
	"HAS_SETTLEMENT":        http.StatusUnprocessableEntity,
	"INSTALLMENT_NOT_FOUND": http.StatusNotFound,
	"ENTRY_NOT_FOUND":       http.StatusNotFound,

	// Generic state machine violations
	"INVALID_STATE":        http.StatusUnprocessableEntity,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
}

// StatusForCode returns the HTTP status for a domain error code. Unlisted
// codes are classified by prefix: INVALID_* is treated as bad input,
// ALREADY_*/CANNOT_* as state violations.
func StatusForCode(code string) int {
	if status, ok := domainCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasPrefix(code, "INVALID_"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "ALREADY_"), strings.HasPrefix(code, "CANNOT_"):
		return http.StatusUnprocessableEntity
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
