// Package apierror defines the error taxonomy shared by services and handlers.
// Every 4xx/5xx response is rendered from an *Error so that clients always see
// the same envelope ({detail, error_code, type}) and internal details (stack
// traces, SQL errors) never leak.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a typed application error. Services return these; the handler
// layer maps them to HTTP responses.
type Error struct {
	Status int    `json:"-"`
	Code   string `json:"error_code"`
	Kind   string `json:"type"`
	Detail string `json:"detail"`
}

func (e *Error) Error() string { return e.Detail }

// PermissionDenied — the caller's role is not allowed to perform the operation.
func PermissionDenied(detail string) *Error {
	if detail == "" {
		detail = "You are not allowed to perform this operation"
	}
	return &Error{Status: http.StatusForbidden, Code: "PERMISSION_DENIED", Kind: "PermissionDenied", Detail: detail}
}

// NotFound — a referenced resource (table, invoice, customer…) does not exist.
func NotFound(resource string, id any) *Error {
	return &Error{
		Status: http.StatusNotFound,
		Code:   "RESOURCE_NOT_FOUND",
		Kind:   "ResourceNotFound",
		Detail: fmt.Sprintf("%s not found: %v", resource, id),
	}
}

// ClosedDay — a mutating operation was attempted while no day is open.
// Separate from BusinessRule because day gating is the most critical rule.
func ClosedDay(operation string) *Error {
	return &Error{
		Status: http.StatusUnprocessableEntity,
		Code:   "CLOSED_DAY_VIOLATION",
		Kind:   "ClosedDayViolation",
		Detail: fmt.Sprintf("the day is closed, %q is not possible", operation),
	}
}

// BusinessRule — any invariant violation surfaced from the ledger or
// lifecycle managers (occupied table, amount mismatch, overpayment…).
func BusinessRule(detail string) *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Code: "BUSINESS_RULE_VIOLATION", Kind: "BusinessRuleViolation", Detail: detail}
}

// Validation — malformed or missing input.
func Validation(detail string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "VALIDATION_ERROR", Kind: "ValidationError", Detail: detail}
}

// Database — unexpected persistence failure. The detail shown to clients is
// always generic; the real error is logged at the boundary.
func Database() *Error {
	return &Error{Status: http.StatusInternalServerError, Code: "DATABASE_ERROR", Kind: "DatabaseError", Detail: "A database error occurred while processing the request"}
}

// Unauthorized — missing or invalid credentials at the HTTP boundary.
func Unauthorized(detail string) *Error {
	if detail == "" {
		detail = "Authentication required"
	}
	return &Error{Status: http.StatusUnauthorized, Code: "AUTHENTICATION_REQUIRED", Kind: "AuthenticationError", Detail: detail}
}

// TooManyRequests — rate limit exceeded.
func TooManyRequests(detail string) *Error {
	return &Error{Status: http.StatusTooManyRequests, Code: "RATE_LIMITED", Kind: "RateLimitError", Detail: detail}
}

// As unwraps err into an *Error when possible.
func As(err error) (*Error, bool) {
	var apiErr *Error
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}
