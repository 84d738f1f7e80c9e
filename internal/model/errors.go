package model

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorCode represents API error codes
type ErrorCode int

const (
	// Resource errors (3xxx)
	ErrCodeNotFound ErrorCode = 3001

	// Validation errors (4xxx)
	ErrCodeValidation    ErrorCode = 4001
	ErrCodeInvalidInput  ErrorCode = 4002
	ErrCodeRateLimited   ErrorCode = 4003
	ErrCodeRuleViolation ErrorCode = 4004

	// Internal errors (5xxx)
	ErrCodeInternal    ErrorCode = 5001
	ErrCodeDatabase    ErrorCode = 5002
	ErrCodeUnavailable ErrorCode = 5003
)

const problemTypeBase = "https://shelf-api.forgo.software/errors/"

// ProblemDetails represents RFC 9457 Problem Details for HTTP APIs.
// Message repeats the human-readable text so clients that only read
// {"message": ...} keep working.
type ProblemDetails struct {
	Type     string       `json:"type"`
	Title    string       `json:"title"`
	Status   int          `json:"status"`
	Detail   string       `json:"detail,omitempty"`
	Instance string       `json:"instance,omitempty"`
	Errors   []FieldError `json:"errors,omitempty"`
	// Extension fields
	Code    ErrorCode `json:"code,omitempty"`
	Message string    `json:"message"`
}

// FieldError represents a validation error on a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (p *ProblemDetails) Error() string {
	return fmt.Sprintf("[%d] %s: %s", p.Status, p.Title, p.Detail)
}

// WriteJSON writes the problem details as JSON response
func (p *ProblemDetails) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

func newProblem(kind, title string, status int, code ErrorCode, message string) *ProblemDetails {
	return &ProblemDetails{
		Type:    problemTypeBase + kind,
		Title:   title,
		Status:  status,
		Detail:  message,
		Code:    code,
		Message: message,
	}
}

// Common error constructors

// NewNotFoundError reports a missing resource, e.g. "Book not found".
func NewNotFoundError(resource string) *ProblemDetails {
	return newProblem("not-found", "Not Found", http.StatusNotFound, ErrCodeNotFound,
		fmt.Sprintf("%s not found", resource))
}

func NewValidationError(errors []FieldError) *ProblemDetails {
	// Build detailed message from field errors
	detail := "One or more fields failed validation"
	if len(errors) > 0 {
		detail = fmt.Sprintf("%s: %s", errors[0].Field, errors[0].Message)
		if len(errors) > 1 {
			detail = fmt.Sprintf("%s (and %d more errors)", detail, len(errors)-1)
		}
	}
	p := newProblem("validation", "Validation Error", http.StatusBadRequest, ErrCodeValidation, detail)
	p.Errors = errors
	return p
}

func NewBadRequestError(detail string) *ProblemDetails {
	return newProblem("bad-request", "Bad Request", http.StatusBadRequest, ErrCodeInvalidInput, detail)
}

// NewRuleViolationError reports a request that is well formed but refused by a
// catalog rule, such as deleting a book that still has copies.
func NewRuleViolationError(detail string) *ProblemDetails {
	return newProblem("rule-violation", "Bad Request", http.StatusBadRequest, ErrCodeRuleViolation, detail)
}

func NewInternalError(detail string) *ProblemDetails {
	if detail == "" {
		detail = "An unexpected error occurred"
	}
	return newProblem("internal", "Internal Server Error", http.StatusInternalServerError, ErrCodeInternal, detail)
}

func NewUnavailableError(detail string) *ProblemDetails {
	return newProblem("unavailable", "Service Unavailable", http.StatusServiceUnavailable, ErrCodeUnavailable, detail)
}

func NewMethodNotAllowedError(allowed string) *ProblemDetails {
	return newProblem("method-not-allowed", "Method Not Allowed", http.StatusMethodNotAllowed, ErrCodeInvalidInput,
		fmt.Sprintf("Only %s method is allowed", allowed))
}

func NewRateLimitError(retryAfter int) *ProblemDetails {
	return newProblem("rate-limited", "Too Many Requests", http.StatusTooManyRequests, ErrCodeRateLimited,
		fmt.Sprintf("Rate limit exceeded. Retry after %d seconds", retryAfter))
}
