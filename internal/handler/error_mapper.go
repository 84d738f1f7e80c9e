package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/forgo/shelf/internal/model"
	"github.com/forgo/shelf/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	var validationErr *service.ValidationError

	switch {
	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrBookNotFound):
		return model.NewNotFoundError("Book")

	// ===== Validation Errors → 400 =====
	case errors.Is(err, service.ErrFieldsRequired):
		return model.NewBadRequestError("All fields are required.")
	case errors.As(err, &validationErr):
		return model.NewValidationError(validationErr.Fields)
	case errors.Is(err, service.ErrInvalidYear):
		return model.NewBadRequestError("Year must be a number")
	case errors.Is(err, service.ErrInvalidCopies):
		return model.NewBadRequestError("addCopies must be a positive number")
	case errors.Is(err, service.ErrCategoryRequired):
		return model.NewBadRequestError("category is required")

	// ===== Rule Violations → 400 =====
	case errors.Is(err, service.ErrCopiesRemaining):
		return model.NewRuleViolationError("Cannot delete unless availableCopies is 0.")

	// ===== Store failures reported as client errors → 400 =====
	case errors.Is(err, service.ErrInvalidBookID):
		return model.NewBadRequestError("Invalid book id")
	case errors.Is(err, service.ErrInvalidRequest):
		return model.NewBadRequestError("Invalid request")
	case errors.Is(err, service.ErrUpdateRejected):
		return model.NewBadRequestError(err.Error())

	// ===== Internal Errors → 500 =====
	case errors.Is(err, service.ErrStoreFailure):
		return model.NewInternalError(err.Error())
	}

	return model.NewInternalError("")
}

// writeServiceError logs failures that reached the store and writes the
// mapped problem.
func writeServiceError(w http.ResponseWriter, err error) {
	pd := MapServiceError(err)

	var storeErr *service.StoreError
	if errors.As(err, &storeErr) || pd.Status >= http.StatusInternalServerError {
		slog.Error("book operation failed",
			slog.Int("status", pd.Status),
			slog.String("error", err.Error()),
		)
	}
	WriteError(w, pd)
}
