package service

import (
	"errors"
	"net/http"

	"github.com/stubforce/stubforce/internal/catalog"
	"github.com/stubforce/stubforce/internal/exec"
	"github.com/stubforce/stubforce/pkg/soql"
)

// API error codes, matching the CRM's wire vocabulary.
const (
	CodeInvalidQuery = "INVALID_QUERY"
	CodeInvalidField = "INVALID_FIELD"
	CodeNotFound     = "NOT_FOUND"
	CodeBackendError = "BACKEND_ERROR"
	CodeTimeout      = "QUERY_TIMEOUT"
)

// APIError is one entry of the error array the API returns. Status carries
// the HTTP status the handler should use; it is not serialized.
type APIError struct {
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode"`
	Status    int    `json:"-"`
}

func (e *APIError) Error() string {
	return e.Message
}

// apiError maps a pipeline failure to its wire representation. Every
// pipeline error type has a fixed code and status; anything unrecognized
// is reported as a backend error rather than leaking internals.
func apiError(err error) *APIError {
	var (
		syntaxErr   *soql.SyntaxError
		objectErr   *catalog.ObjectNotFoundError
		fieldErr    *catalog.FieldNotFoundError
		mismatchErr *catalog.TypeMismatchError
		literalErr  *catalog.LiteralError
		timeoutErr  *exec.TimeoutError
		backendErr  *exec.BackendError
	)
	switch {
	case errors.As(err, &syntaxErr):
		return &APIError{Message: syntaxErr.Error(), ErrorCode: CodeInvalidQuery, Status: http.StatusBadRequest}
	case errors.As(err, &objectErr):
		return &APIError{Message: objectErr.Error(), ErrorCode: CodeNotFound, Status: http.StatusNotFound}
	case errors.As(err, &fieldErr):
		return &APIError{Message: fieldErr.Error(), ErrorCode: CodeInvalidField, Status: http.StatusBadRequest}
	case errors.As(err, &mismatchErr):
		return &APIError{Message: mismatchErr.Error(), ErrorCode: CodeInvalidQuery, Status: http.StatusBadRequest}
	case errors.As(err, &literalErr):
		return &APIError{Message: literalErr.Error(), ErrorCode: CodeInvalidQuery, Status: http.StatusBadRequest}
	case errors.As(err, &timeoutErr):
		return &APIError{Message: timeoutErr.Error(), ErrorCode: CodeTimeout, Status: http.StatusInternalServerError}
	case errors.As(err, &backendErr):
		return &APIError{Message: "backend request failed", ErrorCode: CodeBackendError, Status: http.StatusInternalServerError}
	default:
		return &APIError{Message: err.Error(), ErrorCode: CodeBackendError, Status: http.StatusInternalServerError}
	}
}
