package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spec-kit/glpi-gateway/internal/domain"
	"github.com/spec-kit/glpi-gateway/internal/glpi"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError. The pipeline's error
// kinds stay structurally distinguishable: unknown enum labels map to a client
// error, upstream HTTP failures keep the remote status and payload, and
// transport failures keep the underlying message.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var unknownLabel *domain.UnknownLabelError
	if errors.As(err, &unknownLabel) {
		return &DomainError{
			Code:       "VALIDATION_FAILED",
			Message:    unknownLabel.Error(),
			HTTPStatus: http.StatusBadRequest,
			Details:    map[string]any{"field": unknownLabel.Field, "label": unknownLabel.Label},
			Err:        err,
		}
	}

	var apiErr *glpi.APIError
	if errors.As(err, &apiErr) {
		code := "UPSTREAM_ERROR"
		if apiErr.Op == "initSession" {
			code = "UPSTREAM_AUTH_FAILED"
		}
		details := map[string]any{"upstream_status": apiErr.StatusCode}
		if len(apiErr.Body) > 0 {
			details["upstream_body"] = apiErr.Body
		}
		return &DomainError{
			Code:       code,
			Message:    apiErr.Error(),
			HTTPStatus: http.StatusBadGateway,
			Details:    details,
			Err:        err,
		}
	}

	var transportErr *glpi.TransportError
	if errors.As(err, &transportErr) {
		return &DomainError{
			Code:       "UPSTREAM_UNREACHABLE",
			Message:    transportErr.Error(),
			HTTPStatus: http.StatusBadGateway,
			Err:        err,
		}
	}

	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
