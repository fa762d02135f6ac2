package http

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "resume-builder/internal/errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ApiError is the JSON body of every failed request.
type ApiError struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func NewApiError(code int, detail string) *ApiError {
	return &ApiError{
		Code:    code,
		Message: http.StatusText(code),
		Detail:  detail,
	}
}

func (e *ApiError) WithRequestID(requestID string) *ApiError {
	e.RequestID = requestID
	return e
}

func (e *ApiError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

var statusByType = map[apperrors.ErrorType]int{
	apperrors.ErrTypeNotFound:     fiber.StatusNotFound,
	apperrors.ErrTypeInvalidInput: fiber.StatusBadRequest,
	apperrors.ErrTypeUnauthorized: fiber.StatusUnauthorized,
	apperrors.ErrTypeUnavailable:  fiber.StatusServiceUnavailable,
	apperrors.ErrTypeExportFailed: fiber.StatusBadGateway,
	apperrors.ErrTypeInternal:     fiber.StatusInternalServerError,
}

// toApiError maps an error returned by a handler to its response body.
// Internal causes are never echoed to the client.
func toApiError(err error) *ApiError {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return NewApiError(fe.Code, fe.Message)
	}

	var de *apperrors.DomainError
	if !errors.As(err, &de) {
		return NewApiError(fiber.StatusInternalServerError, "unexpected server error")
	}
	code, ok := statusByType[de.Type]
	if !ok {
		code = fiber.StatusInternalServerError
	}
	if code == fiber.StatusInternalServerError {
		return NewApiError(code, "unexpected server error")
	}
	return NewApiError(code, de.Message)
}

// ErrorHandler renders errors as ApiError JSON and logs server-side failures.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		apiErr := toApiError(err).WithRequestID(requestID(c))
		if apiErr.Code >= fiber.StatusInternalServerError {
			fields := []zap.Field{
				zap.String("request_id", apiErr.RequestID),
				zap.String("path", c.Path()),
				zap.Error(err),
			}
			var de *apperrors.DomainError
			if errors.As(err, &de) && len(de.Stack) > 0 {
				fields = append(fields, zap.ByteString("stack", de.Stack))
			}
			logger.Error("request failed", fields...)
		}
		return c.Status(apiErr.Code).JSON(apiErr)
	}
}
