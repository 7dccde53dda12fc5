package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dynamicreport/report-api/internal/api/middleware"
	"github.com/dynamicreport/report-api/internal/core/domain"
	"github.com/dynamicreport/report-api/pkg/logger"
)

// errorResponse is the canonical error envelope for all API errors.
// ErrorCode is "<APP>-<code>" for domain errors and the HTTP status otherwise.
type errorResponse struct {
	ErrorCode        string            `json:"errorCode"`
	ErrorMessage     string            `json:"errorMessage"`
	RequestURI       string            `json:"requestURI"`
	TraceID          string            `json:"traceId,omitempty"`
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to HTTP status codes by severity.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope.
func NewHTTPErrorHandler(appName string) echo.HTTPErrorHandler {
	prefix := strings.ToUpper(appName)
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, prefix, c)
		resp.RequestURI = c.Request().URL.Path
		resp.TraceID = c.Response().Header().Get(middleware.HeaderXTraceID)

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, prefix string, c echo.Context) (int, errorResponse) {
	log := logger.FromContext(c.Request().Context())

	var derr *domain.Error
	if errors.As(err, &derr) {
		status := statusFor(derr.Severity)
		resp := errorResponse{
			ErrorCode:    fmt.Sprintf("%s-%d", prefix, derr.Code),
			ErrorMessage: derr.Message,
		}
		if derr.Field != "" {
			resp.ValidationErrors = map[string]string{derr.Field: derr.Message}
		}
		ev := log.Info()
		if status >= http.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Err(err).Int("code", derr.Code).Str("path", c.Path()).Msg("request failed")
		return status, resp
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{
			ErrorCode:    strconv.Itoa(he.Code),
			ErrorMessage: fmt.Sprintf("%v", he.Message),
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{
		ErrorCode:    strconv.Itoa(http.StatusInternalServerError),
		ErrorMessage: "internal server error",
	}
}

func statusFor(s domain.Severity) int {
	switch s {
	case domain.SeverityInvalidRequest:
		return http.StatusBadRequest
	case domain.SeverityUnauthorized:
		return http.StatusUnauthorized
	case domain.SeverityForbidden:
		return http.StatusForbidden
	case domain.SeverityThrottled:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
