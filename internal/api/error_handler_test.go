package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/dynamicreport/report-api/internal/api/middleware"
	"github.com/dynamicreport/report-api/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		status     int
		code       string
		message    string
		validation map[string]string
	}{
		{
			name:       "validation",
			err:        domain.NewValidationError(domain.CodeUsernameRequired, "username", "username is required"),
			status:     http.StatusBadRequest,
			code:       "REPORT-10000007",
			message:    "username is required",
			validation: map[string]string{"username": "username is required"},
		},
		{
			name:    "wrapped unauthorized",
			err:     fmt.Errorf("login: %w", domain.ErrInvalidCredentials),
			status:  http.StatusUnauthorized,
			code:    "REPORT-10000002",
			message: "invalid password",
		},
		{
			name:    "forbidden",
			err:     domain.ErrAccountRoleMissing,
			status:  http.StatusForbidden,
			code:    "REPORT-10000009",
			message: "missing account role",
		},
		{
			name:    "throttled",
			err:     domain.ErrLoginThrottled,
			status:  http.StatusTooManyRequests,
			code:    "REPORT-10000005",
			message: "too many failed login attempts",
		},
		{
			name:    "internal domain error",
			err:     domain.ErrInvalidAccountID,
			status:  http.StatusInternalServerError,
			code:    "REPORT-10000003",
			message: "invalid account id",
		},
		{
			name:    "echo error",
			err:     echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"),
			status:  http.StatusMethodNotAllowed,
			code:    "405",
			message: "Method Not Allowed",
		},
		{
			name:    "unexpected error is hidden",
			err:     errors.New("pq: connection reset by peer"),
			status:  http.StatusInternalServerError,
			code:    "500",
			message: "internal server error",
		},
	}

	handler := NewHTTPErrorHandler("report")
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodPost, "/v1/auth/login?x=1", nil), rec)
			c.Response().Header().Set(middleware.HeaderXTraceID, "trace-1")

			handler(tc.err, c)

			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.ErrorCode != tc.code || resp.ErrorMessage != tc.message {
				t.Fatalf("unexpected envelope: %+v", resp)
			}
			if resp.RequestURI != "/v1/auth/login" || resp.TraceID != "trace-1" {
				t.Fatalf("unexpected request info: %+v", resp)
			}
			if len(resp.ValidationErrors) != len(tc.validation) {
				t.Fatalf("expected validation errors %v, got %v", tc.validation, resp.ValidationErrors)
			}
			for k, v := range tc.validation {
				if resp.ValidationErrors[k] != v {
					t.Fatalf("expected %s=%q, got %q", k, v, resp.ValidationErrors[k])
				}
			}
		})
	}
}

func TestHTTPErrorHandler_HeadAndCommitted(t *testing.T) {
	handler := NewHTTPErrorHandler("report")
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodHead, "/v1/reports", nil), rec)
	handler(domain.ErrTokenFormat, c)
	if rec.Code != http.StatusUnauthorized || rec.Body.Len() != 0 {
		t.Fatalf("expected bodyless 401, got %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/reports", nil), rec)
	_ = c.String(http.StatusTeapot, "done")
	handler(domain.ErrTokenFormat, c)
	if rec.Code != http.StatusTeapot || rec.Body.String() != "done" {
		t.Fatalf("committed response must be left alone, got %d %q", rec.Code, rec.Body.String())
	}
}
