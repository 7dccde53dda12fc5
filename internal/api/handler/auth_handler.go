package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dynamicreport/report-api/internal/api/metrics"
	"github.com/dynamicreport/report-api/internal/core/domain"
	"github.com/dynamicreport/report-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
	Username    string `json:"username"`
}

// Login issues a token from credentials, or re-validates the token in the
// Authorization header and returns it unchanged.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        Authorization  header    string        false  "Bearer token to re-validate"
// @Param        body           body      loginRequest  false  "Login credentials"
// @Success      200            {object}  loginResponse
// @Failure      400            {object}  map[string]any
// @Failure      401            {object}  map[string]any
// @Failure      429            {object}  map[string]any
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	authorization := c.Request().Header.Get(echo.HeaderAuthorization)
	hasToken := strings.TrimSpace(authorization) != ""

	var creds *domain.Credentials
	if !hasToken {
		var req loginRequest
		if err := c.Bind(&req); err != nil && !errors.Is(err, io.EOF) {
			return domain.NewValidationError(domain.CodeInvalidRequest, "body", "invalid payload")
		}
		creds = &domain.Credentials{Username: req.Username, Password: req.Password}
	}

	method := "password"
	if hasToken {
		method = "token"
	}

	res, err := h.authService.Login(c.Request().Context(), authorization, creds)
	metrics.LoginsTotal.WithLabelValues(method, metrics.Reason(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{AccessToken: res.AccessToken, Username: res.Username})
}
