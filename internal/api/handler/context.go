package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dynamicreport/report-api/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the Authenticate
// middleware. Its absence means the route was wired without the middleware.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	p, ok := domain.PrincipalFromContext(c.Request().Context())
	if !ok {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return p, nil
}
