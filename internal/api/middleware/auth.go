package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/dynamicreport/report-api/internal/api/metrics"
	"github.com/dynamicreport/report-api/internal/core/domain"
	"github.com/dynamicreport/report-api/internal/core/ports"
	"github.com/dynamicreport/report-api/internal/core/service"
)

// Authenticate decodes the bearer token, resolves the caller's current role
// and stores the resulting domain.Principal in the request context.
// Failures are returned as domain errors for the HTTP error handler.
func Authenticate(codec ports.TokenCodec, roles ports.RoleResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, err := authenticate(c, codec, roles)
			if err != nil {
				metrics.AuthRejectionsTotal.WithLabelValues(metrics.Reason(err)).Inc()
				return err
			}

			req := c.Request()
			c.SetRequest(req.WithContext(domain.ContextWithPrincipal(req.Context(), principal)))
			return next(c)
		}
	}
}

func authenticate(c echo.Context, codec ports.TokenCodec, roles ports.RoleResolver) (domain.Principal, error) {
	token, err := service.ExtractBearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	if err != nil {
		return domain.Principal{}, err
	}
	identity, err := codec.Decode(token)
	if err != nil {
		return domain.Principal{}, err
	}
	role, err := roles.Resolve(c.Request().Context(), identity)
	if err != nil {
		return domain.Principal{}, err
	}
	return domain.Principal{Identity: identity, Role: role}, nil
}
