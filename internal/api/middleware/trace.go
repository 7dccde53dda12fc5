package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/dynamicreport/report-api/pkg/logger"
)

// HeaderXTraceID carries the per-request trace id in both directions.
const HeaderXTraceID = "X-Trace-Id"

// TraceID echoes an incoming X-Trace-Id or generates a UUID, sets it on the
// response and attaches a logger carrying trace_id to the request context.
func TraceID(base zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		TargetHeader: HeaderXTraceID,
		Generator:    uuid.NewString,
		RequestIDHandler: func(c echo.Context, traceID string) {
			l := base.With().Str("trace_id", traceID).Logger()
			req := c.Request()
			c.SetRequest(req.WithContext(l.WithContext(req.Context())))
		},
	})
}

// RequestLogger writes one zerolog entry per request.
func RequestLogger() echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			l := logger.FromContext(c.Request().Context())
			ev := l.Info()
			if v.Status >= 500 {
				ev = l.Error().Err(v.Error)
			} else if v.Status >= 400 {
				ev = l.Warn()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
