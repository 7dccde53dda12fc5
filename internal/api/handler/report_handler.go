package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dynamicreport/report-api/internal/api/metrics"
	"github.com/dynamicreport/report-api/internal/core/domain"
	"github.com/dynamicreport/report-api/internal/core/ports"
)

type ReportHandler struct {
	reportService ports.ReportService
}

func NewReportHandler(reportService ports.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetReports returns one page of report rows for the authenticated caller.
// Callers with the "user" role only see rows of their own account.
//
// @Summary      Query reports
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      reportRequest  true  "Projection, filters, sorting and paging"
// @Success      200   {object}  reportResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Router       /v1/reports [post]
func (h *ReportHandler) GetReports(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var body reportRequest
	if err := c.Bind(&body); err != nil {
		return domain.NewValidationError(domain.CodeInvalidRequest, "body", "invalid payload")
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	req, err := toReportRequest(body)
	if err != nil {
		return err
	}

	scope := metrics.Scope(principal.Role)
	start := time.Now()
	resp, err := h.reportService.GetReports(c.Request().Context(), req, principal.Identity, principal.Role)
	metrics.ReportQueryDuration.WithLabelValues(scope).Observe(time.Since(start).Seconds())
	metrics.ReportQueriesTotal.WithLabelValues(scope, metrics.Reason(err)).Inc()
	if err != nil {
		return err
	}
	metrics.ReportRowsReturned.Observe(float64(len(resp.Rows)))

	return c.JSON(http.StatusOK, toReportResponse(resp))
}
