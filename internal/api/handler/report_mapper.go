package handler

import (
	"time"

	"github.com/dynamicreport/report-api/internal/core/domain"
)

const dateLayout = "2006-01-02"

// toReportRequest converts a validated request body into the domain request.
func toReportRequest(req reportRequest) (domain.ReportRequest, error) {
	out := domain.ReportRequest{
		Dimensions: req.Dimensions,
		Metrics:    req.Metrics,
	}

	if req.Filters != nil {
		from, err := parseDate("filters.dateFrom", req.Filters.DateFrom)
		if err != nil {
			return domain.ReportRequest{}, err
		}
		to, err := parseDate("filters.dateTo", req.Filters.DateTo)
		if err != nil {
			return domain.ReportRequest{}, err
		}
		out.Filters = domain.ReportFilters{DateFrom: from, DateTo: to}
	}
	if req.Sorting != nil {
		out.Sorting = &domain.ReportSorting{
			Field:     req.Sorting.Field,
			Direction: domain.SortDirection(req.Sorting.Direction),
		}
	}
	if req.Paging != nil {
		out.Paging = &domain.ReportPaging{Page: req.Paging.Page, Size: req.Paging.Size}
	}
	return out, nil
}

func parseDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, domain.NewValidationError(domain.CodeInvalidRequest, field, field+" must be a date in "+dateLayout+" format")
	}
	return &t, nil
}

func toReportResponse(resp *domain.ReportResponse) reportResponse {
	rows := make([]reportRowResponse, 0, len(resp.Rows))
	for _, r := range resp.Rows {
		row := reportRowResponse{
			ID:          r.ID,
			AccountID:   r.AccountID,
			CampaignID:  r.CampaignID,
			Country:     r.Country,
			Platform:    r.Platform,
			Browser:     r.Browser,
			Spent:       r.Spent,
			Clicks:      r.Clicks,
			Impressions: r.Impressions,
		}
		if r.Date != nil {
			d := r.Date.Format(dateLayout)
			row.Date = &d
		}
		rows = append(rows, row)
	}
	return reportResponse{
		Data: rows,
		Paging: pagingResponse{
			Page:         resp.Paging.Page,
			Size:         resp.Paging.Size,
			TotalRecords: resp.Paging.TotalRecords,
			TotalPages:   resp.Paging.TotalPages,
		},
	}
}
