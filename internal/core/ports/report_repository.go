package ports

import (
	"context"

	"github.com/dynamicreport/report-api/internal/core/domain"
	"github.com/dynamicreport/report-api/internal/core/reportquery"
)

// ReportRepository executes queries produced by reportquery.Builder.
type ReportRepository interface {
	// Count runs a COUNT(*) query and returns the single scalar.
	Count(ctx context.Context, q reportquery.Query) (int64, error)
	// Fetch runs a data query and maps every row with reportquery.MapRow.
	Fetch(ctx context.Context, q reportquery.Query) ([]domain.ReportRow, error)
}

// ReportService answers report requests for an authenticated caller.
type ReportService interface {
	GetReports(ctx context.Context, req domain.ReportRequest, identity domain.Identity, role string) (*domain.ReportResponse, error)
}
