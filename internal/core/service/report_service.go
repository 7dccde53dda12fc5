package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dynamicreport/report-api/internal/core/domain"
	"github.com/dynamicreport/report-api/internal/core/ports"
	"github.com/dynamicreport/report-api/internal/core/reportquery"
)

type ReportService struct {
	builder *reportquery.Builder
	repo    ports.ReportRepository
	logger  zerolog.Logger
}

func NewReportService(builder *reportquery.Builder, repo ports.ReportRepository, logger zerolog.Logger) *ReportService {
	return &ReportService{builder: builder, repo: repo, logger: logger}
}

// GetReports returns one page of report rows projected onto the requested
// columns. Callers with the user role only ever see their own rows.
func (s *ReportService) GetReports(ctx context.Context, req domain.ReportRequest, identity domain.Identity, role string) (*domain.ReportResponse, error) {
	plan, err := s.builder.Build(req, identity, role)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Count(ctx, plan.Count)
	if err != nil {
		return nil, fmt.Errorf("count reports: %w", err)
	}
	rows, err := s.repo.Fetch(ctx, plan.Data)
	if err != nil {
		return nil, fmt.Errorf("fetch reports: %w", err)
	}
	if rows == nil {
		rows = []domain.ReportRow{}
	}

	s.logger.Debug().
		Int64("account_id", identity.AccountID).
		Str("role", role).
		Int("page", plan.Page).
		Int("size", plan.Size).
		Int64("total", total).
		Int("rows", len(rows)).
		Msg("report served")

	return &domain.ReportResponse{
		Rows:   rows,
		Paging: domain.NewPagingInfo(plan.Page, plan.Size, total),
	}, nil
}
