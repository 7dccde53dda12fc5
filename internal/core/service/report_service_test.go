package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dynamicreport/report-api/internal/core/domain"
	"github.com/dynamicreport/report-api/internal/core/reportquery"
)

var alice = domain.Identity{AccountID: 42, Username: "alice"}

func TestReportService_GetReports_Paging(t *testing.T) {
	cases := []struct {
		total     int64
		size      int
		wantPages int
	}{
		{45, 20, 3},
		{40, 20, 2},
		{0, 20, 0},
		{1, 1, 1},
	}
	for _, tc := range cases {
		repo := &stubReportRepo{total: tc.total}
		svc := NewReportService(reportquery.NewBuilder(), repo, nopLogger)

		resp, err := svc.GetReports(context.Background(), domain.ReportRequest{
			Paging: &domain.ReportPaging{Page: 1, Size: tc.size},
		}, alice, domain.RoleAdmin)
		if err != nil {
			t.Fatalf("GetReports: %v", err)
		}
		if resp.Paging.TotalPages != tc.wantPages || resp.Paging.TotalRecords != tc.total {
			t.Fatalf("total %d size %d: got %+v", tc.total, tc.size, resp.Paging)
		}
		if resp.Rows == nil {
			t.Fatalf("rows must be an empty slice, not nil")
		}
	}
}

func TestReportService_GetReports_Defaults(t *testing.T) {
	country := "LT"
	repo := &stubReportRepo{total: 1, rows: []domain.ReportRow{{ID: 1, Country: &country}}}
	svc := NewReportService(reportquery.NewBuilder(), repo, nopLogger)

	resp, err := svc.GetReports(context.Background(), domain.ReportRequest{Dimensions: []string{"country"}}, alice, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("GetReports: %v", err)
	}
	if resp.Paging.Page != 1 || resp.Paging.Size != 20 || resp.Paging.TotalPages != 1 {
		t.Fatalf("unexpected paging: %+v", resp.Paging)
	}
	if len(resp.Rows) != 1 || *resp.Rows[0].Country != "LT" {
		t.Fatalf("unexpected rows: %+v", resp.Rows)
	}
}

func TestReportService_GetReports_UserScope(t *testing.T) {
	repo := &stubReportRepo{}
	svc := NewReportService(reportquery.NewBuilder(), repo, nopLogger)

	if _, err := svc.GetReports(context.Background(), domain.ReportRequest{}, alice, domain.RoleUser); err != nil {
		t.Fatalf("GetReports: %v", err)
	}
	if !strings.Contains(repo.countQuery.SQL, "account_id") || !strings.Contains(repo.fetchQuery.SQL, "account_id") {
		t.Fatalf("user queries must be scoped:\n%s\n%s", repo.countQuery.SQL, repo.fetchQuery.SQL)
	}

	repo = &stubReportRepo{}
	svc = NewReportService(reportquery.NewBuilder(), repo, nopLogger)
	if _, err := svc.GetReports(context.Background(), domain.ReportRequest{}, alice, domain.RoleAdmin); err != nil {
		t.Fatalf("GetReports: %v", err)
	}
	if strings.Contains(repo.fetchQuery.SQL, "account_id") {
		t.Fatalf("admin query must not be scoped: %s", repo.fetchQuery.SQL)
	}
}

func TestReportService_GetReports_Errors(t *testing.T) {
	svc := NewReportService(reportquery.NewBuilder(), &stubReportRepo{}, nopLogger)
	_, err := svc.GetReports(context.Background(), domain.ReportRequest{Metrics: []string{"password"}}, alice, domain.RoleAdmin)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	svc = NewReportService(reportquery.NewBuilder(), &stubReportRepo{countErr: errStore}, nopLogger)
	if _, err := svc.GetReports(context.Background(), domain.ReportRequest{}, alice, domain.RoleAdmin); !errors.Is(err, errStore) {
		t.Fatalf("expected count error, got %v", err)
	}

	repo := &stubReportRepo{fetchErr: errStore}
	svc = NewReportService(reportquery.NewBuilder(), repo, nopLogger)
	if _, err := svc.GetReports(context.Background(), domain.ReportRequest{}, alice, domain.RoleAdmin); !errors.Is(err, errStore) {
		t.Fatalf("expected fetch error, got %v", err)
	}
}
