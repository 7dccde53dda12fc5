package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dynamicreport/report-api/internal/core/domain"
	"github.com/dynamicreport/report-api/internal/core/reportquery"
)

// ReportRepository runs statements produced by reportquery.Builder. The
// builder must be configured with the same placeholder syntax as the driver.
type ReportRepository struct {
	db   *sql.DB
	opts options
}

func NewReportRepository(db *sql.DB, opts ...Option) *ReportRepository {
	return &ReportRepository{db: db, opts: newOptions(opts)}
}

func (r *ReportRepository) Count(ctx context.Context, q reportquery.Query) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.queryTimeout)
	defer cancel()

	var total int64
	if err := r.db.QueryRowContext(ctx, q.SQL, q.Args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count query: %w", err)
	}
	return total, nil
}

func (r *ReportRepository) Fetch(ctx context.Context, q reportquery.Query) ([]domain.ReportRow, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("data query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("data columns: %w", err)
	}

	result := make([]domain.ReportRow, 0)
	values := make([]any, len(columns))
	targets := make([]any, len(columns))
	for i := range values {
		targets[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row, err := reportquery.MapRow(columns, values)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return result, nil
}
