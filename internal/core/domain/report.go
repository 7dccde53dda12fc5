package domain

import "time"

const (
	DefaultPage     = 1
	DefaultPageSize = 20
)

// SortDirection is the ORDER BY direction of a report query.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// ReportFilters holds the optional inclusive date range.
type ReportFilters struct {
	DateFrom *time.Time
	DateTo   *time.Time
}

// ReportSorting orders the result by a single column.
type ReportSorting struct {
	Field     string
	Direction SortDirection
}

// ReportPaging selects a 1-based page of Size rows.
type ReportPaging struct {
	Page int
	Size int
}

// ReportRequest describes which columns to project and how to filter, sort
// and page the report rows.
type ReportRequest struct {
	Dimensions []string
	Metrics    []string
	Filters    ReportFilters
	Sorting    *ReportSorting
	Paging     *ReportPaging
}

// PageAndSize returns the requested page and size with defaults applied.
func (r ReportRequest) PageAndSize() (int, int) {
	if r.Paging == nil {
		return DefaultPage, DefaultPageSize
	}
	return r.Paging.Page, r.Paging.Size
}

// ReportRow is one row of the report table. Only ID is guaranteed; the other
// fields are nil when the column was not projected or could not be read.
type ReportRow struct {
	ID          int64
	AccountID   *int64
	CampaignID  *int64
	Country     *string
	Platform    *string
	Browser     *string
	Spent       *float64
	Clicks      *int64
	Impressions *int64
	Date        *time.Time
}

// PagingInfo describes the window returned in a ReportResponse.
type PagingInfo struct {
	Page         int
	Size         int
	TotalRecords int64
	TotalPages   int
}

// NewPagingInfo computes TotalPages = ceil(totalRecords/size). size must be > 0.
func NewPagingInfo(page, size int, totalRecords int64) PagingInfo {
	pages := totalRecords / int64(size)
	if totalRecords%int64(size) != 0 {
		pages++
	}
	return PagingInfo{
		Page:         page,
		Size:         size,
		TotalRecords: totalRecords,
		TotalPages:   int(pages),
	}
}

// ReportResponse is a page of report rows plus its paging metadata.
type ReportResponse struct {
	Rows   []ReportRow
	Paging PagingInfo
}
