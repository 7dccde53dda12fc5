package handler

// reportRequest is the JSON body of POST /v1/reports.
type reportRequest struct {
	Dimensions []string       `json:"dimensions" validate:"omitempty,dive,required"`
	Metrics    []string       `json:"metrics"    validate:"omitempty,dive,required"`
	Filters    *reportFilters `json:"filters"`
	Sorting    *reportSorting `json:"sorting"`
	Paging     *reportPaging  `json:"paging"`
}

// reportFilters bounds the "date" column inclusively; dates are YYYY-MM-DD.
type reportFilters struct {
	DateFrom string `json:"dateFrom" validate:"omitempty,datetime=2006-01-02"`
	DateTo   string `json:"dateTo"   validate:"omitempty,datetime=2006-01-02"`
}

type reportSorting struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

type reportPaging struct {
	Page int `json:"page" validate:"min=1"`
	Size int `json:"size" validate:"min=1"`
}

type reportResponse struct {
	Data   []reportRowResponse `json:"data"`
	Paging pagingResponse      `json:"paging"`
}

// reportRowResponse omits every column that was not projected.
type reportRowResponse struct {
	ID          int64    `json:"id"`
	AccountID   *int64   `json:"accountId,omitempty"`
	CampaignID  *int64   `json:"campaignId,omitempty"`
	Country     *string  `json:"country,omitempty"`
	Platform    *string  `json:"platform,omitempty"`
	Browser     *string  `json:"browser,omitempty"`
	Spent       *float64 `json:"spent,omitempty"`
	Clicks      *int64   `json:"clicks,omitempty"`
	Impressions *int64   `json:"impressions,omitempty"`
	Date        *string  `json:"date,omitempty"`
}

type pagingResponse struct {
	Page         int   `json:"page"`
	Size         int   `json:"size"`
	TotalRecords int64 `json:"totalRecords"`
	TotalPages   int   `json:"totalPages"`
}
