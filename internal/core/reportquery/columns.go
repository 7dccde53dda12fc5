// Package reportquery turns a report request into parameterized SQL for the
// report table and maps result rows back into domain.ReportRow values.
//
// Column names coming from a request are only ever copied into SQL text after
// they matched the allow-list below; every value is a bound argument.
package reportquery

import "strings"

const (
	DefaultTable = "report"

	ColumnID          = "id"
	ColumnAccountID   = "account_id"
	ColumnCampaignID  = "campaign_id"
	ColumnCountry     = "country"
	ColumnPlatform    = "platform"
	ColumnBrowser     = "browser"
	ColumnSpent       = "spent"
	ColumnClicks      = "clicks"
	ColumnImpressions = "impressions"
	ColumnDate        = "date"
)

// knownColumns is the allow-list of projectable and sortable columns.
var knownColumns = map[string]struct{}{
	ColumnID:          {},
	ColumnAccountID:   {},
	ColumnCampaignID:  {},
	ColumnCountry:     {},
	ColumnPlatform:    {},
	ColumnBrowser:     {},
	ColumnSpent:       {},
	ColumnClicks:      {},
	ColumnImpressions: {},
	ColumnDate:        {},
}

// IsKnownColumn reports whether name is a column of the report table.
func IsKnownColumn(name string) bool {
	_, ok := knownColumns[name]
	return ok
}

// quoteIdent double-quotes an identifier. Only allow-listed names reach it,
// the escaping is kept anyway.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
