package reportquery

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dynamicreport/report-api/internal/core/domain"
)

// ErrMissingID is returned by MapRow when the row has no readable id.
var ErrMissingID = errors.New("reportquery: row has no id column")

var errNull = errors.New("null value")

// columnReaders maps every optional column to the field it fills. A reader
// only assigns the field after the conversion succeeded.
var columnReaders = map[string]func(*domain.ReportRow, any) error{
	ColumnAccountID: func(r *domain.ReportRow, v any) error {
		return setInt64(&r.AccountID, v)
	},
	ColumnCampaignID: func(r *domain.ReportRow, v any) error {
		return setInt64(&r.CampaignID, v)
	},
	ColumnCountry: func(r *domain.ReportRow, v any) error {
		return setString(&r.Country, v)
	},
	ColumnPlatform: func(r *domain.ReportRow, v any) error {
		return setString(&r.Platform, v)
	},
	ColumnBrowser: func(r *domain.ReportRow, v any) error {
		return setString(&r.Browser, v)
	},
	ColumnSpent: func(r *domain.ReportRow, v any) error {
		f, err := asFloat64(v)
		if err != nil {
			return err
		}
		r.Spent = &f
		return nil
	},
	ColumnClicks: func(r *domain.ReportRow, v any) error {
		return setInt64(&r.Clicks, v)
	},
	ColumnImpressions: func(r *domain.ReportRow, v any) error {
		return setInt64(&r.Impressions, v)
	},
	ColumnDate: func(r *domain.ReportRow, v any) error {
		t, err := asTime(v)
		if err != nil {
			return err
		}
		r.Date = &t
		return nil
	},
}

// MapRow converts one scanned row into a ReportRow. columns and values are
// parallel slices as produced by sql.Rows.Columns and a Scan into []any.
//
// The id column is mandatory. Any other column that is missing, NULL or of an
// unexpected type leaves its field nil without failing the row.
func MapRow(columns []string, values []any) (domain.ReportRow, error) {
	var row domain.ReportRow
	if len(columns) != len(values) {
		return row, fmt.Errorf("reportquery: %d columns but %d values", len(columns), len(values))
	}

	hasID := false
	for i, col := range columns {
		name := strings.ToLower(col)
		if name == ColumnID {
			id, err := asInt64(values[i])
			if err != nil {
				return row, fmt.Errorf("%w: %v", ErrMissingID, err)
			}
			row.ID = id
			hasID = true
			continue
		}
		if read, ok := columnReaders[name]; ok {
			_ = read(&row, values[i])
		}
	}
	if !hasID {
		return row, ErrMissingID
	}
	return row, nil
}

func setInt64(dst **int64, v any) error {
	n, err := asInt64(v)
	if err != nil {
		return err
	}
	*dst = &n
	return nil
}

func setString(dst **string, v any) error {
	s, err := asString(v)
	if err != nil {
		return err
	}
	*dst = &s
	return nil
}

func asInt64(v any) (int64, error) {
	switch x := v.(type) {
	case nil:
		return 0, errNull
	case int64:
		return x, nil
	case int32:
		return int64(x), nil
	case int:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return 0, fmt.Errorf("value %d overflows int64", x)
		}
		return int64(x), nil
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("value %v is not integral", x)
		}
		return int64(x), nil
	case []byte:
		return strconv.ParseInt(string(x), 10, 64)
	case string:
		return strconv.ParseInt(x, 10, 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

func asFloat64(v any) (float64, error) {
	switch x := v.(type) {
	case nil:
		return 0, errNull
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case []byte:
		return strconv.ParseFloat(string(x), 64)
	case string:
		return strconv.ParseFloat(x, 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

func asString(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", errNull
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	default:
		return "", fmt.Errorf("unsupported type %T", v)
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	dateLayout,
}

func asTime(v any) (time.Time, error) {
	var s string
	switch x := v.(type) {
	case nil:
		return time.Time{}, errNull
	case time.Time:
		return x, nil
	case string:
		s = x
	case []byte:
		s = string(x)
	default:
		return time.Time{}, fmt.Errorf("unsupported type %T", v)
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}
