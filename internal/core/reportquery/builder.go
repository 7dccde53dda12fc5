package reportquery

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dynamicreport/report-api/internal/core/domain"
)

const dateLayout = "2006-01-02"

// Placeholder selects the bind-parameter syntax of the target database.
type Placeholder int

const (
	// Dollar produces $1, $2, ... (PostgreSQL).
	Dollar Placeholder = iota
	// Question produces ? (SQLite, MySQL).
	Question
)

// Query is SQL text plus its positional arguments.
type Query struct {
	SQL  string
	Args []any
}

// Plan holds both statements of a report call and the effective paging.
type Plan struct {
	Data  Query
	Count Query
	Page  int
	Size  int
}

// Offset returns (page-1)*size.
func (p *Plan) Offset() int {
	return (p.Page - 1) * p.Size
}

// Builder assembles report queries. It is immutable and safe for concurrent use.
type Builder struct {
	table       string
	placeholder Placeholder
}

// Option configures a Builder.
type Option func(*Builder)

// WithPlaceholder sets the bind-parameter syntax. Defaults to Dollar.
func WithPlaceholder(p Placeholder) Option {
	return func(b *Builder) { b.placeholder = p }
}

// WithTable overrides the report table name.
func WithTable(name string) Option {
	return func(b *Builder) {
		if name != "" {
			b.table = name
		}
	}
}

// NewBuilder returns a Builder for the report table.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{table: DefaultTable, placeholder: Dollar}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build validates req and returns the count and data statements for it.
// When role is domain.RoleUser, both statements are restricted to rows of
// identity.AccountID.
func (b *Builder) Build(req domain.ReportRequest, identity domain.Identity, role string) (*Plan, error) {
	columns, err := projection(req)
	if err != nil {
		return nil, err
	}
	orderBy, err := orderClause(req.Sorting)
	if err != nil {
		return nil, err
	}
	page, size := req.PageAndSize()
	if page < 1 {
		return nil, domain.NewValidationError(domain.CodeInvalidRequest, "paging.page", "page must be at least 1")
	}
	if size < 1 {
		return nil, domain.NewValidationError(domain.CodeInvalidRequest, "paging.size", "size must be greater than 0")
	}
	if page-1 > math.MaxInt/size {
		return nil, domain.NewValidationError(domain.CodeInvalidRequest, "paging.page", "page is out of range")
	}

	args := &argList{placeholder: b.placeholder}
	var conds []string
	if from := req.Filters.DateFrom; from != nil {
		conds = append(conds, quoteIdent(ColumnDate)+" >= "+args.add(from.Format(dateLayout)))
	}
	if to := req.Filters.DateTo; to != nil {
		conds = append(conds, quoteIdent(ColumnDate)+" <= "+args.add(to.Format(dateLayout)))
	}
	if role == domain.RoleUser {
		conds = append(conds, quoteIdent(ColumnAccountID)+" = "+args.add(identity.AccountID))
	}

	var base strings.Builder
	base.WriteString("SELECT ")
	base.WriteString(strings.Join(columns, ", "))
	base.WriteString(" FROM ")
	base.WriteString(quoteIdent(b.table))
	if len(conds) > 0 {
		base.WriteString(" WHERE ")
		base.WriteString(strings.Join(conds, " AND "))
	}

	filterArgs := append([]any(nil), args.values...)
	count := Query{
		SQL:  "SELECT COUNT(*) FROM (" + base.String() + ") AS count_table",
		Args: filterArgs,
	}

	plan := &Plan{Page: page, Size: size}
	data := base.String() + orderBy
	data += " LIMIT " + args.add(size) + " OFFSET " + args.add(plan.Offset())

	plan.Count = count
	plan.Data = Query{SQL: data, Args: args.values}
	return plan, nil
}

// projection returns the quoted select list: id, then dimensions, then
// metrics, without duplicates.
func projection(req domain.ReportRequest) ([]string, error) {
	seen := map[string]struct{}{ColumnID: {}}
	cols := []string{quoteIdent(ColumnID)}

	add := func(field string, names []string) error {
		for _, name := range names {
			if !IsKnownColumn(name) {
				return domain.NewValidationError(domain.CodeInvalidRequest, field,
					fmt.Sprintf("unknown column %q", name))
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			cols = append(cols, quoteIdent(name))
		}
		return nil
	}
	if err := add("dimensions", req.Dimensions); err != nil {
		return nil, err
	}
	if err := add("metrics", req.Metrics); err != nil {
		return nil, err
	}
	return cols, nil
}

// orderClause is empty unless both field and direction are set.
func orderClause(s *domain.ReportSorting) (string, error) {
	if s == nil || s.Field == "" || s.Direction == "" {
		return "", nil
	}
	if !IsKnownColumn(s.Field) {
		return "", domain.NewValidationError(domain.CodeInvalidRequest, "sorting.field",
			fmt.Sprintf("unknown column %q", s.Field))
	}
	dir := domain.SortDirection(strings.ToUpper(string(s.Direction)))
	if dir != domain.SortAsc && dir != domain.SortDesc {
		return "", domain.NewValidationError(domain.CodeInvalidRequest, "sorting.direction",
			"direction must be ASC or DESC")
	}
	return " ORDER BY " + quoteIdent(s.Field) + " " + string(dir), nil
}

type argList struct {
	placeholder Placeholder
	values      []any
}

func (a *argList) add(v any) string {
	a.values = append(a.values, v)
	if a.placeholder == Question {
		return "?"
	}
	return "$" + strconv.Itoa(len(a.values))
}
