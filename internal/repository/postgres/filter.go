package postgres

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/beqaperanidze/prj-customer-notification/internal/model"
)

// filterBuilder folds independently-optional predicates into one query.
// Predicates are ANDed; an absent criterion simply never reaches where().
// Queries are written with `?` placeholders and rebound for postgres at
// build time.
type filterBuilder struct {
	from     string
	selects  string
	joins    []string
	conds    []string
	args     []interface{}
	distinct bool
	orderBy  string
	limit    int
	offset   int
}

func newFilter(selects, from string) *filterBuilder {
	return &filterBuilder{
		selects: selects,
		from:    from,
		limit:   -1,
		offset:  -1,
	}
}

func (f *filterBuilder) where(cond string, args ...interface{}) *filterBuilder {
	f.conds = append(f.conds, cond)
	f.args = append(f.args, args...)
	return f
}

func (f *filterBuilder) join(clause string) *filterBuilder {
	f.joins = append(f.joins, clause)
	return f
}

// markDistinct requests distinct-row semantics; used whenever a
// one-to-many child join could multiply parent rows.
func (f *filterBuilder) markDistinct() *filterBuilder {
	f.distinct = true
	return f
}

func (f *filterBuilder) order(column string, dir model.SortDirection) *filterBuilder {
	f.orderBy = fmt.Sprintf("%s %s", column, dir)
	return f
}

func (f *filterBuilder) page(limit, offset int) *filterBuilder {
	f.limit = limit
	f.offset = offset
	return f
}

func (f *filterBuilder) whereClause() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

func (f *filterBuilder) joinClause() string {
	if len(f.joins) == 0 {
		return ""
	}
	return " " + strings.Join(f.joins, " ")
}

// build renders the row query with its positional args.
func (f *filterBuilder) build() (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if f.distinct {
		sb.WriteString("DISTINCT ")
	}
	sb.WriteString(f.selects)
	sb.WriteString(" FROM ")
	sb.WriteString(f.from)
	sb.WriteString(f.joinClause())
	sb.WriteString(f.whereClause())

	args := make([]interface{}, len(f.args))
	copy(args, f.args)

	if f.orderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(f.orderBy)
	}
	if f.limit >= 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, f.limit)
	}
	if f.offset >= 0 {
		sb.WriteString(" OFFSET ?")
		args = append(args, f.offset)
	}

	return sqlx.Rebind(sqlx.DOLLAR, sb.String()), args
}

// buildCount renders the matching COUNT query over the same predicate
// set. countExpr names what to count, e.g. "DISTINCT c.id".
func (f *filterBuilder) buildCount(countExpr string) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString("SELECT COUNT(")
	sb.WriteString(countExpr)
	sb.WriteString(") FROM ")
	sb.WriteString(f.from)
	sb.WriteString(f.joinClause())
	sb.WriteString(f.whereClause())

	args := make([]interface{}, len(f.args))
	copy(args, f.args)

	return sqlx.Rebind(sqlx.DOLLAR, sb.String()), args
}

// windowConds renders the optional [start, end] bounds against col.
func windowConds(f *filterBuilder, col string, window model.DateRange) {
	if window.Start != nil {
		f.where(col+" >= ?", *window.Start)
	}
	if window.End != nil {
		f.where(col+" <= ?", *window.End)
	}
}

// sortColumn resolves a caller-supplied sort field against a whitelist.
// Dynamic ordering never interpolates raw caller input.
func sortColumn(whitelist map[string]string, field string) (string, bool) {
	col, ok := whitelist[field]
	return col, ok
}
