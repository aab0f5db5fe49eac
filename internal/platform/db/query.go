package db

import (
	"fmt"
	"strings"
)

// Query builds parameterized SELECT statements for list endpoints. It keeps
// the WHERE fragments and their positional arguments in step so callers never
// have to count placeholders.
type Query struct {
	from    string
	cols    string
	where   string
	args    []interface{}
	idx     int
	orderBy string
}

// NewQuery creates a Query selecting cols from the given FROM expression
// (which may include joins).
func NewQuery(from, cols string) *Query {
	return &Query{
		from: from,
		cols: cols,
		idx:  1,
	}
}

// Idx returns the next available parameter index.
func (q *Query) Idx() int { return q.idx }

// Args returns the arguments bound so far.
func (q *Query) Args() []interface{} { return q.args }

// Where appends a clause fragment joined with AND. Placeholders in clause must
// start at Idx().
func (q *Query) Where(clause string, args ...interface{}) {
	q.where += " AND " + clause
	q.args = append(q.args, args...)
	q.idx += len(args)
}

// WhereEq appends "column = $n".
func (q *Query) WhereEq(column string, value interface{}) {
	q.Where(fmt.Sprintf("%s = $%d", column, q.idx), value)
}

// Search appends a case-insensitive substring match of term against any of
// the given SQL expressions. The term is bound once and LIKE wildcards in it
// are escaped. An empty term adds nothing.
func (q *Query) Search(term string, exprs ...string) {
	term = strings.TrimSpace(term)
	if term == "" || len(exprs) == 0 {
		return
	}
	placeholder := fmt.Sprintf("$%d", q.idx)
	parts := make([]string, len(exprs))
	for i, expr := range exprs {
		parts[i] = fmt.Sprintf("%s ILIKE %s", expr, placeholder)
	}
	q.Where("("+strings.Join(parts, " OR ")+")", "%"+escapeLike(term)+"%")
}

// OrderBy sets the ORDER BY clause (without the "ORDER BY" keyword).
func (q *Query) OrderBy(orderBy string) {
	q.orderBy = orderBy
}

// SQL returns the full data query without pagination.
func (q *Query) SQL() string {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE 1=1%s", q.cols, q.from, q.where)
	if q.orderBy != "" {
		sql += " ORDER BY " + q.orderBy
	}
	return sql
}

// CountSQL returns the count query SQL.
func (q *Query) CountSQL() string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE 1=1%s", q.from, q.where)
}

// PageSQL returns the data query with LIMIT/OFFSET placeholders appended.
func (q *Query) PageSQL() string {
	return q.SQL() + fmt.Sprintf(" LIMIT $%d OFFSET $%d", q.idx, q.idx+1)
}

// PageArgs returns the arguments for PageSQL (search args + limit + offset).
func (q *Query) PageArgs(limit, offset int) []interface{} {
	result := make([]interface{}, len(q.args)+2)
	copy(result, q.args)
	result[len(q.args)] = limit
	result[len(q.args)+1] = offset
	return result
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
