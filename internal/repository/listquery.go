package repository

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"lms_backend/internal/util"

	"gorm.io/gorm"
)

// FieldSchema is the allow-list for one entity: query-string field name to
// database column. Filter, sort and field-selection parameters are rejected
// unless the field appears here.
type FieldSchema map[string]string

var comparisonOps = map[string]string{
	"":    "=",
	"gte": ">=",
	"gt":  ">",
	"lte": "<=",
	"lt":  "<",
}

type filterClause struct {
	Column string
	SQLOp  string
	Value  string
}

type sortClause struct {
	Column string
	Desc   bool
}

// ListQuery carries parsed filter/sort/pagination/field-selection for a
// list endpoint.
type ListQuery struct {
	filters []filterClause
	sorts   []sortClause
	selects []string
	Page    int
	Limit   int
}

// ParseListQuery validates raw query values against the schema. Keys may be
// plain (`category=go`) or carry a comparison operator
// (`createdAt[gte]=2026-01-01`). Unknown fields or operators yield a
// validation error.
func ParseListQuery(values url.Values, schema FieldSchema) (*ListQuery, error) {
	q := &ListQuery{Page: 1, Limit: 10}

	for key, vals := range values {
		switch key {
		case "page":
			if n, err := strconv.Atoi(vals[0]); err == nil && n > 0 {
				q.Page = n
			}
		case "limit":
			if n, err := strconv.Atoi(vals[0]); err == nil && n > 0 {
				q.Limit = n
			}
		case "sort":
			for _, field := range strings.Split(vals[0], ",") {
				desc := strings.HasPrefix(field, "-")
				name := strings.TrimPrefix(field, "-")
				col, ok := schema[name]
				if !ok {
					return nil, util.NewValidationError(fmt.Sprintf("cannot sort by unknown field %q", name))
				}
				q.sorts = append(q.sorts, sortClause{Column: col, Desc: desc})
			}
		case "fields":
			for _, name := range strings.Split(vals[0], ",") {
				col, ok := schema[name]
				if !ok {
					return nil, util.NewValidationError(fmt.Sprintf("cannot select unknown field %q", name))
				}
				q.selects = append(q.selects, col)
			}
		default:
			name, op := splitFilterKey(key)
			col, ok := schema[name]
			if !ok {
				return nil, util.NewValidationError(fmt.Sprintf("unknown filter field %q", name))
			}
			sqlOp, ok := comparisonOps[op]
			if !ok {
				return nil, util.NewValidationError(fmt.Sprintf("unknown filter operator %q", op))
			}
			q.filters = append(q.filters, filterClause{Column: col, SQLOp: sqlOp, Value: vals[0]})
		}
	}

	return q, nil
}

// splitFilterKey splits "createdAt[gte]" into ("createdAt", "gte"); a plain
// key has an empty operator.
func splitFilterKey(key string) (string, string) {
	open := strings.IndexByte(key, '[')
	if open < 0 || !strings.HasSuffix(key, "]") {
		return key, ""
	}
	return key[:open], key[open+1 : len(key)-1]
}

// Apply attaches the parsed clauses to a gorm query.
func (q *ListQuery) Apply(db *gorm.DB) *gorm.DB {
	for _, f := range q.filters {
		db = db.Where(fmt.Sprintf("%s %s ?", f.Column, f.SQLOp), f.Value)
	}

	if len(q.sorts) == 0 {
		db = db.Order("created_at DESC")
	}
	for _, s := range q.sorts {
		if s.Desc {
			db = db.Order(s.Column + " DESC")
		} else {
			db = db.Order(s.Column + " ASC")
		}
	}

	if len(q.selects) > 0 {
		db = db.Select(q.selects)
	}

	return db.Offset((q.Page - 1) * q.Limit).Limit(q.Limit)
}
