package repository

import (
	"net/url"
	"testing"

	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = FieldSchema{
	"title":     "title",
	"category":  "category",
	"createdAt": "created_at",
}

func TestParseListQueryDefaults(t *testing.T) {
	q, err := ParseListQuery(url.Values{}, testSchema)
	require.NoError(t, err)

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.Limit)
	assert.Empty(t, q.filters)
	assert.Empty(t, q.sorts)
}

func TestParseListQueryFilters(t *testing.T) {
	q, err := ParseListQuery(url.Values{
		"category":         {"go"},
		"createdAt[gte]":   {"2026-01-01"},
		"page":             {"3"},
		"limit":            {"25"},
	}, testSchema)
	require.NoError(t, err)

	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 25, q.Limit)
	require.Len(t, q.filters, 2)
	for _, f := range q.filters {
		switch f.Column {
		case "category":
			assert.Equal(t, "=", f.SQLOp)
			assert.Equal(t, "go", f.Value)
		case "created_at":
			assert.Equal(t, ">=", f.SQLOp)
			assert.Equal(t, "2026-01-01", f.Value)
		default:
			t.Fatalf("unexpected filter column %q", f.Column)
		}
	}
}

func TestParseListQuerySort(t *testing.T) {
	q, err := ParseListQuery(url.Values{"sort": {"-createdAt,title"}}, testSchema)
	require.NoError(t, err)

	require.Len(t, q.sorts, 2)
	assert.Equal(t, "created_at", q.sorts[0].Column)
	assert.True(t, q.sorts[0].Desc)
	assert.Equal(t, "title", q.sorts[1].Column)
	assert.False(t, q.sorts[1].Desc)
}

func TestParseListQueryFieldSelection(t *testing.T) {
	q, err := ParseListQuery(url.Values{"fields": {"title,category"}}, testSchema)
	require.NoError(t, err)

	assert.Equal(t, []string{"title", "category"}, q.selects)
}

func TestParseListQueryRejectsUnknownField(t *testing.T) {
	cases := map[string]url.Values{
		"filter": {"password": {"x"}},
		"sort":   {"sort": {"password"}},
		"select": {"fields": {"title,password"}},
	}

	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseListQuery(values, testSchema)
			require.Error(t, err)
			assert.True(t, util.IsValidationError(err))
		})
	}
}

func TestParseListQueryRejectsUnknownOperator(t *testing.T) {
	_, err := ParseListQuery(url.Values{"createdAt[like]": {"x"}}, testSchema)
	require.Error(t, err)
	assert.True(t, util.IsValidationError(err))
}

func TestParseListQueryIgnoresBadPagination(t *testing.T) {
	q, err := ParseListQuery(url.Values{"page": {"-2"}, "limit": {"abc"}}, testSchema)
	require.NoError(t, err)

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.Limit)
}

func TestSplitFilterKey(t *testing.T) {
	name, op := splitFilterKey("createdAt[gte]")
	assert.Equal(t, "createdAt", name)
	assert.Equal(t, "gte", op)

	name, op = splitFilterKey("category")
	assert.Equal(t, "category", name)
	assert.Equal(t, "", op)

	name, op = splitFilterKey("broken[")
	assert.Equal(t, "broken[", name)
	assert.Equal(t, "", op)
}
