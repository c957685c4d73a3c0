package parse

import (
	"github.com/gopherdb/simpledb/query"
	"github.com/gopherdb/simpledb/query/functions"
)

// OrderByItem names a single field in an ORDER BY clause and its direction.
type OrderByItem struct {
	field      string
	descending bool
}

func (o OrderByItem) Field() string {
	return o.field
}

func (o OrderByItem) Descending() bool {
	return o.descending
}

// QueryData holds the parsed representation of a SELECT statement:
// the projected fields, the source tables, the WHERE predicate, and
// the optional GROUP BY / HAVING / ORDER BY clauses.
type QueryData struct {
	fields     []string
	tables     []string
	predicate  *query.Predicate
	groupBy    []string
	having     *query.Predicate
	orderBy    []OrderByItem
	aggregates []functions.AggregationFunction
}

func NewQueryData(fields, tables []string, predicate *query.Predicate) *QueryData {
	return &QueryData{
		fields:    fields,
		tables:    tables,
		predicate: predicate,
	}
}

func (qd *QueryData) Fields() []string {
	return qd.fields
}

func (qd *QueryData) Tables() []string {
	return qd.tables
}

func (qd *QueryData) Pred() *query.Predicate {
	return qd.predicate
}

func (qd *QueryData) GroupBy() []string {
	return qd.groupBy
}

func (qd *QueryData) Having() *query.Predicate {
	return qd.having
}

func (qd *QueryData) OrderBy() []OrderByItem {
	return qd.orderBy
}

func (qd *QueryData) Aggregates() []functions.AggregationFunction {
	return qd.aggregates
}

func (qd *QueryData) String() string {
	if len(qd.fields) == 0 || len(qd.tables) == 0 {
		return ""
	}
	result := "select "
	for _, fieldName := range qd.fields {
		result += fieldName + ", "
	}
	result = result[:len(result)-2]
	result += " from "
	for _, tableName := range qd.tables {
		result += tableName + ", "
	}
	result = result[:len(result)-2]
	if qd.predicate != nil {
		if predicateString := qd.predicate.String(); predicateString != "" {
			result += " where " + predicateString
		}
	}
	return result
}
