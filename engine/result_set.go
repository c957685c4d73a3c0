package engine

import (
	"github.com/gopherdb/simpledb/plan"
	"github.com/gopherdb/simpledb/record"
	"github.com/gopherdb/simpledb/scan"
	"github.com/gopherdb/simpledb/types"
)

// ResultSet is the row cursor returned by Statement.ExecuteQuery. Next
// advances it; the Get* accessors read the current row.
type ResultSet struct {
	conn *Connection
	plan plan.Plan
	scan scan.Scan
	done bool
}

// Next advances the cursor to the next row. A false return, with no error,
// means the result set is exhausted and the underlying transaction has
// been auto-committed.
func (rs *ResultSet) Next() (bool, error) {
	if rs.done {
		return false, nil
	}
	hasNext, err := rs.scan.Next()
	if err != nil {
		rs.done = true
		_ = rs.conn.Rollback()
		return false, err
	}
	if !hasNext {
		rs.done = true
		rs.scan.Close()
		return false, rs.conn.Commit()
	}
	return true, nil
}

// GetInt32 returns fieldName's value in the current row as an int.
func (rs *ResultSet) GetInt32(fieldName string) (int, error) {
	return rs.scan.GetInt(fieldName)
}

// GetString returns fieldName's value in the current row as a string.
func (rs *ResultSet) GetString(fieldName string) (string, error) {
	return rs.scan.GetString(fieldName)
}

// GetMetaData returns the column metadata for this result set's schema.
func (rs *ResultSet) GetMetaData() *ResultSetMetaData {
	return &ResultSetMetaData{schema: rs.plan.Schema()}
}

// Close releases the underlying scan, committing the connection's
// transaction if the result set was closed before being exhausted.
func (rs *ResultSet) Close() error {
	if rs.done {
		return nil
	}
	rs.done = true
	rs.scan.Close()
	return rs.conn.Commit()
}

// ResultSetMetaData describes the columns of a ResultSet's schema.
type ResultSetMetaData struct {
	schema *record.Schema
}

// ColumnCount returns the number of columns in the result set.
func (md *ResultSetMetaData) ColumnCount() int {
	return len(md.schema.Fields())
}

// ColumnName returns the name of the column at the given 1-based index.
func (md *ResultSetMetaData) ColumnName(column int) string {
	return md.schema.Fields()[column-1]
}

// ColumnType returns the schema type of the column at the given 1-based index.
func (md *ResultSetMetaData) ColumnType(column int) types.SchemaType {
	return md.schema.Type(md.ColumnName(column))
}

// ColumnDisplaySize returns the maximum number of characters needed to
// display the column at the given 1-based index, including its name.
func (md *ResultSetMetaData) ColumnDisplaySize(column int) int {
	fieldName := md.ColumnName(column)
	fieldLength := md.schema.Length(fieldName)
	if md.schema.Type(fieldName) != types.Varchar {
		fieldLength = 6
	}
	displaySize := len(fieldName)
	if fieldLength > displaySize {
		displaySize = fieldLength
	}
	return displaySize + 1
}

// GetSchema returns the result set's underlying schema.
func (md *ResultSetMetaData) GetSchema() *record.Schema {
	return md.schema
}
