package engine

import (
	"github.com/gopherdb/simpledb/plan"
	"github.com/gopherdb/simpledb/plan_impl"
)

// Statement is a single SQL string bound to a Connection. Like the
// connection it came from, it is not safe for concurrent use.
type Statement struct {
	conn *Connection
	sql  string
}

// ExecuteQuery plans and opens sql as a select statement, returning a
// ResultSet positioned before its first row. A failure rolls back the
// connection's transaction, same as the teacher's driver.Rows did.
func (s *Statement) ExecuteQuery() (*ResultSet, error) {
	p, err := s.conn.db.Planner().CreateQueryPlan(s.sql, s.conn.transaction)
	if err != nil {
		_ = s.conn.Rollback()
		return nil, err
	}

	sc, err := p.Open()
	if err != nil {
		_ = s.conn.Rollback()
		return nil, err
	}

	return &ResultSet{conn: s.conn, plan: p, scan: sc}, nil
}

// ExecuteUpdate runs sql as an insert, delete, modify, or create statement
// and returns the number of affected rows. A failure rolls back the
// connection's transaction.
func (s *Statement) ExecuteUpdate() (int, error) {
	rowsAffected, err := s.conn.db.Planner().ExecuteUpdate(s.sql, s.conn.transaction)
	if err != nil {
		_ = s.conn.Rollback()
		return 0, err
	}
	return rowsAffected, nil
}

// ExplainPlan plans sql as a select statement without opening it, returning
// the cost-annotated operator tree a caller can inspect or print.
func (s *Statement) ExplainPlan() (*plan.Repr, error) {
	p, err := s.conn.db.Planner().CreateQueryPlan(s.sql, s.conn.transaction)
	if err != nil {
		return nil, err
	}
	return plan_impl.ExplainPlan(p), nil
}

// Close is a no-op; a Statement holds no resources of its own beyond the
// connection it was created from.
func (s *Statement) Close() {}
