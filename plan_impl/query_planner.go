package plan_impl

import (
	"github.com/gopherdb/simpledb/metadata"
	"github.com/gopherdb/simpledb/parse"
	"github.com/gopherdb/simpledb/plan"
	"github.com/gopherdb/simpledb/tx"
)

// QueryPlanner is an interface implemented by planners for the SQL select statement.
type QueryPlanner interface {
	// CreatePlan creates a query plan for the specified query data.
	CreatePlan(queryData *parse.QueryData, transaction *tx.Transaction) (plan.Plan, error)

	// MetadataManager returns the catalog manager the planner resolves tables,
	// views, and indexes against. Used by the Planner to verify statements
	// before handing them off for execution.
	MetadataManager() *metadata.Manager
}
