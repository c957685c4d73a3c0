package plan_impl

import (
	"fmt"

	"github.com/gopherdb/simpledb/internal/dberrors"
	"github.com/gopherdb/simpledb/plan"
	"github.com/gopherdb/simpledb/query"
	"github.com/gopherdb/simpledb/record"
	"github.com/gopherdb/simpledb/scan"
	"github.com/gopherdb/simpledb/tx"
)

var _ plan.Plan = (*MergeJoinPlan)(nil)

// MergeJoinPlan implements the merge join relational algebra operator: it
// sorts each side on its join field, then scans both in lockstep.
type MergeJoinPlan struct {
	plan1, plan2           plan.Plan
	fieldName1, fieldName2 string
	schema                 *record.Schema
}

// NewMergeJoinPlan creates a join plan for the two specified subplans,
// joining plan1's fieldName1 against plan2's fieldName2.
func NewMergeJoinPlan(transaction *tx.Transaction, plan1, plan2 plan.Plan, fieldName1, fieldName2 string) *MergeJoinPlan {
	schema := record.NewSchema()
	schema.AddAll(plan1.Schema())
	schema.AddAll(plan2.Schema())

	return &MergeJoinPlan{
		plan1:      NewSortPlan(transaction, plan1, []string{fieldName1}),
		plan2:      NewSortPlan(transaction, plan2, []string{fieldName2}),
		fieldName1: fieldName1,
		fieldName2: fieldName2,
		schema:     schema,
	}
}

// Open opens the two sorted subplans and returns a merge join scan over them.
func (mjp *MergeJoinPlan) Open() (scan.Scan, error) {
	s1, err := mjp.plan1.Open()
	if err != nil {
		return nil, err
	}

	s2, err := mjp.plan2.Open()
	if err != nil {
		s1.Close()
		return nil, err
	}
	sortScan2, ok := s2.(*query.SortScan)
	if !ok {
		s1.Close()
		s2.Close()
		return nil, fmt.Errorf("merge join: expected *query.SortScan from sorted subplan, got %T: %w", s2, dberrors.ErrDowncast)
	}

	return query.NewMergeJoinScan(s1, sortScan2, mjp.fieldName1, mjp.fieldName2), nil
}

// BlocksAccessed returns the number of block accesses required to sort
// each side and scan the merged result, which is the sum of the two
// sorted subplans' costs.
func (mjp *MergeJoinPlan) BlocksAccessed() int {
	return mjp.plan1.BlocksAccessed() + mjp.plan2.BlocksAccessed()
}

// RecordsOutput estimates the number of records in the join, assuming
// that every join-field value in plan1 matches every value in plan2
// uniformly: records(plan1) * records(plan2) / max(distinct(fld1), distinct(fld2)).
func (mjp *MergeJoinPlan) RecordsOutput() int {
	maxDistinct := max(mjp.plan1.DistinctValues(mjp.fieldName1), mjp.plan2.DistinctValues(mjp.fieldName2))
	return (mjp.plan1.RecordsOutput() * mjp.plan2.RecordsOutput()) / maxDistinct
}

// DistinctValues estimates the number of distinct field values in the join.
func (mjp *MergeJoinPlan) DistinctValues(fieldName string) int {
	if mjp.plan1.Schema().HasField(fieldName) {
		return mjp.plan1.DistinctValues(fieldName)
	}
	return mjp.plan2.DistinctValues(fieldName)
}

// Schema returns the schema of the join, the union of both subplans' schemas.
func (mjp *MergeJoinPlan) Schema() *record.Schema {
	return mjp.schema
}
