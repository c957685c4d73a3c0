package plan_impl

import (
	"fmt"

	"github.com/gopherdb/simpledb/plan"
)

// ExplainPlan walks a plan tree and builds the Repr a Statement hands back
// to a caller that asked to see the plan instead of running it. Every
// concrete plan type produced by this package gets its own case; an
// unrecognized plan (e.g. one supplied by a caller outside this package)
// still produces a Repr, just with a generic operation label.
func ExplainPlan(p plan.Plan) *plan.Repr {
	repr := &plan.Repr{
		Operation: describe(p),
		Reads:     p.BlocksAccessed(),
	}

	for _, sub := range subPlans(p) {
		repr.SubReprs = append(repr.SubReprs, ExplainPlan(sub))
	}
	return repr
}

func describe(p plan.Plan) string {
	switch v := p.(type) {
	case *IndexJoinPlan:
		return fmt.Sprintf("IndexJoinScan{idxname=%s, idxfldname=%s, joinfld=%s}",
			v.indexInfo.IndexName(), v.indexInfo.FieldName(), v.joinField)
	case *IndexSelectPlan:
		return fmt.Sprintf("IndexSelectScan{idxname=%s, idxfldname=%s, val=%v}",
			v.indexInfo.IndexName(), v.indexInfo.FieldName(), v.value)
	case *GroupByPlan:
		return fmt.Sprintf("GroupByScan{fields=%v, aggfns=%d}", v.groupFields, len(v.aggregationFunctions))
	case *MaterializePlan:
		return "Materialize"
	case *MergeJoinPlan:
		return fmt.Sprintf("MergeJoinScan{fldname1=%s, fldname2=%s}", v.fieldName1, v.fieldName2)
	case *SortPlan:
		return fmt.Sprintf("SortScan{compflds=%v}", v.comparator.Fields())
	case *MultibufferProductPlan:
		return "MultibufferProductScan"
	case *ProductPlan:
		return "ProductScan"
	case *ProjectPlan:
		return "ProjectScan"
	case *SelectPlan:
		return fmt.Sprintf("SelectScan{pred=%s}", v.predicate)
	case *TablePlan:
		return fmt.Sprintf("TableScan{tblname=%s}", v.tableName)
	default:
		return fmt.Sprintf("%T", p)
	}
}

func subPlans(p plan.Plan) []plan.Plan {
	switch v := p.(type) {
	case *IndexJoinPlan:
		return []plan.Plan{v.plan1, v.plan2}
	case *IndexSelectPlan:
		return []plan.Plan{v.inputPlan}
	case *GroupByPlan:
		return []plan.Plan{v.inputPlan}
	case *MaterializePlan:
		return []plan.Plan{v.srcPlan}
	case *MergeJoinPlan:
		return []plan.Plan{v.plan1, v.plan2}
	case *SortPlan:
		return []plan.Plan{v.inputPlan}
	case *MultibufferProductPlan:
		return []plan.Plan{v.lhsPlan, v.rhsPlan}
	case *ProductPlan:
		return []plan.Plan{v.plan1, v.plan2}
	case *ProjectPlan:
		return []plan.Plan{v.inputPlan}
	case *SelectPlan:
		return []plan.Plan{v.inputPlan}
	case *TablePlan:
		return nil
	default:
		return nil
	}
}
