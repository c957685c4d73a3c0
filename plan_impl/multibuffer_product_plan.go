package plan_impl

import (
	"math"

	"github.com/gopherdb/simpledb/materialize"
	"github.com/gopherdb/simpledb/plan"
	"github.com/gopherdb/simpledb/query"
	"github.com/gopherdb/simpledb/record"
	"github.com/gopherdb/simpledb/scan"
	"github.com/gopherdb/simpledb/tx"
)

var _ plan.Plan = (*MultibufferProductPlan)(nil)

// MultibufferProductPlan implements the product operator by materializing
// its right-hand side once and then scanning it in chunks sized to the
// transaction's available buffers, rather than repinning a block of the
// right side for every record of the left side.
type MultibufferProductPlan struct {
	transaction *tx.Transaction
	lhsPlan     plan.Plan
	rhsPlan     plan.Plan
	schema      *record.Schema
}

// NewMultibufferProductPlan creates a product plan for lhsPlan and rhsPlan.
func NewMultibufferProductPlan(transaction *tx.Transaction, lhsPlan, rhsPlan plan.Plan) *MultibufferProductPlan {
	schema := record.NewSchema()
	schema.AddAll(lhsPlan.Schema())
	schema.AddAll(rhsPlan.Schema())

	return &MultibufferProductPlan{
		transaction: transaction,
		lhsPlan:     lhsPlan,
		rhsPlan:     rhsPlan,
		schema:      schema,
	}
}

// Open materializes the right-hand side into a temporary table and returns
// a chunked product scan over it and the left-hand scan.
func (mpp *MultibufferProductPlan) Open() (scan.Scan, error) {
	lhsScan, err := mpp.lhsPlan.Open()
	if err != nil {
		return nil, err
	}

	tempTable, err := mpp.copyRecordsFromRHS()
	if err != nil {
		lhsScan.Close()
		return nil, err
	}

	return query.NewMultibufferProductScan(mpp.transaction, lhsScan, tempTable.TableName(), tempTable.GetLayout())
}

// copyRecordsFromRHS materializes the right-hand plan into a fresh temp
// table, the same way MaterializePlan does, so MultibufferProductScan can
// chunk across its blocks without replanning the right side per chunk.
func (mpp *MultibufferProductPlan) copyRecordsFromRHS() (*materialize.TempTable, error) {
	schema := mpp.rhsPlan.Schema()
	srcScan, err := mpp.rhsPlan.Open()
	if err != nil {
		return nil, err
	}
	defer srcScan.Close()

	tempTable := materialize.NewTempTable(mpp.transaction, schema)
	destinationScan, err := tempTable.Open()
	if err != nil {
		return nil, err
	}
	defer destinationScan.Close()

	for {
		hasNext, err := srcScan.Next()
		if err != nil {
			return nil, err
		}
		if !hasNext {
			break
		}
		if err := destinationScan.Insert(); err != nil {
			return nil, err
		}
		for _, fieldName := range schema.Fields() {
			val, err := srcScan.GetVal(fieldName)
			if err != nil {
				return nil, err
			}
			if err := destinationScan.SetVal(fieldName, val); err != nil {
				return nil, err
			}
		}
	}

	return tempTable, nil
}

// BlocksAccessed estimates the cost of the chunked product as the left
// side's cost plus the right side's cost times the number of chunks the
// materialized right side is split into.
func (mpp *MultibufferProductPlan) BlocksAccessed() int {
	materializedSize := NewMaterializePlan(mpp.transaction, mpp.rhsPlan).BlocksAccessed()
	chunkSize := materialize.BestChunkFactor(mpp.transaction.AvailableBuffers(), materializedSize)
	numChunks := int(math.Ceil(float64(materializedSize) / float64(chunkSize)))
	return mpp.lhsPlan.BlocksAccessed() + numChunks*mpp.rhsPlan.BlocksAccessed()
}

// RecordsOutput estimates the number of records in the product, the
// product of both sides' record counts.
func (mpp *MultibufferProductPlan) RecordsOutput() int {
	return mpp.lhsPlan.RecordsOutput() * mpp.rhsPlan.RecordsOutput()
}

// DistinctValues estimates the number of distinct field values in the product.
func (mpp *MultibufferProductPlan) DistinctValues(fieldName string) int {
	if mpp.lhsPlan.Schema().HasField(fieldName) {
		return mpp.lhsPlan.DistinctValues(fieldName)
	}
	return mpp.rhsPlan.DistinctValues(fieldName)
}

// Schema returns the schema of the product, the union of both plans' schemas.
func (mpp *MultibufferProductPlan) Schema() *record.Schema {
	return mpp.schema
}
