package query

import (
	"fmt"
	"github.com/gopherdb/simpledb/record"
	"github.com/gopherdb/simpledb/scan"
)

type Expression struct {
	value     any
	fieldName string
}

// NewFieldExpression creates a new expression for a field name.
func NewFieldExpression(fieldName string) *Expression {
	return &Expression{value: nil, fieldName: fieldName}
}

// NewConstantExpression creates a new expression for a constant value.
func NewConstantExpression(value any) *Expression {
	return &Expression{value: value, fieldName: ""}
}

// Evaluate the expression with respect to the current record of the specified inputScan.
func (e *Expression) Evaluate(inputScan scan.Scan) (any, error) {
	if e.value != nil {
		return e.value, nil
	}
	return inputScan.GetVal(e.fieldName)
}

// IsFieldName returns true if the expression is a field reference.
func (e *Expression) IsFieldName() bool {
	return e.fieldName != ""
}

// asConstant returns the expression's constant value,
// or nil if the expression does not denote a constant.
func (e *Expression) asConstant() any {
	return e.value
}

// asFieldName returns the field name if the expression is a field reference,
// or an empty string if the expression does not denote a field.
func (e *Expression) asFieldName() string {
	return e.fieldName
}

// FieldName returns the expression's field name and true if it denotes a field reference.
func (e *Expression) FieldName() (string, bool) {
	if !e.IsFieldName() {
		return "", false
	}
	return e.fieldName, true
}

// Constant returns the expression's constant value and true if it denotes a constant.
func (e *Expression) Constant() (any, bool) {
	if e.IsFieldName() {
		return nil, false
	}
	return e.value, true
}

// AppliesTo determines if all the fields mentioned in this expression are contained in the specified schema.
func (e *Expression) AppliesTo(schema *record.Schema) bool {
	return e.value != nil || schema.HasField(e.fieldName)
}

func (e *Expression) String() string {
	if e.value != nil {
		return fmt.Sprintf("%v", e.value)
	}
	return e.fieldName
}
