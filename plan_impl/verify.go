package plan_impl

import (
	"errors"
	"fmt"
	"time"

	"github.com/gopherdb/simpledb/internal/dberrors"
	"github.com/gopherdb/simpledb/metadata"
	"github.com/gopherdb/simpledb/parse"
	"github.com/gopherdb/simpledb/query"
	"github.com/gopherdb/simpledb/record"
	"github.com/gopherdb/simpledb/tx"
	"github.com/gopherdb/simpledb/types"
)

// verifyQuery checks that every field a select statement references exists
// in the combined schema of its source tables and views, and that every
// constant compared against a field is type-compatible with it.
func (planner *Planner) verifyQuery(data *parse.QueryData, transaction *tx.Transaction) error {
	schema, err := combinedSchema(data.Tables(), transaction, planner.queryPlanner.MetadataManager())
	if err != nil {
		return err
	}

	for _, fieldName := range data.Fields() {
		if !schema.HasField(fieldName) {
			return fmt.Errorf("unknown field %q", fieldName)
		}
	}
	for _, fieldName := range data.GroupBy() {
		if !schema.HasField(fieldName) {
			return fmt.Errorf("unknown field %q in group by", fieldName)
		}
	}
	for _, item := range data.OrderBy() {
		if !schema.HasField(item.Field()) {
			return fmt.Errorf("unknown field %q in order by", item.Field())
		}
	}
	if err := verifyPredicate(schema, data.Pred()); err != nil {
		return err
	}
	return verifyPredicate(schema, data.Having())
}

// verifyUpdate dispatches on the concrete parse.*Data variant so that each
// statement kind is checked against the schema it actually targets.
func (planner *Planner) verifyUpdate(data any, transaction *tx.Transaction) error {
	mdm := planner.updatePlanner.MetadataManager()
	switch d := data.(type) {
	case *parse.InsertData:
		return verifyInsert(d, transaction, mdm)
	case *parse.DeleteData:
		return verifyTablePredicate(d.TableName(), d.Predicate(), transaction, mdm)
	case *parse.ModifyData:
		return verifyModify(d, transaction, mdm)
	case *parse.CreateTableData:
		return nil
	case *parse.CreateViewData:
		return planner.verifyQuery(d.Query(), transaction)
	case *parse.CreateIndexData:
		return verifyCreateIndex(d, transaction, mdm)
	default:
		return fmt.Errorf("unexpected type %T", data)
	}
}

func verifyInsert(data *parse.InsertData, transaction *tx.Transaction, mdm *metadata.Manager) error {
	layout, err := mdm.GetLayout(data.TableName(), transaction)
	if err != nil {
		return err
	}
	schema := layout.Schema()

	fields := data.Fields()
	values := data.Values()
	if len(fields) != len(values) {
		return fmt.Errorf("insert into %s: %d fields but %d values", data.TableName(), len(fields), len(values))
	}
	for i, fieldName := range fields {
		if !schema.HasField(fieldName) {
			return fmt.Errorf("unknown field %q in table %q", fieldName, data.TableName())
		}
		if err := verifyConstantType(schema, fieldName, values[i]); err != nil {
			return err
		}
	}
	return nil
}

func verifyModify(data *parse.ModifyData, transaction *tx.Transaction, mdm *metadata.Manager) error {
	layout, err := mdm.GetLayout(data.TableName(), transaction)
	if err != nil {
		return err
	}
	schema := layout.Schema()

	if !schema.HasField(data.TargetField()) {
		return fmt.Errorf("unknown field %q in table %q", data.TargetField(), data.TableName())
	}
	if err := verifyExpression(schema, data.NewValue()); err != nil {
		return err
	}
	return verifyPredicate(schema, data.Predicate())
}

func verifyTablePredicate(tableName string, pred *query.Predicate, transaction *tx.Transaction, mdm *metadata.Manager) error {
	layout, err := mdm.GetLayout(tableName, transaction)
	if err != nil {
		return err
	}
	return verifyPredicate(layout.Schema(), pred)
}

func verifyCreateIndex(data *parse.CreateIndexData, transaction *tx.Transaction, mdm *metadata.Manager) error {
	layout, err := mdm.GetLayout(data.TableName(), transaction)
	if err != nil {
		return err
	}
	if !layout.Schema().HasField(data.FieldName()) {
		return fmt.Errorf("unknown field %q in table %q", data.FieldName(), data.TableName())
	}
	return nil
}

// combinedSchema resolves each named table or view, recursing through
// nested view definitions, and unions their schemas. Mirrors how
// BasicQueryPlanner.CreatePlan resolves the same names into plans.
func combinedSchema(tableNames []string, transaction *tx.Transaction, mdm *metadata.Manager) (*record.Schema, error) {
	result := record.NewSchema()
	for _, tableName := range tableNames {
		viewDefinition, err := mdm.GetViewDefinition(tableName, transaction)
		if err != nil && !errors.Is(err, dberrors.ErrViewNotFound) {
			return nil, err
		}

		if viewDefinition == "" {
			layout, err := mdm.GetLayout(tableName, transaction)
			if err != nil {
				return nil, err
			}
			result.AddAll(layout.Schema())
			continue
		}

		parser := parse.NewParser(viewDefinition)
		viewData, err := parser.Query()
		if err != nil {
			return nil, err
		}
		viewSchema, err := combinedSchema(viewData.Tables(), transaction, mdm)
		if err != nil {
			return nil, err
		}
		for _, fieldName := range viewData.Fields() {
			if viewSchema.HasField(fieldName) {
				result.Add(fieldName, viewSchema)
			}
		}
	}
	return result, nil
}

func verifyPredicate(schema *record.Schema, pred *query.Predicate) error {
	if pred == nil {
		return nil
	}
	for _, term := range pred.Terms() {
		if err := verifyTerm(schema, term); err != nil {
			return err
		}
	}
	return nil
}

func verifyTerm(schema *record.Schema, term *query.Term) error {
	lhsField, lhsIsField := term.Lhs().FieldName()
	rhsField, rhsIsField := term.Rhs().FieldName()

	if lhsIsField && !schema.HasField(lhsField) {
		return fmt.Errorf("unknown field %q", lhsField)
	}
	if rhsIsField && !schema.HasField(rhsField) {
		return fmt.Errorf("unknown field %q", rhsField)
	}

	if lhsIsField && !rhsIsField {
		if constant, ok := term.Rhs().Constant(); ok {
			return verifyConstantType(schema, lhsField, constant)
		}
	}
	if rhsIsField && !lhsIsField {
		if constant, ok := term.Lhs().Constant(); ok {
			return verifyConstantType(schema, rhsField, constant)
		}
	}
	return nil
}

func verifyExpression(schema *record.Schema, expr *query.Expression) error {
	if fieldName, ok := expr.FieldName(); ok && !schema.HasField(fieldName) {
		return fmt.Errorf("unknown field %q", fieldName)
	}
	return nil
}

func verifyConstantType(schema *record.Schema, fieldName string, value any) error {
	fieldType := schema.Type(fieldName)
	switch value.(type) {
	case int:
		if fieldType != types.Integer {
			return fmt.Errorf("type mismatch: field %q is not an integer", fieldName)
		}
	case string:
		if fieldType != types.Varchar {
			return fmt.Errorf("type mismatch: field %q is not a string", fieldName)
		}
	case bool:
		if fieldType != types.Boolean {
			return fmt.Errorf("type mismatch: field %q is not a boolean", fieldName)
		}
	case int64:
		if fieldType != types.Long {
			return fmt.Errorf("type mismatch: field %q is not a long", fieldName)
		}
	case int16:
		if fieldType != types.Short {
			return fmt.Errorf("type mismatch: field %q is not a short", fieldName)
		}
	case time.Time:
		if fieldType != types.Date {
			return fmt.Errorf("type mismatch: field %q is not a date", fieldName)
		}
	default:
		return fmt.Errorf("unsupported constant type %T for field %q", value, fieldName)
	}
	return nil
}
