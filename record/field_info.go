package record

import "github.com/gopherdb/simpledb/types"

// SchemaType and FieldInfo are aliases for their types-package counterparts,
// so that a field's type code is the same value everywhere it is switched
// on: record.Schema, table.Scan, index/btree, and metadata's catalog I/O.
type SchemaType = types.SchemaType

const (
	Integer = types.Integer
	Varchar = types.Varchar
	Boolean = types.Boolean
	Long    = types.Long
	Short   = types.Short
	Date    = types.Date
)

type FieldInfo = types.FieldInfo
