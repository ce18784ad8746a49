package schema

import "github.com/google/uuid"

// TypeAttributes carries type parameters that Size() alone can't express.
// Only DecimalFieldType consults it today (precision/scale); other types
// leave it zeroed.
type TypeAttributes struct {
	Precision uint8
	Scale     uint8
}

type SchemaColumn struct {
	Name     string
	Type     FieldType
	Nullable bool

	// Attributes carries extra type parameters, e.g. decimal precision/scale.
	Attributes TypeAttributes

	// runtime
	ActiveSlab uuid.UUID
	Slabs      []uuid.UUID
}

// ColumnSchema is the attribute descriptor used by the predicate and block
// cache packages. It is a value-type alias of SchemaColumn: the storage
// layer and the scan layer describe columns identically, so a predicate
// can be built directly from whatever the slab manager already has on hand.
type ColumnSchema = SchemaColumn

// CellWidth returns the fixed encoded width in bytes of one cell of this
// column. Returns -1 for BinaryFieldType, which has no fixed width.
func (c SchemaColumn) CellWidth() int {
	return c.Type.Size()
}
