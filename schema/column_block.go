package schema

// ColumnBlock is a view of N densely-packed cell values of one column, plus
// an optional parallel null bitmap. Fixed-width types are stored
// little-endian in native width in Data; BINARY/STRING cells are stored as
// a separate Values buffer addressed by Offsets (the (length, pointer) pair
// of each cell, expressed in Go as a byte-slice view rather than a raw pointer).
type ColumnBlock struct {
	Type FieldType
	N    int

	// Data holds N fixed-width cells back to back. Unused when Type is
	// BinaryFieldType.
	Data      []byte
	cellWidth int

	// Offsets has N+1 entries; cell i is Values[Offsets[i]:Offsets[i+1]].
	// Unused for fixed-width types.
	Offsets []int32
	Values  []byte

	// Nulls is nil for non-nullable columns. A set bit means the cell at
	// that row is null.
	Nulls *SelectionVector
}

// NewFixedWidthBlock wraps a flat little-endian buffer of N cells of the
// given type as a ColumnBlock. data must be exactly N*t.Size() bytes.
func NewFixedWidthBlock(t FieldType, data []byte, n int) *ColumnBlock {
	width := t.Size()
	if width < 0 {
		panic("schema: NewFixedWidthBlock called with variable-width type " + t.String())
	}
	if len(data) != width*n {
		panic("schema: column block data length does not match N*cell width")
	}
	return &ColumnBlock{Type: t, N: n, Data: data, cellWidth: width}
}

// NewBinaryBlock wraps N variable-width cells backed by values, addressed
// by offsets (len(offsets) == n+1).
func NewBinaryBlock(values []byte, offsets []int32) *ColumnBlock {
	n := len(offsets) - 1
	if n < 0 {
		panic("schema: NewBinaryBlock requires at least one offset")
	}
	return &ColumnBlock{Type: BinaryFieldType, N: n, Values: values, Offsets: offsets}
}

// Cell returns the encoded bytes of row i.
func (b *ColumnBlock) Cell(i int) []byte {
	if b.Type == BinaryFieldType {
		return b.Values[b.Offsets[i]:b.Offsets[i+1]]
	}
	return b.Data[i*b.cellWidth : (i+1)*b.cellWidth]
}

// IsNull reports whether row i is null. Always false when the column has
// no null bitmap.
func (b *ColumnBlock) IsNull(i int) bool {
	return b.Nulls != nil && b.Nulls.Get(i)
}
