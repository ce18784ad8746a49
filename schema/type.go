package schema

type FieldType uint8

const (
	Int8FieldType FieldType = iota
	Int16FieldType
	Int32FieldType
	Int64FieldType

	Float64FieldType
	Float32FieldType

	Uint64FieldType
	Uint8FieldType
	Uint32FieldType
	Uint16FieldType

	// Added for the row-scan predicate/cache core: booleans, variable-width
	// binary/string cells, fixed-width decimals and timestamps. Appended
	// after the original numeric set so on-disk values encoded with the
	// original iota ordering stay valid.
	BoolFieldType
	BinaryFieldType
	DecimalFieldType
	TimestampFieldType
)

// StringFieldType is an alias: strings and opaque binary cells share the
// same (length, pointer) wire representation (see schema.ColumnBlock).
const StringFieldType = BinaryFieldType

var fieldTypeNames = [...]string{
	Int8FieldType:  "Int8",
	Int16FieldType: "Int16",
	Int32FieldType: "Int32",
	Int64FieldType: "Int64",

	Float64FieldType: "Float64",
	Float32FieldType: "Float32",

	Uint64FieldType: "Uint64",
	Uint8FieldType:  "Uint8",
	Uint32FieldType: "Uint32",
	Uint16FieldType: "Uint16",

	BoolFieldType:      "Bool",
	BinaryFieldType:    "Binary",
	DecimalFieldType:   "Decimal",
	TimestampFieldType: "Timestamp",
}

func (f FieldType) String() string {
	if int(f) >= len(fieldTypeNames) {
		return ""
	}
	return fieldTypeNames[f]
}

// IsFixedWidth reports whether cells of this type are stored as a fixed
// number of bytes (everything except BinaryFieldType).
func (f FieldType) IsFixedWidth() bool {
	return f != BinaryFieldType
}

func (f FieldType) Size() int {
	switch f {

	case Int8FieldType, Uint8FieldType, BoolFieldType:
		return 1
	case Int16FieldType, Uint16FieldType:
		return 2
	case Int32FieldType, Float32FieldType, Uint32FieldType:
		return 4
	case Int64FieldType, Float64FieldType, Uint64FieldType, TimestampFieldType, DecimalFieldType:
		// Decimals are stored as a 64-bit two's-complement integer scaled
		// by Attributes.Scale; precision above 18 digits is not supported.
		return 8
	case BinaryFieldType:
		// Variable-width: callers must use the block's offsets, not Size().
		return -1

	default:
		panic("unknown field type " + f.String())
	}
}

func (f FieldType) BlockSize() int {
	elementSize := f.Size()
	if elementSize < 0 {
		panic("BlockSize is undefined for variable-width field type " + f.String())
	}
	return elementSize * BlockRowsSize
}

func (f FieldType) BlocksPerSlab() int16 {
	blockSize := f.BlockSize()
	result := SlabDiskContentsUncompressed / blockSize
	if result > 32000 {
		return int16(32000)
	}
	return int16(result)
}
