package schema

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Comparator orders two encoded cell values of the same FieldType. It
// returns a negative number, zero, or a positive number as a < b, a == b,
// or a > b, following the type's total order.
type Comparator func(a, b []byte) int

// ComparatorFor returns the comparator for a physical type. Callers that
// evaluate many cells against the same type should fetch the comparator
// once before looping (see predicate.Evaluate), rather than dispatch on
// every cell.
func ComparatorFor(t FieldType) Comparator {
	switch t {
	case BoolFieldType, Int8FieldType:
		return compareInt8
	case Uint8FieldType:
		return compareUint8
	case Int16FieldType:
		return compareInt16
	case Uint16FieldType:
		return compareUint16
	case Int32FieldType:
		return compareInt32
	case Uint32FieldType:
		return compareUint32
	case Int64FieldType, TimestampFieldType, DecimalFieldType:
		return compareInt64
	case Uint64FieldType:
		return compareUint64
	case Float32FieldType:
		return compareFloat32
	case Float64FieldType:
		return compareFloat64
	case BinaryFieldType:
		return compareBinary
	default:
		panic("schema: no comparator for field type " + t.String())
	}
}

// Compare orders two encoded cells of the given physical type. Equivalent
// to calling ComparatorFor(t) once and applying it, provided for call
// sites that compare a handful of values rather than iterating a block.
func Compare(t FieldType, a, b []byte) int {
	return ComparatorFor(t)(a, b)
}

func compareBinary(a, b []byte) int {
	return bytes.Compare(a, b)
}

func compareInt8(a, b []byte) int {
	x, y := int8(a[0]), int8(b[0])
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func compareUint8(a, b []byte) int {
	x, y := a[0], b[0]
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func compareInt16(a, b []byte) int {
	x := int16(binary.LittleEndian.Uint16(a))
	y := int16(binary.LittleEndian.Uint16(b))
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func compareUint16(a, b []byte) int {
	x := binary.LittleEndian.Uint16(a)
	y := binary.LittleEndian.Uint16(b)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func compareInt32(a, b []byte) int {
	x := int32(binary.LittleEndian.Uint32(a))
	y := int32(binary.LittleEndian.Uint32(b))
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func compareUint32(a, b []byte) int {
	x := binary.LittleEndian.Uint32(a)
	y := binary.LittleEndian.Uint32(b)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func compareInt64(a, b []byte) int {
	x := int64(binary.LittleEndian.Uint64(a))
	y := int64(binary.LittleEndian.Uint64(b))
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func compareUint64(a, b []byte) int {
	x := binary.LittleEndian.Uint64(a)
	y := binary.LittleEndian.Uint64(b)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func compareFloat32(a, b []byte) int {
	x := math.Float32frombits(binary.LittleEndian.Uint32(a))
	y := math.Float32frombits(binary.LittleEndian.Uint32(b))
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func compareFloat64(a, b []byte) int {
	x := math.Float64frombits(binary.LittleEndian.Uint64(a))
	y := math.Float64frombits(binary.LittleEndian.Uint64(b))
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}
