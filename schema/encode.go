package schema

import (
	"encoding/binary"
	"math"
)

// EncodeInt8/EncodeUint8/... encode a Go value into the little-endian wire
// cell format. These exist mainly for tests and for callers
// translating already-decoded predicate values onto the wire; the core
// itself only ever consumes already-encoded []byte cells.

func EncodeBool(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

func DecodeBool(b []byte) bool { return b[0] != 0 }

func EncodeInt8(v int8) []byte { return []byte{byte(v)} }
func DecodeInt8(b []byte) int8 { return int8(b[0]) }

func EncodeUint8(v uint8) []byte { return []byte{v} }
func DecodeUint8(b []byte) uint8 { return b[0] }

func EncodeInt16(v int16) []byte {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, uint16(v))
	return buf
}
func DecodeInt16(b []byte) int16 { return int16(binary.LittleEndian.Uint16(b)) }

func EncodeUint16(v uint16) []byte {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, v)
	return buf
}
func DecodeUint16(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }

func EncodeInt32(v int32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(v))
	return buf
}
func DecodeInt32(b []byte) int32 { return int32(binary.LittleEndian.Uint32(b)) }

func EncodeUint32(v uint32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, v)
	return buf
}
func DecodeUint32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }

func EncodeInt64(v int64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(v))
	return buf
}
func DecodeInt64(b []byte) int64 { return int64(binary.LittleEndian.Uint64(b)) }

func EncodeUint64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, v)
	return buf
}
func DecodeUint64(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }

func EncodeFloat32(v float32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
	return buf
}
func DecodeFloat32(b []byte) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b)) }

func EncodeFloat64(v float64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
	return buf
}
func DecodeFloat64(b []byte) float64 { return math.Float64frombits(binary.LittleEndian.Uint64(b)) }

// Arena is a minimal bump allocator used to materialize incremented range
// bounds (successor values) that must outlive a predicate but don't need
// their own heap allocation tracked individually. It mirrors the role the
// original storage engine's Arena plays for ColumnPredicate::InclusiveRange
// / ExclusiveRange: transient storage for values derived during predicate
// construction.
type Arena struct {
	bufs [][]byte
}

func NewArena() *Arena {
	return &Arena{}
}

// Alloc returns a fresh, zeroed byte slice of size n that lives at least as
// long as the Arena itself.
func (a *Arena) Alloc(n int) []byte {
	buf := make([]byte, n)
	a.bufs = append(a.bufs, buf)
	return buf
}

// Successor computes the smallest value strictly greater than v in the
// column's type domain, writing the result into arena-backed storage. ok is
// false if v is already the type's maximum representable value, in which
// case there is no successor and the caller should treat the bound as
// unbounded-above.
func Successor(t FieldType, v []byte, arena *Arena) (next []byte, ok bool) {
	switch t {
	case BoolFieldType, Uint8FieldType:
		if v[0] == math.MaxUint8 {
			return nil, false
		}
		out := arena.Alloc(1)
		out[0] = v[0] + 1
		return out, true
	case Int8FieldType:
		x := DecodeInt8(v)
		if x == math.MaxInt8 {
			return nil, false
		}
		return encodeInto2(arena, EncodeInt8(x+1)), true
	case Uint16FieldType:
		x := DecodeUint16(v)
		if x == math.MaxUint16 {
			return nil, false
		}
		return encodeInto2(arena, EncodeUint16(x+1)), true
	case Int16FieldType:
		x := DecodeInt16(v)
		if x == math.MaxInt16 {
			return nil, false
		}
		return encodeInto2(arena, EncodeInt16(x+1)), true
	case Uint32FieldType:
		x := DecodeUint32(v)
		if x == math.MaxUint32 {
			return nil, false
		}
		return encodeInto2(arena, EncodeUint32(x+1)), true
	case Int32FieldType:
		x := DecodeInt32(v)
		if x == math.MaxInt32 {
			return nil, false
		}
		return encodeInto2(arena, EncodeInt32(x+1)), true
	case Uint64FieldType:
		x := DecodeUint64(v)
		if x == math.MaxUint64 {
			return nil, false
		}
		return encodeInto2(arena, EncodeUint64(x+1)), true
	case Int64FieldType, TimestampFieldType, DecimalFieldType:
		x := DecodeInt64(v)
		if x == math.MaxInt64 {
			return nil, false
		}
		return encodeInto2(arena, EncodeInt64(x+1)), true
	case Float32FieldType:
		x := DecodeFloat32(v)
		next := math.Nextafter32(x, math.MaxFloat32)
		if next == x {
			return nil, false
		}
		return encodeInto2(arena, EncodeFloat32(next)), true
	case Float64FieldType:
		x := DecodeFloat64(v)
		next := math.Nextafter(x, math.MaxFloat64)
		if next == x {
			return nil, false
		}
		return encodeInto2(arena, EncodeFloat64(next)), true
	case BinaryFieldType:
		// Lexicographic successor: append a zero byte. This is the
		// standard "next key after this prefix" trick and always exists
		// (there is no maximum byte string), so ok is always true.
		out := arena.Alloc(len(v) + 1)
		copy(out, v)
		out[len(v)] = 0
		return out, true
	default:
		panic("schema: Successor not defined for field type " + t.String())
	}
}

// IsImmediateSuccessor reports whether upper is exactly the successor of
// lower in the type's domain, without needing arena-backed storage. Used to
// detect a range that has collapsed to a single value.
func IsImmediateSuccessor(t FieldType, lower, upper []byte) bool {
	scratch := NewArena()
	next, ok := Successor(t, lower, scratch)
	if !ok {
		return false
	}
	return ComparatorFor(t)(next, upper) == 0
}

// IsMaxValue reports whether v is the largest representable value for t.
func IsMaxValue(t FieldType, v []byte) bool {
	switch t {
	case BoolFieldType, Uint8FieldType:
		return v[0] == math.MaxUint8
	case Int8FieldType:
		return DecodeInt8(v) == math.MaxInt8
	case Uint16FieldType:
		return DecodeUint16(v) == math.MaxUint16
	case Int16FieldType:
		return DecodeInt16(v) == math.MaxInt16
	case Uint32FieldType:
		return DecodeUint32(v) == math.MaxUint32
	case Int32FieldType:
		return DecodeInt32(v) == math.MaxInt32
	case Uint64FieldType:
		return DecodeUint64(v) == math.MaxUint64
	case Int64FieldType, TimestampFieldType, DecimalFieldType:
		return DecodeInt64(v) == math.MaxInt64
	case Float32FieldType:
		return DecodeFloat32(v) == math.MaxFloat32
	case Float64FieldType:
		return DecodeFloat64(v) == math.MaxFloat64
	case BinaryFieldType:
		return false // unbounded domain, no maximum
	default:
		panic("schema: IsMaxValue not defined for field type " + t.String())
	}
}

// IsMinValue reports whether v is the smallest representable value for t.
func IsMinValue(t FieldType, v []byte) bool {
	switch t {
	case BoolFieldType, Uint8FieldType, Uint16FieldType, Uint32FieldType, Uint64FieldType:
		for _, b := range v {
			if b != 0 {
				return false
			}
		}
		return true
	case Int8FieldType:
		return DecodeInt8(v) == math.MinInt8
	case Int16FieldType:
		return DecodeInt16(v) == math.MinInt16
	case Int32FieldType:
		return DecodeInt32(v) == math.MinInt32
	case Int64FieldType, TimestampFieldType, DecimalFieldType:
		return DecodeInt64(v) == math.MinInt64
	case Float32FieldType:
		return DecodeFloat32(v) == -math.MaxFloat32
	case Float64FieldType:
		return DecodeFloat64(v) == -math.MaxFloat64
	case BinaryFieldType:
		return len(v) == 0
	default:
		panic("schema: IsMinValue not defined for field type " + t.String())
	}
}

func encodeInto2(arena *Arena, encoded []byte) []byte {
	out := arena.Alloc(len(encoded))
	copy(out, encoded)
	return out
}
