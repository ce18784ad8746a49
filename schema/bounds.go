package schema

import (
	"github.com/dot5enko/tabletdb/bits"
)

type NumericTypes interface {
	uint64 | uint16 | uint8 | uint32 | int64 | int32 | int16 | int8 | int | float64 | float32
}

type Bounds[T NumericTypes] struct {
	Min T
	Max T
}

const BoundsSize = 8 + 8

// BoundsFloat is the block header's min/max pair. Every column type
// folds into float64 here, which is lossy above 2^53 for wide integer
// columns but only ever used for pruning, never for exact answers.
type BoundsFloat struct {
	Min float64
	Max float64
}

// Morph widens the receiver to cover other and reports whether anything
// changed.
func (b *BoundsFloat) Morph(other BoundsFloat) bool {
	widened := false

	if other.Min < b.Min {
		b.Min = other.Min
		widened = true
	}
	if other.Max > b.Max {
		b.Max = other.Max
		widened = true
	}

	return widened
}

func GetMaxMinBoundsFloat[T NumericTypes](arr []T) BoundsFloat {
	lo, hi := arr[0], arr[0]

	for _, v := range arr[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	return BoundsFloat{
		Min: float64(lo),
		Max: float64(hi),
	}
}

// on disk the max precedes the min

func (b *BoundsFloat) FromBytes(reader *bits.BitsReader) error {
	b.Max = reader.MustReadF64()
	b.Min = reader.MustReadF64()
	return nil
}

func (b *BoundsFloat) WriteTo(bw *bits.BitWriter) (int, error) {
	bw.PutFloat64(b.Max)
	bw.PutFloat64(b.Min)
	return bw.Position(), nil
}

// BoundsFilterMatchResult classifies how a filter's value domain relates to
// a block's recorded min/max bounds.
type BoundsFilterMatchResult uint8

const (
	UnknownIntersection BoundsFilterMatchResult = iota

	// NoIntersection: no row in the block can match, skip it entirely.
	NoIntersection

	// PartialIntersection: some rows may match, block data must be scanned.
	PartialIntersection

	// FullIntersection: every row in the block matches, no scan needed.
	FullIntersection
)

func (r BoundsFilterMatchResult) String() string {
	switch r {
	case NoIntersection:
		return "NoIntersection"
	case PartialIntersection:
		return "PartialIntersection"
	case FullIntersection:
		return "FullIntersection"
	default:
		return "UnknownIntersection"
	}
}

func NewBoundsFromValues(min, max float64) BoundsFloat {
	return BoundsFloat{Min: min, Max: max}
}

func (b BoundsFloat) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// Intersects reports how `other` (a filter's value interval) covers the
// receiver (a block's value bounds).
func (b BoundsFloat) Intersects(other BoundsFloat) BoundsFilterMatchResult {
	if other.Max < b.Min || other.Min > b.Max {
		return NoIntersection
	}
	if other.Min <= b.Min && other.Max >= b.Max {
		return FullIntersection
	}
	return PartialIntersection
}
