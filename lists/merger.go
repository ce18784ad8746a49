package lists

import (
	"github.com/dot5enko/tabletdb/bits"
)

var (
	BitsetFull  = bits.NewFullBitfield()
	BitsetEmpty = bits.Bitfield{}
)

// IndiceUnmerged accumulates the per-condition row index lists produced
// for one block and ANDs them together as bitsets. Full and empty inputs
// short-circuit past the sorted-list conversion.
type IndiceUnmerged struct {
	ResultBitset bits.Bitfield

	merges      int
	initialized bool
	fullSkip    bool
}

func NewUnmerged() *IndiceUnmerged {
	return &IndiceUnmerged{}
}

func (i *IndiceUnmerged) Reset() {
	i.merges = 0
	i.fullSkip = false
	if i.initialized {
		i.ResultBitset = bits.Bitfield{}
	}
	i.initialized = false
}

// SetFullSkip marks the whole block as discarded by a header-level check,
// so callers can bypass merging entirely.
func (i *IndiceUnmerged) SetFullSkip() {
	i.fullSkip = true
}

func (i *IndiceUnmerged) FullSkip() bool {
	return i.fullSkip
}

// Merges reports how many index lists have been folded in since Reset.
func (i *IndiceUnmerged) Merges() int {
	return i.merges
}

func (i *IndiceUnmerged) With(input []uint16, isEmpty, isFull bool) {
	i.merges++

	switch {
	case isFull:
		i.and(BitsetFull)
	case isEmpty:
		i.and(BitsetEmpty)
	default:
		var bs bits.Bitfield
		bs.FromSorted(input)
		i.and(bs)
	}
}

func (i *IndiceUnmerged) and(other bits.Bitfield) {
	if !i.initialized {
		i.ResultBitset = other
		i.initialized = true
		return
	}
	i.ResultBitset = bits.MergeAND(i.ResultBitset, other)
}
