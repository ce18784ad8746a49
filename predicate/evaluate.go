package predicate

import (
	"github.com/dot5enko/tabletdb/bloom"
	"github.com/dot5enko/tabletdb/schema"
)

// Evaluate applies p against every row of block that is still selected in
// sel, clearing the bits of rows p rejects. The Equality path resolves the
// comparator once before the row loop, and InBloomFilter builds its
// bloom.Reader values once per call. The Range, InList and InBloomFilter
// bound checks go through valueInRange/valueInList, which look the
// comparator up again for every cell.
func (p ColumnPredicate) Evaluate(block *schema.ColumnBlock, sel *schema.SelectionVector) {
	switch p.Kind {
	case KindNone:
		clearAll(sel)
		return
	case KindIsNotNull:
		if block.Nulls == nil {
			return
		}
		for i := 0; i < block.N; i++ {
			if !sel.Get(i) {
				continue
			}
			if block.IsNull(i) {
				sel.Clear(i)
			}
		}
		return
	case KindIsNull:
		if block.Nulls == nil {
			clearAll(sel)
			return
		}
		for i := 0; i < block.N; i++ {
			if !sel.Get(i) {
				continue
			}
			if !block.IsNull(i) {
				sel.Clear(i)
			}
		}
		return
	}

	cmp := schema.ComparatorFor(p.Column.Type)

	switch p.Kind {
	case KindEquality:
		for i := 0; i < block.N; i++ {
			if !sel.Get(i) {
				continue
			}
			if block.IsNull(i) || cmp(block.Cell(i), p.Lower) != 0 {
				sel.Clear(i)
			}
		}
	case KindRange:
		for i := 0; i < block.N; i++ {
			if !sel.Get(i) {
				continue
			}
			if block.IsNull(i) || !valueInRange(p.Column.Type, block.Cell(i), p.Lower, p.Upper) {
				sel.Clear(i)
			}
		}
	case KindInList:
		for i := 0; i < block.N; i++ {
			if !sel.Get(i) {
				continue
			}
			if block.IsNull(i) || !valueInList(p.Column.Type, block.Cell(i), p.Values) {
				sel.Clear(i)
			}
		}
	case KindInBloomFilter:
		readers := make([]*bloom.Reader, 0, len(p.Filters))
		for _, spec := range p.Filters {
			r, err := bloom.NewReader(spec)
			if err != nil {
				// An invalid filter spec can never match; drop every row.
				clearAll(sel)
				return
			}
			readers = append(readers, r)
		}
		for i := 0; i < block.N; i++ {
			if !sel.Get(i) {
				continue
			}
			if block.IsNull(i) || !cellMatchesBloomReaders(p, readers, block.Cell(i)) {
				sel.Clear(i)
			}
		}
	default:
		clearAll(sel)
	}
}

func cellMatchesBloomReaders(p ColumnPredicate, readers []*bloom.Reader, cell []byte) bool {
	if !valueInRange(p.Column.Type, cell, p.Lower, p.Upper) {
		return false
	}
	for idx, r := range readers {
		probe, err := bloom.BloomKeyProbe(cell, p.Filters[idx].Algorithm)
		if err != nil {
			return false
		}
		if !r.MayContainKey(probe) {
			return false
		}
	}
	return true
}

func clearAll(sel *schema.SelectionVector) {
	for i := 0; i < sel.Len(); i++ {
		sel.Clear(i)
	}
}

// EvaluateCell reports whether a single already-decoded cell value passes
// p. null must be true if the cell is SQL NULL. It exists for callers
// evaluating one row at a time (e.g. a point lookup) where materializing a
// SelectionVector would be overkill.
func (p ColumnPredicate) EvaluateCell(cell []byte, null bool) bool {
	switch p.Kind {
	case KindNone:
		return false
	case KindIsNull:
		return null
	case KindIsNotNull:
		return !null
	}
	if null {
		return false
	}
	switch p.Kind {
	case KindEquality:
		return schema.ComparatorFor(p.Column.Type)(cell, p.Lower) == 0
	case KindRange:
		return valueInRange(p.Column.Type, cell, p.Lower, p.Upper)
	case KindInList:
		return valueInList(p.Column.Type, cell, p.Values)
	case KindInBloomFilter:
		readers := make([]*bloom.Reader, 0, len(p.Filters))
		for _, spec := range p.Filters {
			r, err := bloom.NewReader(spec)
			if err != nil {
				return false
			}
			readers = append(readers, r)
		}
		return cellMatchesBloomReaders(p, readers, cell)
	default:
		return false
	}
}
