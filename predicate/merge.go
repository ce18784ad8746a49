package predicate

import (
	"github.com/dot5enko/tabletdb/bloom"
	"github.com/dot5enko/tabletdb/schema"
)

// Merge intersects p with other (logical AND) and returns the result in
// canonical form. Both predicates must describe the same column; Merge
// panics when their column names differ. Merge is
// symmetric: p.Merge(other) and other.Merge(p) produce equivalent
// predicates, though not always byte-identical ones (e.g. which side's
// Bloom filters end up in Filters).
func (p ColumnPredicate) Merge(other ColumnPredicate) ColumnPredicate {
	if p.Column.Name != other.Column.Name {
		panic("predicate: Merge of predicates over different columns " + p.Column.Name + " and " + other.Column.Name)
	}
	if p.Kind == KindNone || other.Kind == KindNone {
		return None(p.Column)
	}

	switch p.Kind {
	case KindIsNull:
		return p.mergeIntoIsNull(other)
	case KindIsNotNull:
		return p.mergeIntoIsNotNull(other)
	case KindEquality:
		return p.mergeIntoEquality(other)
	case KindRange:
		return p.mergeIntoRange(other)
	case KindInList:
		return p.mergeIntoInList(other)
	case KindInBloomFilter:
		return p.mergeIntoBloomFilter(other)
	default:
		return None(p.Column)
	}
}

func (p ColumnPredicate) mergeIntoIsNull(other ColumnPredicate) ColumnPredicate {
	if other.Kind == KindIsNull {
		return p
	}
	return None(p.Column)
}

func (p ColumnPredicate) mergeIntoIsNotNull(other ColumnPredicate) ColumnPredicate {
	if other.Kind == KindIsNull {
		return None(p.Column)
	}
	return other
}

func (p ColumnPredicate) mergeIntoEquality(other ColumnPredicate) ColumnPredicate {
	switch other.Kind {
	case KindIsNotNull:
		return p
	case KindEquality:
		if schema.ComparatorFor(p.Column.Type)(p.Lower, other.Lower) == 0 {
			return p
		}
		return None(p.Column)
	case KindRange:
		if valueInRange(p.Column.Type, p.Lower, other.Lower, other.Upper) {
			return p
		}
		return None(p.Column)
	case KindInList:
		if valueInList(p.Column.Type, p.Lower, other.Values) {
			return p
		}
		return None(p.Column)
	case KindInBloomFilter:
		if valueMayMatchBloom(other, p.Lower) {
			return p
		}
		return None(p.Column)
	default:
		return None(p.Column)
	}
}

func (p ColumnPredicate) mergeIntoRange(other ColumnPredicate) ColumnPredicate {
	switch other.Kind {
	case KindIsNotNull:
		return p
	case KindEquality:
		return other.mergeIntoEquality(p)
	case KindRange:
		t := p.Column.Type
		cmp := schema.ComparatorFor(t)
		lower := p.Lower
		if lower == nil || (other.Lower != nil && cmp(other.Lower, lower) > 0) {
			lower = other.Lower
		}
		upper := p.Upper
		if upper == nil || (other.Upper != nil && cmp(other.Upper, upper) < 0) {
			upper = other.Upper
		}
		return Range(p.Column, lower, upper)
	case KindInList:
		kept := make([][]byte, 0, len(other.Values))
		for _, v := range other.Values {
			if valueInRange(p.Column.Type, v, p.Lower, p.Upper) {
				kept = append(kept, v)
			}
		}
		return simplifyList(p.Column, kept)
	case KindInBloomFilter:
		// A range intersected with a bloom-filter predicate stays an
		// InBloomFilter: the filters are still the authority on set
		// membership, narrowed further by the tighter of the two ranges.
		lower, upper := intersectRangeBounds(p.Column.Type, p.Lower, p.Upper, other.Lower, other.Upper)
		return InBloomFilter(p.Column, other.Filters, lower, upper)
	default:
		return None(p.Column)
	}
}

func (p ColumnPredicate) mergeIntoInList(other ColumnPredicate) ColumnPredicate {
	switch other.Kind {
	case KindIsNotNull:
		return p
	case KindEquality:
		return other.mergeIntoEquality(p)
	case KindRange:
		return other.mergeIntoRange(p)
	case KindInList:
		cmp := schema.ComparatorFor(p.Column.Type)
		merged := intersectSortedValues(p.Values, other.Values, cmp)
		return simplifyList(p.Column, merged)
	case KindInBloomFilter:
		filtered := filterValuesByBloom(other, p.Values)
		return simplifyList(p.Column, filtered)
	default:
		return None(p.Column)
	}
}

func (p ColumnPredicate) mergeIntoBloomFilter(other ColumnPredicate) ColumnPredicate {
	switch other.Kind {
	case KindIsNotNull:
		return p
	case KindEquality:
		return other.mergeIntoEquality(p)
	case KindInList:
		return other.mergeIntoInList(p)
	case KindRange:
		return other.mergeIntoRange(p)
	case KindInBloomFilter:
		lower, upper := intersectRangeBounds(p.Column.Type, p.Lower, p.Upper, other.Lower, other.Upper)
		filters := make([]bloom.FilterSpec, 0, len(p.Filters)+len(other.Filters))
		filters = append(filters, p.Filters...)
		filters = append(filters, other.Filters...)
		return InBloomFilter(p.Column, filters, lower, upper)
	default:
		return None(p.Column)
	}
}

// intersectRangeBounds returns the tighter of two [lower, upper) ranges.
func intersectRangeBounds(t schema.FieldType, aLower, aUpper, bLower, bUpper []byte) (lower, upper []byte) {
	cmp := schema.ComparatorFor(t)
	lower = aLower
	if lower == nil || (bLower != nil && cmp(bLower, lower) > 0) {
		lower = bLower
	}
	upper = aUpper
	if upper == nil || (bUpper != nil && cmp(bUpper, upper) < 0) {
		upper = bUpper
	}
	return lower, upper
}

func valueInRange(t schema.FieldType, v, lower, upper []byte) bool {
	cmp := schema.ComparatorFor(t)
	if lower != nil && cmp(v, lower) < 0 {
		return false
	}
	if upper != nil && cmp(v, upper) >= 0 {
		return false
	}
	return true
}

func valueInList(t schema.FieldType, v []byte, values [][]byte) bool {
	cmp := schema.ComparatorFor(t)
	lo, hi := 0, len(values)
	for lo < hi {
		mid := (lo + hi) / 2
		c := cmp(values[mid], v)
		switch {
		case c == 0:
			return true
		case c < 0:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return false
}

// intersectSortedValues returns the set intersection of two sorted,
// deduplicated value lists.
func intersectSortedValues(a, b [][]byte, cmp schema.Comparator) [][]byte {
	out := make([][]byte, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		c := cmp(a[i], b[j])
		switch {
		case c == 0:
			out = append(out, a[i])
			i++
			j++
		case c < 0:
			i++
		default:
			j++
		}
	}
	return out
}

// valueMayMatchBloom reports whether v passes every filter in bf (an
// InBloomFilter predicate) and its optional range bound.
func valueMayMatchBloom(bf ColumnPredicate, v []byte) bool {
	if !valueInRange(bf.Column.Type, v, bf.Lower, bf.Upper) {
		return false
	}
	for _, spec := range bf.Filters {
		reader, err := bloom.NewReader(spec)
		if err != nil {
			return false
		}
		probe, err := bloom.BloomKeyProbe(v, spec.Algorithm)
		if err != nil {
			return false
		}
		if !reader.MayContainKey(probe) {
			return false
		}
	}
	return true
}

// filterValuesByBloom returns the subset of values that pass bf.
func filterValuesByBloom(bf ColumnPredicate, values [][]byte) [][]byte {
	out := values[:0:0]
	for _, v := range values {
		if valueMayMatchBloom(bf, v) {
			out = append(out, v)
		}
	}
	return out
}
