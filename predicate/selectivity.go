package predicate

import "github.com/dot5enko/tabletdb/schema"

// Rank orders predicate kinds by increasing expected output cardinality:
// a lower rank matches fewer rows and should be evaluated first so later,
// costlier predicates see an already-thinned selection vector. IsNotNull
// ranks last: on most columns it passes nearly every row, so running it
// early filters nothing.
func (k Kind) Rank() int {
	switch k {
	case KindNone:
		return 0
	case KindIsNull:
		return 1
	case KindEquality:
		return 2
	case KindInList:
		return 3
	case KindRange:
		return 4
	case KindInBloomFilter:
		return 5
	case KindIsNotNull:
		return 6
	default:
		return 7
	}
}

// SelectivityComparator orders a slice of predicates so the most selective
// run first: impossible (None) and null-only checks, then point lookups,
// small lists before large ones, narrow ranges before wide ones, Bloom
// probes, and finally IsNotNull. Ties break on column name so the order is
// deterministic across runs. It is meant to be passed to sort.Slice:
//
//	sort.Slice(preds, predicate.SelectivityComparator(preds))
func SelectivityComparator(preds []ColumnPredicate) func(i, j int) bool {
	return func(i, j int) bool {
		a, b := &preds[i], &preds[j]

		ra, rb := a.Kind.Rank(), b.Kind.Rank()
		if ra != rb {
			return ra < rb
		}

		switch a.Kind {
		case KindInList:
			if len(a.Values) != len(b.Values) {
				return len(a.Values) < len(b.Values)
			}
		case KindRange:
			switch rangeNarrowness(a, b) {
			case -1:
				return true
			case 1:
				return false
			}
		}

		return a.Column.Name < b.Column.Name
	}
}

// rangeNarrowness reports -1 if a's interval is strictly contained in b's,
// 1 if b's is strictly contained in a's, and 0 when the two aren't
// comparable that way (different column types, partial bounds, or overlapping
// without containment).
func rangeNarrowness(a, b *ColumnPredicate) int {
	if a.Column.Type != b.Column.Type {
		return 0
	}
	if a.Lower == nil || a.Upper == nil || b.Lower == nil || b.Upper == nil {
		return 0
	}

	lo := schema.Compare(a.Column.Type, a.Lower, b.Lower)
	up := schema.Compare(a.Column.Type, a.Upper, b.Upper)

	aInsideB := lo >= 0 && up <= 0
	bInsideA := lo <= 0 && up >= 0
	switch {
	case aInsideB && !bInsideA:
		return -1
	case bInsideA && !aInsideB:
		return 1
	default:
		return 0
	}
}
