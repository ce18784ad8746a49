// Package predicate implements per-column scan predicates: construction,
// pairwise intersection (Merge), canonical-form simplification, and
// evaluation against a schema.ColumnBlock into a schema.SelectionVector.
//
// A ColumnPredicate is immutable once constructed. All of the constructors
// in this file return values already in canonical form: a Range
// predicate always has Lower strictly less than Upper when both are set, an
// InList predicate's Values are sorted and deduplicated with at least two
// entries, and so on. Merge preserves that invariant.
package predicate

import (
	"github.com/dot5enko/tabletdb/bloom"
	"github.com/dot5enko/tabletdb/schema"
)

// Kind identifies which shape of predicate a ColumnPredicate carries.
type Kind int

const (
	KindNone Kind = iota
	KindEquality
	KindRange
	KindIsNotNull
	KindIsNull
	KindInList
	KindInBloomFilter
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindEquality:
		return "Equality"
	case KindRange:
		return "Range"
	case KindIsNotNull:
		return "IsNotNull"
	case KindIsNull:
		return "IsNull"
	case KindInList:
		return "InList"
	case KindInBloomFilter:
		return "InBloomFilter"
	default:
		return "Unknown"
	}
}

// ColumnPredicate is an immutable, typed constraint over one column. Which
// fields are meaningful depends on Kind:
//
//	KindNone          : none
//	KindEquality      : Lower holds the value
//	KindRange         : Lower and/or Upper (exclusive upper bound)
//	KindIsNotNull     : none
//	KindIsNull        : none
//	KindInList        : Values, sorted ascending, deduplicated, len >= 2
//	KindInBloomFilter : Filters (len >= 1), plus optional Lower/Upper range
type ColumnPredicate struct {
	Kind   Kind
	Column schema.ColumnSchema

	Lower []byte
	Upper []byte

	Values [][]byte

	Filters []bloom.FilterSpec
}

// None returns a predicate that matches nothing. It is the annihilator of
// Merge: merging None with anything yields None.
func None(column schema.ColumnSchema) ColumnPredicate {
	return ColumnPredicate{Kind: KindNone, Column: column}
}

// Equality returns a predicate matching exactly the cells equal to v.
func Equality(column schema.ColumnSchema, v []byte) ColumnPredicate {
	return ColumnPredicate{Kind: KindEquality, Column: column, Lower: v}
}

// IsNotNull returns a predicate matching every non-null cell.
func IsNotNull(column schema.ColumnSchema) ColumnPredicate {
	return ColumnPredicate{Kind: KindIsNotNull, Column: column}
}

// IsNull returns a predicate matching every null cell. Only valid for
// nullable columns; evaluation against a non-nullable block always yields
// no matches.
func IsNull(column schema.ColumnSchema) ColumnPredicate {
	return ColumnPredicate{Kind: KindIsNull, Column: column}
}

// Range returns a predicate matching [lower, upper), lower inclusive,
// upper exclusive. Either bound may be nil, meaning unbounded on that side.
// If both bounds are set and lower >= upper, the range is empty and Range
// returns None instead. If the range collapses to exactly one value (upper
// is lower's immediate successor), it returns Equality(lower) instead.
func Range(column schema.ColumnSchema, lower, upper []byte) ColumnPredicate {
	if lower != nil && upper != nil {
		cmp := schema.ComparatorFor(column.Type)
		if cmp(lower, upper) >= 0 {
			return None(column)
		}
		if schema.IsImmediateSuccessor(column.Type, lower, upper) {
			return Equality(column, lower)
		}
	}
	return ColumnPredicate{Kind: KindRange, Column: column, Lower: lower, Upper: upper}
}

// InclusiveRange builds a Range predicate from an inclusive lower bound and
// an inclusive upper bound, normalizing the upper bound to the canonical
// exclusive form via arena-backed successor computation. ok is false when
// the range covers the column's entire domain (lower is the type minimum
// and upper is the type maximum), in which case no predicate is needed at
// all; the caller should simply omit this predicate from its scan.
func InclusiveRange(column schema.ColumnSchema, lower, upper []byte, arena *schema.Arena) (ColumnPredicate, bool) {
	t := column.Type

	newLower := lower
	if schema.IsMinValue(t, lower) {
		newLower = nil
	}

	var newUpper []byte
	if exclusive, ok := schema.Successor(t, upper, arena); ok {
		newUpper = exclusive
	}

	if newLower == nil && newUpper == nil {
		return ColumnPredicate{}, false
	}
	return Range(column, newLower, newUpper), true
}

// ExclusiveRange builds a Range predicate from an exclusive lower bound and
// the already-exclusive upper bound used throughout this package,
// normalizing the lower bound to inclusive via arena-backed successor
// computation. If lower is already the type's maximum value, there is no
// value strictly greater than it and the predicate can never match.
func ExclusiveRange(column schema.ColumnSchema, lower, upper []byte, arena *schema.Arena) ColumnPredicate {
	inclusiveLower, ok := schema.Successor(column.Type, lower, arena)
	if !ok {
		return None(column)
	}
	return Range(column, inclusiveLower, upper)
}

// InList returns a predicate matching any cell equal to one of values.
// values is sorted and deduplicated in place. An empty list yields None; a
// single-element list yields Equality.
func InList(column schema.ColumnSchema, values [][]byte) ColumnPredicate {
	cmp := schema.ComparatorFor(column.Type)
	values = sortUniqueValues(values, cmp)
	return simplifyList(column, values)
}

// InBloomFilter returns a predicate that tests membership in one or more
// Bloom filters, optionally narrowed by an inclusive-lower/exclusive-upper
// range that every matching value must also satisfy. filters must be
// non-empty.
func InBloomFilter(column schema.ColumnSchema, filters []bloom.FilterSpec, lower, upper []byte) ColumnPredicate {
	if len(filters) == 0 {
		return None(column)
	}
	return ColumnPredicate{Kind: KindInBloomFilter, Column: column, Filters: filters, Lower: lower, Upper: upper}
}

// simplifyList reduces a sorted, deduplicated value list to its canonical
// predicate form: zero values is None, one value is Equality, two or more
// stays InList.
func simplifyList(column schema.ColumnSchema, values [][]byte) ColumnPredicate {
	switch len(values) {
	case 0:
		return None(column)
	case 1:
		return Equality(column, values[0])
	default:
		return ColumnPredicate{Kind: KindInList, Column: column, Values: values}
	}
}

// sortUniqueValues sorts values with cmp and removes adjacent duplicates,
// reusing the backing array.
func sortUniqueValues(values [][]byte, cmp schema.Comparator) [][]byte {
	insertionSort(values, cmp)
	if len(values) < 2 {
		return values
	}
	out := values[:1]
	for _, v := range values[1:] {
		if cmp(out[len(out)-1], v) != 0 {
			out = append(out, v)
		}
	}
	return out
}

// insertionSort sorts small value lists in place. Predicate value lists are
// rarely large enough to justify sort.Slice's overhead, and this avoids
// pulling in reflection-based sorting for a handful of []byte comparisons.
func insertionSort(values [][]byte, cmp schema.Comparator) {
	for i := 1; i < len(values); i++ {
		for j := i; j > 0 && cmp(values[j-1], values[j]) > 0; j-- {
			values[j-1], values[j] = values[j], values[j-1]
		}
	}
}
