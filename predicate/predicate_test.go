package predicate

import (
	"math"
	"sort"
	"testing"

	"github.com/dot5enko/tabletdb/bloom"
	"github.com/dot5enko/tabletdb/schema"
)

func int32Column(name string, nullable bool) schema.ColumnSchema {
	return schema.ColumnSchema{Name: name, Type: schema.Int32FieldType, Nullable: nullable}
}

func i32(v int32) []byte { return schema.EncodeInt32(v) }

func TestRangeConstructorCanonicalForm(t *testing.T) {
	col := int32Column("a", false)

	// Empty range: lower >= upper.
	if p := Range(col, i32(10), i32(5)); p.Kind != KindNone {
		t.Fatalf("expected None for empty range, got %s", p.Kind)
	}
	if p := Range(col, i32(5), i32(5)); p.Kind != KindNone {
		t.Fatalf("expected None for lower == upper, got %s", p.Kind)
	}

	// Singleton range collapses to Equality.
	p := Range(col, i32(5), i32(6))
	if p.Kind != KindEquality {
		t.Fatalf("expected Equality for singleton range, got %s", p.Kind)
	}
	if schema.Compare(schema.Int32FieldType, p.Lower, i32(5)) != 0 {
		t.Fatalf("expected Equality value 5")
	}

	// Ordinary range stays a Range.
	if p := Range(col, i32(1), i32(100)); p.Kind != KindRange {
		t.Fatalf("expected Range, got %s", p.Kind)
	}
}

func TestInclusiveRangeWholeDomainOmitsPredicate(t *testing.T) {
	col := int32Column("a", false)
	arena := schema.NewArena()

	_, ok := InclusiveRange(col, i32(math.MinInt32), i32(math.MaxInt32), arena)
	if ok {
		t.Fatalf("expected InclusiveRange covering the whole domain to report ok=false")
	}
}

func TestInListDeduplicatesAndSorts(t *testing.T) {
	col := int32Column("a", false)
	values := [][]byte{i32(30), i32(10), i32(20), i32(10)}

	p := InList(col, values)
	if p.Kind != KindInList {
		t.Fatalf("expected InList, got %s", p.Kind)
	}
	if len(p.Values) != 3 {
		t.Fatalf("expected 3 unique values, got %d", len(p.Values))
	}
	for i := 1; i < len(p.Values); i++ {
		if schema.Compare(schema.Int32FieldType, p.Values[i-1], p.Values[i]) >= 0 {
			t.Fatalf("expected strictly ascending values, got %v", p.Values)
		}
	}
}

func TestInListSingletonCollapsesToEquality(t *testing.T) {
	col := int32Column("a", false)
	p := InList(col, [][]byte{i32(7), i32(7)})
	if p.Kind != KindEquality {
		t.Fatalf("expected Equality, got %s", p.Kind)
	}
}

func TestInListEmptyCollapsesToNone(t *testing.T) {
	col := int32Column("a", false)
	p := InList(col, nil)
	if p.Kind != KindNone {
		t.Fatalf("expected None for empty list, got %s", p.Kind)
	}
}

// Equality AND Range intersecting leaves the (more selective) Equality.
func TestMergeEqualityWithOverlappingRange(t *testing.T) {
	col := int32Column("a", false)
	eq := Equality(col, i32(42))
	rng := Range(col, i32(0), i32(100))

	got := eq.Merge(rng)
	if got.Kind != KindEquality {
		t.Fatalf("expected Equality, got %s", got.Kind)
	}
	if schema.Compare(schema.Int32FieldType, got.Lower, i32(42)) != 0 {
		t.Fatalf("expected value 42 preserved")
	}
}

// Equality outside the range collapses to None.
func TestMergeEqualityOutsideRange(t *testing.T) {
	col := int32Column("a", false)
	eq := Equality(col, i32(200))
	rng := Range(col, i32(0), i32(100))

	if got := eq.Merge(rng); got.Kind != KindNone {
		t.Fatalf("expected None, got %s", got.Kind)
	}
}

// Two ranges intersect to their overlap.
func TestMergeRangeWithRange(t *testing.T) {
	col := int32Column("a", false)
	a := Range(col, i32(0), i32(100))
	b := Range(col, i32(50), i32(200))

	got := a.Merge(b)
	if got.Kind != KindRange {
		t.Fatalf("expected Range, got %s", got.Kind)
	}
	if schema.Compare(schema.Int32FieldType, got.Lower, i32(50)) != 0 {
		t.Fatalf("expected lower bound 50")
	}
	if schema.Compare(schema.Int32FieldType, got.Upper, i32(100)) != 0 {
		t.Fatalf("expected upper bound 100")
	}
}

func TestMergeDisjointRangesYieldsNone(t *testing.T) {
	col := int32Column("a", false)
	a := Range(col, i32(0), i32(10))
	b := Range(col, i32(20), i32(30))

	if got := a.Merge(b); got.Kind != KindNone {
		t.Fatalf("expected None for disjoint ranges, got %s", got.Kind)
	}
}

// Range AND InList filters the list down to members inside the range.
func TestMergeRangeWithInList(t *testing.T) {
	col := int32Column("a", false)
	rng := Range(col, i32(0), i32(25))
	list := InList(col, [][]byte{i32(5), i32(30), i32(10)})

	got := rng.Merge(list)
	if got.Kind != KindInList {
		t.Fatalf("expected InList, got %s", got.Kind)
	}
	if len(got.Values) != 2 {
		t.Fatalf("expected 2 surviving values, got %d", len(got.Values))
	}
}

func TestMergeInListWithInList(t *testing.T) {
	col := int32Column("a", false)
	a := InList(col, [][]byte{i32(1), i32(2), i32(3)})
	b := InList(col, [][]byte{i32(2), i32(3), i32(4)})

	got := a.Merge(b)
	if got.Kind != KindInList {
		t.Fatalf("expected InList, got %s", got.Kind)
	}
	if len(got.Values) != 2 {
		t.Fatalf("expected intersection of size 2, got %d", len(got.Values))
	}
}

func TestMergeNoneIsAnnihilator(t *testing.T) {
	col := int32Column("a", false)
	none := None(col)
	rng := Range(col, i32(0), i32(10))

	if got := none.Merge(rng); got.Kind != KindNone {
		t.Fatalf("expected None, got %s", got.Kind)
	}
	if got := rng.Merge(none); got.Kind != KindNone {
		t.Fatalf("expected None, got %s", got.Kind)
	}
}

func TestMergeIsNullWithIsNotNullIsNone(t *testing.T) {
	col := int32Column("a", true)
	isNull := IsNull(col)
	isNotNull := IsNotNull(col)

	if got := isNull.Merge(isNotNull); got.Kind != KindNone {
		t.Fatalf("expected None, got %s", got.Kind)
	}
}

func TestMergeIsNotNullIsIdentity(t *testing.T) {
	col := int32Column("a", true)
	isNotNull := IsNotNull(col)
	eq := Equality(col, i32(9))

	got := isNotNull.Merge(eq)
	if got.Kind != KindEquality {
		t.Fatalf("expected Equality (IsNotNull acts as identity), got %s", got.Kind)
	}
}

func TestEvaluateRangeAgainstBlock(t *testing.T) {
	col := int32Column("a", false)
	rng := Range(col, i32(10), i32(20))

	data := make([]byte, 0, 4*5)
	for _, v := range []int32{5, 10, 15, 19, 20} {
		data = append(data, i32(v)...)
	}
	block := schema.NewFixedWidthBlock(schema.Int32FieldType, data, 5)
	sel := schema.NewSelectionVectorAllSet(5)

	rng.Evaluate(block, sel)

	want := []bool{false, true, true, true, false}
	for i, w := range want {
		if sel.Get(i) != w {
			t.Fatalf("row %d: got %v, want %v", i, sel.Get(i), w)
		}
	}
}

func TestEvaluateRespectsAlreadyClearedBits(t *testing.T) {
	col := int32Column("a", false)
	eq := Equality(col, i32(5))

	data := append(i32(5), i32(5)...)
	block := schema.NewFixedWidthBlock(schema.Int32FieldType, data, 2)
	sel := schema.NewSelectionVectorAllSet(2)
	sel.Clear(0)

	eq.Evaluate(block, sel)

	if sel.Get(0) {
		t.Fatalf("row 0 should stay cleared regardless of predicate result")
	}
	if !sel.Get(1) {
		t.Fatalf("row 1 should remain selected, it matches Equality(5)")
	}
}

func TestEvaluateInBloomFilter(t *testing.T) {
	col := int32Column("a", false)

	f := bloom.New(nil)
	if err := f.Init(12); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer f.Close()

	probe, _ := bloom.BloomKeyProbe(i32(42), bloom.CityHash)
	f.Insert(probe.H1)

	spec := bloom.FilterSpec{Bytes: f.Directory(), NHash: 8, Algorithm: bloom.CityHash}
	p := InBloomFilter(col, []bloom.FilterSpec{spec}, nil, nil)

	data := append(i32(42), i32(43)...)
	block := schema.NewFixedWidthBlock(schema.Int32FieldType, data, 2)
	sel := schema.NewSelectionVectorAllSet(2)

	p.Evaluate(block, sel)

	if !sel.Get(0) {
		t.Fatalf("expected inserted value to pass the bloom filter predicate")
	}
	// Row 1 (43) was never inserted; it may or may not pass due to false
	// positives, so we don't assert on it here.
}

func TestSelectivityComparatorOrdersMostSelectiveFirst(t *testing.T) {
	col := int32Column("a", true)
	preds := []ColumnPredicate{
		IsNotNull(col),
		Range(col, i32(0), i32(100)),
		InList(col, [][]byte{i32(1), i32(2), i32(3)}),
		IsNull(col),
		Equality(col, i32(5)),
	}

	sort.Slice(preds, SelectivityComparator(preds))

	want := []Kind{KindIsNull, KindEquality, KindInList, KindRange, KindIsNotNull}
	for i, k := range want {
		if preds[i].Kind != k {
			t.Fatalf("position %d: got %s, want %s", i, preds[i].Kind, k)
		}
	}
}

func TestSelectivityComparatorSmallerListFirst(t *testing.T) {
	col := int32Column("a", false)
	preds := []ColumnPredicate{
		InList(col, [][]byte{i32(1), i32(2), i32(3)}),
		InList(col, [][]byte{i32(1), i32(2)}),
	}

	sort.Slice(preds, SelectivityComparator(preds))

	if len(preds[0].Values) != 2 {
		t.Fatalf("expected the 2-value list first, got %d values", len(preds[0].Values))
	}
}

func TestSelectivityComparatorNarrowerRangeFirst(t *testing.T) {
	col := int32Column("a", false)
	preds := []ColumnPredicate{
		Range(col, i32(0), i32(1000)),
		Range(col, i32(10), i32(20)),
	}

	sort.Slice(preds, SelectivityComparator(preds))

	if schema.Compare(schema.Int32FieldType, preds[0].Lower, i32(10)) != 0 {
		t.Fatalf("expected the contained [10,20) range first")
	}
}

func TestSelectivityComparatorBreaksTiesByColumnName(t *testing.T) {
	preds := []ColumnPredicate{
		Equality(int32Column("b", false), i32(1)),
		Equality(int32Column("a", false), i32(1)),
	}

	sort.Slice(preds, SelectivityComparator(preds))

	if preds[0].Column.Name != "a" {
		t.Fatalf("expected column \"a\" first on tie, got %q", preds[0].Column.Name)
	}
}
