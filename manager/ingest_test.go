package manager

import (
	"math/rand"
	"testing"

	"github.com/dot5enko/tabletdb/schema"
)

func TestCollectTypedDataToArray(t *testing.T) {

	rows := []any{
		[]any{uint16(0), uint64(100)},
		[]any{uint16(1), uint64(200)},
		[]any{uint16(2), uint64(300)},
	}

	out := make([]uint64, len(rows))

	collectErr := CollectTypedDataToArray(rows, out, schema.Uint64FieldType, 1)
	if collectErr != nil {
		t.Fatalf("unexpected error : %s", collectErr.Error())
	}

	if out[0] != 100 || out[2] != 300 {
		t.Errorf("unexpected column values %v", out)
	}

}

func TestCollectTypedDataToArrayTypeMismatch(t *testing.T) {

	rows := []any{
		[]any{uint64(100)},
		[]any{int64(200)},
	}

	out := make([]uint64, len(rows))

	collectErr := CollectTypedDataToArray(rows, out, schema.Uint64FieldType, 0)
	if collectErr == nil {
		t.Fatal("expected an error for mismatched row value type")
	}

}

func TestCollectColumnBool(t *testing.T) {

	rows := []any{
		[]any{true},
		[]any{false},
		[]any{true},
	}

	columnData, collectErr := collectColumn(rows, schema.BoolFieldType, 0)
	if collectErr != nil {
		t.Fatalf("unexpected error : %s", collectErr.Error())
	}

	typed := columnData.([]uint8)
	if typed[0] != 1 || typed[1] != 0 || typed[2] != 1 {
		t.Errorf("unexpected bool column %v", typed)
	}

}

func TestCollectColumnUnsupportedType(t *testing.T) {

	rows := []any{[]any{[]byte{1}}}

	_, collectErr := collectColumn(rows, schema.BinaryFieldType, 0)
	if collectErr == nil {
		t.Fatal("expected an error for binary columns")
	}

}

func BenchmarkTransponeSlow(b *testing.B) {

	const size = 40000

	input := make([]uint64, size)

	for i := 0; i < size; i++ {
		val := uint64(rand.Int63n(50000))
		input[i] = val
	}

	inputRows := []any{}

	for idx, it := range input {
		inputRows = append(inputRows, []any{uint16(idx), it})
	}

	var outputInts [size]uint64
	var outputIdx [size]uint16

	for b.Loop() {
		CollectTypedDataToArray(inputRows, outputInts[:], schema.Uint64FieldType, 1)
		CollectTypedDataToArray(inputRows, outputIdx[:], schema.Uint16FieldType, 0)
	}

}
