package ops

import "testing"

func TestEqualCollectsIndices(t *testing.T) {

	input := []uint64{5, 9, 5, 0, 5, 1, 2, 3, 5}

	out := make([]uint16, len(input))

	resultSize := CompareNumericValuesAreEqual(input, uint64(5), out)

	if resultSize != 4 {
		t.Errorf("Expected %d but got %d", 4, resultSize)
	} else if out[0] != 0 || out[1] != 2 || out[2] != 4 || out[3] != 8 {
		t.Errorf("unexpected indices %v", out[:resultSize])
	}

}

func TestBiggerTail(t *testing.T) {

	input := []int64{-5, 100, 7, 100}

	out := make([]uint16, len(input))

	resultSize := CompareValuesAreBigger(input, int64(7), out)

	if resultSize != 2 {
		t.Errorf("Expected %d but got %d", 2, resultSize)
	} else if out[0] != 1 || out[1] != 3 {
		t.Errorf("unexpected indices %v", out[:resultSize])
	}

}

func TestSmallerUnrolledBlock(t *testing.T) {

	input := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 0.5}

	out := make([]uint16, len(input))

	resultSize := CompareValuesAreSmaller(input, 3.0, out)

	if resultSize != 3 {
		t.Errorf("Expected %d but got %d", 3, resultSize)
	} else if out[2] != 9 {
		t.Errorf("unexpected indices %v", out[:resultSize])
	}

}
