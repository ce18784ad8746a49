package lists

import (
	"math/rand"
	"testing"
)

func randomFillIndices(n int, fillPercent int) []uint16 {
	out := make([]uint16, 0, n*fillPercent/100)
	for i := 0; i < n; i++ {
		if rand.Intn(100) < fillPercent {
			out = append(out, uint16(i))
		}
	}
	return out
}

func BenchmarkIntersectFastRandSparse(t *testing.B) {

	size := 4000

	input := randomFillIndices(size, 35)
	input2 := randomFillIndices(size, 30)

	out := make([]uint16, size*2)
	cache := make([]uint16, size*2)
	cache3 := make([]uint16, size*2)

	for t.Loop() {
		IntersectFast(input, input2, cache, cache3, out)
	}

}

func BenchmarkIntersectFastRandFull(t *testing.B) {

	size := 4000

	input := randomFillIndices(size, 85)
	input2 := randomFillIndices(size, 80)

	out := make([]uint16, size*2)
	cache := make([]uint16, size*2)
	cache3 := make([]uint16, size*2)

	for t.Loop() {
		IntersectFast(input, input2, cache, cache3, out)
	}

}

func BenchmarkIntersectFastRandHalfSparse(t *testing.B) {

	size := 4000

	input := randomFillIndices(size, 85)
	input2 := randomFillIndices(size, 15)

	out := make([]uint16, size*2)
	cache := make([]uint16, size*2)
	cache3 := make([]uint16, size*2)

	for t.Loop() {
		IntersectFast(input, input2, cache, cache3, out)
	}

}

func BenchmarkIntersectSlowSparse(t *testing.B) {

	size := 4000

	input := randomFillIndices(size, 35)
	input2 := randomFillIndices(size, 30)

	out := make([]uint16, size*2)
	cache := map[uint16]uint8{}

	for t.Loop() {
		Intersect(input, input2, out, cache)
	}
}

func BenchmarkIntersectSlowFull(t *testing.B) {

	size := 4000

	input := randomFillIndices(size, 85)
	input2 := randomFillIndices(size, 70)

	out := make([]uint16, size*2)
	cache := map[uint16]uint8{}

	for t.Loop() {
		Intersect(input, input2, out, cache)
	}
}

func BenchmarkIntersectSlowHalfSparse(t *testing.B) {

	size := 4000

	input := randomFillIndices(size, 85)
	input2 := randomFillIndices(size, 15)

	out := make([]uint16, size*2)
	cache := map[uint16]uint8{}

	for t.Loop() {
		Intersect(input, input2, out, cache)
	}
}

func TestMergeIsCorrect(t *testing.T) {
	size := 4000
	testI := 20

	input := randomFillIndices(size, 35)
	input2 := randomFillIndices(size, 30)

	out := make([]uint16, size*2)
	cacheMap := map[uint16]uint8{}

	cache := make([]uint16, size*2)
	cache3 := make([]uint16, size*2)

	for i := 0; i < testI; i++ {
		intersectSlowResult := Intersect(input, input2, out, cacheMap)
		intersectFastResult := IntersectFast(input, input2, cache, cache3, out)

		if intersectFastResult != intersectSlowResult {
			t.Errorf("Expected [slow=%d] but got [fast = %d]", intersectSlowResult, intersectFastResult)
		}
	}

}
