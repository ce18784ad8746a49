package schema

import (
	"math/rand"
	"testing"
)

func BenchmarkMinMaxRand(b *testing.B) {

	size := 40000

	input := make([]uint64, size)

	for i := 0; i < size; i++ {
		val := uint64(rand.Int63n(50000))
		input[i] = val
	}

	var result BoundsFloat

	for b.Loop() {
		result = GetMaxMinBoundsFloat(input)
	}

	b.Logf("min : %v, max : %v", result.Min, result.Max)
}

func TestMinMax(b *testing.T) {

	minVal := float64(0)
	maxVal := float64(7000)

	input := []float64{minVal, maxVal, 1, 2, 3, 4, 5, 6, 0}

	result := GetMaxMinBoundsFloat(input[:])

	if result.Max != maxVal {
		b.Errorf("Expected %.2f but got %.2f", maxVal, result.Max)
	}

	if result.Min != minVal {
		b.Errorf("Expected %.2f but got %.2f", minVal, result.Min)
	}

}

func TestMinMaxFloat(b *testing.T) {

	minVal := -10.0
	maxVal := 7000.0

	input := []float64{minVal, maxVal, 1, 2, 3, 4, 5, 6, 0.0, 1000}

	result := GetMaxMinBoundsFloat(input[:])

	if result.Max != maxVal {
		b.Errorf("Expected %.2f but got %.2f", maxVal, result.Max)
	}

	if result.Min != minVal {
		b.Errorf("Expected %.2f but got %.2f", minVal, result.Min)
	}

}
