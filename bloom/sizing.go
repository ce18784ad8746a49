package bloom

import "math"

// These three functions are derived from
//
//	fpp = (1 - exp(-k*ndv/m))^k
//
// where m is the directory size in bits and k = kBucketWords = 8.

// MaxNdv returns the largest number of distinct values that can be inserted
// into a filter of the given size while keeping the false positive
// probability at or below fpp.
func MaxNdv(logSpaceBytes int, fpp float64) uint64 {
	const ik = 1.0 / float64(kBucketWords)
	bits := float64(uint64(1) << uint(logSpaceBytes+3))
	return uint64(-ik * bits * math.Log(1-math.Pow(fpp, ik)))
}

// MinLogSpace returns the smallest log_space_bytes such that a filter of
// that size, holding ndv distinct values, meets the target fpp.
func MinLogSpace(ndv uint64, fpp float64) int {
	if ndv == 0 {
		return 0
	}
	const k = float64(kBucketWords)
	m := -k * float64(ndv) / math.Log(1-math.Pow(fpp, 1.0/k))
	logSpace := int(math.Ceil(math.Log2(m / 8)))
	if logSpace < 0 {
		logSpace = 0
	}
	return logSpace
}

// FalsePositiveProb returns the expected false positive probability for a
// filter of the given size holding ndv distinct values.
func FalsePositiveProb(ndv uint64, logSpaceBytes int) float64 {
	bits := float64(uint64(1) << uint(logSpaceBytes+3))
	return math.Pow(1-math.Exp(-float64(kBucketWords)*float64(ndv)/bits), float64(kBucketWords))
}
