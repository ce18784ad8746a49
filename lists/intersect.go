package lists

// Intersect is the reference map-based intersection of two unique index
// lists, kept around to cross-check the counting variant in tests. out
// receives the shared indices in the order they appear in the longer input.
func Intersect[T uint64 | uint16](a, b, out []T, cache map[T]uint8) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	clear(cache)

	small, big := a, b
	if len(b) < len(a) {
		small, big = b, a
	}
	for _, v := range small {
		cache[v] = 0
	}

	filled := 0
	for _, v := range big {
		if _, ok := cache[v]; ok {
			out[filled] = v
			filled++
		}
	}
	return filled
}

// IntersectFast intersects two unique index lists by occurrence counting
// in a dense table: an index seen a second time is present in both inputs.
// scratch holds the concatenated inputs; seen is indexed by row index and
// must cover the largest index in either input.
func IntersectFast(a, b, scratch, seen, out []uint16) int {
	clear(seen)

	joined := scratch[:0]
	joined = append(joined, a...)
	joined = append(joined, b...)

	filled := 0
	for _, v := range joined {
		if seen[v] == 1 {
			out[filled] = v
			filled++
		}
		seen[v]++
	}
	return filled
}
