package ops

// CompareNumericValuesAreEqual collects into out the indices of arr values
// equal to cmp. Like the other kernels the index write is unconditional
// and the cursor advances only on a match, so the unrolled body carries no
// branches at all.
func CompareNumericValuesAreEqual[T NumericTypes](arr []T, cmp T, out []uint16) int {
	hits := 0
	n := len(arr)
	i := 0

	for ; i+8 <= n; i += 8 {
		out[hits] = uint16(i + 0)
		hits += b2i(arr[i+0] == cmp)
		out[hits] = uint16(i + 1)
		hits += b2i(arr[i+1] == cmp)
		out[hits] = uint16(i + 2)
		hits += b2i(arr[i+2] == cmp)
		out[hits] = uint16(i + 3)
		hits += b2i(arr[i+3] == cmp)
		out[hits] = uint16(i + 4)
		hits += b2i(arr[i+4] == cmp)
		out[hits] = uint16(i + 5)
		hits += b2i(arr[i+5] == cmp)
		out[hits] = uint16(i + 6)
		hits += b2i(arr[i+6] == cmp)
		out[hits] = uint16(i + 7)
		hits += b2i(arr[i+7] == cmp)
	}

	for ; i < n; i++ {
		out[hits] = uint16(i)
		hits += b2i(arr[i] == cmp)
	}
	return hits
}
