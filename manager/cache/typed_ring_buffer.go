package cache

// TypedRingBuffer is the typed sibling of FixedSizeBufferPool: a fixed
// set of T values recycled through a free-list channel. Callers get a
// pointer into the backing slice and must Return the same index when
// done; values are not zeroed between uses.
type TypedRingBuffer[T any] struct {
	items []T
	free  chan uint16
}

func NewTypedRingBuffer[T any](n int) *TypedRingBuffer[T] {
	r := &TypedRingBuffer[T]{
		items: make([]T, n),
		free:  make(chan uint16, n),
	}
	for i := 0; i < n; i++ {
		r.free <- uint16(i)
	}
	return r
}

func (r *TypedRingBuffer[T]) Get() (*T, uint16) {
	id := <-r.free
	return &r.items[id], id
}

func (r *TypedRingBuffer[T]) Return(id uint16) {
	r.free <- id
}
