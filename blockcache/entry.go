package blockcache

import (
	"container/list"
	"sync/atomic"
)

// entry is one cached key/value pair plus the bookkeeping a shard needs to
// place it in its eviction list and know when it is safe to free: refs
// counts the cache table's own reference (1, while inCache) plus one per
// outstanding Handle. An entry is only freed back to its allocator once
// refs drops to zero, which may happen well after Erase/Invalidate removes
// it from the table if a caller is still holding a Handle.
type entry struct {
	key   string
	value []byte

	// charge is how many bytes this entry counts against the shard's
	// capacity, independent of len(value), so a caller can round up to
	// an allocation granularity or discount a sparse block.
	charge int

	memType   MemoryType
	allocator MemAllocator

	refs    atomic.Int32
	inCache bool

	// evictCB, if set via InsertWithCallback, runs exactly once when the
	// entry's last reference drops after it has left the table. nil for
	// plain Insert.
	evictCB EvictionCallback

	// listElem links this entry into its shard's eviction list (FIFO
	// insertion order, or LRU recency order, see evict.go). nil while
	// the entry isn't in the list, e.g. between Erase and the last
	// Handle's Release.
	listElem *list.Element
}

func newEntry(key string, value []byte, charge int, memType MemoryType, allocator MemAllocator) *entry {
	e := &entry{key: key, value: value, charge: charge, memType: memType, allocator: allocator}
	e.refs.Store(1) // the cache table's own reference
	return e
}

func (e *entry) pin() {
	e.refs.Add(1)
}

// unpin releases one reference and reports whether it was the last one,
// meaning the entry's memory should now be returned to its allocator.
func (e *entry) unpin() bool {
	return e.refs.Add(-1) == 0
}
