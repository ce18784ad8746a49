package cache

import (
	"errors"
	"sync"
	"time"

	"github.com/dot5enko/tabletdb/blockcache"
	"github.com/dot5enko/tabletdb/schema"
	"github.com/google/uuid"
)

// SlabCacheManager is a fixed-size pool of slab-sized buffers, handed out
// one at a time to whatever slab a caller is currently loading or writing.
// Entries are never returned to the pool once checked out (a slab, once
// resident, stays resident for the process lifetime); Prefill sizes the
// pool for the working set the caller expects to need.
//
// Internally this is a thin wrapper over blockcache.Cache: each pool slot
// is one pinned entry, so the same shard/eviction machinery that backs ad
// hoc block lookups elsewhere also backs this pool, instead of a second
// bespoke allocator.
type SlabCacheManager struct {
	cache *blockcache.Cache

	mu    sync.Mutex
	items []*SlabCacheItem
	free  chan int
}

func NewSlabCacheManager() *SlabCacheManager {
	return &SlabCacheManager{}
}

var ErrNoFreeEntries = errors.New("no free entries")

// Prefill allocates size slab-sized buffers up front, each backed by its
// own pinned blockcache.Handle so none of them can be evicted out from
// under a caller that's mid-load.
func (m *SlabCacheManager) Prefill(size int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg := blockcache.DefaultConfig(size * schema.SlabDiskContentsUncompressed)
	cfg.SingleShardOverride = true
	cfg.Policy = blockcache.PolicyFIFO
	m.cache = blockcache.NewCache(cfg)

	m.items = make([]*SlabCacheItem, size)
	m.free = make(chan int, size)

	for i := 0; i < size; i++ {
		m.items[i] = m.newPoolItem()
		m.free <- i
	}
}

func (m *SlabCacheManager) newPoolItem() *SlabCacheItem {
	uid, _ := uuid.NewV7()

	pending, err := m.cache.Allocate(uid.String(), schema.SlabDiskContentsUncompressed, schema.SlabDiskContentsUncompressed)
	if err != nil {
		// Prefill is sized by the caller to fit within the pool's own
		// capacity, so an allocate-time failure here means the pool was
		// misconfigured, not a runtime condition to recover from.
		panic(err)
	}
	handle := m.cache.Insert(pending)

	return &SlabCacheItem{
		CacheEntryId: uid,
		Data:         handle.Value(),
		RtStats:      &CacheStats{Created: time.Now()},
	}
}

// GetCacheEntry checks out the next free pool slot, or ErrNoFreeEntries if
// every slot has already been handed out.
func (m *SlabCacheManager) GetCacheEntry() (*SlabCacheItem, error) {
	select {
	case idx := <-m.free:
		m.mu.Lock()
		item := m.items[idx]
		m.mu.Unlock()
		return item, nil
	default:
		return nil, ErrNoFreeEntries
	}
}
