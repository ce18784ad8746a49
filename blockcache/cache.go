// Package blockcache implements a sharded, pinned-handle block cache:
// Allocate/Insert/Lookup/Erase/Invalidate over fixed-capacity shards with
// pluggable FIFO/LRU eviction, optional NVM-tagged backing, and metrics
// split by lookup expectation. It fronts disk-backed storage with a bounded
// pool of refcounted byte buffers; manager/cache builds its slab buffer
// pool on top of it.
package blockcache

import (
	"errors"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"
)

// Config configures a Cache: how capacity is striped across shards, which
// eviction policy each shard runs, and whether entries are tagged DRAM or
// NVM by default.
type Config struct {
	CapacityBytes int
	NumShards     int
	Policy        Policy
	MemoryType    MemoryType

	// SingleShardOverride forces NumShards to 1 regardless of the field
	// above, for tests that want deterministic eviction order across the
	// whole cache rather than per stripe.
	SingleShardOverride bool
}

// DefaultConfig returns a Config with sane defaults: 16 shards, LRU
// eviction, DRAM backing.
func DefaultConfig(capacityBytes int) Config {
	return Config{
		CapacityBytes: capacityBytes,
		NumShards:     16,
		Policy:        PolicyLRU,
		MemoryType:    MemoryDRAM,
	}
}

// Cache is a sharded, pinned-handle key/value cache over []byte blocks.
// All methods are safe for concurrent use.
type Cache struct {
	shards  []*shard
	mask    uint64 // len(shards) is always a power of two
	memType MemoryType

	metrics *Metrics

	loadGroup singleflight.Group
}

// NewCache builds a Cache from cfg. Capacity is divided evenly across
// shards (any remainder goes to the last shard).
func NewCache(cfg Config) *Cache {
	numShards := cfg.NumShards
	if cfg.SingleShardOverride || numShards < 1 {
		numShards = 1
	}
	numShards = nextPowerOfTwo(numShards)

	metrics := &Metrics{}
	dram := MemAllocator(dramAllocator{})
	nvm := MemAllocator(newNVMAllocator())

	perShard := cfg.CapacityBytes / numShards
	shards := make([]*shard, numShards)
	for i := range shards {
		cap := perShard
		if i == numShards-1 {
			cap = cfg.CapacityBytes - perShard*(numShards-1)
		}
		shards[i] = newShard(cap, cfg.Policy, metrics, dram, nvm)
	}

	return &Cache{shards: shards, mask: uint64(numShards - 1), memType: cfg.MemoryType, metrics: metrics}
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func (c *Cache) shardFor(key string) *shard {
	h := xxhash.Sum64String(key)
	return c.shards[h&c.mask]
}

// Lookup returns a pinned Handle for key, or nil on a miss. expect
// controls which miss counter in Metrics is incremented. Callers must
// call Release on a non-nil result.
func (c *Cache) Lookup(key string, expect Expectation) *Handle {
	s := c.shardFor(key)
	e := s.lookup(key, expect)
	if e == nil {
		return nil
	}
	return &Handle{cache: c, shard: s, e: e}
}

// PendingHandle is a reserved-but-unpublished cache slot returned by
// Allocate: capacity has already been charged and the buffer is ready to
// fill, but the entry isn't visible to Lookup until passed to Insert.
type PendingHandle struct {
	key   string
	shard *shard
	e     *entry

	consumed bool
}

// Bytes returns the buffer to fill in before calling Insert.
func (p *PendingHandle) Bytes() []byte { return p.e.value }

// Charge returns the capacity reserved for this pending entry.
func (p *PendingHandle) Charge() int { return p.e.charge }

// ErrAlreadyConsumed is returned by Insert if called twice on the same
// PendingHandle, or by Discard after Insert already consumed it.
var ErrAlreadyConsumed = errors.New("blockcache: pending handle already inserted or discarded")

// Allocate reserves charge bytes of capacity for key and returns a buffer
// of valLen bytes to fill in, evicting other (unpinned) entries in key's
// shard as needed. The caller must follow up with exactly one of Insert or
// Discard.
func (c *Cache) Allocate(key string, valLen, charge int) (*PendingHandle, error) {
	return c.allocateWithMemType(key, valLen, charge, c.defaultMemType())
}

func (c *Cache) defaultMemType() MemoryType {
	// All shards share one Cache-wide default; see Config.MemoryType.
	return c.memType
}

func (c *Cache) allocateWithMemType(key string, valLen, charge int, memType MemoryType) (*PendingHandle, error) {
	s := c.shardFor(key)
	e, err := s.allocate(key, valLen, charge, memType)
	if err != nil {
		return nil, err
	}
	return &PendingHandle{key: key, shard: s, e: e}, nil
}

// EvictionCallback observes an entry's end of life: it runs exactly once,
// with the entry's original key and value, after the entry has left the
// table AND the last outstanding Handle (if any) has released. It is never
// invoked while a shard lock is held, so it may call back into the cache.
type EvictionCallback func(key string, value []byte)

// Insert publishes a PendingHandle into the cache, making it visible to
// Lookup, and returns a pinned Handle to it. Inserting under a key that's
// already present evicts the old entry first.
func (c *Cache) Insert(p *PendingHandle) *Handle {
	return c.InsertWithCallback(p, nil)
}

// InsertWithCallback is Insert with an eviction callback attached to the
// entry; cb fires once the entry is both out of the table and unpinned.
func (c *Cache) InsertWithCallback(p *PendingHandle, cb EvictionCallback) *Handle {
	if p.consumed {
		panic(ErrAlreadyConsumed)
	}
	p.consumed = true
	p.e.evictCB = cb
	e := p.shard.publish(p.e)
	return &Handle{cache: c, shard: p.shard, e: e}
}

// Discard abandons a PendingHandle without publishing it, returning its
// reserved capacity and freeing its buffer.
func (p *PendingHandle) Discard() {
	if p.consumed {
		return
	}
	p.consumed = true
	p.shard.mu.Lock()
	p.shard.usedBytes -= p.e.charge
	p.shard.mu.Unlock()
	p.shard.metrics.addUsage(-int64(p.e.charge))
	p.e.allocator.Free(p.e.value)
}

// Erase removes key from the cache if present. The memory behind it is
// freed once the last outstanding Handle (if any) releases.
func (c *Cache) Erase(key string) bool {
	return c.shardFor(key).erase(key)
}

// Invalidate runs ctl across every shard, evicting the entries it selects.
// It returns the total number of entries inspected and evicted across all
// shards.
func (c *Cache) Invalidate(ctl InvalidationControl) (validated, invalidated int64) {
	for _, s := range c.shards {
		v, inv := s.invalidate(ctl)
		validated += v
		invalidated += inv
	}
	return validated, invalidated
}

// Metrics returns a point-in-time snapshot of cache-wide counters.
func (c *Cache) Metrics() Snapshot {
	return c.metrics.Snapshot()
}

// GetOrLoad looks key up; on a miss it calls load to fill a freshly
// allocated valLen-byte buffer and inserts the result, collapsing
// concurrent misses for the same key onto a single call to load the way
// manager/meta/slab_manager.go's singleflight.Group collapses concurrent
// slab loads for the same ID.
func (c *Cache) GetOrLoad(key string, valLen, charge int, load func(buf []byte) error) (*Handle, error) {
	if h := c.Lookup(key, NoExpectation); h != nil {
		return h, nil
	}

	v, shared, err := c.loadGroupDo(key, valLen, charge, load)
	if err != nil {
		return nil, err
	}
	h := v.(*Handle)
	if !shared {
		return h, nil
	}
	// A follower joined an in-flight load and was handed the leader's
	// Handle; pin an independent reference so each caller's Release is
	// balanced.
	h.e.pin()
	return &Handle{cache: c, shard: h.shard, e: h.e}, nil
}

func (c *Cache) loadGroupDo(key string, valLen, charge int, load func(buf []byte) error) (any, bool, error) {
	v, err, shared := c.loadGroup.Do(key, func() (any, error) {
		if h := c.Lookup(key, NoExpectation); h != nil {
			return h, nil
		}
		pending, err := c.Allocate(key, valLen, charge)
		if err != nil {
			return nil, err
		}
		if err := load(pending.Bytes()); err != nil {
			pending.Discard()
			return nil, err
		}
		return c.Insert(pending), nil
	})
	return v, shared, err
}
