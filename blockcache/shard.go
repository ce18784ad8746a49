package blockcache

import (
	"container/list"
	"errors"
	"sync"
)

// ErrNoCapacity is returned when a single entry's charge exceeds its
// shard's entire capacity, so no amount of eviction could ever fit it.
var ErrNoCapacity = errors.New("blockcache: insufficient shard capacity")

// shard is one stripe of the cache: its own mutex, hash table, and
// eviction list. A plain sync.Mutex rather than an RWMutex, since every
// table mutation also needs to touch the eviction list, which a read lock
// can't protect.
type shard struct {
	mu sync.Mutex

	table map[string]*entry
	order *list.List // list.Element.Value is *entry; front = next to evict

	capacityBytes int
	usedBytes     int

	policy  Policy
	metrics *Metrics

	dram MemAllocator
	nvm  MemAllocator
}

func newShard(capacityBytes int, policy Policy, metrics *Metrics, dram, nvm MemAllocator) *shard {
	return &shard{
		table:         make(map[string]*entry),
		order:         list.New(),
		capacityBytes: capacityBytes,
		policy:        policy,
		metrics:       metrics,
		dram:          dram,
		nvm:           nvm,
	}
}

// lookup returns the pinned entry for key, or nil on a miss. A hit under
// PolicyLRU moves the entry to the back of the eviction list.
func (s *shard) lookup(key string, expect Expectation) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.table[key]
	if !ok {
		s.metrics.recordLookup(expect)
		s.metrics.recordMiss(expect)
		return nil
	}
	e.pin()
	if s.policy.touchOnHit() {
		s.order.MoveToBack(e.listElem)
	}
	s.metrics.recordLookup(expect)
	s.metrics.recordHit()
	return e
}

// allocate reserves charge bytes of capacity for key, evicting unpinned
// entries (oldest/least-recently-used first, depending on policy) until
// enough room exists or there is nothing left to evict. It returns a fresh
// buffer of valLen bytes for the caller to fill before calling publish.
func (s *shard) allocate(key string, valLen, charge int, memType MemoryType) (*entry, error) {
	allocator := allocatorFor(memType, s.dram, s.nvm)

	s.mu.Lock()
	dead, err := s.makeRoomLocked(charge)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.usedBytes += charge
	s.mu.Unlock()
	s.metrics.addUsage(int64(charge))

	for _, e := range dead {
		s.finalize(e)
	}

	buf, err := allocator.Allocate(valLen)
	if err != nil {
		s.mu.Lock()
		s.usedBytes -= charge
		s.mu.Unlock()
		s.metrics.addUsage(-int64(charge))
		return nil, err
	}

	return newEntry(key, buf, charge, memType, allocator), nil
}

// makeRoomLocked evicts unpinned entries until usedBytes+additional fits
// within capacityBytes. Capacity is a soft limit under pin pressure: if
// every remaining entry is pinned by an outstanding Handle, the new entry
// is admitted over budget rather than failing the caller. Only a single
// charge larger than the whole shard fails. It returns the entries whose
// last reference dropped; the caller must finalize them after releasing
// s.mu. Callers must hold s.mu.
func (s *shard) makeRoomLocked(additional int) ([]*entry, error) {
	if additional > s.capacityBytes {
		return nil, ErrNoCapacity
	}
	var dead []*entry
	elem := s.order.Front()
	for s.usedBytes+additional > s.capacityBytes {
		if elem == nil {
			break
		}
		next := elem.Next()
		e := elem.Value.(*entry)
		if e.refs.Load() > 1 {
			// Pinned by an outstanding Handle; skip it and keep scanning
			// rather than evicting memory still in use.
			s.metrics.recordEvictionSkipped()
			elem = next
			continue
		}
		if d := s.evictLocked(e); d != nil {
			dead = append(dead, d)
		}
		elem = next
	}
	return dead, nil
}

// evictLocked removes e from the table and eviction list and drops the
// table's own reference. If that was the last reference it returns e so
// the caller can finalize it (free memory, fire its eviction callback)
// after releasing s.mu; otherwise the last Handle's Release finalizes it.
// Callers must hold s.mu.
func (s *shard) evictLocked(e *entry) *entry {
	delete(s.table, e.key)
	s.order.Remove(e.listElem)
	e.listElem = nil
	e.inCache = false
	s.usedBytes -= e.charge
	s.metrics.addUsage(-int64(e.charge))
	s.metrics.recordEviction()
	if e.unpin() {
		return e
	}
	return nil
}

// finalize runs an entry's end-of-life work once its last reference has
// dropped: the eviction callback sees the still-valid bytes, then the
// allocator reclaims them. Must be called without s.mu held, so callbacks
// can re-enter the cache.
func (s *shard) finalize(e *entry) {
	if e == nil {
		return
	}
	if e.evictCB != nil {
		e.evictCB(e.key, e.value)
	}
	e.allocator.Free(e.value)
}

// publish inserts a previously-allocated entry into the table under its
// key, replacing (and evicting) any existing entry for that key. It
// returns a pinned reference for the caller, matching the ref the table
// itself also holds.
func (s *shard) publish(e *entry) *entry {
	s.mu.Lock()

	var dead *entry
	if old, ok := s.table[e.key]; ok {
		dead = s.evictLocked(old)
	}

	e.inCache = true
	e.listElem = s.order.PushBack(e)
	s.table[e.key] = e
	e.pin() // the caller's own reference, on top of the table's
	s.metrics.recordInsert()
	s.mu.Unlock()

	s.finalize(dead)
	return e
}

// release drops one reference to e, finalizing it if that was the last
// one (e.g. an evicted or invalidated entry whose last Handle has just
// been released).
func (s *shard) release(e *entry) {
	if e.unpin() {
		s.finalize(e)
	}
}

// erase removes key from the table if present, returning whether anything
// was removed. The entry is finalized once the last outstanding Handle
// releases.
func (s *shard) erase(key string) bool {
	s.mu.Lock()
	e, ok := s.table[key]
	if !ok {
		s.mu.Unlock()
		return false
	}
	dead := s.evictLocked(e)
	s.mu.Unlock()

	s.finalize(dead)
	return true
}

// invalidate scans every entry in the shard, in eviction-list order,
// offering each to ctl. Entries ctl selects for removal are evicted exactly
// as erase would. Scanning stops early if ctl says to.
func (s *shard) invalidate(ctl InvalidationControl) (validated, invalidated int64) {
	var dead []*entry

	s.mu.Lock()
	elem := s.order.Front()
	for elem != nil {
		next := elem.Next()
		e := elem.Value.(*entry)

		validated++
		if ctl.ShouldEvict([]byte(e.key), e.value) {
			if d := s.evictLocked(e); d != nil {
				dead = append(dead, d)
			}
			invalidated++
			s.metrics.recordInvalidation(1)
		}
		if !ctl.Continue(validated, invalidated) {
			break
		}
		elem = next
	}
	s.mu.Unlock()

	for _, e := range dead {
		s.finalize(e)
	}
	return validated, invalidated
}
