package blockcache

import "sync/atomic"

// Expectation tells Lookup whether the caller expects the key to already
// be resident, so hit/miss counters can be split by intent: a
// "no expectation" miss is routine (e.g. a speculative prefetch check)
// while an "expect in cache" miss usually signals a bug or an eviction
// storm worth alerting on.
type Expectation int

const (
	NoExpectation Expectation = iota
	ExpectInCache
)

// Metrics accumulates cache-wide counters across all shards. All fields
// are updated with atomic adds so a Cache can be read from many goroutines
// without taking a lock just to report stats.
type Metrics struct {
	hits               atomic.Int64
	misses             atomic.Int64
	missesExpected     atomic.Int64
	inserts            atomic.Int64
	evictions          atomic.Int64
	evictionsSkipped   atomic.Int64
	invalidations      atomic.Int64
	lookupsNoExpect    atomic.Int64
	lookupsExpectCache atomic.Int64
	usageBytes         atomic.Int64
}

func (m *Metrics) recordLookup(expect Expectation) {
	if expect == ExpectInCache {
		m.lookupsExpectCache.Add(1)
	} else {
		m.lookupsNoExpect.Add(1)
	}
}

func (m *Metrics) recordHit()  { m.hits.Add(1) }
func (m *Metrics) recordMiss(expect Expectation) {
	m.misses.Add(1)
	if expect == ExpectInCache {
		m.missesExpected.Add(1)
	}
}
func (m *Metrics) recordInsert()              { m.inserts.Add(1) }
func (m *Metrics) recordEviction()            { m.evictions.Add(1) }
func (m *Metrics) recordEvictionSkipped()     { m.evictionsSkipped.Add(1) }
func (m *Metrics) recordInvalidation(n int64) { m.invalidations.Add(n) }
func (m *Metrics) addUsage(delta int64)       { m.usageBytes.Add(delta) }

// Snapshot is a point-in-time copy of Metrics, safe to read field-by-field
// without racing further updates.
type Snapshot struct {
	Hits                    int64
	Misses                  int64
	MissesWithExpectInCache int64
	Inserts                 int64
	Evictions               int64
	EvictionsSkippedPinned  int64
	Invalidations           int64
	LookupsNoExpectation    int64
	LookupsExpectInCache    int64

	// UsageBytes is the total charge currently reserved across all
	// shards, including pending allocations not yet published.
	UsageBytes int64
}

func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		Hits:                    m.hits.Load(),
		Misses:                  m.misses.Load(),
		MissesWithExpectInCache: m.missesExpected.Load(),
		Inserts:                 m.inserts.Load(),
		Evictions:               m.evictions.Load(),
		EvictionsSkippedPinned:  m.evictionsSkipped.Load(),
		Invalidations:           m.invalidations.Load(),
		LookupsNoExpectation:    m.lookupsNoExpect.Load(),
		LookupsExpectInCache:    m.lookupsExpectCache.Load(),
		UsageBytes:              m.usageBytes.Load(),
	}
}
