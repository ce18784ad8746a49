package blockcache

// InvalidationControl drives a bulk Cache.Invalidate pass with a pair of
// callbacks: one predicate decides whether a given entry should be
// dropped, the other decides whether the scan should keep going after each
// decision (letting a caller cap the number of entries touched or stop
// once enough have been invalidated).
type InvalidationControl interface {
	// ShouldEvict reports whether the entry with this key/value should be
	// removed from the cache.
	ShouldEvict(key, value []byte) bool
	// Continue reports whether Invalidate should keep scanning. validated
	// is the number of entries inspected so far (including this one);
	// invalidated is how many of those were evicted.
	Continue(validated, invalidated int64) bool
}

// InvalidateAll is an InvalidationControl that unconditionally evicts every
// entry and never stops early, the common "drop everything" case, e.g.
// when a slab is deleted out from under the cache.
type InvalidateAll struct{}

func (InvalidateAll) ShouldEvict(key, value []byte) bool    { return true }
func (InvalidateAll) Continue(validated, invalidated int64) bool { return true }

// InvalidateByKeyPrefix evicts entries whose key starts with Prefix,
// scanning every entry in every shard.
type InvalidateByKeyPrefix struct {
	Prefix string
}

func (c InvalidateByKeyPrefix) ShouldEvict(key, value []byte) bool {
	if len(key) < len(c.Prefix) {
		return false
	}
	return string(key[:len(c.Prefix)]) == c.Prefix
}

func (c InvalidateByKeyPrefix) Continue(validated, invalidated int64) bool { return true }
