package blockcache

// Policy selects which entry a shard evicts first when it needs to make
// room: FIFO keeps insertion order and never reorders on access, LRU keeps
// recency order and is touched on every successful Lookup. The policy is
// picked per Cache.
type Policy int

const (
	// PolicyLRU evicts the least recently accessed entry first. Every
	// Lookup hit moves the entry to the back of the eviction list.
	PolicyLRU Policy = iota
	// PolicyFIFO evicts the oldest-inserted entry first, regardless of
	// how often it's looked up.
	PolicyFIFO
)

func (p Policy) String() string {
	switch p {
	case PolicyLRU:
		return "LRU"
	case PolicyFIFO:
		return "FIFO"
	default:
		return "UNKNOWN"
	}
}

// touchOnHit reports whether a successful Lookup under this policy should
// move the entry to the back of its shard's eviction list.
func (p Policy) touchOnHit() bool {
	return p == PolicyLRU
}
