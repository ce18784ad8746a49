package bloom

import (
	"bytes"
	"fmt"
)

// FilterSpec is the wire description of one Bloom filter consulted by an
// InBloomFilter predicate: the raw directory bytes, how many of the
// bucket's eight lanes to check per key, and which hash algorithm produced
// the probe. Equality compares all three fields byte-wise.
type FilterSpec struct {
	Bytes     []byte
	NHash     int
	Algorithm HashAlgorithm
}

// Equal reports whether two specs describe the same filter.
func (s FilterSpec) Equal(other FilterSpec) bool {
	return s.NHash == other.NHash &&
		s.Algorithm == other.Algorithm &&
		bytes.Equal(s.Bytes, other.Bytes)
}

// Validate checks the directory invariants: bytes length is a power of two
// of at least 32, and 1 <= nhash <= 8.
func (s FilterSpec) Validate() error {
	if len(s.Bytes) < 32 || len(s.Bytes)&(len(s.Bytes)-1) != 0 {
		return fmt.Errorf("%w: bloom filter bytes length %d is not a power of two >= 32", ErrInvalidArgument, len(s.Bytes))
	}
	if s.NHash < 1 || s.NHash > kBucketWords {
		return fmt.Errorf("%w: bloom filter nhash %d out of range [1,%d]", ErrInvalidArgument, s.NHash, kBucketWords)
	}
	return nil
}

// Reader is a lightweight, read-only view over an externally-owned block
// Bloom filter directory, the form a FilterSpec arrives in at evaluation
// time. Unlike BlockBloomFilter it owns no memory and allocates nothing:
// MayContainKey only ever reads through the borrowed Bytes slice.
type Reader struct {
	dir           []bucket
	directoryMask uint32
	nhash         int
}

// NewReader mounts a FilterSpec for querying. spec must already satisfy
// Validate.
func NewReader(spec FilterSpec) (*Reader, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	dir := bytesAsBuckets(spec.Bytes)
	return &Reader{
		dir:           dir,
		directoryMask: uint32(len(dir) - 1),
		nhash:         spec.NHash,
	}, nil
}

// MayContainKey reports whether the key behind probe may have been
// inserted into the filter this Reader mounts. Only the first NHash lanes
// of the bucket are checked (a caller may build a FilterSpec with fewer
// than the usual eight lanes populated).
func (r *Reader) MayContainKey(probe Probe) bool {
	idx := rehash32To32(probe.H1) & r.directoryMask
	b := &r.dir[idx]
	for i := 0; i < r.nhash; i++ {
		bit := (kRehash[i] * probe.H1) >> (32 - bucketBitsPerLane)
		if b[i]&(uint32(1)<<bit) == 0 {
			return false
		}
	}
	return true
}
