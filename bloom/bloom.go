// Package bloom implements the split block Bloom filter used both as a
// standalone probabilistic membership index and as the storage behind the
// predicate package's InBloomFilter kind.
//
// A block Bloom filter partitions its directory into small buckets that
// each fit a single allocation of 32 bytes (eight 32-bit words). An item
// hashes to exactly one bucket, and all of its bits are set or tested
// within that one bucket, trading a small increase in false-positive rate
// for far better cache locality than scattering k bits across a large
// standard Bloom filter. See Putze, Sanders, Singler, "Cache-, Hash- and
// Space-Efficient Bloom Filters" for the background.
package bloom

import (
	"errors"
	"fmt"
	"unsafe"
)

// ErrInvalidArgument is returned by Init when the requested size cannot be
// represented by a 32-bit bucket index.
var ErrInvalidArgument = errors.New("bloom: invalid argument")

// ErrAllocation is returned by Init when the buffer allocator fails.
var ErrAllocation = errors.New("bloom: allocation failure")

const (
	// kBucketWords is the number of 32-bit words (lanes) in one bucket.
	kBucketWords = 8
	// kLogBucketByteSize is log2(32), the byte size of one bucket.
	kLogBucketByteSize = 5
	// bucketBitsPerLane: the top 5 bits of a rehashed lane select one of
	// 32 positions within that lane's 32-bit word.
	bucketBitsPerLane = 5
)

// kRehash holds eight odd 32-bit multipliers, one per lane, used
// identically by Insert and Find so that a bit set on insertion is always
// found again. These are the well-known Impala/Kudu block Bloom filter
// constants.
var kRehash = [kBucketWords]uint32{
	0x47b6137b, 0x44974d91, 0x8824ad5b, 0xa2b7289d,
	0x705495c7, 0x2df1424b, 0x9efc4947, 0x5c6bfb31,
}

// bucket is the 32-byte, 8-word directory unit.
type bucket [kBucketWords]uint32

// BlockBloomFilter is an owned, split block Bloom filter directory. It is
// not safe for concurrent use by multiple writers; concurrent readers are
// fine once the filter is no longer being inserted into.
type BlockBloomFilter struct {
	alwaysFalse   bool
	allocator     BufferAllocator
	logNumBuckets int
	directoryMask uint32

	// buf is the raw allocation returned by allocator. directory is a
	// zero-copy []bucket view over buf (mirroring how this codebase maps
	// raw byte buffers onto typed arrays elsewhere, e.g. bits.MapBytesToArray),
	// valid only while buf is non-nil.
	buf       []byte
	directory []bucket
}

// New returns an uninitialized filter using the given allocator. Call Init
// before using it. A nil allocator selects DefaultAllocator.
func New(allocator BufferAllocator) *BlockBloomFilter {
	if allocator == nil {
		allocator = DefaultAllocator
	}
	return &BlockBloomFilter{alwaysFalse: true, allocator: allocator}
}

// Init allocates the directory for a target log_space_bytes, i.e. the
// filter occupies roughly 2^log_space_bytes bytes of memory.
func (f *BlockBloomFilter) Init(logSpaceBytes int) error {
	logNumBuckets := logSpaceBytes - kLogBucketByteSize
	if logNumBuckets < 1 {
		logNumBuckets = 1
	}
	if logNumBuckets > 32 {
		return fmt.Errorf("%w: bloom filter too large, log_space_bytes=%d", ErrInvalidArgument, logSpaceBytes)
	}

	f.Close()

	f.logNumBuckets = logNumBuckets
	numBuckets := uint64(1) << uint(logNumBuckets)
	f.directoryMask = uint32(numBuckets - 1)

	allocSize := int(numBuckets) * kBucketWords * 4
	buf, err := f.allocator.AllocateBuffer(allocSize)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrAllocation, err.Error())
	}
	for i := range buf {
		buf[i] = 0
	}

	f.buf = buf
	f.directory = bytesAsBuckets(buf)
	f.alwaysFalse = true
	return nil
}

// Close releases the directory. Init may be called again afterward. Close
// is idempotent.
func (f *BlockBloomFilter) Close() {
	if f.buf != nil {
		f.allocator.FreeBuffer(f.buf)
		f.buf = nil
		f.directory = nil
	}
}

// LogNumBuckets reports the current number of directory buckets as a power
// of two's exponent.
func (f *BlockBloomFilter) LogNumBuckets() int { return f.logNumBuckets }

// AlwaysFalse reports whether Find is guaranteed to return false for any
// input, i.e. nothing has been inserted yet.
func (f *BlockBloomFilter) AlwaysFalse() bool { return f.alwaysFalse }

// Insert adds a 32-bit hash to the filter.
func (f *BlockBloomFilter) Insert(hash uint32) {
	f.alwaysFalse = false
	idx := rehash32To32(hash) & f.directoryMask
	bucketInsert(&f.directory[idx], hash)
}

// Find reports whether hash may have been inserted. False positives are
// possible; false negatives are not.
func (f *BlockBloomFilter) Find(hash uint32) bool {
	if f.alwaysFalse {
		return false
	}
	idx := rehash32To32(hash) & f.directoryMask
	return bucketFind(&f.directory[idx], hash)
}

// Directory returns a read-only byte view of the filter's directory, in the
// on-wire layout consumed by Reader, e.g. to hand to
// predicate.InBloomFilter as a FilterSpec.
func (f *BlockBloomFilter) Directory() []byte {
	return f.buf
}

func bucketInsert(b *bucket, hash uint32) {
	for i := 0; i < kBucketWords; i++ {
		bit := (kRehash[i] * hash) >> (32 - bucketBitsPerLane)
		b[i] |= uint32(1) << bit
	}
}

func bucketFind(b *bucket, hash uint32) bool {
	for i := 0; i < kBucketWords; i++ {
		bit := (kRehash[i] * hash) >> (32 - bucketBitsPerLane)
		if b[i]&(uint32(1)<<bit) == 0 {
			return false
		}
	}
	return true
}

// rehash32To32 decorrelates a hash before it selects a bucket, so that two
// keys landing in the same bucket by coincidence of their raw hash don't
// also share lane bit patterns. Adapted from the SplitMix64 finalizer,
// truncated to the low 32 bits.
func rehash32To32(h uint32) uint32 {
	x := uint64(h)
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return uint32(x)
}

// bytesAsBuckets reinterprets buf as a []bucket without copying. buf's
// length must be a multiple of 32 bytes; callers (Init, NewReader) enforce
// this before calling.
func bytesAsBuckets(buf []byte) []bucket {
	if len(buf) == 0 {
		return nil
	}
	n := len(buf) / (kBucketWords * 4)
	return unsafe.Slice((*bucket)(unsafe.Pointer(&buf[0])), n)
}
