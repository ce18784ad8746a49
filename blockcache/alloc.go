package blockcache

import "sync/atomic"

// MemoryType tags which backing store an entry's bytes live in, DRAM by
// default with an NVM variant for colder tiers.
type MemoryType int

const (
	MemoryDRAM MemoryType = iota
	MemoryNVM
)

func (m MemoryType) String() string {
	switch m {
	case MemoryDRAM:
		return "DRAM"
	case MemoryNVM:
		return "NVM"
	default:
		return "UNKNOWN"
	}
}

// MemAllocator owns the bytes behind cache values for one MemoryType. A
// shard never reads/writes through an allocator after Allocate returns;
// it's purely an accounting and provisioning seam, letting DRAM and NVM
// entries share the same shard/eviction-list machinery.
type MemAllocator interface {
	Allocate(n int) ([]byte, error)
	Free(buf []byte)
}

// dramAllocator is the default: plain heap allocation, freed by the
// garbage collector once the last Handle and table reference drop (Free is
// a no-op, same rationale as bloom.defaultBufferAllocator.FreeBuffer).
type dramAllocator struct{}

func (dramAllocator) Allocate(n int) ([]byte, error) { return make([]byte, n), nil }
func (dramAllocator) Free([]byte)                    {}

// nvmAllocator still backs entries with normal Go heap memory (there is
// no real NVM device to map in this process) but tracks bytes outstanding
// in its own counter rather than through the shard's DRAM accounting. The
// cache's Metrics snapshot does not include this counter.
type nvmAllocator struct {
	outstanding atomic.Int64
}

func newNVMAllocator() *nvmAllocator { return &nvmAllocator{} }

func (a *nvmAllocator) Allocate(n int) ([]byte, error) {
	a.outstanding.Add(int64(n))
	return make([]byte, n), nil
}

func (a *nvmAllocator) Free(buf []byte) {
	a.outstanding.Add(-int64(len(buf)))
}

func (a *nvmAllocator) Outstanding() int64 {
	return a.outstanding.Load()
}

func allocatorFor(memType MemoryType, dram MemAllocator, nvm MemAllocator) MemAllocator {
	if memType == MemoryNVM {
		return nvm
	}
	return dram
}
