package cache

import (
	"testing"

	"github.com/dot5enko/tabletdb/schema"
)

// touch forces one write per cache line so the benchmark measures real
// buffer traffic, not just channel ping-pong.
func touch(buf []byte) {
	for i := 0; i < len(buf); i += 64 {
		buf[i]++
	}
}

func BenchmarkSliceArena(b *testing.B) {
	p := NewFixedSizeBufferPool(128, schema.SlabHeaderFixedSize)

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			buf, idx := p.Get()
			touch(buf)
			p.Return(idx)
		}
	})
}

func BenchmarkSliceSeparateAllocs(b *testing.B) {
	p := newScatteredBufferPool(128, schema.SlabHeaderFixedSize)

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			buf, idx := p.Get()
			touch(buf)
			p.Return(idx)
		}
	})
}

func BenchmarkSliceFixedArray(b *testing.B) {
	p := newFixedArrayPool()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			buf, idx := p.Get()
			touch(buf)
			p.Return(idx)
		}
	})
}

// benchmark-only competitors for FixedSizeBufferPool

// scatteredBufferPool allocates each buffer separately instead of
// slicing one arena.
type scatteredBufferPool struct {
	buffers [][]byte
	free    chan uint16
}

func newScatteredBufferPool(n int, bufSize int) *scatteredBufferPool {
	p := &scatteredBufferPool{
		buffers: make([][]byte, n),
		free:    make(chan uint16, n),
	}
	for i := 0; i < n; i++ {
		p.buffers[i] = make([]byte, bufSize)
		p.free <- uint16(i)
	}
	return p
}

func (p *scatteredBufferPool) Get() ([]byte, uint16) {
	id := <-p.free
	return p.buffers[id], id
}

func (p *scatteredBufferPool) Return(id uint16) {
	p.free <- id
}

// fixedArrayPool bakes both pool size and element size into the type,
// trading flexibility for a single flat allocation.
const fixedArrayPoolSize = 128

type fixedArrayPool struct {
	buffers [fixedArrayPoolSize][schema.SlabHeaderFixedSize]byte
	free    chan uint16
}

func newFixedArrayPool() *fixedArrayPool {
	p := &fixedArrayPool{
		free: make(chan uint16, fixedArrayPoolSize),
	}
	for i := 0; i < fixedArrayPoolSize; i++ {
		p.free <- uint16(i)
	}
	return p
}

func (p *fixedArrayPool) Get() ([]byte, uint16) {
	id := <-p.free
	return p.buffers[id][:], id
}

func (p *fixedArrayPool) Return(id uint16) {
	p.free <- id
}
