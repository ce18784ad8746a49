package bits

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// BitWriter encodes fixed-width values into a caller-supplied buffer. By
// default the buffer is a hard limit; EnableGrowing switches overflow from
// a panic to a reallocation.
type BitWriter struct {
	pos   int
	data  []byte
	size  int
	order binary.ByteOrder

	growingEnabled bool
}

func NewEncodeBuffer(buf []byte, order binary.ByteOrder) BitWriter {
	return BitWriter{
		data:  buf,
		size:  len(buf),
		order: order,
	}
}

func (w *BitWriter) EnableGrowing() {
	w.growingEnabled = true
}

func (w *BitWriter) Reset() {
	w.pos = 0
}

func (w BitWriter) Position() int {
	return w.pos
}

func (w *BitWriter) ReadByte() (n byte, err error) {
	n = w.data[w.pos]
	w.pos++
	return
}

func (w *BitWriter) grow(atLeast int) {
	newSize := w.size * 2
	if atLeast > newSize {
		newSize += atLeast
	}

	newBuf := make([]byte, newSize)
	copy(newBuf, w.data[:w.pos])

	w.data = newBuf
	w.size = newSize
}

func (w *BitWriter) reserve(n int) {
	if w.pos+n <= w.size {
		return
	}
	if !w.growingEnabled {
		panic(fmt.Sprintf("bit writer growing is disabled on pos : %d, try grow %d, from size : %d", w.pos, n, w.size))
	}
	w.grow(n)
}

func (w *BitWriter) Write(p []byte) (n int, err error) {
	w.reserve(len(p))

	n = copy(w.data[w.pos:], p)
	if n != len(p) {
		return 0, errors.New("not enough space")
	}

	w.pos += n
	return
}

// EmptyBytes advances the cursor past i bytes without touching them.
func (w *BitWriter) EmptyBytes(i int) {
	w.reserve(i)
	w.pos += i
}

func (w *BitWriter) Bytes() []byte {
	return w.data[:w.pos]
}

func (w *BitWriter) WriteByte(u uint8) {
	w.reserve(1)
	w.data[w.pos] = u
	w.pos++
}

func (w *BitWriter) PutUint16(v uint16) {
	w.reserve(2)
	w.order.PutUint16(w.data[w.pos:], v)
	w.pos += 2
}

func (w *BitWriter) PutInt32(v int32) {
	w.reserve(4)
	w.order.PutUint32(w.data[w.pos:], uint32(v))
	w.pos += 4
}

func (w *BitWriter) PutUint64(v uint64) {
	w.reserve(8)
	w.order.PutUint64(w.data[w.pos:], v)
	w.pos += 8
}

func (w *BitWriter) PutInt64(v int64) {
	w.reserve(8)
	w.order.PutUint64(w.data[w.pos:], uint64(v))
	w.pos += 8
}

func (w *BitWriter) PutFloat32(v float32) {
	w.reserve(4)
	w.order.PutUint32(w.data[w.pos:], math.Float32bits(v))
	w.pos += 4
}

func (w *BitWriter) PutFloat64(f float64) {
	w.reserve(8)
	w.order.PutUint64(w.data[w.pos:], math.Float64bits(f))
	w.pos += 8
}
