package bits

import (
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/google/uuid"
)

var ErrReadMismatch = errors.New("read size mismatch")

const MaxBinReaderBufferSize = 256

// BitsReader decodes fixed-width values from a stream through a small
// scratch buffer, so individual reads never allocate.
type BitsReader struct {
	readBuffer [MaxBinReaderBufferSize]byte

	buf   io.Reader
	order binary.ByteOrder
}

func NewReader(buf io.Reader, order binary.ByteOrder) *BitsReader {
	return &BitsReader{buf: buf, order: order}
}

func (r *BitsReader) next(size int) ([]byte, error) {
	got, err := r.buf.Read(r.readBuffer[:size])
	if err != nil {
		return nil, err
	}
	if got != size {
		return nil, ErrReadMismatch
	}
	return r.readBuffer[:size], nil
}

// Buffer exposes the underlying stream so a nested decoder can pick up
// at the current position.
func (r *BitsReader) Buffer() io.Reader {
	return r.buf
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func (r *BitsReader) ReadU8() (uint8, error) {
	b, err := r.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *BitsReader) ReadI8() (int8, error) {
	u, err := r.ReadU8()
	return int8(u), err
}

func (r *BitsReader) ReadU16() (uint16, error) {
	b, err := r.next(2)
	if err != nil {
		return 0, err
	}
	return r.order.Uint16(b), nil
}

func (r *BitsReader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

func (r *BitsReader) ReadU32() (uint32, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(b), nil
}

func (r *BitsReader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

func (r *BitsReader) ReadU64() (uint64, error) {
	b, err := r.next(8)
	if err != nil {
		return 0, err
	}
	return r.order.Uint64(b), nil
}

func (r *BitsReader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

func (r *BitsReader) ReadF32() (float32, error) {
	u, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}

func (r *BitsReader) ReadF64() (float64, error) {
	u, err := r.ReadU64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(u), nil
}

func (r *BitsReader) ReadUUID() (result uuid.UUID, err error) {
	err = r.ReadBytes(16, result[:])
	return result, err
}

func (r *BitsReader) ReadBytes(n int, out []byte) error {
	got, err := r.buf.Read(out[:n])
	if got != n {
		return ErrReadMismatch
	}
	return err
}

func (r *BitsReader) MustReadU8() uint8   { return must(r.ReadU8()) }
func (r *BitsReader) MustReadU16() uint16 { return must(r.ReadU16()) }
func (r *BitsReader) MustReadU64() uint64 { return must(r.ReadU64()) }
func (r *BitsReader) MustReadI64() int64  { return must(r.ReadI64()) }
func (r *BitsReader) MustReadF64() float64 {
	return must(r.ReadF64())
}
