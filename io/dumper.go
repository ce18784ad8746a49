package io

import (
	stdio "io"
	"log"
	"unsafe"
)

// reinterpretSlice views a numeric slice as its raw little-endian bytes
// without copying. Valid only for fixed-size element types.
func reinterpretSlice[T any](v []T) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*int(unsafe.Sizeof(v[0])))
}

func DumpNumbersArrayBlock[T uint64 | uint32 | uint16 | uint8 | int64 | int32 | int16 | int8 | int | float64 | float32](w stdio.Writer, arr []T) error {
	if len(arr) == 0 {
		return nil
	}

	_, err := w.Write(reinterpretSlice(arr))
	return err
}

// DumpNumbersArrayBlockAny reinterprets arr (one of the numeric slice
// types a RuntimeBlockData.DataTypedArray can hold) as bytes and writes
// it to w, without copying through a typed intermediate. It returns the
// number of bytes written.
func DumpNumbersArrayBlockAny(w stdio.Writer, arr any) (int, error) {

	var b []byte

	switch v := arr.(type) {
	case []float64:
		b = reinterpretSlice(v)
	case []float32:
		b = reinterpretSlice(v)
	case []uint64:
		b = reinterpretSlice(v)
	case []uint32:
		b = reinterpretSlice(v)
	case []uint16:
		b = reinterpretSlice(v)
	case []uint8:
		b = v
	case []int64:
		b = reinterpretSlice(v)
	case []int32:
		b = reinterpretSlice(v)
	case []int16:
		b = reinterpretSlice(v)
	case []int8:
		b = reinterpretSlice(v)
	default:
		log.Panicf("io: DumpNumbersArrayBlockAny: unsupported array type %T", arr)
	}

	return w.Write(b)
}
