package bits

import (
	"unsafe"
)

// MapBytesToArray reinterprets a byte buffer as a slice of count values of
// type T without copying. The buffer must stay alive for as long as the
// returned slice is used.
func MapBytesToArray[T any](data []byte, count int) []T {
	var sample T
	valueSize := int(unsafe.Sizeof(sample))

	if len(data) < count*valueSize {
		panic("not enough data")
	}

	return unsafe.Slice((*T)(unsafe.Pointer(&data[0])), count)
}

// ArrayAsBytes is the converse of MapBytesToArray: it exposes the raw bytes
// backing a typed slice without copying.
func ArrayAsBytes[T any](arr []T) []byte {
	if len(arr) == 0 {
		return nil
	}
	var sample T
	valueSize := int(unsafe.Sizeof(sample))
	return unsafe.Slice((*byte)(unsafe.Pointer(&arr[0])), len(arr)*valueSize)
}
