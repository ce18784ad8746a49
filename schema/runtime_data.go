package schema

import (
	"fmt"
	"reflect"
	"sync"
)

// RuntimeBlockData is the mutable in-memory form of one block: a typed
// array plus a fill cursor. Writes are serialized by the lock; readers
// going through DirectAccess see the array up to Items.
type RuntimeBlockData struct {
	Header DiskHeader

	lock sync.RWMutex

	DataTypedArray any
	Cap            int
	Items          int
}

func writeTypedArray[T NumericTypes](b *RuntimeBlockData, dataArray any, startOffset int) (int, BoundsFloat, error) {
	typedArray, typedOk := b.DataTypedArray.([]T)
	inputArray, inputOk := dataArray.([]T)

	if !typedOk || !inputOk {
		return 0, BoundsFloat{}, fmt.Errorf("wrong type in runtime block: input type: %s, expected type : %s", reflect.TypeOf(dataArray), reflect.TypeOf(b.DataTypedArray))
	}

	copied := copy(typedArray[b.Items:], inputArray[startOffset:])
	if copied == 0 {
		return 0, BoundsFloat{}, nil
	}

	// bounds cover only the values appended by this call; the caller
	// merges them into the block header's running bounds
	return copied, GetMaxMinBoundsFloat(typedArray[b.Items : b.Items+copied]), nil
}

// Write appends values from dataArray (starting at dataArrayStartOffset)
// into the block, up to the block's capacity. It returns how many values
// were copied and the min/max bounds of exactly those values.
func (b *RuntimeBlockData) Write(dataArray any, dataArrayStartOffset int, typ FieldType) (written int, bounds BoundsFloat, topErr error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	switch typ {
	case Float64FieldType:
		written, bounds, topErr = writeTypedArray[float64](b, dataArray, dataArrayStartOffset)
	case Float32FieldType:
		written, bounds, topErr = writeTypedArray[float32](b, dataArray, dataArrayStartOffset)
	case Uint64FieldType:
		written, bounds, topErr = writeTypedArray[uint64](b, dataArray, dataArrayStartOffset)
	case Uint32FieldType:
		written, bounds, topErr = writeTypedArray[uint32](b, dataArray, dataArrayStartOffset)
	case Uint16FieldType:
		written, bounds, topErr = writeTypedArray[uint16](b, dataArray, dataArrayStartOffset)
	case Uint8FieldType, BoolFieldType:
		written, bounds, topErr = writeTypedArray[uint8](b, dataArray, dataArrayStartOffset)
	case Int64FieldType, TimestampFieldType, DecimalFieldType:
		written, bounds, topErr = writeTypedArray[int64](b, dataArray, dataArrayStartOffset)
	case Int32FieldType:
		written, bounds, topErr = writeTypedArray[int32](b, dataArray, dataArrayStartOffset)
	case Int16FieldType:
		written, bounds, topErr = writeTypedArray[int16](b, dataArray, dataArrayStartOffset)
	case Int8FieldType:
		written, bounds, topErr = writeTypedArray[int8](b, dataArray, dataArrayStartOffset)
	default:
		panic(fmt.Sprintf("unsupported type when writing to RuntimeBlockData: %s", typ.String()))
	}

	if topErr == nil {
		b.Items += written
	}

	return
}

// DirectAccess hands out the raw typed array and the live row count.
// The caller must not write through it.
func (b *RuntimeBlockData) DirectAccess() (typedDataArray any, endOffset int) {
	return b.DataTypedArray, b.Items
}

func NewRuntimeBlockDataFromSlice(dataArray any, itemCount int) *RuntimeBlockData {
	return &RuntimeBlockData{
		Cap:            itemCount,
		Items:          itemCount,
		DataTypedArray: dataArray,
	}
}
