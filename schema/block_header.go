package schema

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dot5enko/tabletdb/bits"
	"github.com/google/uuid"
)

const BlockRowsSize = 32 * 1024 // 32k rows per block

// TotalHeaderSize is the fixed on-disk footprint of one block header.
// The gap between it and HeaderSizeUsed is zero-padded so headers can
// grow without a format bump.
const TotalHeaderSize = 128

const HeaderSizeUsed uint64 = 16 + 2 + 8 + 8 + 1 + 16 // uid + items + start offset + compressed size + datatype + min/max bounds
const ReservedSize uint64 = TotalHeaderSize - HeaderSizeUsed

// DiskHeader is the per-block header stored in the slab's header
// region, one per block slot.
type DiskHeader struct {
	Uid uuid.UUID

	Items uint16

	StartOffset    uint64
	CompressedSize uint64

	DataType FieldType
	Bounds   BoundsFloat

	// reserved for future use
	Reserved [ReservedSize]uint8
}

func NewBlockHeader(typ FieldType) *DiskHeader {
	return &DiskHeader{
		Uid:      uuid.New(),
		DataType: typ,
		Items:    0,
	}
}

func (header *DiskHeader) FromBytes(input io.Reader) error {

	reader := bits.NewReader(input, binary.LittleEndian)

	var err error

	if header.Uid, err = reader.ReadUUID(); err != nil {
		return fmt.Errorf("unable to decode block header guid: %s", err.Error())
	}

	header.Items = reader.MustReadU16()

	if header.StartOffset, err = reader.ReadU64(); err != nil {
		return fmt.Errorf("unable to decode block header start offset: %s", err.Error())
	}
	if header.CompressedSize, err = reader.ReadU64(); err != nil {
		return fmt.Errorf("unable to decode block header compressed size: %s", err.Error())
	}

	columnTypeRaw, err := reader.ReadU8()
	if err != nil {
		return fmt.Errorf("unable to decode block header column type: %s", err.Error())
	}
	header.DataType = FieldType(columnTypeRaw)

	header.Bounds.FromBytes(reader)

	return nil
}

// WriteTo serializes the header into bw, padding the reserved tail so
// the result is always TotalHeaderSize bytes.
func (header *DiskHeader) WriteTo(bw *bits.BitWriter) (int, error) {

	if n, _ := bw.Write(header.Uid[:]); n != 16 {
		return 0, fmt.Errorf("failed to write block uid")
	}

	bw.PutUint16(header.Items)

	bw.PutUint64(header.StartOffset)
	bw.PutUint64(header.CompressedSize)

	bw.WriteByte(uint8(header.DataType))

	header.Bounds.WriteTo(bw)

	bw.EmptyBytes(int(ReservedSize))

	return bw.Position(), nil
}
