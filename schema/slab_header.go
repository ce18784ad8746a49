package schema

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"

	"github.com/dot5enko/tabletdb/bits"
	"github.com/google/uuid"
)

const CurrentSlabVersion = 1

// SlabHeaderFixedSize is the on-disk footprint of the fixed part of a
// slab header: the scalar fields plus one reserved block-header slot
// for the slab's unfinished block.
const SlabHeaderFixedSize = 2 + 16 + 2 + 2 + 2 + 1 + 1 + 1 + 8 + 8 + TotalHeaderSize

// SlabDiskContentsUncompressed is the size, in bytes, of one slab's body
// once decompressed: the cache pool (manager/cache.SlabCacheManager,
// blockcache.Cache) sizes its buffers to this, and disk IO reads/writes
// slab bodies through a buffer of exactly this length.
const SlabDiskContentsUncompressed = 10 * 1024 * 1024

// slabBlocksCap bounds BlocksTotal below the uint16 limit.
const slabBlocksCap = 65000

type DiskSlabHeader struct {
	Version uint16

	Uid uuid.UUID

	BlocksTotal     uint16
	BlocksFinalized uint16

	SingleBlockRowsSize uint16

	SchemaFieldId uint8
	Type          FieldType

	CompressionType             uint8
	UncompressedSlabContentSize uint64
	CompressedSlabContentSize   uint64

	UnfinishedBlockHeader DiskHeader

	// fields above have a fixed on-disk layout

	BlockHeaders []DiskHeader

	// SlabOffsetBlocks is the absolute block index of this slab's first
	// block within the column, for columns spanning more than one slab.
	// Not part of the on-disk layout; set by the manager at slab creation.
	SlabOffsetBlocks uint64
}

// NewDiskSlab builds the in-memory header for a fresh slab of one
// column. The block count is chosen so a full slab body lands around
// SlabDiskContentsUncompressed before compression.
func NewDiskSlab(schemaObject Schema, fieldName string, slabOffsetBlocks uint64) (*DiskSlabHeader, error) {

	selectedIdx := -1
	for idx := range schemaObject.Columns {
		if schemaObject.Columns[idx].Name == fieldName {
			selectedIdx = idx
			break
		}
	}
	if selectedIdx == -1 {
		return nil, fmt.Errorf("column '%s' does not exist", fieldName)
	}

	columnDef := schemaObject.Columns[selectedIdx]

	uncompressedBlockSize := BlockRowsSize * columnDef.Type.Size()
	slabBlocks := SlabDiskContentsUncompressed / uncompressedBlockSize
	if slabBlocks > slabBlocksCap {
		slabBlocks = slabBlocksCap
	}

	log.Printf(" slab for %s will contain %d blocks", columnDef.Name, slabBlocks)

	return &DiskSlabHeader{
		Version:             CurrentSlabVersion,
		Uid:                 uuid.New(),
		BlocksTotal:         uint16(slabBlocks),
		SingleBlockRowsSize: BlockRowsSize,
		SchemaFieldId:       uint8(selectedIdx) + 1,
		Type:                columnDef.Type,
		SlabOffsetBlocks:    slabOffsetBlocks,

		BlocksFinalized: 0,
		CompressionType: 0,
	}, nil
}

func (header *DiskSlabHeader) FromBytes(input io.Reader) error {

	reader := bits.NewReader(input, binary.LittleEndian)

	header.Version = reader.MustReadU16()
	if header.Version != CurrentSlabVersion {
		return fmt.Errorf("invalid version. Supported versions: %d ", CurrentSlabVersion)
	}

	var uuidErr error
	header.Uid, uuidErr = reader.ReadUUID()
	if uuidErr != nil {
		return uuidErr
	}

	header.BlocksTotal = reader.MustReadU16()
	header.BlocksFinalized = reader.MustReadU16()
	header.SingleBlockRowsSize = reader.MustReadU16()

	header.SchemaFieldId = reader.MustReadU8()
	header.Type = FieldType(reader.MustReadU8())

	header.CompressionType = reader.MustReadU8()
	header.UncompressedSlabContentSize = reader.MustReadU64()
	header.CompressedSlabContentSize = reader.MustReadU64()

	header.UnfinishedBlockHeader.FromBytes(reader.Buffer())

	return nil
}

// WriteTo serializes the scalar fields only. The unfinished block
// header slot keeps whatever bytes are already on disk, so rewriting
// the slab header never clobbers it.
func (header *DiskSlabHeader) WriteTo(buffer []byte) (int, error) {
	bw := bits.NewEncodeBuffer(buffer, binary.LittleEndian)

	bw.PutUint16(header.Version)

	if n, _ := bw.Write(header.Uid[:]); n != 16 {
		return 0, fmt.Errorf("failed to write UUID")
	}

	bw.PutUint16(header.BlocksTotal)
	bw.PutUint16(header.BlocksFinalized)
	bw.PutUint16(header.SingleBlockRowsSize)
	bw.WriteByte(header.SchemaFieldId)
	bw.WriteByte(uint8(header.Type))
	bw.WriteByte(header.CompressionType)

	// body size before compression, preallocated on disk at slab creation
	bw.PutUint64(header.UncompressedSlabContentSize)
	bw.PutUint64(header.CompressedSlabContentSize)

	return bw.Position(), nil
}
