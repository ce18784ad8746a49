package meta

import (
	"encoding/binary"
	"fmt"

	"github.com/dot5enko/tabletdb/bits"
	"github.com/dot5enko/tabletdb/schema"
	"github.com/fatih/color"
)

// NewSlabForColumn allocates the next slab file for a column: the slab
// header, the first (empty) block header right behind it, and a zeroed
// region covering the remaining block headers plus the full data area.
// slabOffsetBlocks is the global row-block offset this slab starts at.
func (m *SlabManager) NewSlabForColumn(schemaConfig schema.Schema, col schema.SchemaColumn, slabOffsetBlocks uint64) (*schema.DiskSlabHeader, error) {

	slabHeader, slabError := schema.NewDiskSlab(schemaConfig, col.Name, slabOffsetBlocks)
	if slabError != nil {
		return nil, slabError
	}

	if preallocateErr := m.preallocateSlab(schemaConfig, slabHeader.Uid); preallocateErr != nil {
		return nil, fmt.Errorf("unable to preallocate slab : %s", preallocateErr.Error())
	}

	if headerWriteErr := m.UpdateSlabHeaderOnDisk(schemaConfig, slabHeader); headerWriteErr != nil {
		return nil, headerWriteErr
	}

	f, slabFileErr := m.GetSlabFile(schemaConfig, slabHeader.Uid, true)
	if slabFileErr != nil {
		return nil, fmt.Errorf("unable to open slab file : %s", slabFileErr.Error())
	}
	defer f.Close()

	firstBlock := schema.NewBlockHeader(col.Type)
	headerWriter := bits.NewEncodeBuffer(m.SlabBlockHeadersReadBuffer[:], binary.LittleEndian)
	writtenBytes, writeErr := firstBlock.WriteTo(&headerWriter)
	if writeErr != nil {
		return nil, fmt.Errorf("unable to encode block header : %s", writeErr.Error())
	}

	if diskErr := f.WriteAt(m.SlabBlockHeadersReadBuffer[:writtenBytes], schema.SlabHeaderFixedSize, writtenBytes); diskErr != nil {
		return nil, fmt.Errorf("unable to write block header into slab : %s", diskErr.Error())
	}

	// zero the remaining block headers and the whole data region
	remainingHeadersSpace := int(slabHeader.BlocksTotal-1) * int(schema.TotalHeaderSize)
	dataSpace := int(slabHeader.SingleBlockRowsSize) * int(slabHeader.BlocksTotal) * slabHeader.Type.Size()

	zeroesErr := f.FillZeroes(schema.SlabHeaderFixedSize+schema.TotalHeaderSize, remainingHeadersSpace+dataSpace)
	if zeroesErr != nil {
		return nil, zeroesErr
	}

	color.Green(" +++ created new slab with id %v, size %d bytes, type = %s, field = %s", slabHeader.Uid.String(), slabHeader.CompressedSlabContentSize, slabHeader.Type.String(), schemaConfig.Columns[slabHeader.SchemaFieldId-1].Name)

	return slabHeader, nil
}
