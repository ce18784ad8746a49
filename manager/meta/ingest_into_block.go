package meta

import (
	"encoding/binary"
	"fmt"

	"github.com/dot5enko/tabletdb/bits"
	"github.com/dot5enko/tabletdb/schema"
	"github.com/google/uuid"
)

// IngestIntoBlock appends column values into one block of a slab, keeping
// block and slab bounds in sync and persisting both when they change. It
// returns how many values were written and whether the block got filled to
// capacity by this write.
func (m *SlabManager) IngestIntoBlock(
	schemaObject schema.Schema,
	slab *schema.DiskSlabHeader,
	block uuid.UUID,
	columnDataArray any,
	dataArrayStartOffset int,
) (int, bool, error) {

	data, err := m.LoadBlockToRuntimeBlockData(schemaObject, slab, block)

	if err != nil {
		return 0, false, fmt.Errorf("unable to load block into runtime: %s", err.Error())
	}

	written, bounds, writeErr := data.Write(columnDataArray, dataArrayStartOffset, slab.Type)
	if writeErr != nil {
		return written, false, writeErr
	}

	slabHeaderChanged := false
	if written > 0 {
		slabHeaderChanged = slab.UnfinishedBlockHeader.Bounds.Morph(bounds)
		data.Header.Bounds.Morph(bounds)
		data.Header.Items = uint16(data.Items)

		// keep the slab's cached header list in sync with the runtime copy
		for idx := range slab.BlockHeaders {
			if slab.BlockHeaders[idx].Uid == block {
				slab.BlockHeaders[idx].Bounds.Morph(bounds)
				slab.BlockHeaders[idx].Items = uint16(data.Items)
				break
			}
		}
	}

	blockFinished := false

	if data.Items == data.Cap {
		// finalize block
		slab.BlocksFinalized += 1

		slabHeaderChanged = true
		blockFinished = true
	}

	if slabHeaderChanged {
		updateSlabHeaderErr := m.UpdateSlabHeaderOnDisk(schemaObject, slab)
		if updateSlabHeaderErr != nil {
			return written, blockFinished, fmt.Errorf("unable to update slab info: %s", updateSlabHeaderErr.Error())
		}
	}

	// write block header and data to disk
	diskBlockUpdateErr := m.UpdateBlockHeaderAndDataOnDisk(schemaObject, slab, data)

	return written, blockFinished, diskBlockUpdateErr
}

// StartNextBlock creates a fresh unfinished block header in the slab's next
// free slot and persists it. Block data space is already preallocated and
// zeroed, so only the header needs writing. Returns uuid.Nil when the slab
// has no free blocks left.
func (m *SlabManager) StartNextBlock(schemaObject schema.Schema, slab *schema.DiskSlabHeader) (uuid.UUID, error) {

	if slab.BlocksFinalized >= slab.BlocksTotal {
		return uuid.Nil, nil
	}

	next := schema.NewBlockHeader(slab.Type)
	idx := int(slab.BlocksFinalized)

	slab.BlockHeaders[idx] = *next
	slab.UnfinishedBlockHeader = *next

	updateErr := m.UpdateSlabHeaderOnDisk(schemaObject, slab)
	if updateErr != nil {
		return uuid.Nil, fmt.Errorf("unable to update slab header : %s", updateErr.Error())
	}

	f, fileErr := m.GetSlabFile(schemaObject, slab.Uid, true)
	if fileErr != nil {
		return uuid.Nil, fmt.Errorf("unable to open slab file : %s", fileErr.Error())
	}
	defer f.Close()

	buf := bits.NewEncodeBuffer(m.SlabBlockHeadersReadBuffer[:], binary.LittleEndian)
	serializedBytes, writeErr := next.WriteTo(&buf)
	if writeErr != nil {
		return uuid.Nil, fmt.Errorf("unable to encode block header : %s", writeErr.Error())
	}

	headerOffset := int(schema.SlabHeaderFixedSize) + idx*int(schema.TotalHeaderSize)

	diskErr := f.WriteAt(m.SlabBlockHeadersReadBuffer[:serializedBytes], headerOffset, serializedBytes)
	if diskErr != nil {
		return uuid.Nil, fmt.Errorf("unable to write block header into slab : %s", diskErr.Error())
	}

	return next.Uid, nil
}
