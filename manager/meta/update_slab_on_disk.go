package meta

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log"
	"time"

	"github.com/dot5enko/tabletdb/bits"
	"github.com/dot5enko/tabletdb/compression"
	"github.com/dot5enko/tabletdb/io"
	"github.com/dot5enko/tabletdb/schema"
	"github.com/fatih/color"
)

// compressSlabsOnWrite gates the lz4 write path. Parked until compaction
// of partially filled slabs is sorted out; readers still understand
// compressed slabs written by older builds.
const compressSlabsOnWrite = false

// TrimFinalizedBlocksSize cuts a fully finalized slab file down to its
// real payload, dropping the preallocation headroom.
func (sm *SlabManager) TrimFinalizedBlocksSize(
	schemaObject schema.Schema,
	slab *schema.DiskSlabHeader,
) error {

	if slab.BlocksFinalized < slab.BlocksTotal {
		return nil
	}

	// BlocksTotal is a uint16; widen before multiplying or the byte
	// count wraps for slabs past 512 blocks.
	headersSize := uint64(slab.BlocksTotal) * schema.TotalHeaderSize

	fileManager, slabErr := sm.GetSlabFile(schemaObject, slab.Uid, true)
	if slabErr != nil {
		return fmt.Errorf("unable to get slab file : %s", slabErr.Error())
	}
	defer fileManager.Close()

	finalSize := int64(schema.SlabHeaderFixedSize+headersSize) + int64(slab.CompressedSlabContentSize)

	log.Printf(" >> trimmed slab %s to %d bytes [compressed data : %d]", slab.Uid.String(), finalSize, slab.CompressedSlabContentSize)

	return fileManager.Raw().Truncate(finalSize)
}

// todo work on thread safety

// UpdateBlockHeaderAndDataOnDisk flushes one block's header and the
// slab's data region back to the slab file, keeping the in-memory slab
// cache as the source of truth for the data bytes.
func (sm *SlabManager) UpdateBlockHeaderAndDataOnDisk(
	s schema.Schema,
	slab *schema.DiskSlabHeader,
	block *schema.RuntimeBlockData,
) error {

	foundIdx := -1
	for idx, it := range slab.BlockHeaders {
		if it.Uid == block.Header.Uid {
			foundIdx = idx
			break
		}
	}
	if foundIdx == -1 {
		return fmt.Errorf("block with uid `%s` doesn't exist in slab", block.Header.Uid.String())
	}

	slabScratch, slabScratchIdx := sm.fullSlabBufferRing.Get()
	defer sm.fullSlabBufferRing.Return(slabScratchIdx)

	blockDataOffset := slab.Type.BlockSize() * foundIdx
	slabHeaderAbsOffset := schema.SlabHeaderFixedSize + schema.TotalHeaderSize*uint64(foundIdx)
	headersSize := schema.TotalHeaderSize * int(slab.BlocksTotal)

	writeBuf := bytes.NewBuffer(slabScratch[:0])
	dataSize, writeErr := io.DumpNumbersArrayBlockAny(writeBuf, block.DataTypedArray)
	if writeErr != nil {
		return fmt.Errorf("unable to finalize block : %s", writeErr.Error())
	}

	slabCacheItem := sm.GetSlabFromCache(slab.Uid)
	if slabCacheItem == nil {
		return fmt.Errorf("unable to find slab cache item, need to load whole slab from disk first")
	}

	copy(slabCacheItem.Data[blockDataOffset:], writeBuf.Bytes())

	payloadSize := dataSize * int(slabCacheItem.Header.BlocksTotal)

	if compressSlabsOnWrite {
		start := time.Now()

		compressedSize, compressErr := compression.CompressLz4(slabCacheItem.Data[:payloadSize], slabScratch)
		if compressErr != nil {
			return fmt.Errorf("unable to compress slab data : %s", compressErr.Error())
		}

		if compressedSize > 0 {
			compressRatio := float64(compressedSize) / float64(payloadSize)
			fillRatio := float64(slab.BlocksFinalized) / float64(slab.BlocksTotal)

			color.Yellow(" compressed slab [type=%s][%d/%d] %d -> %d [%.2f%%] fill %.2f%% %.2fms", slab.Type.String(), slab.BlocksFinalized, slab.BlocksTotal, payloadSize, compressedSize, compressRatio*100.0, fillRatio*100, time.Since(start).Seconds()*1000)

			slab.CompressedSlabContentSize = uint64(compressedSize)
			slab.CompressionType = 1
		} else {
			slab.CompressedSlabContentSize = uint64(payloadSize)
		}
	} else {
		slab.CompressedSlabContentSize = uint64(payloadSize)
	}

	fileManager, slabErr := sm.GetSlabFile(s, slab.Uid, true)
	if slabErr != nil {
		return fmt.Errorf("unable to get slab file : %s", slabErr.Error())
	}
	defer fileManager.Close()

	headerWriter := bits.NewEncodeBuffer(sm.SlabBlockHeadersReadBuffer[:], binary.LittleEndian)
	serializedBytes, headerBytesErr := block.Header.WriteTo(&headerWriter)
	if headerBytesErr != nil {
		return fmt.Errorf("unable to serialize block header, header won't serialize : %s", headerBytesErr.Error())
	}

	if headerUpdateErr := fileManager.WriteAt(sm.SlabBlockHeadersReadBuffer[:], int(slabHeaderAbsOffset), serializedBytes); headerUpdateErr != nil {
		return fmt.Errorf("unable to update block header : %s", headerUpdateErr.Error())
	}

	var writeDataErr error
	if slab.CompressionType != 0 {
		writeDataErr = fileManager.WriteAt(slabScratch[:slab.CompressedSlabContentSize], int(schema.SlabHeaderFixedSize)+headersSize, int(slab.CompressedSlabContentSize))
	} else {
		writeDataErr = fileManager.WriteAt(slabCacheItem.Data[:], int(schema.SlabHeaderFixedSize)+headersSize, int(slab.CompressedSlabContentSize))
	}

	if writeDataErr != nil {
		return fmt.Errorf("unable to update block data : %s", writeDataErr.Error())
	}

	return nil
}
