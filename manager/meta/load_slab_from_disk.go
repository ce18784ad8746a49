package meta

import (
	"bytes"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/dot5enko/tabletdb/compression"
	"github.com/dot5enko/tabletdb/schema"
	"github.com/google/uuid"
)

// LoadSlabToCache returns the slab's parsed header, loading and
// decompressing the slab from disk into the cache pool on first access.
// Concurrent loads of the same slab collapse onto one disk read; reads of
// an already cached slab take only the cache's read lock and do not
// allocate.
func (m *SlabManager) LoadSlabToCache(schemaObject schema.Schema, slabUid uuid.UUID) (*schema.DiskSlabHeader, error) {
	if cached := m.getSlabFromCache(slabUid); cached != nil {
		return cached.Header, nil
	}

	v, err, _ := m.loadGroup.Do(slabUid.String(), func() (any, error) {
		return m.loadSlabFromDisk(schemaObject, slabUid)
	})
	if err != nil {
		return nil, err
	}

	return v.(*schema.DiskSlabHeader), nil
}

func (m *SlabManager) loadSlabFromDisk(schemaObject schema.Schema, slabUid uuid.UUID) (*schema.DiskSlabHeader, error) {
	slabReadCache, slabCacheIdx := m.fullSlabBufferRing.Get()
	headerReadBuffer, headerBufferIdx := m.headerReaderBufferRing.Get()

	// todo the buffers are only needed while parsing, not for the whole load
	defer func() {
		m.fullSlabBufferRing.Return(slabCacheIdx)
		m.headerReaderBufferRing.Return(headerBufferIdx)
	}()

	fileReader, openErr := m.GetSlabFile(schemaObject, slabUid, false)
	if openErr != nil {
		return nil, openErr
	}
	defer fileReader.Close()

	if headerReadErr := fileReader.ReadAt(headerReadBuffer, 0, int(schema.SlabHeaderFixedSize)); headerReadErr != nil {
		return nil, fmt.Errorf("unable to read slab header : %s", headerReadErr.Error())
	}

	result := &schema.DiskSlabHeader{}
	if headerParseErr := result.FromBytes(bytes.NewReader(headerReadBuffer)); headerParseErr != nil {
		return nil, headerParseErr
	}

	// block headers: every finalized one plus the active unfinalized block
	// if the slab still has room
	result.BlockHeaders = make([]schema.DiskHeader, result.BlocksTotal)

	populatedHeaders := int(result.BlocksFinalized)
	if result.BlocksFinalized < result.BlocksTotal {
		populatedHeaders++
	}

	headersReadErr := fileReader.ReadAt(slabReadCache, int(schema.SlabHeaderFixedSize), populatedHeaders*int(schema.TotalHeaderSize))
	if headersReadErr != nil {
		return nil, fmt.Errorf("unable to read data while LoadSlabToCache: %s", headersReadErr.Error())
	}

	for i := 0; i < populatedHeaders; i++ {
		headerBuffer := slabReadCache[i*int(schema.TotalHeaderSize):]
		if decodeErr := result.BlockHeaders[i].FromBytes(bytes.NewReader(headerBuffer)); decodeErr != nil {
			return nil, decodeErr
		}
	}

	// the data region starts after the space reserved for ALL headers, not
	// just the populated ones
	dataOffset := int(schema.SlabHeaderFixedSize) + int(result.BlocksTotal)*int(schema.TotalHeaderSize)
	if readDataErr := fileReader.ReadAt(slabReadCache, dataOffset, int(result.CompressedSlabContentSize)); readDataErr != nil {
		return nil, readDataErr
	}

	item, cacheErr := m.cacheManager.GetCacheEntry()
	if cacheErr != nil {
		return nil, cacheErr
	}

	item.Header = result
	item.DataLoaded = true

	switch result.CompressionType {
	case 0:
		copy(item.Data[:], slabReadCache[:result.CompressedSlabContentSize])
	case 1:
		_, decompressErr := compression.DecompressLz4(slabReadCache[:result.CompressedSlabContentSize], item.Data[:])
		if decompressErr != nil {
			spew.Dump("input buffers to decompress ", slabReadCache[:256])
			return nil, fmt.Errorf("unable to decompress slab data [input length %d, outputd buffer: %d]: %s", result.CompressedSlabContentSize, len(item.Data[:]), decompressErr.Error())
		}
	default:
		return nil, fmt.Errorf("unsupported compression type: %d", result.CompressionType)
	}

	m.slabHeaderCacheLocker.Lock()
	defer m.slabHeaderCacheLocker.Unlock()

	m.slabHeaderCacheItem[slabUid] = item

	return item.Header, nil
}
