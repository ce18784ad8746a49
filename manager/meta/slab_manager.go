package meta

import (
	"fmt"
	"sync"
	"time"

	"github.com/dot5enko/tabletdb/bits"
	"github.com/dot5enko/tabletdb/manager/cache"
	"github.com/dot5enko/tabletdb/schema"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

type BlockCacheItem struct {
	header  *schema.DiskHeader
	runtime *schema.RuntimeBlockData

	rtStats *cache.CacheStats
}

const HeadersCacheSize = 256 * schema.TotalHeaderSize

// SlabManager moves slabs and blocks between disk and memory: slab files
// on one side, decoded runtime block arrays on the other, with pooled
// buffers in between so the steady state allocates nothing.
type SlabManager struct {
	storagePath string

	cacheManager *cache.SlabCacheManager

	// decoded block cache, keyed by slab uid + block uid
	cache  map[[32]byte]BlockCacheItem
	locker sync.RWMutex

	slabHeaderCacheItem   map[uuid.UUID]*cache.SlabCacheItem
	slabHeaderCacheLocker sync.RWMutex

	// buffers
	headerReaderBufferRing *cache.FixedSizeBufferPool
	fullSlabBufferRing     *cache.FixedSizeBufferPool
	slabHeaderCache        *cache.TypedRingBuffer[schema.DiskSlabHeader]
	slabRuntimeCache       *cache.TypedRingBuffer[cache.SlabCacheItem]

	// scratch buffer for serializing a single block header
	SlabBlockHeadersReadBuffer [schema.TotalHeaderSize]byte

	meta *MetaManager

	loadGroup singleflight.Group
}

// slabCachePoolSize is the number of resident slab buffers the cache
// manager keeps pinned at once.
const slabCachePoolSize = 16

// todo : remove const/literals, add config param
func NewSlabManager(storagePath string, meta *MetaManager) *SlabManager {
	cacheManager := cache.NewSlabCacheManager()
	cacheManager.Prefill(slabCachePoolSize)

	sm := &SlabManager{
		storagePath:         storagePath,
		cacheManager:        cacheManager,
		cache:               map[[32]byte]BlockCacheItem{},
		slabHeaderCacheItem: map[uuid.UUID]*cache.SlabCacheItem{},

		meta: meta,
	}

	// one slab buffer is roughly 10MB of ram
	sm.fullSlabBufferRing = cache.NewFixedSizeBufferPool(16, schema.SlabDiskContentsUncompressed)
	sm.headerReaderBufferRing = cache.NewFixedSizeBufferPool(32, schema.SlabHeaderFixedSize)

	sm.slabRuntimeCache = cache.NewTypedRingBuffer[cache.SlabCacheItem](32)

	// todo profile the header reuse ring and size it from data
	sm.slabHeaderCache = cache.NewTypedRingBuffer[schema.DiskSlabHeader](128)

	return sm
}

func (m *SlabManager) GetSlabFromCache(uid uuid.UUID) *cache.SlabCacheItem {
	return m.getSlabFromCache(uid)
}

func (m *SlabManager) getSlabFromCache(uid uuid.UUID) *cache.SlabCacheItem {
	m.slabHeaderCacheLocker.RLock()
	defer m.slabHeaderCacheLocker.RUnlock()

	if item, ok := m.slabHeaderCacheItem[uid]; ok {
		item.RtStats.Reads++
		return item
	}

	return nil
}

// GetUniqueBlockId builds the composite cache key for one block: the slab
// uuid in the first half, the block uuid in the second.
func GetUniqueBlockId(slab, block uuid.UUID) [32]byte {
	uid := [32]byte{}
	copy(uid[0:], slab[:])
	copy(uid[16:], block[:])
	return uid
}

func (m *SlabManager) getBlockFromCache(slab, block uuid.UUID) *BlockCacheItem {
	m.locker.RLock()
	defer m.locker.RUnlock()

	if item, ok := m.cache[GetUniqueBlockId(slab, block)]; ok {
		item.rtStats.Reads++
		return &item
	}

	return nil
}

// LoadBlockToRuntimeBlockData returns the decoded runtime view of one
// block, pulling the whole slab into the cache first if needed.
func (m *SlabManager) LoadBlockToRuntimeBlockData(
	schemaObject schema.Schema,
	slab *schema.DiskSlabHeader,
	block uuid.UUID,
) (*schema.RuntimeBlockData, error) {

	if cached := m.getBlockFromCache(slab.Uid, block); cached != nil {
		return cached.runtime, nil
	}

	var blockHeader schema.DiskHeader
	blockIdx := -1
	for idx, it := range slab.BlockHeaders {
		if it.Uid == block {
			blockHeader = it
			blockIdx = idx
			break
		}
	}
	if blockIdx < 0 {
		return nil, fmt.Errorf("block you are looking for (%s) not found in slab %s", block.String(), slab.Uid.String())
	}

	slabCache := m.getSlabFromCache(slab.Uid)
	if slabCache == nil || !slabCache.DataLoaded {
		if _, loadSlabErr := m.LoadSlabToCache(schemaObject, slab.Uid); loadSlabErr != nil {
			return nil, loadSlabErr
		}
		slabCache = m.getSlabFromCache(slab.Uid)
		if slabCache == nil {
			panic("cache should be loaded by now, probably out of memory?")
		}
	}

	blockStartOffset := blockIdx * blockHeader.DataType.BlockSize()
	blockRawData := slabCache.Data[blockStartOffset:]

	runtimeBlockData, runtimeDecodeErr := DecodeRawBlockData(blockRawData, &blockHeader)
	if runtimeDecodeErr != nil {
		return nil, fmt.Errorf("unable to decoded raw block data for slab %s. block %s: %s", slab.Uid.String(), block.String(), runtimeDecodeErr.Error())
	}

	m.locker.Lock()
	defer m.locker.Unlock()

	m.cache[GetUniqueBlockId(slab.Uid, block)] = BlockCacheItem{
		header:  &blockHeader,
		runtime: runtimeBlockData,
		rtStats: &cache.CacheStats{CacheEntryId: slabCache.CacheEntryId, Created: time.Now(), Reads: 1},
	}

	return runtimeBlockData, nil
}

func decodeBlockAs[T any](blockData []byte, bheader *schema.DiskHeader) *schema.RuntimeBlockData {
	arr := bits.MapBytesToArray[T](blockData, schema.BlockRowsSize)
	return schema.NewRuntimeBlockDataFromSlice(arr, int(bheader.Items))
}

// DecodeRawBlockData maps the raw block bytes onto a typed array view
// without copying and wraps it into a RuntimeBlockData.
func DecodeRawBlockData(blockData []byte, bheader *schema.DiskHeader) (*schema.RuntimeBlockData, error) {
	var runtimeData *schema.RuntimeBlockData

	switch bheader.DataType {
	case schema.Float64FieldType:
		runtimeData = decodeBlockAs[float64](blockData, bheader)
	case schema.Float32FieldType:
		runtimeData = decodeBlockAs[float32](blockData, bheader)
	case schema.Uint64FieldType:
		runtimeData = decodeBlockAs[uint64](blockData, bheader)
	case schema.Uint32FieldType:
		runtimeData = decodeBlockAs[uint32](blockData, bheader)
	case schema.Uint16FieldType:
		runtimeData = decodeBlockAs[uint16](blockData, bheader)
	case schema.Uint8FieldType, schema.BoolFieldType:
		runtimeData = decodeBlockAs[uint8](blockData, bheader)
	case schema.Int64FieldType, schema.TimestampFieldType, schema.DecimalFieldType:
		runtimeData = decodeBlockAs[int64](blockData, bheader)
	case schema.Int32FieldType:
		runtimeData = decodeBlockAs[int32](blockData, bheader)
	case schema.Int16FieldType:
		runtimeData = decodeBlockAs[int16](blockData, bheader)
	case schema.Int8FieldType:
		runtimeData = decodeBlockAs[int8](blockData, bheader)
	default:
		return nil, fmt.Errorf("unknown type while decoding raw block data: %s", bheader.DataType.String())
	}

	runtimeData.Header = *bheader

	return runtimeData, nil
}
