package cache

import (
	"time"

	"github.com/dot5enko/tabletdb/schema"
	"github.com/google/uuid"
)

// SlabCacheItem is a checked-out slot of a SlabCacheManager's pool: the
// decoded header of a slab plus its decompressed body. Data is backed
// directly by a blockcache.Handle's buffer (see SlabCacheManager), so
// filling it in never copies through an intermediate fixed array.
type SlabCacheItem struct {
	CacheEntryId uuid.UUID

	Header *schema.DiskSlabHeader

	DataLoaded bool
	Data       []byte

	RtStats *CacheStats
}

// Reset prepares a recycled slot for its next occupant. Data keeps its
// backing buffer; the bytes are overwritten on the next load.
func (item *SlabCacheItem) Reset() {
	item.Header = nil
	item.DataLoaded = false
	item.RtStats = &CacheStats{
		Created: time.Now(),
	}
}
