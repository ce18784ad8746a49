package cache

import (
	"time"

	"github.com/google/uuid"
)

// CacheStats tracks the lifetime of one cached entry. Reads is bumped
// without synchronization by the owning cache; treat it as approximate.
type CacheStats struct {
	CacheEntryId uuid.UUID

	Reads   int
	Created time.Time
}
