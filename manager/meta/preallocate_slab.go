package meta

import (
	"github.com/dot5enko/tabletdb/schema"
	"github.com/google/uuid"
)

// preallocateSlab zero-fills a fresh slab file to its full expected size,
// with 20% headroom on top of the data area for block headers.
func (sm *SlabManager) preallocateSlab(s schema.Schema, uid uuid.UUID) error {
	fileManager, err := sm.GetSlabFile(s, uid, true)
	if err != nil {
		return err
	}
	defer fileManager.Close()

	return fileManager.FillZeroes(0, int(float64(schema.SlabDiskContentsUncompressed)*1.2))
}
