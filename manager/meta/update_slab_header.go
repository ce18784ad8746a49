package meta

import (
	"fmt"

	"github.com/dot5enko/tabletdb/schema"
)

// todo check thread safety

// UpdateSlabHeaderOnDisk serializes the slab header through a pooled
// buffer and rewrites it at the start of the slab file.
func (sm *SlabManager) UpdateSlabHeaderOnDisk(s schema.Schema, slab *schema.DiskSlabHeader) error {
	headerBuffer, headerBufferIdx := sm.headerReaderBufferRing.Get()
	defer sm.headerReaderBufferRing.Return(headerBufferIdx)

	serializedBytes, headerBytesErr := slab.WriteTo(headerBuffer)
	if headerBytesErr != nil {
		return fmt.Errorf("unable to finalize block, slab header won't serialize : %s", headerBytesErr.Error())
	}

	fileManager, slabErr := sm.GetSlabFile(s, slab.Uid, true)
	if slabErr != nil {
		return fmt.Errorf("unable to update slab header : %s", slabErr.Error())
	}
	defer fileManager.Close()

	return fileManager.WriteAt(headerBuffer, 0, serializedBytes)
}
