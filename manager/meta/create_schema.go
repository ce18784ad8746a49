package meta

import (
	"fmt"
	"os"

	"github.com/dot5enko/tabletdb/schema"
	"github.com/google/uuid"
)

// CreateSchema provisions the on-disk layout for a new schema: a folder
// named after it, one initial slab per column, and the scheme file tying
// them together. A schema whose folder already exists is left untouched.
func (sm *SlabManager) CreateSchema(schemaConfig schema.Schema) error {
	storagePath := sm.getAbsStoragePath(schemaConfig.Name)

	if _, err := os.Stat(storagePath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("unable to check schema folder existence : %s", err.Error())
	}

	if _, err := sm.createStoragePathIfNotExists(schemaConfig.Name); err != nil {
		return fmt.Errorf("unable to create schema folder: `%s`", err.Error())
	}

	for colIdx := range schemaConfig.Columns {
		col := &schemaConfig.Columns[colIdx]

		newSlab, slabCreationErr := sm.NewSlabForColumn(schemaConfig, *col, 0)
		if slabCreationErr != nil {
			return slabCreationErr
		}

		if col.Slabs == nil {
			col.Slabs = []uuid.UUID{}
		}
		col.Slabs = append(col.Slabs, newSlab.Uid)
		col.ActiveSlab = newSlab.Uid
	}

	// TODO: store once per all columns/slabs through a single api
	if storeErr := sm.meta.StoreSchemeToDisk(schemaConfig); storeErr != nil {
		return fmt.Errorf("unable to save schema config to disk : %s", storeErr.Error())
	}
	sm.meta.AddSchema(&schemaConfig)

	return nil
}
