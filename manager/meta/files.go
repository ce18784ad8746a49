package meta

import (
	"log"
	"os"
	"path/filepath"

	"github.com/dot5enko/tabletdb/io"
	"github.com/dot5enko/tabletdb/schema"
	"github.com/google/uuid"
)

func (sm *SlabManager) getAbsStoragePath(segments ...string) string {
	pathSegments := append([]string{sm.storagePath}, segments...)
	return filepath.Join(pathSegments...)
}

func (sm *SlabManager) createStoragePathIfNotExists(segments ...string) (string, error) {
	storagePath := sm.getAbsStoragePath(segments...)

	if _, err := os.Stat(storagePath); err != nil {
		if mkdirErr := os.MkdirAll(storagePath, 0755); mkdirErr != nil {
			log.Printf("unable to create directory : %s", storagePath)
			return "", mkdirErr
		}
		log.Printf(" >> created %s folder", storagePath)
	}

	return storagePath, nil
}

func (sm *SlabManager) GetSlabPath(s schema.Schema, id uuid.UUID) string {
	return sm.getAbsStoragePath(s.Name, id.String()+".slab")
}

// GetSlabFile opens the slab's backing file; the caller owns the returned
// reader and must Close it.
func (sm *SlabManager) GetSlabFile(s schema.Schema, id uuid.UUID, writeAccess bool) (*io.FileReader, error) {
	fileManager := io.NewFileReader(sm.GetSlabPath(s, id))
	openErr := fileManager.Open(!writeAccess)
	return fileManager, openErr
}
