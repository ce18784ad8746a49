package meta

import (
	"bufio"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/dot5enko/tabletdb/io"
	"github.com/dot5enko/tabletdb/schema"
)

// MetaManager owns the in-memory schema registry and its json
// representation on disk (one schema.json per schema folder).
type MetaManager struct {
	schemas map[string]*schema.Schema
	lock    sync.RWMutex

	storagePath string
}

func NewMetaManager(storagePath string) *MetaManager {
	return &MetaManager{
		schemas:     map[string]*schema.Schema{},
		storagePath: storagePath,
	}
}

func (m *MetaManager) getAbsStoragePath(segments ...string) string {
	pathSegments := append([]string{m.storagePath}, segments...)
	return filepath.Join(pathSegments...)
}

func (m *MetaManager) AddSchema(schemaObject *schema.Schema) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.schemas[schemaObject.Name] = schemaObject
}

func (m *MetaManager) GetSchema(name string) *schema.Schema {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.schemas[name]
}

func (m *MetaManager) StoreSchemeToDisk(schemeObject schema.Schema) error {
	schemesPath := m.getAbsStoragePath(schemeObject.Name, "schema.json")

	fr := io.NewFileReader(schemesPath)
	if createFileErr := fr.Open(false); createFileErr != nil {
		return createFileErr
	}
	defer fr.Close()

	schemeBytes, marshalErr := json.Marshal(schemeObject)
	if marshalErr != nil {
		return marshalErr
	}

	w := bufio.NewWriter(fr.Raw())
	w.Write(schemeBytes)
	return w.Flush()
}

// LoadSchemesFromDisk scans the storage root for schema folders and
// registers every schema.json it can parse. A missing storage root is not
// an error, it just means nothing has been created yet.
func (m *MetaManager) LoadSchemesFromDisk() error {
	entries, err := os.ReadDir(m.storagePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		if loadErr := m.loadSchemeFile(e.Name()); loadErr != nil {
			slog.Error("unable to load schema from disk", "folder", e.Name(), "err", loadErr)
		}
	}

	return nil
}

func (m *MetaManager) loadSchemeFile(folder string) error {
	fullContent, contentErr := os.ReadFile(m.getAbsStoragePath(folder, "schema.json"))
	if contentErr != nil {
		return contentErr
	}

	var loaded schema.Schema
	if err := json.Unmarshal(fullContent, &loaded); err != nil {
		return err
	}

	m.AddSchema(&loaded)
	slog.Info("loaded schema from disk", "schema_name", loaded.Name)

	return nil
}
