package manager

import (
	"log/slog"

	"github.com/dot5enko/tabletdb/manager/executor"
	"github.com/dot5enko/tabletdb/manager/meta"
	"github.com/dot5enko/tabletdb/schema"
)

// tasksQueueSize bounds how many chunk tasks can sit waiting for a worker
// before Query blocks on the push side.
const tasksQueueSize = 128

type ManagerConfig struct {
	PathToStorage string

	CacheMaxBytes uint64
}

// Manager ties the pieces together: schema metadata, slab storage, the
// query planner and the worker queue that chunk executors drain.
type Manager struct {
	config ManagerConfig

	meta    *meta.MetaManager
	planner *QueryPlanner

	Slabs *meta.SlabManager

	chunksQueue chan *executor.ChunkProcessingTask
}

func New(config ManagerConfig) *Manager {

	metaManager := meta.NewMetaManager(config.PathToStorage)

	loadErr := metaManager.LoadSchemesFromDisk()
	if loadErr != nil {
		slog.Error("unable to load schemas from disk", "err", loadErr.Error())
	}

	return &Manager{
		config:      config,
		meta:        metaManager,
		planner:     NewQueryPlanner(),
		Slabs:       meta.NewSlabManager(config.PathToStorage, metaManager),
		chunksQueue: make(chan *executor.ChunkProcessingTask, tasksQueueSize),
	}
}

func (m *Manager) CreateSchema(schemaConfig schema.Schema) error {
	return m.Slabs.CreateSchema(schemaConfig)
}
