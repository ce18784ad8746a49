package manager

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dot5enko/tabletdb/manager/executor"
)

// todo handle context
func (m *Manager) StartWorkers(routines int, ctx context.Context) *sync.WaitGroup {

	slog.Info("starting workers", "max_executors", routines)

	wg := &sync.WaitGroup{}
	wg.Add(routines)

	for i := 0; i < routines; i++ {
		go func(threadId int) {
			defer wg.Done()
			executor.ChunkSingleThreadProcessor(threadId, m.Slabs, m.chunksQueue)
		}(i)
	}

	return wg
}
