package executor

import (
	"fmt"
	"log/slog"

	"github.com/dot5enko/tabletdb/manager/meta"
	"github.com/fatih/color"
)

// ChunkSingleThreadProcessor drains the shared task queue on one worker
// goroutine, reusing a single thread-local cache across tasks.
func ChunkSingleThreadProcessor(threadId int, sm *meta.SlabManager, tasksQueue <-chan *ChunkProcessingTask) {

	threadCache := &ChunkExecutorThreadCache{}

	slog.Info("worker started", "thread_id", threadId)
	defer slog.Info("worker stopped", "thread_id", threadId)

	for task := range tasksQueue {
		processChunkTask(threadCache, sm, task)
	}
}

func processChunkTask(threadCache *ChunkExecutorThreadCache, sm *meta.SlabManager, task *ChunkProcessingTask) {
	status := task.Status

	// every task counts towards the waiter exactly once, even the
	// skipped and failed ones, otherwise Query would block forever
	defer func() {
		if status.ChunksProcessed.Add(1) == int32(status.ChunksTotal) {
			status.Waiter.Done()
		}
	}()

	if status.Err.Load() {
		if status.ErrObject == nil {
			panic("err object not set, but err flag is true")
		}
		color.Red("skipped because of error: %s", status.ErrObject.Error())
		return
	}

	taskRes, err := ExecutePlanForChunk(threadCache, sm, task.Plan, task.Bchunk)

	status.Lock.Lock()
	defer status.Lock.Unlock()

	if err != nil {
		if status.ErrObject == nil {
			status.ErrObject = fmt.Errorf("error while executing plan chunk: %s", err.Error())
		}
		status.Err.Store(true)
		return
	}

	status.ChunkResult.TotalItems += taskRes.TotalItems
	status.ChunkResult.WastedMerges += taskRes.WastedMerges
	status.ChunkResult.SkippedBlocksDueToHeaderFiltering += taskRes.SkippedBlocksDueToHeaderFiltering
}
