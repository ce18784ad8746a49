package manager

import (
	"fmt"
	"log/slog"

	"github.com/dot5enko/tabletdb/manager/executor"
	"github.com/dot5enko/tabletdb/manager/query"
)

// Query plans a filter query against schemaName and fans the resulting
// chunks out over the worker queue, blocking until every chunk has been
// processed. StartWorkers must be running for the call to make progress.
func (m *Manager) Query(
	schemaName string,
	queryData query.Query,
) (executor.ChunkFilterProcessResult, error) {

	plan, planErr := m.planner.Plan(schemaName, queryData, m.meta, m.Slabs, nil)
	if planErr != nil {
		return executor.ChunkFilterProcessResult{}, fmt.Errorf("unable to construct query execution plan : %s", planErr.Error())
	}

	if len(plan.BlockChunks) == 0 {
		return executor.ChunkFilterProcessResult{}, nil
	}

	status := &executor.TaskStatus{
		ChunksTotal: len(plan.BlockChunks),
	}
	status.Waiter.Add(1)

	for i := range plan.BlockChunks {
		m.chunksQueue <- &executor.ChunkProcessingTask{
			Bchunk:   &plan.BlockChunks[i],
			Slabs:    m.Slabs,
			Plan:     &plan,
			ChunkIdx: i,
			Status:   status,
		}
	}

	status.Waiter.Wait()

	if status.Err.Load() {
		return executor.ChunkFilterProcessResult{}, status.ErrObject
	}

	result := status.ChunkResult

	slog.Info("merge info",
		"wasted_merges", result.WastedMerges,
		"skipped_blocks", result.SkippedBlocksDueToHeaderFiltering+plan.SkippedBlocksViaHeaderBounds,
		"total_filtered", result.TotalItems)

	return result, nil
}
