package executor

import (
	"sync"
	"sync/atomic"

	"github.com/dot5enko/tabletdb/manager/meta"
	"github.com/dot5enko/tabletdb/manager/query"
)

// TaskStatus is shared between every chunk task of one plan execution.
// Workers accumulate into ChunkResult under Lock; Err latches on the
// first failure so the remaining chunks can bail out early.
type TaskStatus struct {
	ChunksTotal     int
	ChunksProcessed atomic.Int32

	Err       atomic.Bool
	ErrObject error

	ChunkResult ChunkFilterProcessResult

	Waiter sync.WaitGroup
	Lock   sync.Mutex
}

// ChunkProcessingTask is one unit of work handed to the worker pool: a
// single block chunk of a plan, plus the shared status record.
type ChunkProcessingTask struct {
	Bchunk *query.BlockChunk
	Slabs  *meta.SlabManager
	Plan   *query.QueryPlan

	ChunkIdx int

	Status *TaskStatus
}
