package query

import (
	"fmt"

	"github.com/dot5enko/tabletdb/schema"
	"github.com/google/uuid"
)

// ExecutorChunkSizeBlocks is how many blocks of each column a single
// worker task covers.
const ExecutorChunkSizeBlocks = 10

var ErrSchemaNotFound = fmt.Errorf("schema not found")

// Segment is a run of consecutive blocks inside one slab.
type Segment struct {
	Slab uuid.UUID

	StartBlock int
	Size       int
}

// BlockChunk is the unit handed to a worker: for every filtered column,
// the segments covering the same window of ExecutorChunkSizeBlocks
// blocks. Indexed by the column's position in the schema rather than a
// map keyed by name.
type BlockChunk struct {
	GlobalBlockOffset uint64

	ChunkSegmentsByFieldIndexMap [][]Segment
}

// QueryPlan is the planner's output: filters grouped per column, the
// chunked block layout, and the header-bounds pruning stats gathered
// while planning.
type QueryPlan struct {
	Schema                schema.Schema
	FilterGroupedByFields []FilterGroupedRT
	BlockChunks           []BlockChunk

	FilterSize int

	// SkippedBlocksViaHeaderBounds counts finalized blocks whose block
	// header bounds already rule out at least one filter condition,
	// computed at plan time before any block data is loaded.
	SkippedBlocksViaHeaderBounds int
}

// SingleChunk collects one column's segments while the planner fills a
// chunk up to ExecutorChunkSizeBlocks.
type SingleChunk struct {
	Segments     []Segment
	BlocksFilled int
}

type ColumnChunks struct {
	List []SingleChunk
}

type QueryOptions struct {
}

type Query struct {
	Filter []FilterCondition
	Select []Selector
}
