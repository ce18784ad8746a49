package executor

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dot5enko/tabletdb/manager/meta"
	"github.com/dot5enko/tabletdb/manager/query"
)

type ChunkFilterProcessResult struct {
	SkippedBlocksDueToHeaderFiltering int

	TotalItems   int
	WastedMerges int
}

// preloadChunkSlabs pulls every slab a chunk touches into the cache
// before filtering starts. Disabled for now: the lazy path loads each
// slab on first use anyway and the upfront pass only helps on cold
// caches with many columns.
const preloadChunkSlabs = false

const slowPreloadThresholdMs = 10

func preloadChunks(slabs *meta.SlabManager, plan *query.QueryPlan, blockChunk *query.BlockChunk) error {
	preloadingStart := time.Now()

	for _, filtersGroup := range plan.FilterGroupedByFields {
		for _, segment := range blockChunk.ChunkSegmentsByFieldIndexMap[filtersGroup.ColumnIdx] {
			if _, err := slabs.LoadSlabToCache(plan.Schema, segment.Slab); err != nil {
				return fmt.Errorf("unable to load slab : %s", err.Error())
			}
		}
	}

	preloadingTook := time.Since(preloadingStart).Seconds() * 1000
	if preloadingTook > slowPreloadThresholdMs {
		slog.Info("slow slabs preloading for chunk executor", "took", preloadingTook)
	}

	return nil
}

// ExecutePlanForChunk runs every column filter of the plan over one
// block chunk and merges the per-column bitsets. Columns are processed
// sequentially on purpose: parallelism lives a level up, across chunks,
// where no merge synchronization is needed.
func ExecutePlanForChunk(cache *ChunkExecutorThreadCache, sm *meta.SlabManager, plan *query.QueryPlan, blockChunk *query.BlockChunk) (ChunkFilterProcessResult, error) {

	cache.Reset()

	if preloadChunkSlabs {
		if preloadErr := preloadChunks(sm, plan, blockChunk); preloadErr != nil {
			return ChunkFilterProcessResult{}, fmt.Errorf("unable to preload chunks : %s", preloadErr.Error())
		}
	}

	result := ChunkFilterProcessResult{}

	for _, filtersGroup := range plan.FilterGroupedByFields {

		blockSegments := blockChunk.ChunkSegmentsByFieldIndexMap[filtersGroup.ColumnIdx]

		slabMergerContext := BlockMergerContext{
			Schema:         plan.Schema,
			AbsOffsetStart: blockChunk.GlobalBlockOffset,

			FilterColumn: filtersGroup.Conditions,
			Predicate:    filtersGroup.Predicate,

			Blocks:       cache.blocks[:],
			AbsBlockMaps: cache.absBlockMaps[:],

			CurrentBlockProcessingIdx: 0,
		}

		if err := preprocessSegmentsIntoBlocksAndHeaderFilter(sm, &slabMergerContext, blockSegments); err != nil {
			return ChunkFilterProcessResult{}, fmt.Errorf("unable to preprocess blocks from segments: %s", err.Error())
		}

		singleColumnProcessResult, chunkProcessErr := processFiltersOnPreparedBlocks(&slabMergerContext, cache.indicesResultCache[:])
		if chunkProcessErr != nil {
			return ChunkFilterProcessResult{}, fmt.Errorf("chunk processing failed : %s", chunkProcessErr.Error())
		}

		result.SkippedBlocksDueToHeaderFiltering += singleColumnProcessResult.skippedBlocksDueToHeaderFiltering
	}

	// a block only counts when every filter of the plan merged into it;
	// partial merge chains mean some filter rejected the block entirely
	for idx := range query.ExecutorChunkSizeBlocks {
		blockFilterMask := &cache.absBlockMaps[idx]

		if blockFilterMask.Merges() == plan.FilterSize {
			result.TotalItems += blockFilterMask.ResultBitset.Count()
		} else {
			result.WastedMerges += blockFilterMask.Merges()
		}
	}

	return result, nil
}
