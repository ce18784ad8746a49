package executor

import (
	"fmt"

	"github.com/dot5enko/tabletdb/lists"
	"github.com/dot5enko/tabletdb/manager/executor/filters"
	"github.com/dot5enko/tabletdb/manager/meta"
	"github.com/dot5enko/tabletdb/manager/query"
	"github.com/dot5enko/tabletdb/predicate"
	"github.com/dot5enko/tabletdb/schema"
)

// BlockMergerContext carries the per-column-group state while a chunk's
// blocks are prepared and filtered. One merger context produces exactly one
// merge per block for its group.
type BlockMergerContext struct {
	Schema         schema.Schema
	AbsOffsetStart uint64

	FilterColumn []query.FilterConditionRuntime
	Predicate    predicate.ColumnPredicate

	Blocks                    []BlockRuntimeInfo
	CurrentBlockProcessingIdx int

	AbsBlockMaps []lists.IndiceUnmerged

	QueryPlan *query.QueryPlan
}

// boundsComparable reports whether block header min/max bounds carry meaning
// for the column type. Bool and binary columns keep zero bounds.
func boundsComparable(t schema.FieldType) bool {
	switch t {
	case schema.BoolFieldType, schema.BinaryFieldType:
		return false
	}
	return true
}

func prepareBlockForMerger(
	mergerContext *BlockMergerContext,

	slabInfo *schema.DiskSlabHeader,
	blockHeader *schema.DiskHeader,

	slabsManager *meta.SlabManager,
) (err error) {

	curRelativeBlockId := mergerContext.CurrentBlockProcessingIdx
	mergerContext.CurrentBlockProcessingIdx++

	// fold per-condition header verdicts into a single group verdict:
	// any NoIntersection kills the whole conjunction for this block,
	// all FullIntersection proves it without decoding
	groupMatch := schema.FullIntersection

	if !boundsComparable(slabInfo.Type) {
		groupMatch = schema.PartialIntersection
	} else {
		for idx := range mergerContext.FilterColumn {

			filter := mergerContext.FilterColumn[idx]

			intersectType, processFilterErr := filters.ProcessFilterOnBounds(filter.Filter, &blockHeader.Bounds)
			if processFilterErr != nil {
				return fmt.Errorf("error filter processing : %s", processFilterErr.Error())
			}

			filter.Runtime.FilterLastBlockHeaderResult = intersectType

			if intersectType == schema.NoIntersection {
				groupMatch = schema.NoIntersection
				break
			}

			if intersectType != schema.FullIntersection {
				groupMatch = schema.PartialIntersection
			}
		}
	}

	blockRT := &mergerContext.Blocks[curRelativeBlockId]
	blockRT.BlockHeader = blockHeader
	blockRT.SlabHeader = slabInfo
	blockRT.HeaderMatch = groupMatch

	switch groupMatch {
	case schema.NoIntersection:
		absBlockRTInfo := &mergerContext.AbsBlockMaps[curRelativeBlockId]

		// preallocated for each thread executor
		absBlockRTInfo.Reset()
		absBlockRTInfo.SetFullSkip()

	case schema.FullIntersection:
		// bounds alone answer the group, block data stays on disk

	default:
		blockDecodedInfo, blockErr := slabsManager.LoadBlockToRuntimeBlockData(mergerContext.Schema, slabInfo, blockHeader.Uid)
		if blockErr != nil {
			return fmt.Errorf("unable to decode block : %s", blockErr.Error())
		}

		blockRT.Val = blockDecodedInfo
	}

	return nil
}

type SingleColumnProcessingResult struct {
	skippedBlocksDueToHeaderFiltering int
}

func preprocessSegmentsIntoBlocksAndHeaderFilter(
	sm *meta.SlabManager,
	slabMergerContext *BlockMergerContext,
	segments []query.Segment,
) error {

	for _, segment := range segments {

		slabBlockOffsetStart := segment.StartBlock

		slabInfo, slabErr := sm.LoadSlabToCache(slabMergerContext.Schema, segment.Slab)
		if slabErr != nil {
			return fmt.Errorf("unable to load slab : %s", slabErr.Error())
		}

		blockHeaders := slabInfo.BlockHeaders

		for i := 0; i < int(segment.Size); i++ {
			idx := i + slabBlockOffsetStart

			if idx > int(slabInfo.BlocksFinalized) {
				break
			}

			blockHeader := &blockHeaders[idx]

			preparationErr := prepareBlockForMerger(slabMergerContext,
				slabInfo,
				blockHeader,
				sm,
			)
			if preparationErr != nil {
				return fmt.Errorf("unable to prepare block for merging : %s", preparationErr.Error())
			}
		}
	}

	return nil
}

func processFiltersOnPreparedBlocks(mCtx *BlockMergerContext, indicesResultCache []uint16) (result SingleColumnProcessingResult, topErr error) {

	singleCondition := len(mCtx.FilterColumn) == 1

	for blockRelativeIdx := range mCtx.CurrentBlockProcessingIdx {

		blockData := &mCtx.Blocks[blockRelativeIdx]

		blockGroupMerger := &mCtx.AbsBlockMaps[blockRelativeIdx]
		if blockGroupMerger.FullSkip() {
			continue
		}

		if blockData.HeaderMatch == schema.FullIntersection {
			result.skippedBlocksDueToHeaderFiltering += 1

			blockGroupMerger.With(nil, false, true)
			continue
		}

		var processFilterErr error
		var filteredSize int

		blockDataType := blockData.BlockHeader.DataType

		if singleCondition {
			filter := mCtx.FilterColumn[0].Filter

			// a lone condition skips predicate machinery and runs the typed
			// comparison kernels directly on the decoded array
			switch blockDataType {
			case schema.Uint64FieldType:
				filteredSize, processFilterErr = ProcessUnsignedFilterOnColumnWithType[uint64](filter, blockData, blockGroupMerger, indicesResultCache)
			case schema.Uint32FieldType:
				filteredSize, processFilterErr = ProcessUnsignedFilterOnColumnWithType[uint32](filter, blockData, blockGroupMerger, indicesResultCache)
			case schema.Uint16FieldType:
				filteredSize, processFilterErr = ProcessUnsignedFilterOnColumnWithType[uint16](filter, blockData, blockGroupMerger, indicesResultCache)
			case schema.Uint8FieldType:
				filteredSize, processFilterErr = ProcessUnsignedFilterOnColumnWithType[uint8](filter, blockData, blockGroupMerger, indicesResultCache)
			case schema.Int64FieldType, schema.TimestampFieldType, schema.DecimalFieldType:
				filteredSize, processFilterErr = ProcessSignedFilterOnColumnWithType[int64](filter, blockData, blockGroupMerger, indicesResultCache)
			case schema.Int32FieldType:
				filteredSize, processFilterErr = ProcessSignedFilterOnColumnWithType[int32](filter, blockData, blockGroupMerger, indicesResultCache)
			case schema.Int16FieldType:
				filteredSize, processFilterErr = ProcessSignedFilterOnColumnWithType[int16](filter, blockData, blockGroupMerger, indicesResultCache)
			case schema.Int8FieldType:
				filteredSize, processFilterErr = ProcessSignedFilterOnColumnWithType[int8](filter, blockData, blockGroupMerger, indicesResultCache)
			case schema.Float32FieldType:
				filteredSize, processFilterErr = ProcessFloatFilterOnColumnWithType[float32](filter, blockData, blockGroupMerger, indicesResultCache)
			case schema.Float64FieldType:
				filteredSize, processFilterErr = ProcessFloatFilterOnColumnWithType[float64](filter, blockData, blockGroupMerger, indicesResultCache)
			default:
				filteredSize, processFilterErr = EvaluatePredicateOnBlock(mCtx.Predicate, blockData, blockGroupMerger, indicesResultCache)
			}
		} else {
			filteredSize, processFilterErr = EvaluatePredicateOnBlock(mCtx.Predicate, blockData, blockGroupMerger, indicesResultCache)
		}

		_ = filteredSize

		if processFilterErr != nil {
			return SingleColumnProcessingResult{}, fmt.Errorf("error filter processing : %s. sum of bitset = %d, bitcount = %d", processFilterErr.Error(), blockGroupMerger.ResultBitset.Sum(), blockGroupMerger.ResultBitset.Count())
		}
	}

	return
}
