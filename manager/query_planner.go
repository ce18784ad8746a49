package manager

import (
	"fmt"
	"sort"

	"github.com/dot5enko/tabletdb/manager/executor"
	"github.com/dot5enko/tabletdb/manager/executor/filters"
	"github.com/dot5enko/tabletdb/manager/meta"
	"github.com/dot5enko/tabletdb/manager/query"
	"github.com/dot5enko/tabletdb/predicate"
	"github.com/dot5enko/tabletdb/schema"
	"github.com/google/uuid"
)

type QueryPlanner struct {
}

func NewQueryPlanner() *QueryPlanner {
	return &QueryPlanner{}
}

func columnBoundsUsable(t schema.FieldType) bool {
	switch t {
	case schema.BoolFieldType, schema.BinaryFieldType:
		return false
	}
	return true
}

func validateFilterColumns(schemaObject *schema.Schema, schemaName string, conditions []query.FilterCondition) error {
	for _, filter := range conditions {
		found := false
		for _, it := range schemaObject.Columns {
			if it.Name == filter.Field {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("column `%v` not found on schema `%v`", filter.Field, schemaName)
		}
	}
	return nil
}

// groupFiltersByColumn buckets conditions per column, pins their
// argument types to the column type and builds the merged predicate of
// each group.
func groupFiltersByColumn(schemaObject *schema.Schema, conditions []query.FilterCondition, arena *schema.Arena) ([]query.FilterGroupedRT, error) {

	filtersByColumns := map[string][]query.FilterConditionRuntime{}
	for _, filter := range conditions {
		filtersByColumns[filter.Field] = append(filtersByColumns[filter.Field], query.FilterConditionRuntime{
			Filter:  filter,
			Runtime: &query.RuntimeFilterCache{},
		})
	}

	grouped := make([]query.FilterGroupedRT, 0, len(filtersByColumns))
	for fname, conds := range filtersByColumns {

		var columnInfo schema.SchemaColumn
		columnIdx := 0

		// all fields exist, validated before grouping
		for idx, it := range schemaObject.Columns {
			if it.Name == fname {
				columnInfo = it
				columnIdx = idx
				break
			}
		}

		// pin argument dynamic types to the column type so the typed
		// comparison kernels can assert them directly
		for i := range conds {
			conds[i].Filter.NormalizeArguments(columnInfo.Type)
		}

		groupPredicate, predicateErr := executor.BuildColumnPredicate(columnInfo, conds, arena)
		if predicateErr != nil {
			return nil, fmt.Errorf("unable to build predicate for column `%v` : %s", fname, predicateErr.Error())
		}

		grouped = append(grouped, query.FilterGroupedRT{
			FieldName:        fname,
			Conditions:       conds,
			ColumnSchemaInfo: &columnInfo,
			ColumnIdx:        columnIdx,
			Predicate:        groupPredicate,
		})
	}

	return grouped, nil
}

// orderGroupsBySelectivity puts the most selective group first, so later
// merges work on blocks the cheap predicates already ruled in. Ties
// resolve by column name for consistency of results.
func orderGroupsBySelectivity(groups []query.FilterGroupedRT) []query.FilterGroupedRT {
	groupPredicates := make([]predicate.ColumnPredicate, len(groups))
	for i := range groups {
		groupPredicates[i] = groups[i].Predicate
	}

	less := predicate.SelectivityComparator(groupPredicates)

	order := make([]int, len(groups))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return less(order[a], order[b])
	})

	ordered := make([]query.FilterGroupedRT, len(order))
	for i, idx := range order {
		ordered[i] = groups[idx]
	}
	return ordered
}

// countHeaderBoundSkips walks every finalized block header of the
// filtered columns and counts blocks whose bounds already rule out some
// condition, before any block data is touched.
func countHeaderBoundSkips(
	schemaObject *schema.Schema,
	slabManager *meta.SlabManager,
	groups []query.FilterGroupedRT,
	slabsByColumns map[string][]uuid.UUID,
) (int, error) {

	skipped := 0
	for _, filtersGroup := range groups {
		if !columnBoundsUsable(filtersGroup.ColumnSchemaInfo.Type) {
			continue
		}

		for _, slabUid := range slabsByColumns[filtersGroup.FieldName] {

			slabInfo, slabLoadErr := slabManager.LoadSlabToCache(*schemaObject, slabUid)
			if slabLoadErr != nil {
				return 0, fmt.Errorf("error loading slab into cache : %s", slabLoadErr.Error())
			}

			for i := 0; i < int(slabInfo.BlocksFinalized); i++ {
				blockHeader := &slabInfo.BlockHeaders[i]

				for _, filter := range filtersGroup.Conditions {
					matchResult, boundsErr := filters.ProcessFilterOnBounds(filter.Filter, &blockHeader.Bounds)
					if boundsErr != nil {
						return 0, fmt.Errorf("error filtering slab header bounds : %s", boundsErr.Error())
					}

					if matchResult == schema.NoIntersection {
						skipped++
						break
					}
				}
			}
		}
	}

	return skipped, nil
}

// buildColumnChunks splits one column's slabs into segments so that each
// chunk covers exactly ExecutorChunkSizeBlocks blocks (the tail chunk
// may stay partial and is dropped when never completed).
func buildColumnChunks(columnDef schema.SchemaColumn) query.ColumnChunks {
	chunks := query.ColumnChunks{List: []query.SingleChunk{}}
	current := &query.SingleChunk{Segments: []query.Segment{}}

	blocksPerSlab := int(columnDef.Type.BlocksPerSlab())

	for _, slabUid := range columnDef.Slabs {
		leftoverBlocks := blocksPerSlab
		used := 0

		for leftoverBlocks > 0 {
			curSize := min(leftoverBlocks, query.ExecutorChunkSizeBlocks-current.BlocksFilled)

			current.Segments = append(current.Segments, query.Segment{
				Slab:       slabUid,
				StartBlock: used,
				Size:       curSize,
			})

			leftoverBlocks -= curSize
			used += curSize
			current.BlocksFilled += curSize

			if current.BlocksFilled > query.ExecutorChunkSizeBlocks {
				panic(fmt.Sprintf("this should not happen. never. Number of blocks filled %d, exceeds executor chunk size %d", current.BlocksFilled, query.ExecutorChunkSizeBlocks))
			}

			if current.BlocksFilled == query.ExecutorChunkSizeBlocks {
				chunks.List = append(chunks.List, *current)
				current = &query.SingleChunk{Segments: []query.Segment{}}
			}
		}
	}

	return chunks
}

func (qp *QueryPlanner) Plan(
	schemaName string,
	queryData query.Query,
	metaManager *meta.MetaManager,
	slabManager *meta.SlabManager,
	options *query.QueryOptions,
) (query.QueryPlan, error) {

	schemaObject := metaManager.GetSchema(schemaName)
	if schemaObject == nil {
		return query.QueryPlan{}, query.ErrSchemaNotFound
	}

	if err := validateFilterColumns(schemaObject, schemaName, queryData.Filter); err != nil {
		return query.QueryPlan{}, err
	}

	slabsByColumns := map[string][]uuid.UUID{}
	for _, it := range schemaObject.Columns {
		if len(it.Slabs) > 0 {
			slabsByColumns[it.Name] = append(slabsByColumns[it.Name], it.Slabs...)
		}
	}

	// arena backs the successor byte buffers of range predicates, the
	// plan keeps references into it for its whole lifetime
	arena := schema.NewArena()

	filterByColumnsArray, groupErr := groupFiltersByColumn(schemaObject, queryData.Filter, arena)
	if groupErr != nil {
		return query.QueryPlan{}, groupErr
	}

	// a contradictory group means the whole conjunction is empty:
	// hand back a plan with no chunks so executors have nothing to do
	for _, filtersGroup := range filterByColumnsArray {
		if filtersGroup.Predicate.Kind == predicate.KindNone {
			return query.QueryPlan{
				Schema:                *schemaObject,
				FilterGroupedByFields: filterByColumnsArray,
				BlockChunks:           nil,
				FilterSize:            len(filterByColumnsArray),
			}, nil
		}
	}

	filterByColumnsArray = orderGroupsBySelectivity(filterByColumnsArray)

	skippedBlocksViaHeaderBounds, skipErr := countHeaderBoundSkips(schemaObject, slabManager, filterByColumnsArray, slabsByColumns)
	if skipErr != nil {
		return query.QueryPlan{}, skipErr
	}

	perColumnChunks := map[int]query.ColumnChunks{}
	maxChunks := 0

	for columnIdx, columnDef := range schemaObject.Columns {
		columnChunks := buildColumnChunks(columnDef)
		perColumnChunks[columnIdx] = columnChunks

		if len(columnChunks.List) > maxChunks {
			maxChunks = len(columnChunks.List)
		}
	}

	chunks := make([]query.BlockChunk, maxChunks)
	fieldsCount := len(schemaObject.Columns)

	for columnIdx, perColumnChunk := range perColumnChunks {
		for chunkIdx, chunk := range perColumnChunk.List {
			curChunkObject := &chunks[chunkIdx]

			if curChunkObject.ChunkSegmentsByFieldIndexMap == nil {
				curChunkObject.ChunkSegmentsByFieldIndexMap = make([][]query.Segment, fieldsCount)
				curChunkObject.GlobalBlockOffset = uint64(chunkIdx) * query.ExecutorChunkSizeBlocks
			}

			curChunkObject.ChunkSegmentsByFieldIndexMap[columnIdx] = chunk.Segments
		}
	}

	return query.QueryPlan{
		Schema:                       *schemaObject,
		FilterGroupedByFields:        filterByColumnsArray,
		BlockChunks:                  chunks,
		FilterSize:                   len(filterByColumnsArray),
		SkippedBlocksViaHeaderBounds: skippedBlocksViaHeaderBounds,
	}, nil
}
