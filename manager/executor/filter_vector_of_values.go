package executor

import (
	"fmt"
	"log"

	"github.com/dot5enko/tabletdb/lists"
	"github.com/dot5enko/tabletdb/manager/query"
	"github.com/dot5enko/tabletdb/ops"
	"github.com/fatih/color"
)

// traceFilters dumps per-block filtering details, too noisy for normal runs
const traceFilters = false

// applyNumericFilter runs one filter condition over the live rows of a
// block and merges the matching indices into the column's bitset. The
// range kernel is passed in because the three numeric families select
// values differently; EQ, GT and LT share one generic kernel each.
func applyNumericFilter[T ops.NumericTypes](
	filter query.FilterCondition,
	blockData *BlockRuntimeInfo,
	merger *lists.IndiceUnmerged,
	indicesCache []uint16,
	rangeKernel func(arr []T, from, to T, out []uint16) int,
) (int, error) {

	directBlockArray, arrayEndOffset := blockData.Val.DirectAccess()
	inputArray := directBlockArray.([]T)[:arrayEndOffset]

	var itemsFiltered int

	switch filter.Operand {
	case query.RANGE:
		operandA := filter.Arguments[0].(T)
		operandB := filter.Arguments[1].(T)

		if operandA > operandB {
			operandA, operandB = operandB, operandA
		}

		itemsFiltered = rangeKernel(inputArray, operandA, operandB, indicesCache)

		if traceFilters && itemsFiltered > 0 {
			traceRangeMatches(blockData, operandA, operandB, inputArray, indicesCache[:itemsFiltered])
		}

	case query.EQ:
		itemsFiltered = ops.CompareNumericValuesAreEqual(inputArray, filter.Arguments[0].(T), indicesCache)

	case query.GT:
		itemsFiltered = ops.CompareValuesAreBigger(inputArray, filter.Arguments[0].(T), indicesCache)

	case query.LT:
		itemsFiltered = ops.CompareValuesAreSmaller(inputArray, filter.Arguments[0].(T), indicesCache)

	default:
		return 0, fmt.Errorf("unsupported operand type=%s for %s column filter", filter.Operand.String(), blockData.BlockHeader.DataType.String())
	}

	merger.With(indicesCache[:itemsFiltered], false, false)

	return itemsFiltered, nil
}

func traceRangeMatches[T ops.NumericTypes](blockData *BlockRuntimeInfo, from, to T, inputArray []T, matched []uint16) {
	log.Printf("filtered %v items from block by range %s. ", len(matched), blockData.BlockHeader.Uid.String())
	color.Red(" operands %v <-> %v. %s block range : [%e: max %e]", from, to, blockData.BlockHeader.Uid.String(), blockData.BlockHeader.Bounds.Min, blockData.BlockHeader.Bounds.Max)

	valuesFiltered := make([]T, 0, len(matched))
	for _, i := range matched {
		valuesFiltered = append(valuesFiltered, inputArray[i])
	}

	color.Green("-- filtered : %#+v", valuesFiltered)
}

func ProcessUnsignedFilterOnColumnWithType[T ops.UnsignedInts](
	filter query.FilterCondition,
	blockData *BlockRuntimeInfo,
	merger *lists.IndiceUnmerged,
	indicesCache []uint16,
) (int, error) {
	return applyNumericFilter(filter, blockData, merger, indicesCache, ops.CompareValuesAreInRangeUnsignedInts[T])
}

func ProcessSignedFilterOnColumnWithType[T ops.SignedInts](
	filter query.FilterCondition,
	blockData *BlockRuntimeInfo,
	merger *lists.IndiceUnmerged,
	indicesCache []uint16,
) (int, error) {
	return applyNumericFilter(filter, blockData, merger, indicesCache, ops.CompareValuesAreInRangeSignedInts[T])
}

func ProcessFloatFilterOnColumnWithType[T ops.Floats](
	filter query.FilterCondition,
	blockData *BlockRuntimeInfo,
	merger *lists.IndiceUnmerged,
	indicesCache []uint16,
) (int, error) {
	return applyNumericFilter(filter, blockData, merger, indicesCache, ops.CompareValuesAreInRangeFloats[T])
}
