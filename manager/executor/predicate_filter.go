package executor

import (
	"fmt"

	"github.com/dot5enko/tabletdb/bits"
	"github.com/dot5enko/tabletdb/lists"
	"github.com/dot5enko/tabletdb/manager/query"
	"github.com/dot5enko/tabletdb/predicate"
	"github.com/dot5enko/tabletdb/schema"
)

// BuildColumnPredicate folds every condition targeting one column into a
// single conjunctive predicate in canonical form. A contradictory set of
// conditions (say EQ 5 AND GT 10) collapses to KindNone, which the planner
// uses to short-circuit the whole query.
func BuildColumnPredicate(
	col schema.SchemaColumn,
	conds []query.FilterConditionRuntime,
	arena *schema.Arena,
) (predicate.ColumnPredicate, error) {

	merged := predicate.IsNotNull(col)

	for _, cond := range conds {
		p, condErr := conditionToPredicate(col, cond.Filter, arena)
		if condErr != nil {
			return predicate.ColumnPredicate{}, condErr
		}

		merged = merged.Merge(p)
	}

	return merged, nil
}

func conditionToPredicate(
	col schema.SchemaColumn,
	filter query.FilterCondition,
	arena *schema.Arena,
) (predicate.ColumnPredicate, error) {

	switch filter.Operand {
	case query.EQ:
		v, encodeErr := encodeFilterArgument(col.Type, filter.Arguments[0])
		if encodeErr != nil {
			return predicate.ColumnPredicate{}, encodeErr
		}
		return predicate.Equality(col, v), nil

	case query.GT:
		v, encodeErr := encodeFilterArgument(col.Type, filter.Arguments[0])
		if encodeErr != nil {
			return predicate.ColumnPredicate{}, encodeErr
		}
		return predicate.ExclusiveRange(col, v, nil, arena), nil

	case query.LT:
		v, encodeErr := encodeFilterArgument(col.Type, filter.Arguments[0])
		if encodeErr != nil {
			return predicate.ColumnPredicate{}, encodeErr
		}
		return predicate.Range(col, nil, v), nil

	case query.RANGE:
		lo, loErr := encodeFilterArgument(col.Type, filter.Arguments[0])
		if loErr != nil {
			return predicate.ColumnPredicate{}, loErr
		}
		hi, hiErr := encodeFilterArgument(col.Type, filter.Arguments[1])
		if hiErr != nil {
			return predicate.ColumnPredicate{}, hiErr
		}

		if schema.Compare(col.Type, lo, hi) > 0 {
			lo, hi = hi, lo
		}

		p, constrains := predicate.InclusiveRange(col, lo, hi, arena)
		if !constrains {
			// range covers the whole domain, nothing to filter on
			return predicate.IsNotNull(col), nil
		}
		return p, nil

	default:
		return predicate.ColumnPredicate{}, fmt.Errorf("unsupported operand %s for column %s", filter.Operand.String(), col.Name)
	}
}

// encodeFilterArgument converts a query argument (numeric, bool, string or
// []byte) into the column's fixed byte encoding.
func encodeFilterArgument(t schema.FieldType, arg any) ([]byte, error) {
	switch t {
	case schema.Int8FieldType:
		v, err := toInt64(arg)
		return schema.EncodeInt8(int8(v)), err
	case schema.Int16FieldType:
		v, err := toInt64(arg)
		return schema.EncodeInt16(int16(v)), err
	case schema.Int32FieldType:
		v, err := toInt64(arg)
		return schema.EncodeInt32(int32(v)), err
	case schema.Int64FieldType, schema.TimestampFieldType, schema.DecimalFieldType:
		v, err := toInt64(arg)
		return schema.EncodeInt64(v), err
	case schema.Uint8FieldType:
		v, err := toUint64(arg)
		return schema.EncodeUint8(uint8(v)), err
	case schema.Uint16FieldType:
		v, err := toUint64(arg)
		return schema.EncodeUint16(uint16(v)), err
	case schema.Uint32FieldType:
		v, err := toUint64(arg)
		return schema.EncodeUint32(uint32(v)), err
	case schema.Uint64FieldType:
		v, err := toUint64(arg)
		return schema.EncodeUint64(v), err
	case schema.Float32FieldType:
		v, err := toFloat64(arg)
		return schema.EncodeFloat32(float32(v)), err
	case schema.Float64FieldType:
		v, err := toFloat64(arg)
		return schema.EncodeFloat64(v), err
	case schema.BoolFieldType:
		b, ok := arg.(bool)
		if !ok {
			return nil, fmt.Errorf("filter argument for bool column is %T", arg)
		}
		return schema.EncodeBool(b), nil
	case schema.BinaryFieldType:
		switch v := arg.(type) {
		case string:
			return []byte(v), nil
		case []byte:
			return v, nil
		default:
			return nil, fmt.Errorf("filter argument for binary column is %T", arg)
		}
	default:
		return nil, fmt.Errorf("cannot encode filter argument for column type %s", t.String())
	}
}

func toInt64(arg any) (int64, error) {
	switch v := arg.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case float32:
		return int64(v), nil
	case float64:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("filter argument is not numeric: %T", arg)
	}
}

func toUint64(arg any) (uint64, error) {
	switch v := arg.(type) {
	case int:
		return uint64(v), nil
	case int8:
		return uint64(v), nil
	case int16:
		return uint64(v), nil
	case int32:
		return uint64(v), nil
	case int64:
		return uint64(v), nil
	case uint8:
		return uint64(v), nil
	case uint16:
		return uint64(v), nil
	case uint32:
		return uint64(v), nil
	case uint64:
		return v, nil
	case float32:
		return uint64(v), nil
	case float64:
		return uint64(v), nil
	default:
		return 0, fmt.Errorf("filter argument is not numeric: %T", arg)
	}
}

func toFloat64(arg any) (float64, error) {
	switch v := arg.(type) {
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("filter argument is not numeric: %T", arg)
	}
}

// EvaluatePredicateOnBlock runs a merged column predicate over one decoded
// block and feeds the matching row indices into the block's merger as a
// single merge. It is the general evaluation path: any fixed-width type,
// any number of folded conditions.
func EvaluatePredicateOnBlock(
	pred predicate.ColumnPredicate,
	blockData *BlockRuntimeInfo,
	merger *lists.IndiceUnmerged,
	indicesCache []uint16,
) (int, error) {

	raw, n, bytesErr := runtimeBlockBytes(blockData)
	if bytesErr != nil {
		return 0, bytesErr
	}

	cellWidth := blockData.BlockHeader.DataType.Size()
	block := schema.NewFixedWidthBlock(blockData.BlockHeader.DataType, raw[:n*cellWidth], n)

	sel := schema.NewSelectionVectorAllSet(n)
	pred.Evaluate(block, sel)

	matched := 0
	for i := 0; i < n; i++ {
		if sel.Get(i) {
			indicesCache[matched] = uint16(i)
			matched++
		}
	}

	merger.With(indicesCache[:matched], false, false)

	return matched, nil
}

// runtimeBlockBytes reinterprets a decoded block's typed array as its raw
// little-endian byte layout, without copying.
func runtimeBlockBytes(blockData *BlockRuntimeInfo) ([]byte, int, error) {
	arr, items := blockData.Val.DirectAccess()

	switch typed := arr.(type) {
	case []uint8:
		return bits.ArrayAsBytes(typed), items, nil
	case []uint16:
		return bits.ArrayAsBytes(typed), items, nil
	case []uint32:
		return bits.ArrayAsBytes(typed), items, nil
	case []uint64:
		return bits.ArrayAsBytes(typed), items, nil
	case []int8:
		return bits.ArrayAsBytes(typed), items, nil
	case []int16:
		return bits.ArrayAsBytes(typed), items, nil
	case []int32:
		return bits.ArrayAsBytes(typed), items, nil
	case []int64:
		return bits.ArrayAsBytes(typed), items, nil
	case []float32:
		return bits.ArrayAsBytes(typed), items, nil
	case []float64:
		return bits.ArrayAsBytes(typed), items, nil
	default:
		return nil, 0, fmt.Errorf("runtime block holds unsupported array type %T", arr)
	}
}
