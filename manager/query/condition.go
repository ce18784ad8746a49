package query

import (
	"fmt"

	"github.com/dot5enko/tabletdb/schema"
)

type FilterCondition struct {
	Field     string
	Operand   CondOperand
	Arguments []any
}

func (fc FilterCondition) ArgumentFloatValue(idx int) float64 {

	arg := fc.Arguments[idx]

	switch v := arg.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case int16:
		return float64(v)
	case int8:
		return float64(v)
	case uint64:
		return float64(v)
	case uint32:
		return float64(v)
	case uint16:
		return float64(v)
	case uint8:
		return float64(v)
	case float32:
		return float64(v)
	default:
		panic(fmt.Sprintf("filter cond argument is not numeric: %T", arg))
	}
}

func (fc FilterCondition) ArgumentIntValue(idx int) int64 {

	arg := fc.Arguments[idx]

	switch v := arg.(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case int32:
		return int64(v)
	case int16:
		return int64(v)
	case int8:
		return int64(v)
	case uint64:
		return int64(v)
	case uint32:
		return int64(v)
	case uint16:
		return int64(v)
	case uint8:
		return int64(v)
	case float64:
		return int64(v)
	case float32:
		return int64(v)
	default:
		panic(fmt.Sprintf("filter cond argument is not numeric: %T", arg))
	}
}

func (fc FilterCondition) ArgumentUintValue(idx int) uint64 {

	arg := fc.Arguments[idx]

	switch v := arg.(type) {
	case int:
		return uint64(v)
	case int64:
		return uint64(v)
	case int32:
		return uint64(v)
	case int16:
		return uint64(v)
	case int8:
		return uint64(v)
	case uint64:
		return v
	case uint32:
		return uint64(v)
	case uint16:
		return uint64(v)
	case uint8:
		return uint64(v)
	case float64:
		return uint64(v)
	case float32:
		return uint64(v)
	default:
		panic(fmt.Sprintf("filter cond argument is not numeric: %T", arg))
	}
}

// NormalizeArguments rewrites numeric arguments in place to the Go type the
// column's blocks decode into, so downstream comparison kernels can assert
// the dynamic type without a conversion ladder. Bool and binary arguments
// pass through unchanged.
func (fc *FilterCondition) NormalizeArguments(t schema.FieldType) {

	for i := range fc.Arguments {
		switch t {
		case schema.Uint64FieldType:
			fc.Arguments[i] = fc.ArgumentUintValue(i)
		case schema.Uint32FieldType:
			fc.Arguments[i] = uint32(fc.ArgumentUintValue(i))
		case schema.Uint16FieldType:
			fc.Arguments[i] = uint16(fc.ArgumentUintValue(i))
		case schema.Uint8FieldType:
			fc.Arguments[i] = uint8(fc.ArgumentUintValue(i))
		case schema.Int64FieldType, schema.TimestampFieldType, schema.DecimalFieldType:
			fc.Arguments[i] = fc.ArgumentIntValue(i)
		case schema.Int32FieldType:
			fc.Arguments[i] = int32(fc.ArgumentIntValue(i))
		case schema.Int16FieldType:
			fc.Arguments[i] = int16(fc.ArgumentIntValue(i))
		case schema.Int8FieldType:
			fc.Arguments[i] = int8(fc.ArgumentIntValue(i))
		case schema.Float64FieldType:
			fc.Arguments[i] = fc.ArgumentFloatValue(i)
		case schema.Float32FieldType:
			fc.Arguments[i] = float32(fc.ArgumentFloatValue(i))
		}
	}
}
