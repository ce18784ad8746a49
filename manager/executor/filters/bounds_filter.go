package filters

import (
	"fmt"

	"github.com/dot5enko/tabletdb/manager/query"
	"github.com/dot5enko/tabletdb/schema"
)

// ProcessFilterOnBounds classifies one filter condition against a min/max
// bounds pair without touching block data. NoIntersection means no row in the
// block can match; FullIntersection means every non-null row matches.
func ProcessFilterOnBounds(
	filter query.FilterCondition,
	bounds *schema.BoundsFloat,
) (schema.BoundsFilterMatchResult, error) {

	switch filter.Operand {
	case query.RANGE:
		operandFrom := filter.ArgumentFloatValue(0)
		operandTo := filter.ArgumentFloatValue(1)
		if operandFrom > operandTo {
			operandFrom, operandTo = operandTo, operandFrom
		}
		return bounds.Intersects(schema.NewBoundsFromValues(operandFrom, operandTo)), nil

	case query.EQ:
		if bounds.Contains(filter.ArgumentFloatValue(0)) {
			return schema.PartialIntersection, nil
		}
		return schema.NoIntersection, nil

	case query.GT:
		return halfOpenMatch(filter.ArgumentFloatValue(0) > bounds.Max, filter.ArgumentFloatValue(0) < bounds.Min), nil

	case query.LT:
		return halfOpenMatch(filter.ArgumentFloatValue(0) < bounds.Min, filter.ArgumentFloatValue(0) > bounds.Max), nil

	default:
		return schema.UnknownIntersection, fmt.Errorf("unsupported operand type=%v for bounds filtering", filter.Operand)
	}
}

func halfOpenMatch(missesAll, coversAll bool) schema.BoundsFilterMatchResult {
	switch {
	case missesAll:
		return schema.NoIntersection
	case coversAll:
		return schema.FullIntersection
	default:
		return schema.PartialIntersection
	}
}
