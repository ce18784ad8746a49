package filters

import (
	"testing"

	"github.com/dot5enko/tabletdb/manager/query"
	"github.com/dot5enko/tabletdb/schema"
)

func TestHeaderBoundsClassification(t *testing.T) {

	bounds := schema.NewBoundsFromValues(0.5, 0.8)

	cases := []struct {
		name    string
		operand query.CondOperand
		arg     float32
		want    schema.BoundsFilterMatchResult
	}{
		{"gt below min covers block", query.GT, 0.4999, schema.FullIntersection},
		{"gt above max misses block", query.GT, 0.8001, schema.NoIntersection},
		{"gt inside bounds is partial", query.GT, 0.6, schema.PartialIntersection},
		{"lt below min misses block", query.LT, 0.4999, schema.NoIntersection},
		{"lt above max covers block", query.LT, 0.8001, schema.FullIntersection},
		{"lt inside bounds is partial", query.LT, 0.5999, schema.PartialIntersection},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			filter := query.FilterCondition{
				Field:     "value",
				Operand:   tc.operand,
				Arguments: []any{tc.arg},
			}

			got, err := ProcessFilterOnBounds(filter, &bounds)
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %s, got %s", tc.want.String(), got.String())
			}
		})
	}
}

func TestHeaderEqualityFilter(t *testing.T) {

	bounds := schema.NewBoundsFromValues(10, 20)

	inside := query.FilterCondition{
		Field:     "value",
		Operand:   query.EQ,
		Arguments: []any{15},
	}

	matchResult, matchErr := ProcessFilterOnBounds(inside, &bounds)
	if matchErr != nil {
		t.Errorf("unexpected error %v", matchErr)
	} else if matchResult != schema.PartialIntersection {
		t.Errorf("expected partial intersection, got %s", matchResult.String())
	}

	outside := query.FilterCondition{
		Field:     "value",
		Operand:   query.EQ,
		Arguments: []any{uint64(21)},
	}

	matchResult, matchErr = ProcessFilterOnBounds(outside, &bounds)
	if matchErr != nil {
		t.Errorf("unexpected error %v", matchErr)
	} else if matchResult != schema.NoIntersection {
		t.Errorf("expected no intersection, got %s", matchResult.String())
	}
}

func TestHeaderRangeFilterSwapsOperands(t *testing.T) {

	bounds := schema.NewBoundsFromValues(10, 20)

	filter := query.FilterCondition{
		Field:     "value",
		Operand:   query.RANGE,
		Arguments: []any{int64(25), int64(5)},
	}

	matchResult, matchErr := ProcessFilterOnBounds(filter, &bounds)
	if matchErr != nil {
		t.Errorf("unexpected error %v", matchErr)
	} else if matchResult != schema.FullIntersection {
		t.Errorf("expected full intersection, got %s", matchResult.String())
	}
}
