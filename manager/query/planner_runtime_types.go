package query

import (
	"github.com/dot5enko/tabletdb/predicate"
	"github.com/dot5enko/tabletdb/schema"
)

type RuntimeFilterCache struct {
	FilterLastBlockHeaderResult schema.BoundsFilterMatchResult
}

type FilterConditionRuntime struct {
	Filter  FilterCondition
	Runtime *RuntimeFilterCache
}

// FilterGroupedRT is all the filter conditions of a query that target one
// column, together with the single conjunctive predicate they fold into.
type FilterGroupedRT struct {
	FieldName string

	ColumnSchemaInfo *schema.SchemaColumn
	ColumnIdx        int

	Conditions []FilterConditionRuntime

	// Predicate is the conjunction of Conditions in canonical form, built
	// by the planner. The executor runs exactly one merge per column group
	// per block off this predicate.
	Predicate predicate.ColumnPredicate
}
