package main

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/dot5enko/tabletdb/manager"
	"github.com/dot5enko/tabletdb/manager/query"
	"github.com/dot5enko/tabletdb/schema"
)

const demoRowsCount = 100_000

func main() {

	m := manager.New(manager.ManagerConfig{
		PathToStorage: "./storage",
		CacheMaxBytes: 0,
	})

	schemaCreatedErr := m.CreateSchema(schema.Schema{
		Name: "health_cheks",
		Columns: []schema.SchemaColumn{
			{Name: "created_at", Type: schema.Uint64FieldType},
			{Name: "value", Type: schema.Uint64FieldType},
		},
	})
	if schemaCreatedErr != nil {
		panic(schemaCreatedErr)
	}

	m.StartWorkers(4, context.Background())

	startedAt := uint64(time.Now().Unix())

	rows := make([]any, demoRowsCount)
	for i := range rows {
		rows[i] = []any{startedAt + uint64(i), uint64(rand.Int63n(50000))}
	}

	if ingestErr := m.Ingest(rows, []string{"created_at", "value"}, "health_cheks"); ingestErr != nil {
		panic(ingestErr)
	}

	result, queryErr := m.Query("health_cheks", query.Query{
		Filter: []query.FilterCondition{
			{Field: "value", Operand: query.RANGE, Arguments: []any{uint64(1000), uint64(2000)}},
			{Field: "created_at", Operand: query.GT, Arguments: []any{startedAt + demoRowsCount/2}},
		},
	})
	if queryErr != nil {
		panic(queryErr)
	}

	log.Printf("query matched %d rows", result.TotalItems)
}
