package schema

import "github.com/google/uuid"

// Schema is the logical description of one table: its ordered columns
// and the shared block id sequence all columns follow. Persisted as
// json next to the column slab files.
type Schema struct {
	Name    string `json:"name"`
	Uid     string `json:"uuid"`
	Columns []SchemaColumn

	Blocks []uuid.UUID
}
