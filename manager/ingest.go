package manager

import (
	"fmt"
	"reflect"

	"github.com/dot5enko/tabletdb/schema"
	"github.com/google/uuid"
)

// Ingest appends rows to schemaName, column by column. data holds one
// []any per row, layout names the column each row position maps to. Rows
// are appended to each column's active slab, finalizing blocks as they
// fill and chaining a fresh slab once the active one runs out of blocks.
func (m *Manager) Ingest(data []any, layout []string, schemaName string) error {

	schemaObject := m.meta.GetSchema(schemaName)
	if schemaObject == nil {
		return fmt.Errorf("no such schema '%s'", schemaName)
	}

	for colIdx := range schemaObject.Columns {
		col := &schemaObject.Columns[colIdx]

		layoutIdx := -1
		for i, name := range layout {
			if name == col.Name {
				layoutIdx = i
				break
			}
		}

		if layoutIdx < 0 {
			return fmt.Errorf("layout does not match schema, no column %s found in data", col.Name)
		}

		columnData, collectErr := collectColumn(data, col.Type, layoutIdx)
		if collectErr != nil {
			return fmt.Errorf("unable to collect values for column %s : %s", col.Name, collectErr.Error())
		}

		ingestErr := m.ingestColumn(schemaObject, col, columnData, len(data))
		if ingestErr != nil {
			return fmt.Errorf("unable to ingest column %s : %s", col.Name, ingestErr.Error())
		}
	}

	return nil
}

func (m *Manager) ingestColumn(schemaObject *schema.Schema, col *schema.SchemaColumn, columnData any, rows int) error {

	if col.ActiveSlab == uuid.Nil {
		return fmt.Errorf("no active slab found for column %s", col.Name)
	}

	slab, loadErr := m.Slabs.LoadSlabToCache(*schemaObject, col.ActiveSlab)
	if loadErr != nil {
		return loadErr
	}

	ingested := 0
	for ingested < rows {

		if slab.BlocksFinalized >= slab.BlocksTotal {

			newSlab, newSlabErr := m.Slabs.NewSlabForColumn(*schemaObject, *col, slab.SlabOffsetBlocks+uint64(slab.BlocksTotal))
			if newSlabErr != nil {
				return fmt.Errorf("unable to chain new slab : %s", newSlabErr.Error())
			}

			col.Slabs = append(col.Slabs, newSlab.Uid)
			col.ActiveSlab = newSlab.Uid

			storeErr := m.meta.StoreSchemeToDisk(*schemaObject)
			if storeErr != nil {
				return fmt.Errorf("unable to persist schema after slab chain : %s", storeErr.Error())
			}

			// reload so the cached header carries the fresh block headers
			slab, loadErr = m.Slabs.LoadSlabToCache(*schemaObject, newSlab.Uid)
			if loadErr != nil {
				return loadErr
			}
		}

		block := slab.BlockHeaders[slab.BlocksFinalized].Uid

		written, blockFinished, writeErr := m.Slabs.IngestIntoBlock(*schemaObject, slab, block, columnData, ingested)
		if writeErr != nil {
			return writeErr
		}

		ingested += written

		if blockFinished && slab.BlocksFinalized < slab.BlocksTotal {
			_, nextErr := m.Slabs.StartNextBlock(*schemaObject, slab)
			if nextErr != nil {
				return nextErr
			}
		}

		if written == 0 && !blockFinished {
			return fmt.Errorf("ingest made no progress at row %d of %d", ingested, rows)
		}
	}

	return nil
}

// collectColumn transposes one row position of data into a typed column
// slice matching how the column is stored on disk.
func collectColumn(data []any, typ schema.FieldType, columnIdx int) (any, error) {
	switch typ {
	case schema.Uint64FieldType:
		return collectInto[uint64](data, typ, columnIdx)
	case schema.Uint32FieldType:
		return collectInto[uint32](data, typ, columnIdx)
	case schema.Uint16FieldType:
		return collectInto[uint16](data, typ, columnIdx)
	case schema.Uint8FieldType:
		return collectInto[uint8](data, typ, columnIdx)
	case schema.Int64FieldType, schema.TimestampFieldType, schema.DecimalFieldType:
		return collectInto[int64](data, typ, columnIdx)
	case schema.Int32FieldType:
		return collectInto[int32](data, typ, columnIdx)
	case schema.Int16FieldType:
		return collectInto[int16](data, typ, columnIdx)
	case schema.Int8FieldType:
		return collectInto[int8](data, typ, columnIdx)
	case schema.Float64FieldType:
		return collectInto[float64](data, typ, columnIdx)
	case schema.Float32FieldType:
		return collectInto[float32](data, typ, columnIdx)
	case schema.BoolFieldType:
		out := make([]uint8, len(data))
		for i := range data {
			v, ok := data[i].([]any)[columnIdx].(bool)
			if !ok {
				return nil, fmt.Errorf("invalid type %s expected bool", reflect.TypeOf(data[i].([]any)[columnIdx]))
			}
			if v {
				out[i] = 1
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported column type %s for ingest", typ.String())
	}
}

func collectInto[T any](data []any, typ schema.FieldType, columnIdx int) (any, error) {
	out := make([]T, len(data))
	if err := CollectTypedDataToArray(data, out, typ, columnIdx); err != nil {
		return nil, err
	}
	return out, nil
}

func CollectTypedDataToArray[T any](inputRows []any, outputColumn []T, typ schema.FieldType, columnindex int) error {

	for i, v := range inputRows {

		rowDecoded := inputRows[i].([]any)[columnindex]

		switch t := rowDecoded.(type) {
		case T:
			outputColumn[i] = t
		default:
			return fmt.Errorf("invalid type %s expected %s", reflect.TypeOf(v), reflect.TypeOf(outputColumn))
		}
	}
	return nil
}
