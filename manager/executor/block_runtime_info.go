package executor

import "github.com/dot5enko/tabletdb/schema"

type BlockRuntimeInfo struct {
	Val *schema.RuntimeBlockData

	BlockHeader *schema.DiskHeader
	SlabHeader  *schema.DiskSlabHeader

	// HeaderMatch is the group-level bounds verdict for this block: the
	// weakest result across every condition of the column group.
	HeaderMatch schema.BoundsFilterMatchResult
}
