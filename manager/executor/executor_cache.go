package executor

import (
	"github.com/dot5enko/tabletdb/lists"
	"github.com/dot5enko/tabletdb/manager/query"
	"github.com/dot5enko/tabletdb/schema"
)

type ChunkExecutorThreadCache struct {
	absBlockMaps       [query.ExecutorChunkSizeBlocks]lists.IndiceUnmerged
	blocks             [query.ExecutorChunkSizeBlocks]BlockRuntimeInfo
	indicesResultCache [schema.BlockRowsSize]uint16
}

// Reset clears per-chunk state so the cache can be reused by the next task
// on the same worker thread.
func (c *ChunkExecutorThreadCache) Reset() {
	for i := range c.absBlockMaps {
		c.absBlockMaps[i].Reset()
	}
	for i := range c.blocks {
		c.blocks[i] = BlockRuntimeInfo{}
	}
}
