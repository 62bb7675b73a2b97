package jp2k

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bitSource turns a fixed bit sequence into the readBit func tagTree.decode
// expects, the same shape packetBitReader.readBit provides in Tier-2.
func bitSource(bits []int) func() int {
	i := 0
	return func() int {
		if i >= len(bits) {
			return 0
		}
		b := bits[i]
		i++
		return b
	}
}

func TestTagTreeSingleLeafImmediateStop(t *testing.T) {
	tree := newTagTree(1, 1)
	// threshold 0: the node's low bound already meets the threshold, so no
	// bits are consumed and the leaf resolves to 0.
	src := bitSource(nil)
	got := tree.decode(src, 0, 0, 0)
	assert.Equal(t, 0, got)
}

func TestTagTreeDecodeKnownValue(t *testing.T) {
	// a 2x2 grid has a single level above the leaves: the root.
	tree := newTagTree(2, 2)
	// decoding leaf (0,0) with a generous threshold and an all-ones bit
	// stream should terminate as soon as every ancestor node reports
	// "known" (bit==1), yielding each node's low bound as its value.
	src := bitSource([]int{1, 1, 1})
	got := tree.decode(src, 0, 0, 1<<20)
	assert.Equal(t, 0, got)
}

func TestTagTreeMonotonicAcrossRepeatedQueries(t *testing.T) {
	tree := newTagTree(2, 2)
	src := bitSource([]int{0, 1, 1, 1})
	first := tree.decode(src, 1, 1, 1<<20)
	require.GreaterOrEqual(t, first, 0)
	// re-querying the same leaf with the cached tree state (no further
	// bits available) must not decrease the previously resolved value.
	again := tree.decode(bitSource(nil), 1, 1, 1<<20)
	assert.GreaterOrEqual(t, again, first)
}

func TestTagTreePathToRootIsSingleNode(t *testing.T) {
	tree := newTagTree(4, 3)
	path := tree.pathTo(3, 2)
	assert.Equal(t, len(tree.levels), len(path))
	lastLevel := len(tree.levels) - 1
	assert.Equal(t, 0, path[lastLevel]) // the root level always has one node
}
