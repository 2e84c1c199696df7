package physics

import (
	"github.com/TFMV/forcefield/models"
	"github.com/tidwall/btree"
)

type adjEntry struct {
	node  uint32
	edges []uint32
}

func adjEntryLess(a, b *adjEntry) bool {
	return a.node < b.node
}

// AdjacencyIndex maps node ids to the ids of their incident edges. Nodes
// are visited in ascending id order and edges in creation order, which
// keeps the spring pass reproducible.
type AdjacencyIndex struct {
	tree *btree.BTreeG[*adjEntry]
}

// NewAdjacencyIndex returns an empty index
func NewAdjacencyIndex() *AdjacencyIndex {
	return &AdjacencyIndex{
		tree: btree.NewBTreeGOptions(adjEntryLess, btree.Options{NoLocks: true}),
	}
}

// BuildAdjacency indexes every edge in edges
func BuildAdjacency(edges []models.Edge) *AdjacencyIndex {
	idx := NewAdjacencyIndex()
	for i, e := range edges {
		idx.Add(uint32(i), e.A, e.B)
	}
	return idx
}

// Add records edgeID under both of its endpoints
func (idx *AdjacencyIndex) Add(edgeID, a, b uint32) {
	idx.append(a, edgeID)
	idx.append(b, edgeID)
}

func (idx *AdjacencyIndex) append(node, edgeID uint32) {
	if entry, ok := idx.tree.Get(&adjEntry{node: node}); ok {
		entry.edges = append(entry.edges, edgeID)
		return
	}
	idx.tree.Set(&adjEntry{node: node, edges: []uint32{edgeID}})
}

// Edges returns the edge ids incident to node. The slice must not be
// modified.
func (idx *AdjacencyIndex) Edges(node uint32) []uint32 {
	if entry, ok := idx.tree.Get(&adjEntry{node: node}); ok {
		return entry.edges
	}
	return nil
}

// Each calls fn for every node with at least one incident edge, in
// ascending node order, until fn returns false
func (idx *AdjacencyIndex) Each(fn func(node uint32, edges []uint32) bool) {
	idx.tree.Scan(func(entry *adjEntry) bool {
		return fn(entry.node, entry.edges)
	})
}

// Len returns the number of nodes with incident edges
func (idx *AdjacencyIndex) Len() int {
	return idx.tree.Len()
}
