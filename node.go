package quadtree

import (
	"github.com/outofforest/mass"

	"github.com/outofforest/quadtree/types"
)

// nodesPerChunk is the number of nodes allocated at once by the node arena.
const nodesPerChunk = 1024

// Node is the node of quadtree. It is either a leaf storing pixel value or a split node
// storing types.SplitMarker and four children.
type Node struct {
	Value    int
	Children [types.NumOfQuadrants]*Node
}

// NewLeaf creates leaf node.
func NewLeaf(value int) *Node {
	return &Node{Value: value}
}

// NewSplit creates split node owning four children.
func NewSplit(upperLeft, upperRight, lowerLeft, lowerRight *Node) *Node {
	return &Node{
		Value:    types.SplitMarker,
		Children: [types.NumOfQuadrants]*Node{upperLeft, upperRight, lowerLeft, lowerRight},
	}
}

// IsLeaf tells if node is a leaf.
func (n *Node) IsLeaf() bool {
	return n.Value != types.SplitMarker
}

func newNodeMass() *mass.Mass[Node] {
	return mass.New[Node](nodesPerChunk)
}
