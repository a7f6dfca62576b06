// Package quadtree implements lossless compression of square grayscale images using quadtrees.
package quadtree

import (
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/outofforest/quadtree/hash"
	"github.com/outofforest/quadtree/raster"
	"github.com/outofforest/quadtree/types"
)

// NewTree creates tree representing raster of rawSize pixels from the hand-built root node.
func NewTree(rawSize int, root *Node) (*Tree, error) {
	side, err := raster.Side(rawSize)
	if err != nil {
		return nil, errors.Wrapf(ErrConfig, "%s", err)
	}
	if root == nil {
		return nil, errors.Wrap(ErrFormat, "root node is missing")
	}

	t := &Tree{
		root:    root,
		side:    side,
		rawSize: rawSize,
	}

	var numOfNodes int
	for n, region := range t.Regions() {
		numOfNodes++
		if n.IsLeaf() {
			if !types.IsPixel(n.Value) {
				return nil, errors.Wrapf(ErrFormat, "leaf value %d is out of range", n.Value)
			}
			continue
		}
		if !region.Divisible() {
			return nil, errors.Wrapf(ErrConfig, "region of side %d can't be split", region.Size)
		}
		for _, child := range n.Children {
			if child == nil {
				return nil, errors.Wrap(ErrFormat, "split node has missing child")
			}
		}
	}
	t.compressedSize = numOfNodes + 1

	return t, nil
}

// Tree is the quadtree representing compressed raster.
type Tree struct {
	root           *Node
	side           int
	rawSize        int
	compressedSize int
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.root
}

// Dim returns the side of the raster.
func (t *Tree) Dim() int {
	return t.side
}

// RawSize returns the number of pixels in the raster.
func (t *Tree) RawSize() int {
	return t.rawSize
}

// CompressedSize returns the number of integers in the linear form, header included.
func (t *Tree) CompressedSize() int {
	return t.compressedSize
}

type nodeRegion struct {
	Node   *Node
	Region types.Region
}

// Regions iterates over nodes in preorder together with the regions they represent.
// Zero value of Tree has no nodes.
func (t *Tree) Regions() func(func(*Node, types.Region) bool) {
	return func(yield func(*Node, types.Region) bool) {
		if t.root == nil {
			return
		}

		stack := []nodeRegion{{Node: t.root, Region: types.Region{Size: t.side}}}
		for len(stack) > 0 {
			nr := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if !yield(nr.Node, nr.Region) {
				return
			}
			if nr.Node.IsLeaf() {
				continue
			}

			quadrants := nr.Region.Quadrants()
			for i := types.NumOfQuadrants - 1; i >= 0; i-- {
				stack = append(stack, nodeRegion{Node: nr.Node.Children[i], Region: quadrants[i]})
			}
		}
	}
}

// Equal compares trees structurally.
func (t *Tree) Equal(other *Tree) bool {
	count1, values1 := t.Linear()
	count2, values2 := other.Linear()
	return count1 == count2 && slices.Equal(values1, values2)
}

// Fingerprint returns the hash of the linear form.
func (t *Tree) Fingerprint() uint64 {
	return hash.Fingerprint(t.Linear())
}

// Render returns preorder dump of node values separated by spaces.
func (t *Tree) Render() string {
	var sb strings.Builder
	for n := range t.Regions() {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(n.Value))
	}
	return sb.String()
}

// String returns the debug view of the tree.
func (t *Tree) String() string {
	return "QTree: " + t.Render()
}
