package quadtree

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/outofforest/logger"
	"github.com/outofforest/mass"
	"github.com/outofforest/parallel"
	"github.com/outofforest/quadtree/raster"
	"github.com/outofforest/quadtree/types"
)

type regionToCompress struct {
	Region types.Region
	Slot   **Node
}

// Compress builds the tree from pixel values stored in row-major order.
func Compress(values []int) (*Tree, error) {
	img, err := newRaster(values)
	if err != nil {
		return nil, err
	}

	t := newTree(img)
	t.compressedSize = compressRegion(img, regionToCompress{Region: img.Region(), Slot: &t.root}, newNodeMass()) + 1
	return t, nil
}

// CompressParallel builds the same tree as Compress does, but sub-regions below depth levels are compressed
// concurrently.
func CompressParallel(ctx context.Context, values []int, depth uint64) (*Tree, error) {
	img, err := newRaster(values)
	if err != nil {
		return nil, err
	}

	t := newTree(img)
	massNode := newNodeMass()

	// Below the maximum depth there is nothing left to expand.
	depth = min(depth, uint64(raster.Depth(t.side))+1)

	numOfNodes, pending := expandRegion(img, regionToCompress{Region: img.Region(), Slot: &t.root}, depth, massNode)

	log := logger.Get(ctx)
	log.Debug("Compressing regions",
		zap.Int("dim", t.side),
		zap.Uint64("depth", depth),
		zap.Int("regions", len(pending)))

	counts := make([]int, len(pending))
	err = parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		for i, r := range pending {
			spawn(fmt.Sprintf("region-%04d", i), parallel.Continue, func(ctx context.Context) error {
				if err := ctx.Err(); err != nil {
					return errors.WithStack(err)
				}
				counts[i] = compressRegion(img, r, newNodeMass())
				return nil
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, c := range counts {
		numOfNodes += c
	}
	t.compressedSize = numOfNodes + 1

	log.Debug("Regions compressed", zap.Int("compressedSize", t.compressedSize))

	return t, nil
}

func newRaster(values []int) (raster.Raster, error) {
	img, err := raster.FromValues(values)
	if err != nil {
		return nil, errors.Wrapf(ErrConfig, "%s", err)
	}
	return img, nil
}

func newTree(img raster.Raster) *Tree {
	return &Tree{
		side:    img.Side(),
		rawSize: img.Side() * img.Side(),
	}
}

// compressRegion builds the subtree of the region and stores it in the slot. It returns the number of created nodes.
func compressRegion(img raster.Raster, root regionToCompress, massNode *mass.Mass[Node]) int {
	var numOfNodes int
	stack := []regionToCompress{root}
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := compressNode(img, r, massNode)
		numOfNodes++
		if n.IsLeaf() {
			continue
		}

		quadrants := r.Region.Quadrants()
		for i := types.NumOfQuadrants - 1; i >= 0; i-- {
			stack = append(stack, regionToCompress{Region: quadrants[i], Slot: &n.Children[i]})
		}
	}
	return numOfNodes
}

// expandRegion builds top levels of the subtree breadth-first. It returns the number of created nodes and
// the regions left to compress at the requested depth.
func expandRegion(
	img raster.Raster,
	root regionToCompress,
	depth uint64,
	massNode *mass.Mass[Node],
) (int, []regionToCompress) {
	var numOfNodes int
	level := []regionToCompress{root}
	for range depth {
		if len(level) == 0 {
			break
		}
		next := make([]regionToCompress, 0, types.NumOfQuadrants*len(level))
		for _, r := range level {
			n := compressNode(img, r, massNode)
			numOfNodes++
			if n.IsLeaf() {
				continue
			}

			for i, q := range r.Region.Quadrants() {
				next = append(next, regionToCompress{Region: q, Slot: &n.Children[i]})
			}
		}
		level = next
	}
	return numOfNodes, level
}

func compressNode(img raster.Raster, r regionToCompress, massNode *mass.Mass[Node]) *Node {
	n := massNode.New()
	*r.Slot = n

	if v, uniform := img.Uniform(r.Region); uniform {
		n.Value = v
	} else {
		n.Value = types.SplitMarker
	}
	return n
}
