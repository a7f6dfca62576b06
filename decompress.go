package quadtree

import (
	"github.com/outofforest/quadtree/raster"
)

// Raster paints leaves of the tree into newly allocated raster.
// Quadrants of every split node tile its region, so each cell is written exactly once.
func (t *Tree) Raster() raster.Raster {
	img := raster.New(t.side)
	for n, region := range t.Regions() {
		if n.IsLeaf() {
			img.Fill(region, n.Value)
		}
	}
	return img
}
