package raster

import (
	"math/bits"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/outofforest/quadtree/types"
)

// Side returns the side of the square raster containing count pixels.
// Count must be a perfect square of a power of two.
func Side(count int) (int, error) {
	if count <= 0 {
		return 0, errors.Errorf("pixel count %d is not positive", count)
	}
	if count > types.MaxRawSize {
		return 0, errors.Errorf("pixel count %d exceeds the limit of %d", count, types.MaxRawSize)
	}

	side := isqrt(count)
	if side*side != count {
		return 0, errors.Errorf("pixel count %d is not a perfect square", count)
	}
	if side&(side-1) != 0 {
		return 0, errors.Errorf("side %d of the raster is not a power of two", side)
	}
	return side, nil
}

// Depth returns the maximum depth of the tree built for the raster of the side.
func Depth(side int) int {
	return bits.Len(uint(side)) - 1
}

// Raster is the square grid of pixel values indexed by row and column.
type Raster [][]int

// New allocates raster of the provided side.
func New(side int) Raster {
	if side <= 0 {
		return Raster{}
	}
	cells := make([]int, side*side)
	return lo.Chunk(cells, side)
}

// FromValues builds raster from values stored in row-major order.
func FromValues(values []int) (Raster, error) {
	side, err := Side(len(values))
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		if !types.IsPixel(v) {
			return nil, errors.Errorf("value %d at position %d is out of range [%d, %d]", v, i, types.MinValue,
				types.MaxValue)
		}
	}

	return lo.Chunk(values, side), nil
}

// Side returns the side of the raster.
func (r Raster) Side() int {
	return len(r)
}

// Region returns the region covering the entire raster.
func (r Raster) Region() types.Region {
	return types.Region{Size: len(r)}
}

// Values returns pixels in row-major order.
func (r Raster) Values() []int {
	return lo.Flatten([][]int(r))
}

// Uniform checks if all the pixels in the region are equal to the first one.
// It returns that value together with the result.
func (r Raster) Uniform(region types.Region) (int, bool) {
	first := r[region.Start.Row][region.Start.Col]
	for row := region.Start.Row; row < region.Start.Row+region.Size; row++ {
		for _, v := range r[row][region.Start.Col : region.Start.Col+region.Size] {
			if v != first {
				return first, false
			}
		}
	}
	return first, true
}

// Fill sets all the pixels in the region to value.
func (r Raster) Fill(region types.Region, value int) {
	for row := region.Start.Row; row < region.Start.Row+region.Size; row++ {
		cells := r[row][region.Start.Col : region.Start.Col+region.Size]
		for i := range cells {
			cells[i] = value
		}
	}
}

// Equal compares two rasters cell by cell.
func (r Raster) Equal(other Raster) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if len(r[i]) != len(other[i]) {
			return false
		}
		for j := range r[i] {
			if r[i][j] != other[i][j] {
				return false
			}
		}
	}
	return true
}

func isqrt(n int) int {
	// Newton iteration, exact for all int values.
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}
