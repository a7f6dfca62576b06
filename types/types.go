package types

const (
	// MinValue is the lowest legal pixel intensity.
	MinValue = 0

	// MaxValue is the highest legal pixel intensity.
	MaxValue = 255

	// SplitMarker is the value stored in split nodes and in their linear form. It never collides with pixel values.
	SplitMarker = -1

	// NumOfQuadrants is the number of children of every split node.
	NumOfQuadrants = 4

	// MaxSide is the side of the largest supported raster.
	MaxSide = 1 << 13

	// MaxRawSize is the number of pixels in the largest supported raster.
	MaxRawSize = MaxSide * MaxSide
)

// Quadrant enumerates children of a split node in the order they are serialized.
type Quadrant int

const (
	// UpperLeft is the upper-left quadrant.
	UpperLeft Quadrant = iota

	// UpperRight is the upper-right quadrant.
	UpperRight

	// LowerLeft is the lower-left quadrant.
	LowerLeft

	// LowerRight is the lower-right quadrant.
	LowerRight
)

// IsPixel tells if value is a legal pixel intensity.
func IsPixel(value int) bool {
	return value >= MinValue && value <= MaxValue
}

// Coordinate locates a cell in the raster.
type Coordinate struct {
	Row int
	Col int
}

// Region is the square area of the raster represented by a node.
type Region struct {
	Start Coordinate
	Size  int
}

// Divisible tells if region might be split into four equal quadrants.
func (r Region) Divisible() bool {
	return r.Size >= 2 && r.Size%2 == 0
}

// Quadrants returns sub-regions of the region in the upper-left, upper-right, lower-left, lower-right order.
func (r Region) Quadrants() [NumOfQuadrants]Region {
	half := r.Size / 2
	return [NumOfQuadrants]Region{
		UpperLeft:  {Start: Coordinate{Row: r.Start.Row, Col: r.Start.Col}, Size: half},
		UpperRight: {Start: Coordinate{Row: r.Start.Row, Col: r.Start.Col + half}, Size: half},
		LowerLeft:  {Start: Coordinate{Row: r.Start.Row + half, Col: r.Start.Col}, Size: half},
		LowerRight: {Start: Coordinate{Row: r.Start.Row + half, Col: r.Start.Col + half}, Size: half},
	}
}
