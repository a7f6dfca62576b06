package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuadrants(t *testing.T) {
	requireT := require.New(t)

	r := Region{Start: Coordinate{Row: 4, Col: 8}, Size: 4}
	requireT.True(r.Divisible())
	requireT.Equal([NumOfQuadrants]Region{
		{Start: Coordinate{Row: 4, Col: 8}, Size: 2},
		{Start: Coordinate{Row: 4, Col: 10}, Size: 2},
		{Start: Coordinate{Row: 6, Col: 8}, Size: 2},
		{Start: Coordinate{Row: 6, Col: 10}, Size: 2},
	}, r.Quadrants())
}

func TestDivisible(t *testing.T) {
	requireT := require.New(t)

	requireT.False(Region{Size: 1}.Divisible())
	requireT.False(Region{Size: 3}.Divisible())
	requireT.True(Region{Size: 2}.Divisible())
}

func TestIsPixel(t *testing.T) {
	requireT := require.New(t)

	requireT.True(IsPixel(0))
	requireT.True(IsPixel(255))
	requireT.False(IsPixel(256))
	requireT.False(IsPixel(SplitMarker))
}
