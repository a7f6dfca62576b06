package test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/samber/lo"

	"github.com/outofforest/logger"
	"github.com/outofforest/quadtree/types"
)

// NewContext returns context with logger configured, cancelled when test finishes.
func NewContext(t testing.TB) context.Context {
	ctx, cancel := context.WithCancel(logger.WithLogger(context.Background(), logger.New(logger.DefaultConfig)))
	t.Cleanup(cancel)
	return ctx
}

// Uniform generates raster of side dim with all the pixels equal to value.
func Uniform(dim, value int) []int {
	return lo.Times(dim*dim, func(_ int) int {
		return value
	})
}

// Checkerboard generates raster where every pixel differs from its horizontal neighbours, so no region but
// a single pixel is uniform.
func Checkerboard(dim int) []int {
	return lo.Times(dim*dim, func(i int) int {
		return i % (types.MaxValue + 1)
	})
}

// Blocks generates raster made of square blocks of side block, each block filled with random value.
func Blocks(dim, block int, seed int64) []int {
	rnd := rand.New(rand.NewSource(seed))
	blocksPerRow := dim / block
	blockValues := lo.Times(blocksPerRow*blocksPerRow, func(_ int) int {
		return rnd.Intn(types.MaxValue + 1)
	})

	return lo.Times(dim*dim, func(i int) int {
		row, col := i/dim, i%dim
		return blockValues[(row/block)*blocksPerRow+col/block]
	})
}

// Random generates raster with random pixels taken from the limited palette.
func Random(dim, paletteSize int, seed int64) []int {
	rnd := rand.New(rand.NewSource(seed))
	return lo.Times(dim*dim, func(_ int) int {
		return rnd.Intn(paletteSize)
	})
}
