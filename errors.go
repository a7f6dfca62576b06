package quadtree

import "github.com/pkg/errors"

var (
	// ErrFormat is returned when linear form is truncated or malformed.
	ErrFormat = errors.New("invalid format")

	// ErrConfig is returned when pixel count does not describe a square raster with power-of-two side.
	ErrConfig = errors.New("invalid configuration")

	// ErrState is returned when tree is accessed before it is built or built twice.
	ErrState = errors.New("invalid state")
)
