package quadtree

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/outofforest/quadtree/raster"
)

// Session holds at most one tree, built either by compressing a raster or by decoding a linear form.
// The zero value is an empty session.
type Session struct {
	tree *Tree
}

// Compress builds the tree from raw pixel values.
func (s *Session) Compress(values []int) error {
	if err := s.ensureEmpty(); err != nil {
		return err
	}

	t, err := Compress(values)
	if err != nil {
		return err
	}
	s.tree = t
	return nil
}

// CompressParallel builds the tree from raw pixel values using concurrent workers.
func (s *Session) CompressParallel(ctx context.Context, values []int, depth uint64) error {
	if err := s.ensureEmpty(); err != nil {
		return err
	}

	t, err := CompressParallel(ctx, values, depth)
	if err != nil {
		return err
	}
	s.tree = t
	return nil
}

// Decode builds the tree from its linear form.
func (s *Session) Decode(count int, values []int) error {
	if err := s.ensureEmpty(); err != nil {
		return err
	}

	t, err := Decode(count, values)
	if err != nil {
		return err
	}
	s.tree = t
	return nil
}

// Tree returns the built tree.
func (s *Session) Tree() (*Tree, error) {
	if s.tree == nil {
		return nil, errors.Wrap(ErrState, "not yet compressed or decoded")
	}
	return s.tree, nil
}

// Raster returns the raster represented by the tree.
func (s *Session) Raster() (raster.Raster, error) {
	t, err := s.Tree()
	if err != nil {
		return nil, err
	}
	return t.Raster(), nil
}

// Linear returns the linear form of the tree.
func (s *Session) Linear() (int, []int, error) {
	t, err := s.Tree()
	if err != nil {
		return 0, nil, err
	}
	count, values := t.Linear()
	return count, values, nil
}

// Export writes the linear form of the tree.
func (s *Session) Export(w io.Writer) error {
	t, err := s.Tree()
	if err != nil {
		return err
	}
	return t.WriteLinear(w)
}

// Render returns the debug view of the tree.
func (s *Session) Render() (string, error) {
	t, err := s.Tree()
	if err != nil {
		return "", err
	}
	return t.String(), nil
}

// Dim returns the side of the raster or 0 if session is empty.
func (s *Session) Dim() int {
	if s.tree == nil {
		return 0
	}
	return s.tree.Dim()
}

// RawSize returns the number of pixels or 0 if session is empty.
func (s *Session) RawSize() int {
	if s.tree == nil {
		return 0
	}
	return s.tree.RawSize()
}

// CompressedSize returns the size of the linear form or 0 if session is empty.
func (s *Session) CompressedSize() int {
	if s.tree == nil {
		return 0
	}
	return s.tree.CompressedSize()
}

func (s *Session) ensureEmpty() error {
	if s.tree != nil {
		return errors.Wrap(ErrState, "tree has been already built")
	}
	return nil
}
