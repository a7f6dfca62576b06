package quadtree

import (
	"io"

	"github.com/pkg/errors"

	"github.com/outofforest/mass"
	"github.com/outofforest/quadtree/raster"
	"github.com/outofforest/quadtree/textio"
	"github.com/outofforest/quadtree/types"
)

// Linear returns the header and the preorder flattening of the tree.
func (t *Tree) Linear() (int, []int) {
	values := make([]int, 0, max(t.compressedSize-1, 0))
	for n := range t.Regions() {
		values = append(values, n.Value)
	}
	return t.rawSize, values
}

// WriteLinear writes the linear form, one integer per line.
func (t *Tree) WriteLinear(w io.Writer) error {
	count, values := t.Linear()
	return textio.WriteLinear(w, count, values)
}

// Decode rebuilds the tree from its linear form. Count is the header, values are the elements following it.
// All the values must belong to the tree.
func Decode(count int, values []int) (*Tree, error) {
	t, consumed, err := DecodeBlock(count, values)
	if err != nil {
		return nil, err
	}
	if consumed != len(values) {
		return nil, errors.Wrapf(ErrFormat, "trailing data: consumed=%d input=%d", consumed, len(values))
	}
	return t, nil
}

// DecodeBlock rebuilds the tree from the beginning of values. It returns the tree and the number of consumed
// values. Unlike Decode, this function ignores values following the tree.
func DecodeBlock(count int, values []int) (*Tree, int, error) {
	side, err := raster.Side(count)
	if err != nil {
		return nil, 0, errors.Wrapf(ErrConfig, "%s", err)
	}

	t := &Tree{
		side:    side,
		rawSize: count,
	}

	d := &decoder{
		values:   values,
		massNode: newNodeMass(),
	}
	if err := d.decode(side, &t.root); err != nil {
		return nil, d.pos, err
	}
	t.compressedSize = d.pos + 1

	return t, d.pos, nil
}

type regionToDecode struct {
	Size int
	Slot **Node
}

type decoder struct {
	values   []int
	pos      int
	massNode *mass.Mass[Node]
}

// decode consumes values starting at the cursor until the subtree stored in the slot is complete.
func (d *decoder) decode(size int, slot **Node) error {
	stack := []regionToDecode{{Size: size, Slot: slot}}
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if d.pos >= len(d.values) {
			return errors.Wrapf(ErrFormat, "insufficient data: %d values consumed", d.pos)
		}
		pos := d.pos
		v := d.values[pos]
		d.pos++

		n := d.massNode.New()
		n.Value = v
		*r.Slot = n

		if v != types.SplitMarker {
			if !types.IsPixel(v) {
				return errors.Wrapf(ErrFormat, "value %d at position %d is out of range", v, pos)
			}
			continue
		}

		if !(types.Region{Size: r.Size}).Divisible() {
			return errors.Wrapf(ErrConfig, "split at position %d in region of side %d", pos, r.Size)
		}
		for i := types.NumOfQuadrants - 1; i >= 0; i-- {
			stack = append(stack, regionToDecode{Size: r.Size / 2, Slot: &n.Children[i]})
		}
	}
	return nil
}
