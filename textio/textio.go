package textio

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/outofforest/quadtree/raster"
)

var (
	// ErrSyntax is returned when text can't be parsed as an integer.
	ErrSyntax = errors.New("invalid integer")

	// ErrEmpty is returned when linear form does not contain the header.
	ErrEmpty = errors.New("header is missing")
)

// ReadRaw reads whitespace-separated pixel values.
func ReadRaw(r io.Reader) ([]int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	values := []int{}
	for scanner.Scan() {
		v, err := strconv.Atoi(scanner.Text())
		if err != nil {
			return nil, errors.Wrapf(ErrSyntax, "value %d: %q", len(values), scanner.Text())
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	return values, nil
}

// ReadLinear reads linear form. The first line is the header, remaining lines store one value each.
// Blank lines are skipped.
func ReadLinear(r io.Reader) (int, []int, error) {
	scanner := bufio.NewScanner(r)

	var count int
	var headerRead bool
	values := []int{}
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		v, err := strconv.Atoi(text)
		if err != nil {
			return 0, nil, errors.Wrapf(ErrSyntax, "line %d: %q", line, text)
		}
		if !headerRead {
			count = v
			headerRead = true
			continue
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return 0, nil, errors.WithStack(err)
	}
	if !headerRead {
		return 0, nil, errors.WithStack(ErrEmpty)
	}
	return count, values, nil
}

// WriteLinear writes the header and the values, one per line.
func WriteLinear(w io.Writer, count int, values []int) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 24)
	for _, v := range append([]int{count}, values...) {
		buf = strconv.AppendInt(buf[:0], int64(v), 10)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return errors.WithStack(err)
		}
	}
	return errors.WithStack(bw.Flush())
}

// WriteRaw writes pixels of the raster in row-major order, one per line.
func WriteRaw(w io.Writer, img raster.Raster) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 8)
	for _, row := range img {
		for _, v := range row {
			buf = strconv.AppendInt(buf[:0], int64(v), 10)
			buf = append(buf, '\n')
			if _, err := bw.Write(buf); err != nil {
				return errors.WithStack(err)
			}
		}
	}
	return errors.WithStack(bw.Flush())
}
