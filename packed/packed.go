package packed

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"sync"
	"unsafe"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/outofforest/photon"
	"github.com/outofforest/quadtree/hash"
	"github.com/outofforest/quadtree/types"
)

var (
	// ErrTooShort is returned when data is too short to contain header and checksum.
	ErrTooShort = errors.New("not enough data for header and checksum")

	// ErrChecksumMismatch is returned when stored checksum does not match the data.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrCorrupted is returned when body can't be decoded.
	ErrCorrupted = errors.New("corrupted data")

	// ErrInvalidValue is returned when value can't be stored.
	ErrInvalidValue = errors.New("invalid value")
)

// Header is stored at the beginning of the container.
type Header struct {
	RawSize    uint64
	NumOfNodes uint64
}

const headerLength = uint64(unsafe.Sizeof(Header{}))

// maxValueLength is the number of bytes taken by the longest encoded value.
var maxValueLength = uint64(len(binary.AppendUvarint(nil, uint64(types.MaxValue-types.SplitMarker))))

// maxBodyLength is the length of the decoded body of the largest supported tree.
var maxBodyLength = maxNumOfNodes(types.MaxRawSize) * maxValueLength

// maxNumOfNodes returns the number of nodes in the complete tree of the raster.
func maxNumOfNodes(rawSize uint64) uint64 {
	return (4*rawSize - 1) / 3
}

var encoderPool = sync.Pool{
	New: func() any {
		enc, err := zstd.NewWriter(
			nil,
			zstd.WithEncoderConcurrency(1),
			zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
			zstd.WithLowerEncoderMem(true),
		)
		if err != nil {
			panic(err)
		}
		return enc
	},
}

var decoderPool = sync.Pool{
	New: func() any {
		dec, err := zstd.NewReader(
			nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(true),
			zstd.WithDecoderMaxMemory(maxBodyLength),
		)
		if err != nil {
			panic(err)
		}
		return dec
	},
}

// Marshal stores linear form in the binary container.
// Every value is shifted by one so the split marker fits into unsigned varint.
func Marshal(count int, values []int) ([]byte, error) {
	if count <= 0 || count > types.MaxRawSize {
		return nil, errors.Wrapf(ErrInvalidValue, "header %d is out of range", count)
	}

	body := make([]byte, 0, len(values)+binary.MaxVarintLen64)
	for i, v := range values {
		if v < types.SplitMarker || v > types.MaxValue {
			return nil, errors.Wrapf(ErrInvalidValue, "value %d at position %d", v, i)
		}
		body = binary.AppendUvarint(body, uint64(v-types.SplitMarker))
	}

	header := Header{
		RawSize:    uint64(count),
		NumOfNodes: uint64(len(values)),
	}

	out := make([]byte, 0, headerLength+uint64(len(body))/2+hash.ChecksumLength)
	out = append(out, photon.NewFromValue(&header).B...)

	enc := encoderPool.Get().(*zstd.Encoder)
	out = enc.EncodeAll(body, out)
	encoderPool.Put(enc)

	checksum := hash.Sum(out)
	return append(out, checksum[:]...), nil
}

// Unmarshal reads linear form from the binary container.
func Unmarshal(data []byte) (int, []int, error) {
	if uint64(len(data)) < headerLength+hash.ChecksumLength {
		return 0, nil, errors.WithStack(ErrTooShort)
	}

	payload := data[:len(data)-hash.ChecksumLength]
	checksum := hash.Sum(payload)
	if !bytes.Equal(checksum[:], data[len(payload):]) {
		return 0, nil, errors.WithStack(ErrChecksumMismatch)
	}

	// Copy ensures header is properly aligned.
	header := *photon.FromBytes[Header](bytes.Clone(payload[:headerLength]))
	if header.RawSize == 0 || header.RawSize > types.MaxRawSize {
		return 0, nil, errors.Wrapf(ErrCorrupted, "header %d", header.RawSize)
	}
	if header.NumOfNodes > maxNumOfNodes(header.RawSize) {
		return 0, nil, errors.Wrapf(ErrCorrupted, "%d nodes can't describe raster of %d pixels", header.NumOfNodes,
			header.RawSize)
	}

	body, err := decompress(payload[headerLength:], header.NumOfNodes*maxValueLength)
	if err != nil {
		return 0, nil, err
	}

	// Each value takes at least one byte.
	if header.NumOfNodes > uint64(len(body)) {
		return 0, nil, errors.Wrapf(ErrCorrupted, "expected %d values in %d bytes", header.NumOfNodes, len(body))
	}

	values := make([]int, 0, header.NumOfNodes)
	for len(body) > 0 {
		v, n := binary.Uvarint(body)
		if n <= 0 || v > math.MaxInt {
			return 0, nil, errors.Wrapf(ErrCorrupted, "invalid varint at value %d", len(values))
		}
		values = append(values, int(v)+types.SplitMarker)
		body = body[n:]
	}
	if uint64(len(values)) != header.NumOfNodes {
		return 0, nil, errors.Wrapf(ErrCorrupted, "expected %d values, got %d", header.NumOfNodes, len(values))
	}

	return int(header.RawSize), values, nil
}

// decompress decodes the zstd frame refusing to produce more than limit bytes.
func decompress(data []byte, limit uint64) ([]byte, error) {
	dec := decoderPool.Get().(*zstd.Decoder)
	defer decoderPool.Put(dec)

	if err := dec.Reset(bytes.NewReader(data)); err != nil {
		return nil, errors.Wrapf(ErrCorrupted, "zstd decode: %s", err)
	}

	body, err := io.ReadAll(io.LimitReader(dec, int64(limit)+1))
	if err != nil {
		return nil, errors.Wrapf(ErrCorrupted, "zstd decode: %s", err)
	}
	if uint64(len(body)) > limit {
		return nil, errors.Wrapf(ErrCorrupted, "decoded body exceeds %d bytes", limit)
	}
	return body, nil
}
