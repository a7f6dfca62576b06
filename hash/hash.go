package hash

import (
	"encoding/binary"

	"github.com/cespare/xxhash"
	"github.com/zeebo/blake3"
)

// ChecksumLength is the number of bytes taken by checksum.
const ChecksumLength = 32

// Checksum is the blake3 digest protecting stored data.
type Checksum [ChecksumLength]byte

// Fingerprint computes the 64-bit identity of the linear form of a tree.
// Structurally equal trees always have equal fingerprints.
func Fingerprint(count int, values []int) uint64 {
	buf := make([]byte, 0, (len(values)+1)*binary.Size(uint64(0)))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(count))
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(v))
	}
	return xxhash.Sum64(buf)
}

// Sum computes checksum of data.
func Sum(data []byte) Checksum {
	return blake3.Sum256(data)
}
