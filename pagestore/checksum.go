// Superblock checksum algorithms, selectable per environment.
//
// The checksum guards the small JSON header, not the data blocks
// themselves — it lets Open tell a cleanly-written header from one torn by
// a crash mid-write without needing a separate write-ahead log.
package pagestore

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"

	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

// Checksum algorithm constants, selected via Config.ChecksumAlgorithm.
const (
	AlgXXHash3 = 1 // default, fastest
	AlgBlake2b = 2 // stronger distribution
	AlgFNV1a   = 3 // no external dependency, used by tests
)

// checksum hashes body (the header fields other than the checksum itself,
// little-endian encoded) to a 16 hex character digest.
func checksum(alg int, version, dirty, algorithm int, timestamp int64, last uint16) string {
	var body [22]byte
	binary.LittleEndian.PutUint32(body[0:], uint32(version))
	binary.LittleEndian.PutUint32(body[4:], uint32(dirty))
	binary.LittleEndian.PutUint32(body[8:], uint32(algorithm))
	binary.LittleEndian.PutUint64(body[12:], uint64(timestamp))
	binary.LittleEndian.PutUint16(body[20:], last)

	switch alg {
	case AlgBlake2b:
		h, _ := blake2b.New(8, nil)
		h.Write(body[:])
		return fmt.Sprintf("%016x", h.Sum(nil))
	case AlgFNV1a:
		h := fnv.New64a()
		h.Write(body[:])
		return fmt.Sprintf("%016x", h.Sum64())
	case AlgXXHash3:
		fallthrough
	default:
		return fmt.Sprintf("%016x", xxh3.Hash(body[:]))
	}
}
