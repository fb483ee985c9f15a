// Superblock header: the first HeaderSize bytes of every relation file.
//
// The header is exactly HeaderSize bytes of JSON, padded with spaces and
// terminated with a newline, so it can be rewritten in place without
// shifting block offsets. It records the checksum algorithm in use, the
// dirty flag for
// crash detection, and the last allocated block id so Open can recover the
// block count without scanning the whole file.
package pagestore

import (
	"bytes"
	json "github.com/goccy/go-json"
	"os"
)

// HeaderSize is the fixed size of the superblock header in bytes.
const HeaderSize = 128

// header is the on-disk superblock.
type header struct {
	Version   int    `json:"_v"`
	Dirty     int    `json:"_e"` // 0=clean, 1=dirty (crash indicator)
	Algorithm int    `json:"_alg"`
	Timestamp int64  `json:"_ts"`
	Last      uint16 `json:"_last"`
	Checksum  string `json:"_ck"`
}

func newHeader(alg int, last uint16, ts int64) *header {
	h := &header{Version: 1, Algorithm: alg, Timestamp: ts, Last: last}
	h.Checksum = checksum(alg, h.Version, h.Dirty, h.Algorithm, h.Timestamp, h.Last)
	return h
}

func (h *header) valid() bool {
	return h.Checksum == checksum(h.Algorithm, h.Version, h.Dirty, h.Algorithm, h.Timestamp, h.Last)
}

func (h *header) setDirty(v bool) {
	if v {
		h.Dirty = 1
	} else {
		h.Dirty = 0
	}
	h.Checksum = checksum(h.Algorithm, h.Version, h.Dirty, h.Algorithm, h.Timestamp, h.Last)
}

func (h *header) setLast(last uint16, ts int64) {
	h.Last = last
	h.Timestamp = ts
	h.Checksum = checksum(h.Algorithm, h.Version, h.Dirty, h.Algorithm, h.Timestamp, h.Last)
}

// readHeader reads and parses the superblock from a file.
func readHeader(f *os.File) (*header, error) {
	buf := make([]byte, HeaderSize)
	if _, err := f.ReadAt(buf, 0); err != nil {
		return nil, err
	}
	var h header
	if err := json.Unmarshal(bytes.TrimSpace(buf), &h); err != nil {
		return nil, ErrCorruptHeader
	}
	if !h.valid() {
		return nil, ErrCorruptHeader
	}
	return &h, nil
}

// encode serialises the header to exactly HeaderSize bytes, space-padded
// with a trailing newline.
func (h *header) encode() ([]byte, error) {
	data, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	padLen := HeaderSize - len(data) - 1
	if padLen < 0 {
		return nil, ErrCorruptHeader
	}
	buf := make([]byte, HeaderSize)
	copy(buf, data)
	for i := len(data); i < HeaderSize-1; i++ {
		buf[i] = ' '
	}
	buf[HeaderSize-1] = '\n'
	return buf, nil
}

func (h *header) writeTo(f *os.File) error {
	buf, err := h.encode()
	if err != nil {
		return err
	}
	_, err = f.WriteAt(buf, 0)
	return err
}
