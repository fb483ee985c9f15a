// Package block implements the slotted-page binary layout: the fixed-size
// (4096-byte) format that packs variable-length records into one page and
// supports add/get/put/del with in-place compaction.
package block

import "errors"

// Sentinel errors returned by slotted-page operations.
var (
	// ErrNoRoom is returned when a write would overlap the header region.
	ErrNoRoom = errors.New("block: not enough room for record")

	// ErrBadRecordID is returned for a record id outside the page's range,
	// and by Put for a tombstoned record.
	ErrBadRecordID = errors.New("block: record id out of range")

	// ErrCorruptPage is returned by New when the buffer is not exactly Size
	// bytes long. The header's contents are not validated.
	ErrCorruptPage = errors.New("block: corrupt page")
)
