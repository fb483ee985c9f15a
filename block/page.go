package block

import "encoding/binary"

// Size is the fixed size, in bytes, of one block / page.
const Size = 4096

// BlockID is the 1-based identifier of a block within one heap file.
type BlockID uint16

// RecordID is the 1-based identifier of a record within one page. Ids are
// never reused: a deleted record's slot is tombstoned rather than freed.
type RecordID uint16

// Handle identifies one record within one relation: the block it lives in
// and its record id on that block.
type Handle struct {
	Block  BlockID
	Record RecordID
}

// slotHeaderSize is the width of one slot entry (and of the page header,
// which is slot 0): two uint16s.
const slotHeaderSize = 4

// MaxRecordSize is the largest payload an empty page can accept: the whole
// block minus the page header, one slot entry, and the unused last byte
// end_free points at.
const MaxRecordSize = Size - 1 - 2*slotHeaderSize

// SlottedPage wraps one Size-byte buffer and provides add/get/put/del over
// it: a slot directory growing from offset 0 and a payload region growing
// down from the high end of the block, separated by free space. Slot 0 holds the page header (num_records, end_free); slot i holds
// (size_i, loc_i) for 1 <= i <= num_records. A tombstoned slot has
// size == 0 and loc == 0.
type SlottedPage struct {
	buf        []byte
	id         BlockID
	numRecords uint16
	endFree    uint16
}

// New wraps buf (which must be exactly Size bytes) as a slotted page. If
// isNew, buf is initialized as an empty page; otherwise the existing header
// is read out of buf.
func New(buf []byte, id BlockID, isNew bool) (*SlottedPage, error) {
	if len(buf) != Size {
		return nil, ErrCorruptPage
	}
	p := &SlottedPage{buf: buf, id: id}
	if isNew {
		p.numRecords = 0
		p.endFree = Size - 1
		p.putHeader(0, 0, 0)
	} else {
		size, loc := p.getHeaderRaw(0)
		p.numRecords = size
		p.endFree = loc
	}
	return p, nil
}

// ID returns the block id this page was constructed with.
func (p *SlottedPage) ID() BlockID { return p.id }

// Bytes returns the page's underlying buffer.
func (p *SlottedPage) Bytes() []byte { return p.buf }

// getHeaderRaw reads the raw (size, loc) pair stored at slot id, with no
// special-casing of id == 0 (used internally to read the page header).
func (p *SlottedPage) getHeaderRaw(id RecordID) (uint16, uint16) {
	off := slotHeaderSize * int(id)
	size := binary.LittleEndian.Uint16(p.buf[off:])
	loc := binary.LittleEndian.Uint16(p.buf[off+2:])
	return size, loc
}

// putHeader writes the (size, loc) pair for slot id. For id == 0 it ignores
// size/loc and writes the page header (num_records, end_free) instead —
// the header is just slot zero.
func (p *SlottedPage) putHeader(id RecordID, size, loc uint16) {
	if id == 0 {
		size = p.numRecords
		loc = p.endFree
	}
	off := slotHeaderSize * int(id)
	binary.LittleEndian.PutUint16(p.buf[off:], size)
	binary.LittleEndian.PutUint16(p.buf[off+2:], loc)
}

// HasRoom reports whether n additional bytes of payload would fit without
// overlapping the header region — the same check add/put use internally.
func (p *SlottedPage) HasRoom(n int) bool {
	available := int(p.endFree) - (int(p.numRecords)+1)*slotHeaderSize
	return n <= available
}

func (p *SlottedPage) address(offset uint16) []byte {
	return p.buf[offset:]
}

// Add appends data as a new record and returns its id. It fails with
// ErrNoRoom if the page lacks space for the payload plus its new slot
// entry.
func (p *SlottedPage) Add(data []byte) (RecordID, error) {
	if !p.HasRoom(len(data) + slotHeaderSize) {
		return 0, ErrNoRoom
	}
	id := RecordID(p.numRecords + 1)
	size := uint16(len(data))
	p.endFree -= size
	loc := p.endFree + 1
	p.numRecords++
	p.putHeader(0, 0, 0)
	p.putHeader(id, size, loc)
	copy(p.address(loc), data)
	return id, nil
}

// Get returns the payload for record id, or (nil, false) if the id is
// tombstoned or out of range. The returned slice aliases the page's
// buffer; callers must copy it before any further mutation of the page.
func (p *SlottedPage) Get(id RecordID) ([]byte, bool) {
	if id < 1 || id > RecordID(p.numRecords) {
		return nil, false
	}
	size, loc := p.getHeaderRaw(id)
	if loc == 0 {
		return nil, false
	}
	return p.address(loc)[:size], true
}

// Put rewrites the payload of an existing record in place, compacting the
// page as needed so that every other live record keeps its size but may
// shift location.
func (p *SlottedPage) Put(id RecordID, data []byte) error {
	if id < 1 || id > RecordID(p.numRecords) {
		return ErrBadRecordID
	}
	size, loc := p.getHeaderRaw(id)
	if loc == 0 {
		return ErrBadRecordID
	}
	newSize := uint16(len(data))
	if newSize > size {
		extra := newSize - size
		if !p.HasRoom(int(extra)) {
			return ErrNoRoom
		}
		p.slide(loc, loc-extra)
		copy(p.address(loc-extra), data)
	} else {
		copy(p.address(loc), data)
		p.slide(loc+newSize, loc+size)
	}
	_, loc = p.getHeaderRaw(id)
	p.putHeader(id, newSize, loc)
	return nil
}

// Del tombstones a record: its slot becomes (0, 0) and the freed byte range
// is compacted out of the page. The id is never reused.
func (p *SlottedPage) Del(id RecordID) error {
	if id < 1 || id > RecordID(p.numRecords) {
		return ErrBadRecordID
	}
	size, loc := p.getHeaderRaw(id)
	p.putHeader(id, 0, 0)
	p.slide(loc, loc+size)
	return nil
}

// IDs returns every non-tombstoned record id on the page, in id order.
func (p *SlottedPage) IDs() []RecordID {
	var ids []RecordID
	for i := uint16(1); i <= p.numRecords; i++ {
		_, loc := p.getHeaderRaw(RecordID(i))
		if loc != 0 {
			ids = append(ids, RecordID(i))
		}
	}
	return ids
}

// slide is the compaction primitive: the byte range [end_free+1, start) is
// moved to [end_free+1+shift, start+shift) where shift = end - start, every
// slot whose loc <= start is adjusted by shift, and end_free is updated to
// match. A shift of zero is a no-op.
func (p *SlottedPage) slide(start, end uint16) {
	shift := int32(end) - int32(start)
	if shift == 0 {
		return
	}

	fromStart := int32(p.endFree) + 1
	n := int32(start) - fromStart
	if n > 0 {
		to := int32(p.endFree) + 1 + shift
		copy(p.buf[to:to+n], p.buf[fromStart:fromStart+n])
	}

	for _, id := range p.IDs() {
		size, loc := p.getHeaderRaw(id)
		if loc <= start {
			loc = uint16(int32(loc) + shift)
			p.putHeader(id, size, loc)
		}
	}
	p.endFree = uint16(int32(p.endFree) + shift)
	p.putHeader(0, 0, 0)
}
