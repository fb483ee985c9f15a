package block

import (
	"bytes"
	"testing"
)

func newPage(t *testing.T) *SlottedPage {
	t.Helper()
	buf := make([]byte, Size)
	p, err := New(buf, 1, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

// TestAddGetRoundTrip verifies that every record id returned by Add yields
// back exactly the bytes written. If the header/payload offsets were off by
// even one byte, this would read garbage instead of the original record.
func TestAddGetRoundTrip(t *testing.T) {
	p := newPage(t)

	id1, err := p.Add([]byte("hello"))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	id2, err := p.Add([]byte("world!!"))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d and %d", id1, id2)
	}

	got1, ok := p.Get(id1)
	if !ok || string(got1) != "hello" {
		t.Errorf("Get(id1) = %q, %v; want hello, true", got1, ok)
	}
	got2, ok := p.Get(id2)
	if !ok || string(got2) != "world!!" {
		t.Errorf("Get(id2) = %q, %v; want world!!, true", got2, ok)
	}
}

// TestDelTombstones checks that a deleted record reads back as "not found"
// rather than silently returning the bytes of whatever later overwrote its
// freed space — the tombstone must stick.
func TestDelTombstones(t *testing.T) {
	p := newPage(t)
	id, _ := p.Add([]byte("gone"))

	if err := p.Del(id); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, ok := p.Get(id); ok {
		t.Errorf("Get after Del: want ok=false")
	}
}

// TestIDsExcludesTombstones ensures IDs() reports exactly the set of ids
// whose last write was not a Del, in id order — callers use this to
// enumerate a page's live records.
func TestIDsExcludesTombstones(t *testing.T) {
	p := newPage(t)
	id1, _ := p.Add([]byte("a"))
	id2, _ := p.Add([]byte("bb"))
	id3, _ := p.Add([]byte("ccc"))
	if err := p.Del(id2); err != nil {
		t.Fatalf("Del: %v", err)
	}

	ids := p.IDs()
	want := []RecordID{id1, id3}
	if len(ids) != len(want) || ids[0] != want[0] || ids[1] != want[1] {
		t.Errorf("IDs() = %v, want %v", ids, want)
	}
}

// TestPutShrinkThenGrow exercises both branches of Put: shrinking a record
// in place (slides the freed tail forward) and growing it back past its
// original size (slides everything below it down). If slide's shift
// direction were backwards, later records would read back corrupted.
func TestPutShrinkThenGrow(t *testing.T) {
	p := newPage(t)
	idA, _ := p.Add([]byte("AAAAAAAAAA"))
	idB, _ := p.Add([]byte("BBBBBBBBBB"))

	if err := p.Put(idA, []byte("A")); err != nil {
		t.Fatalf("shrink Put: %v", err)
	}
	got, ok := p.Get(idB)
	if !ok || string(got) != "BBBBBBBBBB" {
		t.Fatalf("Get(idB) after shrinking idA = %q, %v", got, ok)
	}

	if err := p.Put(idA, []byte("AAAAAAAAAAAAAAAA")); err != nil {
		t.Fatalf("grow Put: %v", err)
	}
	got, ok = p.Get(idB)
	if !ok || string(got) != "BBBBBBBBBB" {
		t.Fatalf("Get(idB) after growing idA = %q, %v", got, ok)
	}
	got, ok = p.Get(idA)
	if !ok || string(got) != "AAAAAAAAAAAAAAAA" {
		t.Fatalf("Get(idA) after growing = %q, %v", got, ok)
	}
}

// TestPutRejectsTombstone confirms Put on a deleted record fails instead of
// resurrecting the slot with garbage offsets.
func TestPutRejectsTombstone(t *testing.T) {
	p := newPage(t)
	id, _ := p.Add([]byte("x"))
	if err := p.Del(id); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if err := p.Put(id, []byte("y")); err != ErrBadRecordID {
		t.Errorf("Put on tombstone = %v, want ErrBadRecordID", err)
	}
}

// TestIncreasingIDsAfterDelete verifies that a freed id is never handed out
// again: add, delete, add must produce a strictly increasing id, not a
// reused one. Handles would silently alias two different records otherwise.
func TestIncreasingIDsAfterDelete(t *testing.T) {
	p := newPage(t)
	id1, _ := p.Add([]byte("x"))
	if err := p.Del(id1); err != nil {
		t.Fatalf("Del: %v", err)
	}
	id2, _ := p.Add([]byte("y"))
	if id2 <= id1 {
		t.Errorf("id2 (%d) should be strictly greater than id1 (%d)", id2, id1)
	}
}

// TestNoRoomOnOverflow checks that filling a page raises ErrNoRoom instead
// of silently corrupting the header by writing into the slot directory.
func TestNoRoomOnOverflow(t *testing.T) {
	p := newPage(t)
	big := bytes.Repeat([]byte("x"), Size)
	if _, err := p.Add(big); err != ErrNoRoom {
		t.Errorf("Add(oversized) = %v, want ErrNoRoom", err)
	}
}

// TestHeaderDataRegionsNeverOverlap checks the page's core layout
// invariant: after any sequence of operations,
// 4*(num_records+1) <= end_free+1.
func TestHeaderDataRegionsNeverOverlap(t *testing.T) {
	p := newPage(t)
	ids := make([]RecordID, 0, 8)
	for i := 0; i < 8; i++ {
		id, err := p.Add(bytes.Repeat([]byte{byte('a' + i)}, 20))
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		ids = append(ids, id)
	}
	for i, id := range ids {
		if i%2 == 0 {
			if err := p.Del(id); err != nil {
				t.Fatalf("Del: %v", err)
			}
		}
	}
	if int(p.numRecords+1)*slotHeaderSize > int(p.endFree)+1 {
		t.Errorf("header/data regions overlap: num_records=%d end_free=%d", p.numRecords, p.endFree)
	}
}

// TestSlideNoOp checks that slide(s, s) leaves the page bytewise identical
// — a zero shift must take the early-return path, not fall through to a
// memmove of zero bytes that could still perturb slot headers.
func TestSlideNoOp(t *testing.T) {
	p := newPage(t)
	p.Add([]byte("abc"))
	before := append([]byte(nil), p.Bytes()...)
	p.slide(100, 100)
	if !bytes.Equal(before, p.Bytes()) {
		t.Errorf("slide(s, s) mutated the page")
	}
}
