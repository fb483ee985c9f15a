package heap

import (
	"errors"
	"testing"

	"github.com/jpl-au/heapdb/pagestore"
)

// TestHeapFileCreateRejectsExisting confirms HeapFile.Create translates the
// underlying store's ErrExists into the relation-level ErrFileExists.
func TestHeapFileCreateRejectsExisting(t *testing.T) {
	env := openEnv(t)
	f1 := NewHeapFile(env, "dup", pagestore.Config{})
	if err := f1.Create(); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	defer f1.Close()

	f2 := NewHeapFile(env, "dup", pagestore.Config{})
	if err := f2.Create(); !errors.Is(err, ErrFileExists) {
		t.Errorf("second Create = %v, want ErrFileExists", err)
	}
}

// TestHeapFileCreateAllocatesFirstBlock confirms a fresh relation starts
// with block 1 already allocated as an empty page.
func TestHeapFileCreateAllocatesFirstBlock(t *testing.T) {
	env := openEnv(t)
	f := NewHeapFile(env, "fresh", pagestore.Config{})
	if err := f.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()

	ids := f.BlockIDs()
	if len(ids) != 1 || ids[0] != 1 {
		t.Fatalf("BlockIDs() after Create = %v, want [1]", ids)
	}
	page, err := f.Get(1)
	if err != nil {
		t.Fatalf("Get(1): %v", err)
	}
	if got := page.IDs(); len(got) != 0 {
		t.Errorf("fresh block 1 has records: %v", got)
	}
}

// TestHeapFileCloseThenReopen verifies a HeapFile can be closed and
// reopened without losing previously allocated blocks.
func TestHeapFileCloseThenReopen(t *testing.T) {
	env := openEnv(t)
	f := NewHeapFile(env, "reopen", pagestore.Config{})
	if err := f.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.GetNew(); err != nil {
		t.Fatalf("GetNew: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := f.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	if len(f.BlockIDs()) != 2 {
		t.Errorf("BlockIDs() after reopen = %v, want 2 blocks", f.BlockIDs())
	}
}
