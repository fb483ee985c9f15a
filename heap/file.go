package heap

import (
	"errors"

	"github.com/jpl-au/heapdb/block"
	"github.com/jpl-au/heapdb/pagestore"
)

// HeapFile is the block-level half of a relation: a dense, append-only
// sequence of blocks named "<table>.db" within a pagestore Environment. It
// adds the relation lifecycle (create / create-if-not-exists / drop / open
// / close) on top of pagestore.Store's lower-level get/put.
type HeapFile struct {
	env     *pagestore.Environment
	name    string
	store   *pagestore.Store
	config  pagestore.Config
	archive bool
	closed  bool
}

// NewHeapFile names the relation's file without opening it. Archival of the
// relation's blocks to a compressed snapshot before Drop is enabled by
// default; disable it for scratch or catalog-internal relations that don't
// need a pre-drop backup.
func NewHeapFile(env *pagestore.Environment, tableName string, config pagestore.Config) *HeapFile {
	return &HeapFile{env: env, name: tableName + ".db", config: config, archive: true, closed: true}
}

// SetArchive toggles whether Drop preserves a compressed snapshot of the
// relation's blocks before deleting them.
func (f *HeapFile) SetArchive(enabled bool) { f.archive = enabled }

// Create creates the backing file — it must not already exist — and
// allocates block 1 as an empty page, so a fresh relation always has
// somewhere to append.
func (f *HeapFile) Create() error {
	s, err := pagestore.Create(f.env, f.name, f.config)
	if err != nil {
		if errors.Is(err, pagestore.ErrExists) {
			return ErrFileExists
		}
		return err
	}
	if _, err := s.GetNew(); err != nil {
		s.Close()
		return err
	}
	f.store = s
	f.closed = false
	return nil
}

// CreateIfNotExists opens the backing file, creating it first if needed.
func (f *HeapFile) CreateIfNotExists() error {
	if !f.closed {
		return nil
	}
	s, err := pagestore.CreateIfNotExists(f.env, f.name, f.config)
	if err != nil {
		return err
	}
	if len(s.BlockIDs()) == 0 {
		if _, err := s.GetNew(); err != nil {
			s.Close()
			return err
		}
	}
	f.store = s
	f.closed = false
	return nil
}

// Open opens an existing backing file.
func (f *HeapFile) Open() error {
	if !f.closed {
		return nil
	}
	s, err := pagestore.Open(f.env, f.name, f.config)
	if err != nil {
		return err
	}
	f.store = s
	f.closed = false
	return nil
}

// Close releases the backing file without deleting it.
func (f *HeapFile) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	s := f.store
	f.store = nil
	return s.Close()
}

// Drop archives (if enabled) and then permanently deletes the relation's
// backing file.
func (f *HeapFile) Drop() error {
	if f.closed {
		if err := f.Open(); err != nil {
			return err
		}
	}
	if err := f.archiveBeforeDrop(); err != nil {
		return err
	}
	f.closed = true
	s := f.store
	f.store = nil
	return s.Drop()
}

// GetNew allocates and returns a fresh empty block.
func (f *HeapFile) GetNew() (*block.SlottedPage, error) { return f.store.GetNew() }

// Get returns the block identified by id.
func (f *HeapFile) Get(id block.BlockID) (*block.SlottedPage, error) { return f.store.Get(id) }

// Put persists page back under its own block id.
func (f *HeapFile) Put(page *block.SlottedPage) error { return f.store.Put(page) }

// BlockIDs returns every block id ever allocated for this relation.
func (f *HeapFile) BlockIDs() []block.BlockID { return f.store.BlockIDs() }
