// Per-relation block store: a recno-keyed open/create/close/get/put/remove
// surface over fixed-size blocks, backed by one "<name>.db" file under an
// Environment.
package pagestore

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/jpl-au/heapdb/block"
)

// Config holds store configuration options.
type Config struct {
	ChecksumAlgorithm int  // superblock checksum algorithm; 0 = AlgXXHash3
	SyncWrites        bool // fsync after every block/header write
}

func (c Config) withDefaults() Config {
	if c.ChecksumAlgorithm == 0 {
		c.ChecksumAlgorithm = AlgXXHash3
	}
	return c
}

func now() int64 { return time.Now().UnixMilli() }

// Store is one open relation file: a dense, 1-based sequence of
// block.Size-byte blocks preceded by a HeaderSize-byte superblock.
type Store struct {
	env    *Environment
	name   string
	reader *os.File
	writer *os.File
	header *header
	config Config
	last   uint16
	closed bool
}

func blockOffset(id block.BlockID) int64 {
	return int64(HeaderSize) + int64(id-1)*int64(block.Size)
}

func recoverLast(fileSize int64) uint16 {
	if fileSize <= HeaderSize {
		return 0
	}
	return uint16((fileSize - HeaderSize) / int64(block.Size))
}

// Exists reports whether a relation file named name already exists under
// env. Catalog bootstrap uses this to decide whether a catalog relation is
// being created for the first time.
func Exists(env *Environment, name string) bool {
	_, err := env.root.Stat(name)
	return err == nil
}

// Create creates the backing file exclusively — it must not already exist
// — and allocates no blocks.
func Create(env *Environment, name string, config Config) (*Store, error) {
	config = config.withDefaults()

	writer, err := env.root.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		if os.IsExist(err) {
			return nil, ErrExists
		}
		return nil, err
	}

	h := newHeader(config.ChecksumAlgorithm, 0, now())
	if err := h.writeTo(writer); err != nil {
		writer.Close()
		return nil, err
	}
	if config.SyncWrites {
		writer.Sync()
	}

	reader, err := env.root.OpenFile(name, os.O_RDONLY, 0o640)
	if err != nil {
		writer.Close()
		return nil, err
	}

	return &Store{env: env, name: name, reader: reader, writer: writer, header: h, config: config}, nil
}

// Open opens an existing relation file, reading back its superblock and
// recovering the block count from the file size if the header is corrupt
// or was left dirty by an unclean shutdown.
func Open(env *Environment, name string, config Config) (*Store, error) {
	config = config.withDefaults()

	if _, err := env.root.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotExists
		}
		return nil, err
	}

	writer, err := env.root.OpenFile(name, os.O_RDWR, 0o640)
	if err != nil {
		return nil, err
	}
	reader, err := env.root.OpenFile(name, os.O_RDONLY, 0o640)
	if err != nil {
		writer.Close()
		return nil, err
	}

	h, err := readHeader(reader)
	if err != nil {
		info, statErr := writer.Stat()
		if statErr != nil {
			reader.Close()
			writer.Close()
			return nil, err
		}
		h = newHeader(config.ChecksumAlgorithm, recoverLast(info.Size()), now())
		if werr := h.writeTo(writer); werr != nil {
			reader.Close()
			writer.Close()
			return nil, werr
		}
	} else if h.Dirty == 1 {
		if info, statErr := writer.Stat(); statErr == nil {
			h.setLast(recoverLast(info.Size()), now())
			h.setDirty(false)
			h.writeTo(writer)
		}
	}

	return &Store{env: env, name: name, reader: reader, writer: writer, header: h, config: config, last: h.Last}, nil
}

// CreateIfNotExists opens the relation file if it exists, otherwise creates
// it.
func CreateIfNotExists(env *Environment, name string, config Config) (*Store, error) {
	s, err := Open(env, name, config)
	if err == nil {
		return s, nil
	}
	if errors.Is(err, ErrNotExists) {
		return Create(env, name, config)
	}
	return nil, err
}

// Close flushes a clean-shutdown header and releases file handles.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	s.header.setDirty(false)
	werr := s.header.writeTo(s.writer)
	if s.config.SyncWrites {
		s.writer.Sync()
	}

	rerr := s.reader.Close()
	cerr := s.writer.Close()
	if werr != nil {
		return werr
	}
	if rerr != nil {
		return rerr
	}
	return cerr
}

// Drop closes the store and deletes its backing file.
func (s *Store) Drop() error {
	if err := s.Close(); err != nil {
		return err
	}
	return s.env.root.Remove(s.name)
}

// BlockIDs returns every block id ever allocated, in order: [1, last].
func (s *Store) BlockIDs() []block.BlockID {
	ids := make([]block.BlockID, s.last)
	for i := range ids {
		ids[i] = block.BlockID(i + 1)
	}
	return ids
}

// GetNew allocates the next block, initializes it as an empty slotted
// page, persists it, and reads it back so the returned page's buffer is
// owned by the store rather than aliasing caller memory.
func (s *Store) GetNew() (*block.SlottedPage, error) {
	if s.closed {
		return nil, ErrClosed
	}

	id := block.BlockID(s.last + 1)
	buf := make([]byte, block.Size)
	if _, err := block.New(buf, id, true); err != nil {
		return nil, err
	}
	if err := s.writeBlock(id, buf); err != nil {
		return nil, err
	}

	s.last++
	s.header.setDirty(true)
	s.header.setLast(s.last, now())
	if err := s.header.writeTo(s.writer); err != nil {
		return nil, err
	}

	readBuf, err := s.readBlock(id)
	if err != nil {
		return nil, err
	}
	return block.New(readBuf, id, false)
}

// Get fetches block id and wraps it as an existing (non-new) slotted page.
func (s *Store) Get(id block.BlockID) (*block.SlottedPage, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if id < 1 || id > block.BlockID(s.last) {
		return nil, ErrBadBlockID
	}
	buf, err := s.readBlock(id)
	if err != nil {
		return nil, err
	}
	return block.New(buf, id, false)
}

// Put writes a page back under its own block id.
func (s *Store) Put(page *block.SlottedPage) error {
	if s.closed {
		return ErrClosed
	}
	id := page.ID()
	if id < 1 || id > block.BlockID(s.last) {
		return ErrBadBlockID
	}
	if err := s.writeBlock(id, page.Bytes()); err != nil {
		return err
	}
	if s.config.SyncWrites {
		s.writer.Sync()
	}
	return nil
}

func (s *Store) writeBlock(id block.BlockID, data []byte) error {
	_, err := s.writer.WriteAt(data, blockOffset(id))
	if s.config.SyncWrites {
		s.writer.Sync()
	}
	return err
}

func (s *Store) readBlock(id block.BlockID) ([]byte, error) {
	buf := make([]byte, block.Size)
	n, err := s.reader.ReadAt(buf, blockOffset(id))
	if err != nil && err != io.EOF {
		return nil, err
	}
	if n != block.Size {
		return nil, ErrCorruptBlock
	}
	return buf, nil
}
