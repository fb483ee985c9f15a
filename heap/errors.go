// Package heap provides the paged record store (HeapFile) and the typed
// relation built on top of it (HeapTable / DbRelation): row marshaling,
// insert, select, and projection over a fixed column schema.
package heap

import "errors"

// Sentinel errors returned by HeapFile and HeapTable operations.
var (
	// ErrFileExists is returned by Create when the relation's file already
	// exists on disk.
	ErrFileExists = errors.New("heap: relation file already exists")

	// ErrNulls is returned by Insert when row is missing a value for one
	// of the relation's declared columns — this store has no concept of
	// NULL or column defaults.
	ErrNulls = errors.New("heap: don't know how to handle NULLs, defaults, etc. yet")

	// ErrUnsupportedType is returned when a column's declared type is
	// anything other than INT or TEXT.
	ErrUnsupportedType = errors.New("heap: only know how to marshal INT and TEXT")

	// ErrRowTooWide is returned when a marshaled row would not fit in a
	// single block.
	ErrRowTooWide = errors.New("heap: row does not fit in one block")
)
