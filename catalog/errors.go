// Package catalog implements the schema catalog every table and index is
// registered in: the _tables, _columns, and _indices relations, bootstrapped
// to describe themselves, plus the lookups SQLExec uses to rehydrate a
// table's schema and an index's physical storage.
package catalog

import "errors"

var (
	// ErrTableExists is returned by RegisterTable when the name is already
	// registered in _tables.
	ErrTableExists = errors.New("catalog: table already exists")

	// ErrNoSuchTable is returned when a name isn't registered in _tables.
	ErrNoSuchTable = errors.New("catalog: no such table")

	// ErrIndexExists is returned by RegisterIndex when the (table, index)
	// pair is already registered in _indices.
	ErrIndexExists = errors.New("catalog: index already exists")

	// ErrNoSuchIndex is returned when a (table, index) pair isn't
	// registered in _indices.
	ErrNoSuchIndex = errors.New("catalog: no such index")
)
