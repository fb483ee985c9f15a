package heap

import "github.com/jpl-au/heapdb/block"

// DbRelation is the typed interface every storage engine in the catalog is
// expected to implement: a named, fixed-schema set of rows addressable by
// block.Handle.
type DbRelation interface {
	Name() string
	ColumnNames() []string
	ColumnAttributes() []ColumnAttribute

	Create() error
	CreateIfNotExists() error
	Drop() error
	Open() error
	Close() error

	Insert(row Row) (block.Handle, error)
	Del(h block.Handle) error
	Select() ([]block.Handle, error)
	SelectWhere(where Row) ([]block.Handle, error)
	Project(h block.Handle) (Row, error)
	ProjectColumns(h block.Handle, columnNames []string) (Row, error)
}
