package sqlexec

import (
	"fmt"

	"github.com/jpl-au/heapdb/catalog"
	"github.com/jpl-au/heapdb/heap"
	"github.com/jpl-au/heapdb/pagestore"
	"github.com/jpl-au/heapdb/sqlast"
	"github.com/jpl-au/heapdb/sqlparse"
)

// Executor parses and runs DDL and SHOW statements against one open
// environment's catalog.
type Executor struct {
	catalog *catalog.Catalog
}

// Open opens (bootstrapping if necessary) the catalog in env and returns an
// Executor ready to run statements against it.
func Open(env *pagestore.Environment) (*Executor, error) {
	c, err := catalog.Open(env)
	if err != nil {
		return nil, err
	}
	return &Executor{catalog: c}, nil
}

// Close closes every relation the catalog has opened.
func (e *Executor) Close() error { return e.catalog.Close() }

// Execute parses sql and runs it, returning the rendered result.
func (e *Executor) Execute(sql string) (*QueryResult, error) {
	stmt, err := sqlparse.Parse(sql)
	if err != nil {
		return nil, err
	}

	switch s := stmt.(type) {
	case sqlast.CreateTableStatement:
		return e.createTable(s)
	case sqlast.CreateIndexStatement:
		return e.createIndex(s)
	case sqlast.DropTableStatement:
		return e.dropTable(s)
	case sqlast.DropIndexStatement:
		return e.dropIndex(s)
	case sqlast.ShowTablesStatement:
		return e.showTables()
	case sqlast.ShowColumnsStatement:
		return e.showColumns(s)
	case sqlast.ShowIndexStatement:
		return e.showIndex(s)
	default:
		return nil, &SQLExecError{Msg: fmt.Sprintf("unrecognized statement type %T", stmt)}
	}
}

// columnTypeToDataType translates a parsed column type into the storage
// layer's DataType. Only INT and TEXT are supported column types for
// CREATE TABLE; ok is false for anything else (BOOLEAN, DOUBLE, ...), and
// the caller rejects the statement with "Column Attribute Type Not
// Supported" per the source's literal behavior.
func columnTypeToDataType(t sqlast.ColumnType) (dt heap.DataType, ok bool) {
	switch t {
	case sqlast.Int:
		return heap.TypeInt, true
	case sqlast.Text:
		return heap.TypeText, true
	default:
		return 0, false
	}
}
