package catalog

import (
	"github.com/jpl-au/heapdb/heap"
	"github.com/jpl-au/heapdb/pagestore"
)

// Reserved names of the three schema relations. They are HeapTables like
// any other, distinguished only by being bootstrapped here and protected
// from DROP TABLE.
const (
	TablesTableName  = "_tables"
	ColumnsTableName = "_columns"
	IndicesTableName = "_indices"
)

// Catalog is the open schema catalog for one environment: the _tables,
// _columns, and _indices relations, plus a cache of rehydrated table and
// index handles.
type Catalog struct {
	env     *pagestore.Environment
	tables  *heap.HeapTable
	columns *heap.HeapTable
	indices *heap.HeapTable

	tableCache map[string]*heap.HeapTable
	indexCache map[string]*DbIndex
}

// IsSchemaTable reports whether name is one of the catalog's own relations
// — these are exempt from DROP TABLE and never listed by SHOW TABLES.
func IsSchemaTable(name string) bool {
	return name == TablesTableName || name == ColumnsTableName || name == IndicesTableName
}

// Open opens the catalog's three relations, bootstrapping them — and
// registering each in the others — the first time they are created in env.
func Open(env *pagestore.Environment) (*Catalog, error) {
	c := &Catalog{
		env:        env,
		tableCache: make(map[string]*heap.HeapTable),
		indexCache: make(map[string]*DbIndex),
	}

	tablesFresh := !pagestore.Exists(env, TablesTableName+".db")
	tables := heap.NewHeapTable(env, TablesTableName,
		[]string{"table_name"}, []heap.ColumnAttribute{{DataType: heap.TypeText}})
	tables.SetArchive(false)
	if err := tables.CreateIfNotExists(); err != nil {
		return nil, err
	}
	c.tables = tables
	if tablesFresh {
		if _, err := tables.Insert(heap.Row{"table_name": heap.TextValue(TablesTableName)}); err != nil {
			return nil, err
		}
	}

	columnsFresh := !pagestore.Exists(env, ColumnsTableName+".db")
	columns := heap.NewHeapTable(env, ColumnsTableName,
		[]string{"table_name", "column_name", "data_type"},
		[]heap.ColumnAttribute{{DataType: heap.TypeText}, {DataType: heap.TypeText}, {DataType: heap.TypeText}})
	columns.SetArchive(false)
	if err := columns.CreateIfNotExists(); err != nil {
		return nil, err
	}
	c.columns = columns
	if columnsFresh {
		if _, err := tables.Insert(heap.Row{"table_name": heap.TextValue(ColumnsTableName)}); err != nil {
			return nil, err
		}
		bootstrap := []heap.Row{
			columnRow(TablesTableName, "table_name", "TEXT"),
			columnRow(ColumnsTableName, "table_name", "TEXT"),
			columnRow(ColumnsTableName, "column_name", "TEXT"),
			columnRow(ColumnsTableName, "data_type", "TEXT"),
		}
		for _, row := range bootstrap {
			if _, err := columns.Insert(row); err != nil {
				return nil, err
			}
		}
	}

	indicesFresh := !pagestore.Exists(env, IndicesTableName+".db")
	indices := heap.NewHeapTable(env, IndicesTableName,
		[]string{"table_name", "index_name", "seq_in_index", "column_name", "index_type", "is_unique"},
		[]heap.ColumnAttribute{
			{DataType: heap.TypeText}, {DataType: heap.TypeText}, {DataType: heap.TypeInt},
			{DataType: heap.TypeText}, {DataType: heap.TypeText}, {DataType: heap.TypeInt},
		})
	indices.SetArchive(false)
	if err := indices.CreateIfNotExists(); err != nil {
		return nil, err
	}
	c.indices = indices
	if indicesFresh {
		if _, err := tables.Insert(heap.Row{"table_name": heap.TextValue(IndicesTableName)}); err != nil {
			return nil, err
		}
		bootstrap := []heap.Row{
			columnRow(IndicesTableName, "table_name", "TEXT"),
			columnRow(IndicesTableName, "index_name", "TEXT"),
			columnRow(IndicesTableName, "seq_in_index", "INT"),
			columnRow(IndicesTableName, "column_name", "TEXT"),
			columnRow(IndicesTableName, "index_type", "TEXT"),
			columnRow(IndicesTableName, "is_unique", "INT"),
		}
		for _, row := range bootstrap {
			if _, err := columns.Insert(row); err != nil {
				return nil, err
			}
		}
	}

	return c, nil
}

func columnRow(table, column, dataType string) heap.Row {
	return heap.Row{
		"table_name":  heap.TextValue(table),
		"column_name": heap.TextValue(column),
		"data_type":   heap.TextValue(dataType),
	}
}

// Close closes the three schema relations and every cached table/index.
func (c *Catalog) Close() error {
	for _, t := range c.tableCache {
		t.Close()
	}
	for _, ix := range c.indexCache {
		ix.Close()
	}
	c.tables.Close()
	c.columns.Close()
	return c.indices.Close()
}
