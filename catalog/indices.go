package catalog

import (
	"github.com/jpl-au/heapdb/block"
	"github.com/jpl-au/heapdb/heap"
	"github.com/jpl-au/heapdb/pagestore"
)

// IndexColumn is one row of an index's registration: its position within
// the index, the table column it indexes, the index's type, and whether
// the index enforces uniqueness.
type IndexColumn struct {
	Seq        int
	ColumnName string
	IndexType  string
	IsUnique   bool
}

// DbIndex is the physical storage backing one registered index. It has no
// key-ordering structure of its own yet — CREATE INDEX and DROP INDEX only
// need a concrete thing to allocate and free — but giving it real storage
// means DROP TABLE and DROP INDEX can physically reclaim index space rather
// than only deleting the catalog's record of it.
type DbIndex struct {
	tableName string
	indexName string
	file      *heap.HeapFile
}

func newDbIndex(env *pagestore.Environment, tableName, indexName string) *DbIndex {
	// Index contents are rebuildable from the table, so skip the pre-drop
	// archive snapshot table files get.
	file := heap.NewHeapFile(env, tableName+"_"+indexName+".ndx", pagestore.Config{})
	file.SetArchive(false)
	return &DbIndex{tableName: tableName, indexName: indexName, file: file}
}

func (ix *DbIndex) Create() error            { return ix.file.Create() }
func (ix *DbIndex) CreateIfNotExists() error { return ix.file.CreateIfNotExists() }
func (ix *DbIndex) Open() error              { return ix.file.Open() }
func (ix *DbIndex) Close() error             { return ix.file.Close() }

// Drop physically deletes the index's backing storage.
func (ix *DbIndex) Drop() error { return ix.file.Drop() }

// IndexExists reports whether (tableName, indexName) is registered in
// _indices.
func (c *Catalog) IndexExists(tableName, indexName string) (bool, error) {
	handles, err := c.indices.SelectWhere(heap.Row{
		"table_name": heap.TextValue(tableName), "index_name": heap.TextValue(indexName),
	})
	if err != nil {
		return false, err
	}
	return len(handles) > 0, nil
}

// IndexNames returns the distinct index names registered against
// tableName, in first-registered order.
func (c *Catalog) IndexNames(tableName string) ([]string, error) {
	handles, err := c.indices.SelectWhere(heap.Row{"table_name": heap.TextValue(tableName)})
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var names []string
	for _, h := range handles {
		row, err := c.indices.Project(h)
		if err != nil {
			return nil, err
		}
		name := row["index_name"].Text
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names, nil
}

// IndexColumns returns the registered column list of (tableName, indexName)
// in seq_in_index order.
func (c *Catalog) IndexColumns(tableName, indexName string) ([]IndexColumn, error) {
	handles, err := c.indices.SelectWhere(heap.Row{
		"table_name": heap.TextValue(tableName), "index_name": heap.TextValue(indexName),
	})
	if err != nil {
		return nil, err
	}
	if len(handles) == 0 {
		return nil, ErrNoSuchIndex
	}
	cols := make([]IndexColumn, len(handles))
	for i, h := range handles {
		row, err := c.indices.Project(h)
		if err != nil {
			return nil, err
		}
		cols[i] = IndexColumn{
			Seq:        int(row["seq_in_index"].Int),
			ColumnName: row["column_name"].Text,
			IndexType:  row["index_type"].Text,
			IsUnique:   row["is_unique"].Int != 0,
		}
	}
	return cols, nil
}

// boolToInt encodes IsUnique as the 0|1 int the _indices.is_unique column
// actually stores — the catalog's own schema is INT, not BOOLEAN, per the
// data model's is_unique: INT(0|1).
func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// RegisterIndex inserts one _indices row per column, returning every handle
// inserted for rollback use.
func (c *Catalog) RegisterIndex(tableName, indexName string, columns []IndexColumn) ([]block.Handle, error) {
	if exists, err := c.IndexExists(tableName, indexName); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrIndexExists
	}

	var inserted []block.Handle
	for _, col := range columns {
		h, err := c.indices.Insert(heap.Row{
			"table_name":   heap.TextValue(tableName),
			"index_name":   heap.TextValue(indexName),
			"seq_in_index": heap.IntValue(int32(col.Seq)),
			"column_name":  heap.TextValue(col.ColumnName),
			"index_type":   heap.TextValue(col.IndexType),
			"is_unique":    heap.IntValue(boolToInt(col.IsUnique)),
		})
		if err != nil {
			return inserted, err
		}
		inserted = append(inserted, h)
	}
	return inserted, nil
}

// RollbackIndexRegistration deletes every _indices row named by handles.
func (c *Catalog) RollbackIndexRegistration(handles []block.Handle) {
	for _, h := range handles {
		c.indices.Del(h)
	}
}

// UnregisterIndex deletes (tableName, indexName)'s rows from _indices and
// evicts it from the index cache. It does not touch physical storage.
func (c *Catalog) UnregisterIndex(tableName, indexName string) error {
	handles, err := c.indices.SelectWhere(heap.Row{
		"table_name": heap.TextValue(tableName), "index_name": heap.TextValue(indexName),
	})
	if err != nil {
		return err
	}
	for _, h := range handles {
		if err := c.indices.Del(h); err != nil {
			return err
		}
	}
	delete(c.indexCache, tableName+"."+indexName)
	return nil
}

// GetIndex rehydrates (and caches) the physical storage for a registered
// index.
func (c *Catalog) GetIndex(tableName, indexName string) (*DbIndex, error) {
	key := tableName + "." + indexName
	if ix, ok := c.indexCache[key]; ok {
		return ix, nil
	}
	if exists, err := c.IndexExists(tableName, indexName); err != nil {
		return nil, err
	} else if !exists {
		return nil, ErrNoSuchIndex
	}
	ix := newDbIndex(c.env, tableName, indexName)
	c.indexCache[key] = ix
	return ix, nil
}

// DropIndexStorage physically deletes a registered index's backing file
// and evicts it from the cache, leaving its _indices rows untouched —
// callers drop the catalog rows separately via UnregisterIndex.
func (c *Catalog) DropIndexStorage(tableName, indexName string) error {
	ix, err := c.GetIndex(tableName, indexName)
	if err != nil {
		return err
	}
	if err := ix.CreateIfNotExists(); err != nil {
		return err
	}
	key := tableName + "." + indexName
	delete(c.indexCache, key)
	return ix.Drop()
}
