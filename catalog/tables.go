package catalog

import (
	"github.com/jpl-au/heapdb/block"
	"github.com/jpl-au/heapdb/heap"
)

// TableExists reports whether name is registered in _tables.
func (c *Catalog) TableExists(name string) (bool, error) {
	handles, err := c.tables.SelectWhere(heap.Row{"table_name": heap.TextValue(name)})
	if err != nil {
		return false, err
	}
	return len(handles) > 0, nil
}

// TableNames returns every table registered in _tables, including the
// catalog's own relations.
func (c *Catalog) TableNames() ([]string, error) {
	handles, err := c.tables.Select()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(handles))
	for _, h := range handles {
		row, err := c.tables.Project(h)
		if err != nil {
			return nil, err
		}
		names = append(names, row["table_name"].Text)
	}
	return names, nil
}

// ColumnDefs returns the registered column schema for name, in the order
// the columns were registered — which is the order CREATE TABLE listed
// them in.
func (c *Catalog) ColumnDefs(name string) ([]string, []heap.ColumnAttribute, error) {
	handles, err := c.columns.SelectWhere(heap.Row{"table_name": heap.TextValue(name)})
	if err != nil {
		return nil, nil, err
	}
	if len(handles) == 0 {
		return nil, nil, ErrNoSuchTable
	}
	columnNames := make([]string, len(handles))
	attrs := make([]heap.ColumnAttribute, len(handles))
	for i, h := range handles {
		row, err := c.columns.Project(h)
		if err != nil {
			return nil, nil, err
		}
		dt, err := heap.ParseDataType(row["data_type"].Text)
		if err != nil {
			return nil, nil, err
		}
		columnNames[i] = row["column_name"].Text
		attrs[i] = heap.ColumnAttribute{DataType: dt}
	}
	return columnNames, attrs, nil
}

// TableRegistration is the set of catalog rows one RegisterTable call
// inserted, split by the relation each handle belongs to so rollback can
// delete each from the right HeapTable rather than guessing.
type TableRegistration struct {
	Name          string
	TableHandle   block.Handle
	HasTable      bool
	ColumnHandles []block.Handle
}

// RegisterTable inserts name into _tables and its column schema into
// _columns, returning every handle inserted so the caller can roll the
// registration back on a later failure (e.g. the physical create failing).
func (c *Catalog) RegisterTable(name string, columnNames []string, attrs []heap.ColumnAttribute) (TableRegistration, error) {
	reg := TableRegistration{Name: name}
	if exists, err := c.TableExists(name); err != nil {
		return reg, err
	} else if exists {
		return reg, ErrTableExists
	}

	h, err := c.tables.Insert(heap.Row{"table_name": heap.TextValue(name)})
	if err != nil {
		return reg, err
	}
	reg.TableHandle = h
	reg.HasTable = true

	for i, colName := range columnNames {
		h, err := c.columns.Insert(columnRow(name, colName, attrs[i].DataType.String()))
		if err != nil {
			return reg, err
		}
		reg.ColumnHandles = append(reg.ColumnHandles, h)
	}
	return reg, nil
}

// RollbackTableRegistration deletes every catalog row reg names, columns
// before the table row, so a reader never observes a _columns row whose
// _tables row is already gone. It tolerates individual delete failures —
// the point is to undo as much as possible, not to mask the original error
// that triggered the rollback.
func (c *Catalog) RollbackTableRegistration(reg TableRegistration) {
	for _, h := range reg.ColumnHandles {
		c.columns.Del(h)
	}
	if reg.HasTable {
		c.tables.Del(reg.TableHandle)
	}
	delete(c.tableCache, reg.Name)
}

// UnregisterTable deletes name's row from _tables and all of its column
// rows from _columns, and evicts it from the table cache. It does not touch
// the table's physical storage.
func (c *Catalog) UnregisterTable(name string) error {
	if _, err := c.DeleteColumns(name); err != nil {
		return err
	}
	return c.DeleteTableRow(name)
}

// ColumnRow is the content of one deleted _columns row, kept around so a
// DROP TABLE that fails partway through can best-effort reinsert it.
type ColumnRow struct {
	TableName, ColumnName, DataType string
}

// DeleteColumns deletes every _columns row registered for tableName and
// returns their content for possible reinsertion by ReinsertColumns.
func (c *Catalog) DeleteColumns(tableName string) ([]ColumnRow, error) {
	handles, err := c.columns.SelectWhere(heap.Row{"table_name": heap.TextValue(tableName)})
	if err != nil {
		return nil, err
	}
	rows := make([]ColumnRow, 0, len(handles))
	for _, h := range handles {
		row, err := c.columns.Project(h)
		if err != nil {
			return rows, err
		}
		rows = append(rows, ColumnRow{TableName: tableName, ColumnName: row["column_name"].Text, DataType: row["data_type"].Text})
		if err := c.columns.Del(h); err != nil {
			return rows, err
		}
	}
	return rows, nil
}

// ReinsertColumns best-effort reinserts rows into _columns, tolerating
// individual failures. It undoes DeleteColumns when a later DROP TABLE
// step fails, so the catalog still describes the table that was not
// actually dropped.
func (c *Catalog) ReinsertColumns(rows []ColumnRow) {
	for _, r := range rows {
		c.columns.Insert(columnRow(r.TableName, r.ColumnName, r.DataType))
	}
}

// DeleteTableRow deletes tableName's row from _tables and evicts it from
// the table cache. It does not touch _columns or physical storage.
func (c *Catalog) DeleteTableRow(tableName string) error {
	handles, err := c.tables.SelectWhere(heap.Row{"table_name": heap.TextValue(tableName)})
	if err != nil {
		return err
	}
	for _, h := range handles {
		if err := c.tables.Del(h); err != nil {
			return err
		}
	}
	delete(c.tableCache, tableName)
	return nil
}

// GetTable rehydrates (and caches) the HeapTable registered under name.
func (c *Catalog) GetTable(name string) (*heap.HeapTable, error) {
	if t, ok := c.tableCache[name]; ok {
		return t, nil
	}
	columnNames, attrs, err := c.ColumnDefs(name)
	if err != nil {
		return nil, err
	}
	t := heap.NewHeapTable(c.env, name, columnNames, attrs)
	c.tableCache[name] = t
	return t, nil
}
