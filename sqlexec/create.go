package sqlexec

import (
	"fmt"

	"github.com/jpl-au/heapdb/catalog"
	"github.com/jpl-au/heapdb/heap"
	"github.com/jpl-au/heapdb/sqlast"
)

func (e *Executor) createTable(s sqlast.CreateTableStatement) (*QueryResult, error) {
	exists, err := e.catalog.TableExists(s.TableName)
	if err != nil {
		return nil, err
	}
	if exists {
		if s.IfNotExists {
			return &QueryResult{Message: fmt.Sprintf("table %s already exists", s.TableName)}, nil
		}
		return nil, &SQLExecError{Msg: fmt.Sprintf("table %s already exists", s.TableName)}
	}

	columnNames := make([]string, len(s.Columns))
	attrs := make([]heap.ColumnAttribute, len(s.Columns))
	for i, c := range s.Columns {
		dt, ok := columnTypeToDataType(c.Type)
		if !ok {
			return nil, &SQLExecError{Msg: "Column Attribute Type Not Supported"}
		}
		columnNames[i] = c.Name
		attrs[i] = heap.ColumnAttribute{DataType: dt}
	}

	reg, err := e.catalog.RegisterTable(s.TableName, columnNames, attrs)
	if err != nil {
		e.catalog.RollbackTableRegistration(reg)
		return nil, err
	}

	table, err := e.catalog.GetTable(s.TableName)
	if err != nil {
		e.catalog.RollbackTableRegistration(reg)
		return nil, err
	}
	var createErr error
	if s.IfNotExists {
		createErr = table.CreateIfNotExists()
	} else {
		createErr = table.Create()
	}
	if createErr != nil {
		e.catalog.RollbackTableRegistration(reg)
		return nil, createErr
	}

	return &QueryResult{Message: fmt.Sprintf("created %s", s.TableName)}, nil
}

func (e *Executor) createIndex(s sqlast.CreateIndexStatement) (*QueryResult, error) {
	exists, err := e.catalog.TableExists(s.TableName)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &SQLExecError{Msg: fmt.Sprintf("Table %s doesn't exist", s.TableName)}
	}

	tableColumns, _, err := e.catalog.ColumnDefs(s.TableName)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(tableColumns))
	for _, c := range tableColumns {
		known[c] = true
	}
	for _, name := range s.ColumnNames {
		if !known[name] {
			return nil, &SQLExecError{Msg: fmt.Sprintf("Column %s doesn't exist in %s", name, s.TableName)}
		}
	}

	if idxExists, err := e.catalog.IndexExists(s.TableName, s.IndexName); err != nil {
		return nil, err
	} else if idxExists {
		return nil, &SQLExecError{Msg: fmt.Sprintf("index %s already exists on %s", s.IndexName, s.TableName)}
	}

	// is_unique is derived purely from index_type, never from an actual
	// check of the indexed columns' contents — preserved as-is rather than
	// "fixed", since nothing downstream relies on it meaning anything more.
	isUnique := s.IndexType == "BTREE"

	cols := make([]catalog.IndexColumn, len(s.ColumnNames))
	for i, name := range s.ColumnNames {
		cols[i] = catalog.IndexColumn{Seq: i + 1, ColumnName: name, IndexType: s.IndexType, IsUnique: isUnique}
	}

	handles, err := e.catalog.RegisterIndex(s.TableName, s.IndexName, cols)
	if err != nil {
		e.catalog.RollbackIndexRegistration(handles)
		return nil, err
	}

	ix, err := e.catalog.GetIndex(s.TableName, s.IndexName)
	if err != nil {
		e.catalog.RollbackIndexRegistration(handles)
		return nil, err
	}
	if err := ix.Create(); err != nil {
		e.catalog.RollbackIndexRegistration(handles)
		return nil, err
	}

	return &QueryResult{Message: fmt.Sprintf("created index %s", s.IndexName)}, nil
}
