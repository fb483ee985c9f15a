package sqlexec

import (
	"fmt"

	"github.com/jpl-au/heapdb/catalog"
	"github.com/jpl-au/heapdb/heap"
	"github.com/jpl-au/heapdb/sqlast"
)

func (e *Executor) showTables() (*QueryResult, error) {
	names, err := e.catalog.TableNames()
	if err != nil {
		return nil, err
	}
	var rows []heap.Row
	for _, name := range names {
		if catalog.IsSchemaTable(name) {
			continue
		}
		rows = append(rows, heap.Row{"table_name": heap.TextValue(name)})
	}
	return &QueryResult{
		ColumnNames: []string{"table_name"},
		Rows:        rows,
		Message:     fmt.Sprintf("successfully returned %d rows", len(rows)),
	}, nil
}

// showColumns renders table_name, column_name, data_type — all TEXT,
// exactly as the _columns relation stores them. A zero-value s.TableName
// means "SHOW COLUMNS" was given with no FROM clause, which shows every
// registered table's columns rather than just one.
func (e *Executor) showColumns(s sqlast.ShowColumnsStatement) (*QueryResult, error) {
	var rows []heap.Row
	if s.TableName == "" {
		names, err := e.catalog.TableNames()
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			columnNames, attrs, err := e.catalog.ColumnDefs(name)
			if err != nil {
				return nil, err
			}
			rows = append(rows, columnRows(name, columnNames, attrs)...)
		}
	} else {
		columnNames, attrs, err := e.catalog.ColumnDefs(s.TableName)
		if err != nil {
			return nil, err
		}
		rows = columnRows(s.TableName, columnNames, attrs)
	}
	return &QueryResult{
		ColumnNames: []string{"table_name", "column_name", "data_type"},
		Rows:        rows,
		Message:     fmt.Sprintf("successfully returned %d rows", len(rows)),
	}, nil
}

func columnRows(tableName string, columnNames []string, attrs []heap.ColumnAttribute) []heap.Row {
	rows := make([]heap.Row, len(columnNames))
	for i, name := range columnNames {
		rows[i] = heap.Row{
			"table_name":  heap.TextValue(tableName),
			"column_name": heap.TextValue(name),
			"data_type":   heap.TextValue(attrs[i].DataType.String()),
		}
	}
	return rows
}

func (e *Executor) showIndex(s sqlast.ShowIndexStatement) (*QueryResult, error) {
	if exists, err := e.catalog.TableExists(s.TableName); err != nil {
		return nil, err
	} else if !exists {
		return nil, &SQLExecError{Msg: fmt.Sprintf("table %s does not exist", s.TableName)}
	}
	names, err := e.catalog.IndexNames(s.TableName)
	if err != nil {
		return nil, err
	}
	var rows []heap.Row
	for _, name := range names {
		cols, err := e.catalog.IndexColumns(s.TableName, name)
		if err != nil {
			return nil, err
		}
		for _, c := range cols {
			isUnique := int32(0)
			if c.IsUnique {
				isUnique = 1
			}
			rows = append(rows, heap.Row{
				"table_name":   heap.TextValue(s.TableName),
				"index_name":   heap.TextValue(name),
				"seq_in_index": heap.IntValue(int32(c.Seq)),
				"column_name":  heap.TextValue(c.ColumnName),
				"index_type":   heap.TextValue(c.IndexType),
				"is_unique":    heap.IntValue(isUnique),
			})
		}
	}
	// Column order mirrors the _indices relation's own schema.
	return &QueryResult{
		ColumnNames: []string{"table_name", "index_name", "seq_in_index", "column_name", "index_type", "is_unique"},
		Rows:        rows,
		Message:     fmt.Sprintf("successfully returned %d rows", len(rows)),
	}, nil
}
