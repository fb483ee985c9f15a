package sqlexec

import (
	"fmt"

	"github.com/jpl-au/heapdb/catalog"
	"github.com/jpl-au/heapdb/sqlast"
)

func (e *Executor) dropTable(s sqlast.DropTableStatement) (*QueryResult, error) {
	if catalog.IsSchemaTable(s.TableName) {
		return nil, &SQLExecError{Msg: "Cannot drop a schema table!"}
	}
	exists, err := e.catalog.TableExists(s.TableName)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &SQLExecError{Msg: fmt.Sprintf("table %s does not exist", s.TableName)}
	}

	// Drop each index's physical storage before its catalog rows, so a
	// dropped table never strands orphaned index files on disk.
	indexNames, err := e.catalog.IndexNames(s.TableName)
	if err != nil {
		return nil, err
	}
	for _, name := range indexNames {
		if err := e.catalog.DropIndexStorage(s.TableName, name); err != nil {
			return nil, err
		}
		if err := e.catalog.UnregisterIndex(s.TableName, name); err != nil {
			return nil, err
		}
	}

	// Resolve the relation while its _columns rows still exist: GetTable
	// rebuilds an uncached table's schema from them.
	table, err := e.catalog.GetTable(s.TableName)
	if err != nil {
		return nil, err
	}

	deletedColumns, err := e.catalog.DeleteColumns(s.TableName)
	if err != nil {
		e.catalog.ReinsertColumns(deletedColumns)
		return nil, err
	}

	if err := table.Drop(); err != nil {
		e.catalog.ReinsertColumns(deletedColumns)
		return nil, err
	}
	if err := e.catalog.DeleteTableRow(s.TableName); err != nil {
		e.catalog.ReinsertColumns(deletedColumns)
		return nil, err
	}

	return &QueryResult{Message: fmt.Sprintf("dropped %s", s.TableName)}, nil
}

func (e *Executor) dropIndex(s sqlast.DropIndexStatement) (*QueryResult, error) {
	exists, err := e.catalog.IndexExists(s.TableName, s.IndexName)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &SQLExecError{Msg: fmt.Sprintf("index %s does not exist on %s", s.IndexName, s.TableName)}
	}
	if err := e.catalog.DropIndexStorage(s.TableName, s.IndexName); err != nil {
		return nil, err
	}
	if err := e.catalog.UnregisterIndex(s.TableName, s.IndexName); err != nil {
		return nil, err
	}
	return &QueryResult{Message: fmt.Sprintf("dropped index %s", s.IndexName)}, nil
}
