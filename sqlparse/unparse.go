package sqlparse

import (
	"fmt"
	"strings"

	"github.com/jpl-au/heapdb/sqlast"
)

// Unparse renders a parsed statement back to canonical SQL text. The REPL
// echoes this before executing, so a user sees what was actually parsed
// rather than what they typed.
func Unparse(stmt sqlast.Statement) string {
	switch s := stmt.(type) {
	case sqlast.CreateTableStatement:
		return unparseCreateTable(s)
	case sqlast.CreateIndexStatement:
		return unparseCreateIndex(s)
	case sqlast.DropTableStatement:
		return fmt.Sprintf("DROP TABLE %s", s.TableName)
	case sqlast.DropIndexStatement:
		return fmt.Sprintf("DROP INDEX %s ON %s", s.IndexName, s.TableName)
	case sqlast.ShowTablesStatement:
		return "SHOW TABLES"
	case sqlast.ShowColumnsStatement:
		if s.TableName == "" {
			return "SHOW COLUMNS"
		}
		return fmt.Sprintf("SHOW COLUMNS FROM %s", s.TableName)
	case sqlast.ShowIndexStatement:
		return fmt.Sprintf("SHOW INDEX FROM %s", s.TableName)
	default:
		return fmt.Sprintf("<unknown statement %T>", stmt)
	}
}

func unparseCreateTable(s sqlast.CreateTableStatement) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	if s.IfNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(s.TableName)
	b.WriteString(" (")
	for i, col := range s.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s %s", col.Name, col.Type)
	}
	b.WriteString(")")
	return b.String()
}

func unparseCreateIndex(s sqlast.CreateIndexStatement) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE INDEX %s ON %s (%s) USING %s",
		s.IndexName, s.TableName, strings.Join(s.ColumnNames, ", "), s.IndexType)
	return b.String()
}
