// Package sqlexec executes parsed DDL and SHOW statements against a
// catalog.Catalog: CREATE/DROP TABLE, CREATE/DROP INDEX, and the three SHOW
// forms, rolling back any partially-applied catalog registration if a
// statement fails partway through.
package sqlexec

// SQLExecError is returned for statement-level failures that aren't a
// parse error or a lower storage-layer error — a name collision, a
// reference to something that doesn't exist, an unsupported column type.
type SQLExecError struct {
	Msg string
}

func (e *SQLExecError) Error() string { return e.Msg }
