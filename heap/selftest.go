package heap

import (
	"fmt"

	"github.com/jpl-au/heapdb/pagestore"
)

// SelfTest exercises HeapFile and HeapTable end to end against a scratch
// table in env, backing the SQL shell's "test" command. It creates
// "_test_heap_storage", inserts one row, confirms it round-trips through
// select and project, and drops the table — leaving env exactly as it found
// it on success.
func SelfTest(env *pagestore.Environment) error {
	table := NewHeapTable(env, "_test_heap_storage",
		[]string{"a", "b"},
		[]ColumnAttribute{{DataType: TypeInt}, {DataType: TypeText}})
	table.SetArchive(false)

	if err := table.Create(); err != nil {
		return fmt.Errorf("heap self test: create: %w", err)
	}
	defer table.Drop()

	row := Row{"a": IntValue(12), "b": TextValue("hello!")}
	handle, err := table.Insert(row)
	if err != nil {
		return fmt.Errorf("heap self test: insert: %w", err)
	}

	handles, err := table.Select()
	if err != nil {
		return fmt.Errorf("heap self test: select: %w", err)
	}
	if len(handles) != 1 {
		return fmt.Errorf("heap self test: select returned %d rows, want 1", len(handles))
	}

	got, err := table.Project(handle)
	if err != nil {
		return fmt.Errorf("heap self test: project: %w", err)
	}
	if !got["a"].Equal(row["a"]) || !got["b"].Equal(row["b"]) {
		return fmt.Errorf("heap self test: project returned %v, want %v", got, row)
	}

	return nil
}
