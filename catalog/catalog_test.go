package catalog

import (
	"testing"

	"github.com/jpl-au/heapdb/heap"
	"github.com/jpl-au/heapdb/pagestore"
)

func openEnv(t *testing.T) *pagestore.Environment {
	t.Helper()
	env, err := pagestore.OpenEnvironment(t.TempDir())
	if err != nil {
		t.Fatalf("OpenEnvironment: %v", err)
	}
	t.Cleanup(func() { env.Close() })
	return env
}

// TestBootstrapRegistersSchemaTablesInThemselves confirms _tables,
// _columns, and _indices all show up in _tables, and their own column
// definitions show up in _columns — the catalog's fixed point.
func TestBootstrapRegistersSchemaTablesInThemselves(t *testing.T) {
	env := openEnv(t)
	c, err := Open(env)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	names, err := c.TableNames()
	if err != nil {
		t.Fatalf("TableNames: %v", err)
	}
	want := map[string]bool{TablesTableName: false, ColumnsTableName: false, IndicesTableName: false}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("TableNames() missing %q", name)
		}
	}

	cols, attrs, err := c.ColumnDefs(ColumnsTableName)
	if err != nil {
		t.Fatalf("ColumnDefs(_columns): %v", err)
	}
	if len(cols) != 3 || len(attrs) != 3 {
		t.Errorf("ColumnDefs(_columns) = %v, want 3 columns", cols)
	}
}

// TestReopenIsIdempotent verifies a second Open against the same
// environment does not duplicate the bootstrap rows.
func TestReopenIsIdempotent(t *testing.T) {
	env := openEnv(t)
	c1, err := Open(env)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	names1, _ := c1.TableNames()
	c1.Close()

	c2, err := Open(env)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer c2.Close()
	names2, err := c2.TableNames()
	if err != nil {
		t.Fatalf("TableNames: %v", err)
	}
	if len(names1) != len(names2) {
		t.Errorf("TableNames() after reopen = %v, want same length as %v", names2, names1)
	}
}

// TestRegisterAndGetTable confirms a registered table's schema round-trips
// through GetTable into an equivalent HeapTable.
func TestRegisterAndGetTable(t *testing.T) {
	env := openEnv(t)
	c, err := Open(env)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	columnNames := []string{"id", "label"}
	attrs := []heap.ColumnAttribute{{DataType: heap.TypeInt}, {DataType: heap.TypeText}}
	if _, err := c.RegisterTable("widgets", columnNames, attrs); err != nil {
		t.Fatalf("RegisterTable: %v", err)
	}

	tbl, err := c.GetTable("widgets")
	if err != nil {
		t.Fatalf("GetTable: %v", err)
	}
	if len(tbl.ColumnNames()) != 2 || tbl.ColumnNames()[1] != "label" {
		t.Errorf("GetTable schema = %v, want [id label]", tbl.ColumnNames())
	}
}

// TestRegisterTableRejectsDuplicate checks RegisterTable refuses a name
// already present in _tables.
func TestRegisterTableRejectsDuplicate(t *testing.T) {
	env := openEnv(t)
	c, err := Open(env)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	attrs := []heap.ColumnAttribute{{DataType: heap.TypeInt}}
	if _, err := c.RegisterTable("widgets", []string{"id"}, attrs); err != nil {
		t.Fatalf("RegisterTable: %v", err)
	}
	if _, err := c.RegisterTable("widgets", []string{"id"}, attrs); err != ErrTableExists {
		t.Errorf("second RegisterTable = %v, want ErrTableExists", err)
	}
}

// TestRollbackTableRegistrationRemovesRows confirms the compensating delete
// path actually erases the rows a failed CREATE TABLE inserted.
func TestRollbackTableRegistrationRemovesRows(t *testing.T) {
	env := openEnv(t)
	c, err := Open(env)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	attrs := []heap.ColumnAttribute{{DataType: heap.TypeInt}}
	handles, err := c.RegisterTable("half_made", []string{"id"}, attrs)
	if err != nil {
		t.Fatalf("RegisterTable: %v", err)
	}
	c.RollbackTableRegistration(handles)

	exists, err := c.TableExists("half_made")
	if err != nil {
		t.Fatalf("TableExists: %v", err)
	}
	if exists {
		t.Errorf("half_made still registered after rollback")
	}
}

// TestRollbackTableRegistrationLeavesOtherTablesIntact guards against a
// rollback that deletes handles from the wrong relation: once a second
// table is registered, a naive rollback that called Del on both _tables
// and _columns for every handle (regardless of which relation it actually
// came from) could tombstone an unrelated row sharing the same
// (block, record) coordinates in the other file.
func TestRollbackTableRegistrationLeavesOtherTablesIntact(t *testing.T) {
	env := openEnv(t)
	c, err := Open(env)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	attrs := []heap.ColumnAttribute{{DataType: heap.TypeInt}, {DataType: heap.TypeText}}
	if _, err := c.RegisterTable("widgets", []string{"id", "label"}, attrs); err != nil {
		t.Fatalf("RegisterTable(widgets): %v", err)
	}

	reg, err := c.RegisterTable("half_made", []string{"id", "label"}, attrs)
	if err != nil {
		t.Fatalf("RegisterTable(half_made): %v", err)
	}
	c.RollbackTableRegistration(reg)

	exists, err := c.TableExists("widgets")
	if err != nil {
		t.Fatalf("TableExists(widgets): %v", err)
	}
	if !exists {
		t.Errorf("widgets no longer registered after rolling back half_made")
	}
	cols, _, err := c.ColumnDefs("widgets")
	if err != nil {
		t.Fatalf("ColumnDefs(widgets): %v", err)
	}
	if len(cols) != 2 {
		t.Errorf("ColumnDefs(widgets) = %v, want 2 columns surviving the other table's rollback", cols)
	}
}

// TestDeleteColumnsThenReinsertRestoresSchema exercises the compensating
// action DROP TABLE uses when a later step fails after _columns rows are
// already gone: ReinsertColumns must restore exactly the rows DeleteColumns
// removed.
func TestDeleteColumnsThenReinsertRestoresSchema(t *testing.T) {
	env := openEnv(t)
	c, err := Open(env)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	attrs := []heap.ColumnAttribute{{DataType: heap.TypeInt}, {DataType: heap.TypeText}}
	if _, err := c.RegisterTable("widgets", []string{"id", "label"}, attrs); err != nil {
		t.Fatalf("RegisterTable(widgets): %v", err)
	}

	deleted, err := c.DeleteColumns("widgets")
	if err != nil {
		t.Fatalf("DeleteColumns: %v", err)
	}
	if len(deleted) != 2 {
		t.Fatalf("DeleteColumns returned %d rows, want 2", len(deleted))
	}
	if _, _, err := c.ColumnDefs("widgets"); err != ErrNoSuchTable {
		t.Fatalf("ColumnDefs(widgets) after DeleteColumns = %v, want ErrNoSuchTable", err)
	}

	c.ReinsertColumns(deleted)

	cols, restoredAttrs, err := c.ColumnDefs("widgets")
	if err != nil {
		t.Fatalf("ColumnDefs(widgets) after ReinsertColumns: %v", err)
	}
	if len(cols) != 2 || cols[0] != "id" || cols[1] != "label" {
		t.Errorf("ColumnDefs(widgets) after reinsert = %v, want [id label]", cols)
	}
	if restoredAttrs[0].DataType != heap.TypeInt || restoredAttrs[1].DataType != heap.TypeText {
		t.Errorf("ColumnDefs(widgets) attrs after reinsert = %v, want [INT TEXT]", restoredAttrs)
	}
}

// TestRegisterIndexAndGetIndex confirms an index's columns round-trip and
// its physical storage can be created and dropped.
func TestRegisterIndexAndGetIndex(t *testing.T) {
	env := openEnv(t)
	c, err := Open(env)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	attrs := []heap.ColumnAttribute{{DataType: heap.TypeInt}, {DataType: heap.TypeText}}
	if _, err := c.RegisterTable("widgets", []string{"id", "label"}, attrs); err != nil {
		t.Fatalf("RegisterTable: %v", err)
	}

	cols := []IndexColumn{{Seq: 1, ColumnName: "id", IndexType: "BTREE", IsUnique: true}}
	if _, err := c.RegisterIndex("widgets", "widgets_id_idx", cols); err != nil {
		t.Fatalf("RegisterIndex: %v", err)
	}

	got, err := c.IndexColumns("widgets", "widgets_id_idx")
	if err != nil {
		t.Fatalf("IndexColumns: %v", err)
	}
	if len(got) != 1 || !got[0].IsUnique || got[0].IndexType != "BTREE" {
		t.Errorf("IndexColumns = %+v, want BTREE unique on id", got)
	}

	ix, err := c.GetIndex("widgets", "widgets_id_idx")
	if err != nil {
		t.Fatalf("GetIndex: %v", err)
	}
	if err := ix.Create(); err != nil {
		t.Fatalf("DbIndex.Create: %v", err)
	}
	if err := c.DropIndexStorage("widgets", "widgets_id_idx"); err != nil {
		t.Fatalf("DropIndexStorage: %v", err)
	}
}

// TestIsSchemaTableProtectsCatalogRelations ensures the three bootstrap
// relations are recognized as non-droppable.
func TestIsSchemaTableProtectsCatalogRelations(t *testing.T) {
	for _, name := range []string{TablesTableName, ColumnsTableName, IndicesTableName} {
		if !IsSchemaTable(name) {
			t.Errorf("IsSchemaTable(%q) = false, want true", name)
		}
	}
	if IsSchemaTable("widgets") {
		t.Errorf("IsSchemaTable(widgets) = true, want false")
	}
}
