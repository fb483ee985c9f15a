package heap

import (
	"encoding/binary"
	"errors"

	"github.com/jpl-au/heapdb/block"
	"github.com/jpl-au/heapdb/pagestore"
)

// HeapTable is the default DbRelation: rows are marshaled to a fixed binary
// layout (INT as a 4-byte little-endian int32, TEXT as a uint16 length
// prefix followed by its ASCII bytes) and appended one per block.Handle onto
// a HeapFile.
type HeapTable struct {
	name             string
	columnNames      []string
	columnAttributes []ColumnAttribute
	file             *HeapFile
}

// NewHeapTable declares a relation over env named name with the given
// column schema. The columns slices are parallel: columnAttributes[i] is
// the type of columnNames[i].
func NewHeapTable(env *pagestore.Environment, name string, columnNames []string, columnAttributes []ColumnAttribute) *HeapTable {
	return &HeapTable{
		name:             name,
		columnNames:      columnNames,
		columnAttributes: columnAttributes,
		file:             NewHeapFile(env, name, pagestore.Config{}),
	}
}

func (t *HeapTable) Name() string                       { return t.name }
func (t *HeapTable) ColumnNames() []string              { return t.columnNames }
func (t *HeapTable) ColumnAttributes() []ColumnAttribute { return t.columnAttributes }
func (t *HeapTable) SetArchive(enabled bool)            { t.file.SetArchive(enabled) }

func (t *HeapTable) Create() error            { return t.file.Create() }
func (t *HeapTable) CreateIfNotExists() error { return t.file.CreateIfNotExists() }
func (t *HeapTable) Drop() error              { return t.file.Drop() }
func (t *HeapTable) Open() error              { return t.file.Open() }
func (t *HeapTable) Close() error             { return t.file.Close() }

// Insert marshals row and appends it, opening the underlying file if it
// isn't already open. row must carry a value for every declared column;
// this store has no notion of NULL.
func (t *HeapTable) Insert(row Row) (block.Handle, error) {
	if err := t.file.Open(); err != nil {
		return block.Handle{}, err
	}
	data, err := t.marshal(row)
	if err != nil {
		return block.Handle{}, err
	}
	return t.append(data)
}

// append places data in the last block if it fits, otherwise allocates a
// new block. The returned handle always names the block the record actually
// landed in, including when the first Add fails and a fresh block takes it.
func (t *HeapTable) append(data []byte) (block.Handle, error) {
	ids := t.file.BlockIDs()

	var page *block.SlottedPage
	var err error
	if len(ids) > 0 {
		page, err = t.file.Get(ids[len(ids)-1])
	} else {
		page, err = t.file.GetNew()
	}
	if err != nil {
		return block.Handle{}, err
	}

	recID, err := page.Add(data)
	if errors.Is(err, block.ErrNoRoom) {
		page, err = t.file.GetNew()
		if err != nil {
			return block.Handle{}, err
		}
		recID, err = page.Add(data)
	}
	if err != nil {
		return block.Handle{}, err
	}

	if err := t.file.Put(page); err != nil {
		return block.Handle{}, err
	}
	return block.Handle{Block: page.ID(), Record: recID}, nil
}

// Del tombstones the record at h. The catalog's rollback and DROP paths are
// the only callers in this engine — there is no SQL DELETE statement.
func (t *HeapTable) Del(h block.Handle) error {
	page, err := t.file.Get(h.Block)
	if err != nil {
		return err
	}
	if err := page.Del(h.Record); err != nil {
		return err
	}
	return t.file.Put(page)
}

// Select returns a handle for every row in the relation.
func (t *HeapTable) Select() ([]block.Handle, error) { return t.SelectWhere(nil) }

// SelectWhere returns a handle for every row whose values match where under
// equality on each named column. An empty or nil where matches every row.
func (t *HeapTable) SelectWhere(where Row) ([]block.Handle, error) {
	if err := t.file.Open(); err != nil {
		return nil, err
	}
	var handles []block.Handle
	for _, bid := range t.file.BlockIDs() {
		page, err := t.file.Get(bid)
		if err != nil {
			return nil, err
		}
		for _, rid := range page.IDs() {
			h := block.Handle{Block: bid, Record: rid}
			if len(where) > 0 {
				row, err := t.Project(h)
				if err != nil {
					return nil, err
				}
				if !rowMatches(row, where) {
					continue
				}
			}
			handles = append(handles, h)
		}
	}
	return handles, nil
}

func rowMatches(row, where Row) bool {
	for name, want := range where {
		got, ok := row[name]
		if !ok || !got.Equal(want) {
			return false
		}
	}
	return true
}

// Project returns every column of the row at h.
func (t *HeapTable) Project(h block.Handle) (Row, error) {
	return t.ProjectColumns(h, nil)
}

// ProjectColumns returns only the named columns of the row at h. A nil or
// empty columnNames returns every column.
func (t *HeapTable) ProjectColumns(h block.Handle, columnNames []string) (Row, error) {
	page, err := t.file.Get(h.Block)
	if err != nil {
		return nil, err
	}
	data, ok := page.Get(h.Record)
	if !ok {
		return nil, block.ErrBadRecordID
	}
	full, err := t.unmarshal(data)
	if err != nil {
		return nil, err
	}
	if len(columnNames) == 0 {
		return full, nil
	}
	projected := make(Row, len(columnNames))
	for _, name := range columnNames {
		if v, ok := full[name]; ok {
			projected[name] = v
		}
	}
	return projected, nil
}

func (t *HeapTable) marshal(row Row) ([]byte, error) {
	buf := make([]byte, 0, block.Size)
	for i, name := range t.columnNames {
		v, ok := row[name]
		if !ok {
			return nil, ErrNulls
		}
		switch t.columnAttributes[i].DataType {
		case TypeInt:
			var b [4]byte
			binary.LittleEndian.PutUint32(b[:], uint32(v.Int))
			buf = append(buf, b[:]...)
		case TypeText:
			var lb [2]byte
			binary.LittleEndian.PutUint16(lb[:], uint16(len(v.Text)))
			buf = append(buf, lb[:]...)
			buf = append(buf, v.Text...)
		default:
			return nil, ErrUnsupportedType
		}
	}
	if len(buf) > block.MaxRecordSize {
		return nil, ErrRowTooWide
	}
	return buf, nil
}

func (t *HeapTable) unmarshal(data []byte) (Row, error) {
	row := make(Row, len(t.columnNames))
	offset := 0
	for i, name := range t.columnNames {
		switch t.columnAttributes[i].DataType {
		case TypeInt:
			row[name] = IntValue(int32(binary.LittleEndian.Uint32(data[offset:])))
			offset += 4
		case TypeText:
			size := int(binary.LittleEndian.Uint16(data[offset:]))
			offset += 2
			row[name] = TextValue(string(data[offset : offset+size]))
			offset += size
		default:
			return nil, ErrUnsupportedType
		}
	}
	return row, nil
}

var _ DbRelation = (*HeapTable)(nil)
