package heap

// DataType enumerates the column types this relation layer knows how to
// marshal. Column declarations may name other SQL types (see sqlast); those
// surface as ErrUnsupportedType the moment a row is actually inserted.
type DataType int

const (
	TypeInt DataType = iota
	TypeText
	TypeBoolean
	// TypeDouble round-trips through String/ParseDataType but has no
	// marshaled form; a relation declared with one rejects every insert
	// with ErrUnsupportedType.
	TypeDouble
)

// String renders a DataType the way it is stored in _columns.data_type and
// echoed back by SHOW COLUMNS.
func (d DataType) String() string {
	switch d {
	case TypeInt:
		return "INT"
	case TypeText:
		return "TEXT"
	case TypeBoolean:
		return "BOOLEAN"
	case TypeDouble:
		return "DOUBLE"
	default:
		return "UNKNOWN"
	}
}

// ParseDataType is the inverse of String, used when rehydrating a table's
// schema from the _columns catalog.
func ParseDataType(s string) (DataType, error) {
	switch s {
	case "INT":
		return TypeInt, nil
	case "TEXT":
		return TypeText, nil
	case "BOOLEAN":
		return TypeBoolean, nil
	case "DOUBLE":
		return TypeDouble, nil
	default:
		return 0, ErrUnsupportedType
	}
}

// ColumnAttribute is a column's type declaration within a relation schema.
type ColumnAttribute struct {
	DataType DataType
}

// Value is a single typed cell. Exactly one of Int, Text, Bool is
// meaningful, selected by Type.
type Value struct {
	Type DataType
	Int  int32
	Text string
	Bool bool
}

func IntValue(n int32) Value   { return Value{Type: TypeInt, Int: n} }
func TextValue(s string) Value { return Value{Type: TypeText, Text: s} }
func BoolValue(b bool) Value   { return Value{Type: TypeBoolean, Bool: b} }

// Equal reports whether two values carry the same type and content. Used by
// SelectWhere's equality-only predicate matching.
func (v Value) Equal(other Value) bool {
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case TypeInt:
		return v.Int == other.Int
	case TypeText:
		return v.Text == other.Text
	case TypeBoolean:
		return v.Bool == other.Bool
	default:
		return false
	}
}

// Row is a mapping from column name to value, the unit of insert, select,
// and projection.
type Row map[string]Value
