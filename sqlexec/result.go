package sqlexec

import (
	"strconv"
	"strings"

	goccyjson "github.com/goccy/go-json"

	"github.com/jpl-au/heapdb/heap"
)

// QueryResult is the outcome of one executed statement: an optional result
// set (for the SHOW forms) plus a human-readable message (for DDL).
type QueryResult struct {
	ColumnNames []string
	Rows        []heap.Row
	Message     string
}

// String renders the result the way the SQL shell prints it: a header row,
// a separator, one line per row, then the message.
func (r *QueryResult) String() string {
	var b strings.Builder
	if len(r.ColumnNames) > 0 {
		b.WriteString(strings.Join(r.ColumnNames, " | "))
		b.WriteString("\n")
		b.WriteString(strings.Repeat("-", headerWidth(r.ColumnNames)))
		b.WriteString("\n")
		for _, row := range r.Rows {
			cells := make([]string, len(r.ColumnNames))
			for i, name := range r.ColumnNames {
				cells[i] = cellText(row[name])
			}
			b.WriteString(strings.Join(cells, " | "))
			b.WriteString("\n")
		}
	}
	b.WriteString(r.Message)
	return b.String()
}

func headerWidth(columnNames []string) int {
	n := 0
	for i, name := range columnNames {
		if i > 0 {
			n += 3
		}
		n += len(name)
	}
	if n == 0 {
		n = 1
	}
	return n
}

func cellText(v heap.Value) string {
	switch v.Type {
	case heap.TypeInt:
		return strconv.Itoa(int(v.Int))
	case heap.TypeText:
		return strconv.Quote(v.Text)
	case heap.TypeBoolean:
		return strconv.FormatBool(v.Bool)
	default:
		return ""
	}
}

// jsonRow is the JSON-friendly shape of one heap.Row, flattening Value down
// to whichever of its fields is meaningful for its Type.
type jsonRow map[string]any

func toJSONRow(row heap.Row) jsonRow {
	out := make(jsonRow, len(row))
	for name, v := range row {
		switch v.Type {
		case heap.TypeInt:
			out[name] = v.Int
		case heap.TypeText:
			out[name] = v.Text
		case heap.TypeBoolean:
			out[name] = v.Bool
		}
	}
	return out
}

// JSON renders the result as a JSON object: {"columns":[...],"rows":[...],
// "message":"..."}. Exposed for callers that want structured output instead
// of the text table — the REPL itself always uses String.
func (r *QueryResult) JSON() ([]byte, error) {
	rows := make([]jsonRow, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = toJSONRow(row)
	}
	return goccyjson.Marshal(struct {
		Columns []string  `json:"columns,omitempty"`
		Rows    []jsonRow `json:"rows,omitempty"`
		Message string    `json:"message,omitempty"`
	}{Columns: r.ColumnNames, Rows: rows, Message: r.Message})
}
