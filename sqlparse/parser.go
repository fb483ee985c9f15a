package sqlparse

import (
	"strings"

	"github.com/jpl-au/heapdb/sqlast"
)

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) atEnd() bool { return p.peek().kind == tokEOF }

func (p *parser) keywordIs(word string) bool {
	t := p.peek()
	return t.kind == tokIdent && strings.EqualFold(t.text, word)
}

func (p *parser) expectKeyword(word string) error {
	if !p.keywordIs(word) {
		return syntaxErrorf("expected %q, found %q", word, p.peek().text)
	}
	p.next()
	return nil
}

func (p *parser) expectIdent(what string) (string, error) {
	t := p.peek()
	if t.kind != tokIdent {
		return "", syntaxErrorf("expected %s, found %q", what, t.text)
	}
	p.next()
	return t.text, nil
}

// Parse parses one SQL statement. Input must be exactly one of the seven
// recognized forms; anything else is a *SyntaxError.
func Parse(sql string) (sqlast.Statement, error) {
	p := &parser{toks: tokenize(sql)}
	if p.atEnd() {
		return nil, syntaxErrorf("empty statement")
	}

	switch {
	case p.keywordIs("CREATE"):
		return p.parseCreate()
	case p.keywordIs("DROP"):
		return p.parseDrop()
	case p.keywordIs("SHOW"):
		return p.parseShow()
	default:
		return nil, syntaxErrorf("unrecognized statement: %q", sql)
	}
}

func (p *parser) parseCreate() (sqlast.Statement, error) {
	p.next() // CREATE
	switch {
	case p.keywordIs("TABLE"):
		return p.parseCreateTable()
	case p.keywordIs("INDEX"):
		return p.parseCreateIndex()
	default:
		return nil, syntaxErrorf("expected TABLE or INDEX after CREATE, found %q", p.peek().text)
	}
}

func (p *parser) parseCreateTable() (sqlast.Statement, error) {
	p.next() // TABLE

	ifNotExists := false
	if p.keywordIs("IF") {
		p.next()
		if err := p.expectKeyword("NOT"); err != nil {
			return nil, err
		}
		if err := p.expectKeyword("EXISTS"); err != nil {
			return nil, err
		}
		ifNotExists = true
	}

	tableName, err := p.expectIdent("a table name")
	if err != nil {
		return nil, err
	}

	if p.peek().kind != tokLParen {
		return nil, syntaxErrorf("expected '(' after table name, found %q", p.peek().text)
	}
	p.next()

	var columns []sqlast.ColumnDefinition
	for {
		name, err := p.expectIdent("a column name")
		if err != nil {
			return nil, err
		}
		typeName, err := p.expectIdent("a column type")
		if err != nil {
			return nil, err
		}
		colType, err := parseColumnType(typeName)
		if err != nil {
			return nil, err
		}
		columns = append(columns, sqlast.ColumnDefinition{Name: name, Type: colType})

		if p.peek().kind == tokComma {
			p.next()
			continue
		}
		break
	}

	if p.peek().kind != tokRParen {
		return nil, syntaxErrorf("expected ')', found %q", p.peek().text)
	}
	p.next()

	if !p.atEnd() {
		return nil, syntaxErrorf("unexpected trailing input: %q", p.peek().text)
	}

	return sqlast.CreateTableStatement{TableName: tableName, Columns: columns, IfNotExists: ifNotExists}, nil
}

func parseColumnType(name string) (sqlast.ColumnType, error) {
	switch strings.ToUpper(name) {
	case "INT", "INTEGER":
		return sqlast.Int, nil
	case "TEXT", "VARCHAR", "CHAR":
		return sqlast.Text, nil
	case "DOUBLE", "FLOAT":
		return sqlast.Double, nil
	case "BOOLEAN", "BOOL":
		return sqlast.Boolean, nil
	default:
		return 0, syntaxErrorf("unrecognized column type %q", name)
	}
}

func (p *parser) parseCreateIndex() (sqlast.Statement, error) {
	p.next() // INDEX
	indexName, err := p.expectIdent("an index name")
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("ON"); err != nil {
		return nil, err
	}
	tableName, err := p.expectIdent("a table name")
	if err != nil {
		return nil, err
	}

	// USING may appear on either side of the column list; both spellings
	// show up in the wild.
	indexType := "BTREE"
	if p.keywordIs("USING") {
		p.next()
		t, err := p.expectIdent("an index type")
		if err != nil {
			return nil, err
		}
		indexType = strings.ToUpper(t)
	}

	if p.peek().kind != tokLParen {
		return nil, syntaxErrorf("expected '(' before index columns, found %q", p.peek().text)
	}
	p.next()

	var columnNames []string
	for {
		name, err := p.expectIdent("a column name")
		if err != nil {
			return nil, err
		}
		columnNames = append(columnNames, name)
		if p.peek().kind == tokComma {
			p.next()
			continue
		}
		break
	}
	if p.peek().kind != tokRParen {
		return nil, syntaxErrorf("expected ')', found %q", p.peek().text)
	}
	p.next()

	if p.keywordIs("USING") {
		p.next()
		t, err := p.expectIdent("an index type")
		if err != nil {
			return nil, err
		}
		indexType = strings.ToUpper(t)
	}

	if !p.atEnd() {
		return nil, syntaxErrorf("unexpected trailing input: %q", p.peek().text)
	}

	return sqlast.CreateIndexStatement{
		IndexName: indexName, TableName: tableName, IndexType: indexType, ColumnNames: columnNames,
	}, nil
}

func (p *parser) parseDrop() (sqlast.Statement, error) {
	p.next() // DROP
	switch {
	case p.keywordIs("TABLE"):
		p.next()
		name, err := p.expectIdent("a table name")
		if err != nil {
			return nil, err
		}
		if !p.atEnd() {
			return nil, syntaxErrorf("unexpected trailing input: %q", p.peek().text)
		}
		return sqlast.DropTableStatement{TableName: name}, nil
	case p.keywordIs("INDEX"):
		p.next()
		indexName, err := p.expectIdent("an index name")
		if err != nil {
			return nil, err
		}
		// Both DROP INDEX fx ON foo and DROP INDEX fx FROM foo circulate;
		// accept either keyword.
		if p.keywordIs("ON") || p.keywordIs("FROM") {
			p.next()
		} else {
			return nil, syntaxErrorf("expected ON or FROM after the index name, found %q", p.peek().text)
		}
		tableName, err := p.expectIdent("a table name")
		if err != nil {
			return nil, err
		}
		if !p.atEnd() {
			return nil, syntaxErrorf("unexpected trailing input: %q", p.peek().text)
		}
		return sqlast.DropIndexStatement{IndexName: indexName, TableName: tableName}, nil
	default:
		return nil, syntaxErrorf("expected TABLE or INDEX after DROP, found %q", p.peek().text)
	}
}

func (p *parser) parseShow() (sqlast.Statement, error) {
	p.next() // SHOW
	switch {
	case p.keywordIs("TABLES"):
		p.next()
		if !p.atEnd() {
			return nil, syntaxErrorf("unexpected trailing input: %q", p.peek().text)
		}
		return sqlast.ShowTablesStatement{}, nil
	case p.keywordIs("COLUMNS"):
		p.next()
		var name string
		if p.keywordIs("FROM") {
			p.next()
			n, err := p.expectIdent("a table name")
			if err != nil {
				return nil, err
			}
			name = n
		}
		if !p.atEnd() {
			return nil, syntaxErrorf("unexpected trailing input: %q", p.peek().text)
		}
		return sqlast.ShowColumnsStatement{TableName: name}, nil
	case p.keywordIs("INDEX"):
		p.next()
		if err := p.expectKeyword("FROM"); err != nil {
			return nil, err
		}
		name, err := p.expectIdent("a table name")
		if err != nil {
			return nil, err
		}
		if !p.atEnd() {
			return nil, syntaxErrorf("unexpected trailing input: %q", p.peek().text)
		}
		return sqlast.ShowIndexStatement{TableName: name}, nil
	default:
		return nil, syntaxErrorf("expected TABLES, COLUMNS, or INDEX after SHOW, found %q", p.peek().text)
	}
}
