// Package sqlparse is a small hand-rolled recursive-descent parser for the
// seven DDL and SHOW statement forms sqlexec understands, plus Unparse, a
// pretty-printer that renders a parsed statement back to canonical SQL text.
package sqlparse

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	text string
}

func isDelim(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '(', ')', ',':
		return true
	default:
		return false
	}
}

func tokenize(s string) []token {
	var toks []token
	i, n := 0, len(s)
	for i < n {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		case c == ',':
			toks = append(toks, token{tokComma, ","})
			i++
		default:
			j := i
			for j < n && !isDelim(s[j]) {
				j++
			}
			toks = append(toks, token{tokIdent, s[i:j]})
			i = j
		}
	}
	toks = append(toks, token{tokEOF, ""})
	return toks
}
