package sqlparse

import "fmt"

// SyntaxError is returned by Parse for any input that isn't one of the
// seven recognized statement forms.
type SyntaxError struct {
	Msg string
}

func (e *SyntaxError) Error() string { return "sqlparse: " + e.Msg }

func syntaxErrorf(format string, args ...any) error {
	return &SyntaxError{Msg: fmt.Sprintf(format, args...)}
}
