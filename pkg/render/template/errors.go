package template

import "fmt"

// Phases a template failure can occur in.
const (
	PhaseParse   = "parse"
	PhaseExecute = "execute"
)

// Error reports a template failure at a position in the template text. Line
// is 1-based and Column is the 0-based byte offset within the line; either is
// zero when the engine did not report it.
type Error struct {
	Phase   string
	Name    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("template %s %s:%d:%d: %s", e.Phase, e.Name, e.Line, e.Column, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("template %s %s:%d: %s", e.Phase, e.Name, e.Line, e.Message)
	default:
		return fmt.Sprintf("template %s %s: %s", e.Phase, e.Name, e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}
