package schema

import (
	"errors"
	"fmt"
)

// ErrNoData reports a schema that parsed to nothing: an empty file, a null
// document, an empty mapping, or groups without a single entry.
var ErrNoData = errors.New("schema: no data found")

const (
	ReasonMissing   = "missing"
	ReasonNotScalar = "not a scalar"
)

// ShapeError reports a document that does not follow the
// group → sequence → mapping layout.
type ShapeError struct {
	Location string
	Line     int
	Message  string
}

func (e *ShapeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("schema: %s:%d: %s", e.Location, e.Line, e.Message)
	}
	return fmt.Sprintf("schema: %s: %s", e.Location, e.Message)
}

// FieldError reports a field an entry does not provide in the expected form.
// It is raised while rendering, never while loading.
type FieldError struct {
	Group  string
	Index  int
	Field  string
	Line   int
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("schema: group %q entry %d (line %d): field %q %s", e.Group, e.Index, e.Line, e.Field, e.Reason)
}
