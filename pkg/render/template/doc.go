// Package template defines the engine contract used to expand block schemas
// into generated source. The gotemplate subpackage provides the
// text/template-backed implementation.
package template
