package render

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-blockgen/pkg/blocks"
	"github.com/goliatone/go-blockgen/pkg/render/template"
	"github.com/goliatone/go-blockgen/pkg/render/template/gotemplate"
	"github.com/goliatone/go-blockgen/pkg/schema"
)

// Phases a render can fail in.
const (
	PhaseContext = "context"
	PhaseParse   = template.PhaseParse
	PhaseExecute = template.PhaseExecute
)

// Error describes a failed render. Partial holds the text the engine produced
// before it stopped.
type Error struct {
	Phase    string
	Template string
	Line     int
	Column   int
	Partial  string
	Err      error
}

func (e *Error) Error() string {
	msg := "unknown error"
	if e.Err != nil {
		msg = e.Err.Error()
		var tmplErr *template.Error
		if errors.As(e.Err, &tmplErr) && tmplErr.Message != "" {
			msg = tmplErr.Message
		}
	}
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("render: %s %s:%d:%d: %s", e.Phase, e.Template, e.Line, e.Column, msg)
	case e.Line > 0:
		return fmt.Sprintf("render: %s %s:%d: %s", e.Phase, e.Template, e.Line, msg)
	case e.Template != "":
		return fmt.Sprintf("render: %s %s: %s", e.Phase, e.Template, msg)
	default:
		return fmt.Sprintf("render: %s: %s", e.Phase, msg)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithEngine replaces the text/template engine.
func WithEngine(engine template.TemplateRenderer) Option {
	return func(r *Renderer) {
		if engine != nil {
			r.engine = engine
		}
	}
}

// WithKinds sets the registry used to decode groups into typed records.
func WithKinds(kinds *blocks.Registry) Option {
	return func(r *Renderer) {
		if kinds != nil {
			r.kinds = kinds
		}
	}
}

// Renderer expands a template against a block context.
type Renderer struct {
	engine template.TemplateRenderer
	kinds  *blocks.Registry
}

// NewRenderer builds a Renderer. Without options it uses a strict
// text/template engine and blocks.DefaultRegistry.
func NewRenderer(options ...Option) (*Renderer, error) {
	r := &Renderer{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.engine == nil {
		engine, err := gotemplate.New()
		if err != nil {
			return nil, fmt.Errorf("render: configure engine: %w", err)
		}
		r.engine = engine
	}
	if r.kinds == nil {
		r.kinds = blocks.DefaultRegistry()
	}
	return r, nil
}

// Context builds the render context for doc. Decode failures are reported as
// an *Error in the context phase.
func (r *Renderer) Context(doc *schema.Document) (Context, error) {
	rc, err := BuildContext(doc, r.kinds)
	if err != nil {
		return Context{}, &Error{Phase: PhaseContext, Err: err}
	}
	return rc, nil
}

// Render expands tmpl with rc. On failure the returned error is an *Error and
// the returned string is the partial output, which may be empty.
func (r *Renderer) Render(tmpl *Template, rc Context) (string, error) {
	if tmpl == nil {
		return "", errors.New("render: template is nil")
	}

	out, err := r.engine.RenderContent(tmpl.Name, tmpl.Text, rc.Values())
	if err == nil {
		return out, nil
	}

	renderErr := &Error{Phase: PhaseExecute, Template: tmpl.Name, Partial: out, Err: err}
	var tmplErr *template.Error
	if errors.As(err, &tmplErr) {
		renderErr.Phase = tmplErr.Phase
		renderErr.Line = tmplErr.Line
		renderErr.Column = tmplErr.Column
	}
	return out, renderErr
}
