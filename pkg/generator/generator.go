package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	internalLoader "github.com/goliatone/go-blockgen/internal/schema/loader"
	"github.com/goliatone/go-blockgen/pkg/blocks"
	"github.com/goliatone/go-blockgen/pkg/preamble"
	"github.com/goliatone/go-blockgen/pkg/render"
	"github.com/goliatone/go-blockgen/pkg/render/template"
	"github.com/goliatone/go-blockgen/pkg/schema"
)

// RenderErrorPolicy decides what Generate does after a render failure. The
// diagnostic trace is written under every policy.
type RenderErrorPolicy int

const (
	// ReportAndContinue returns the partial body with Result.RenderErr set
	// and a nil error.
	ReportAndContinue RenderErrorPolicy = iota
	// FailOnRenderError returns the render error.
	FailOnRenderError
)

func (p RenderErrorPolicy) String() string {
	switch p {
	case ReportAndContinue:
		return "report-and-continue"
	case FailOnRenderError:
		return "fail"
	default:
		return fmt.Sprintf("RenderErrorPolicy(%d)", int(p))
	}
}

// Option customises the generator configuration.
type Option func(*Generator)

// WithLoader injects a custom schema loader.
func WithLoader(loader schema.Loader) Option {
	return func(g *Generator) {
		g.loader = loader
	}
}

// WithEngine replaces the template engine.
func WithEngine(engine template.TemplateRenderer) Option {
	return func(g *Generator) {
		g.engine = engine
	}
}

// WithKinds sets the typed block kinds used to build the render context.
func WithKinds(kinds *blocks.Registry) Option {
	return func(g *Generator) {
		g.kinds = kinds
	}
}

// WithPreamble overrides the banner placed before the rendered body.
func WithPreamble(cfg preamble.Config) Option {
	return func(g *Generator) {
		g.preamble = cfg
	}
}

// WithClock overrides the time source used for the banner.
func WithClock(clock func() time.Time) Option {
	return func(g *Generator) {
		g.clock = clock
	}
}

// WithDiagnostics sets where render diagnostics are written. Defaults to
// os.Stderr.
func WithDiagnostics(w io.Writer) Option {
	return func(g *Generator) {
		g.diagnostics = w
	}
}

// WithRenderErrorPolicy selects how render failures are surfaced.
func WithRenderErrorPolicy(policy RenderErrorPolicy) Option {
	return func(g *Generator) {
		g.policy = policy
	}
}

// Generator runs the load → context → render pipeline. It holds no state
// between calls.
type Generator struct {
	loader        schema.Loader
	engine        template.TemplateRenderer
	kinds         *blocks.Registry
	renderer      *render.Renderer
	preamble      preamble.Config
	clock         func() time.Time
	diagnostics   io.Writer
	policy        RenderErrorPolicy
	initialiseErr error
}

// New constructs a Generator applying any provided options. Missing
// dependencies are initialised with the built-in implementations.
func New(options ...Option) *Generator {
	g := &Generator{
		preamble: preamble.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(g)
	}
	g.applyDefaults()
	return g
}

// Request describes one generation run.
type Request struct {
	// Source identifies where the schema lives. Optional when Document is
	// supplied.
	Source schema.Source

	// Document bypasses the loader when the schema is already parsed.
	Document *schema.Document

	// Template is the template document, read once by the caller.
	Template *render.Template
}

// Result carries the generated text. Text is Preamble followed by Body.
type Result struct {
	Text        string
	Preamble    string
	Body        string
	GeneratedAt time.Time
	// RenderErr is the render failure reported under ReportAndContinue. Body
	// then holds the partial output.
	RenderErr error
}

// Generate loads the schema, renders the template and prepends the banner.
// Load failures and a missing template are always returned as errors.
func (g *Generator) Generate(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("generator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := g.initialiseErr; err != nil {
		return Result{}, err
	}
	if req.Template == nil {
		return Result{}, errors.New("generator: template is required")
	}

	doc, err := g.resolveDocument(ctx, req)
	if err != nil {
		return Result{}, err
	}

	now := g.clock()
	result := Result{
		Preamble:    preamble.Render(g.preamble, now),
		GeneratedAt: now,
	}

	body, renderErr := g.render(doc, req.Template)
	result.Body = body
	result.Text = result.Preamble + body
	if renderErr == nil {
		return result, nil
	}

	result.RenderErr = renderErr
	if g.diagnostics != nil {
		_, _ = io.WriteString(g.diagnostics, render.Diagnose(renderErr, req.Template))
	}
	if g.policy == FailOnRenderError {
		return result, fmt.Errorf("generator: render %s: %w", req.Template.Name, renderErr)
	}
	return result, nil
}

func (g *Generator) render(doc *schema.Document, tmpl *render.Template) (string, error) {
	rc, err := g.renderer.Context(doc)
	if err != nil {
		return "", err
	}
	return g.renderer.Render(tmpl, rc)
}

func (g *Generator) resolveDocument(ctx context.Context, req Request) (*schema.Document, error) {
	if req.Document != nil {
		return req.Document, nil
	}
	if req.Source == nil {
		return nil, errors.New("generator: source or document is required")
	}
	doc, err := g.loader.Load(ctx, req.Source)
	if err != nil {
		return nil, fmt.Errorf("generator: load schema: %w", err)
	}
	return doc, nil
}

func (g *Generator) applyDefaults() {
	if g.loader == nil {
		g.loader = internalLoader.New(schema.NewLoaderOptions())
	}
	if g.kinds == nil {
		g.kinds = blocks.DefaultRegistry()
	}
	if g.clock == nil {
		g.clock = time.Now
	}
	if g.diagnostics == nil {
		g.diagnostics = os.Stderr
	}

	renderer, err := render.NewRenderer(render.WithEngine(g.engine), render.WithKinds(g.kinds))
	if err != nil {
		g.initialiseErr = fmt.Errorf("generator: default renderer: %w", err)
		return
	}
	g.renderer = renderer
}
