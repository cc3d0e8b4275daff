package gotemplate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	texttemplate "text/template"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-blockgen/pkg/render/template"
)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	baseDir    string
	templates  fs.FS
	extension  string
	missingKey string
	templateFn map[string]any
	globalData map[string]any
}

// WithBaseDir loads named templates from a directory on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads named templates from an fs.FS. It is consulted after the base
// directory when both are set.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the extension appended to template names.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithMissingKey sets the text/template missingkey mode: "error" (default),
// "zero", "default" or "invalid".
func WithMissingKey(mode string) Option {
	return func(cfg *config) {
		cfg.missingKey = strings.TrimSpace(mode)
	}
}

// WithTemplateFunc registers helper functions available to every template.
func WithTemplateFunc(funcs map[string]any) Option {
	return func(cfg *config) {
		if len(funcs) == 0 {
			return
		}
		if cfg.templateFn == nil {
			cfg.templateFn = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			cfg.templateFn[strings.TrimSpace(name)] = fn
		}
	}
}

// WithGlobalData seeds values merged under the data of every render.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// Engine satisfies template.TemplateRenderer on top of text/template. Parsed
// named templates are cached per engine.
type Engine struct {
	mu sync.RWMutex

	sources    []fs.FS
	templates  map[string]*texttemplate.Template
	funcs      texttemplate.FuncMap
	globals    map[string]any
	tplExt     string
	missingKey string
}

var _ template.TemplateRenderer = (*Engine)(nil)

// Valuer is implemented by data types that expose their values as a map, so
// they can be merged with global data.
type Valuer interface {
	Values() map[string]any
}

// New constructs an Engine. Named templates require WithBaseDir or WithFS;
// inline content renders without either.
func New(options ...Option) (*Engine, error) {
	cfg := &config{
		extension:  ".tmpl",
		missingKey: "error",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	switch cfg.missingKey {
	case "error", "zero", "default", "invalid":
	default:
		return nil, fmt.Errorf("gotemplate: unsupported missingkey mode %q", cfg.missingKey)
	}

	engine := &Engine{
		templates:  make(map[string]*texttemplate.Template),
		funcs:      make(texttemplate.FuncMap),
		globals:    make(map[string]any),
		tplExt:     cfg.extension,
		missingKey: cfg.missingKey,
	}
	if cfg.baseDir != "" {
		info, err := os.Stat(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: base dir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("gotemplate: base dir %q is not a directory", cfg.baseDir)
		}
		engine.sources = append(engine.sources, os.DirFS(cfg.baseDir))
	}
	if cfg.templates != nil {
		engine.sources = append(engine.sources, cfg.templates)
	}

	engine.registerDefaultFuncs()

	if err := engine.GlobalContext(cfg.globalData); err != nil {
		return nil, fmt.Errorf("gotemplate: apply global data: %w", err)
	}
	for name, fn := range cfg.templateFn {
		if err := engine.registerTemplateFunc(name, fn); err != nil {
			return nil, fmt.Errorf("gotemplate: register template func %q: %w", name, err)
		}
	}

	return engine, nil
}

// Render renders name as inline content when it contains actions, otherwise
// as a named template.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	if isTemplateContent(name) {
		return e.RenderString(name, data, out...)
	}
	return e.RenderTemplate(name, data, out...)
}

// RenderTemplate loads, caches and executes the named template.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	templatePath := name
	if !strings.HasSuffix(templatePath, e.tplExt) {
		templatePath += e.tplExt
	}

	tmpl, err := e.getTemplate(templatePath)
	if err != nil {
		return "", err
	}
	return e.execute(tmpl, data, out)
}

// RenderString executes inline template content.
func (e *Engine) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	return e.RenderContent("inline", templateContent, data, out...)
}

// RenderContent executes inline content parsed under name.
func (e *Engine) RenderContent(name, templateContent string, data any, out ...io.Writer) (string, error) {
	if e == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	tmpl, err := e.parse(name, templateContent)
	if err != nil {
		return "", err
	}
	return e.execute(tmpl, data, out)
}

// RegisterFilter registers a helper callable as {{ .v | name }} or
// {{ .v | name param }}. Cached templates are dropped so later renders see it.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}

	filter := func(args ...any) (any, error) {
		switch len(args) {
		case 0:
			return fn(nil, nil)
		case 1:
			return fn(args[0], nil)
		case 2:
			// pipelines pass the piped value last
			return fn(args[1], args[0])
		default:
			return nil, fmt.Errorf("filter %q takes at most one parameter, got %d", trimmed, len(args)-1)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.funcs[trimmed]; exists {
		return fmt.Errorf("gotemplate: filter %q already exists", trimmed)
	}
	e.funcs[trimmed] = filter
	e.templates = make(map[string]*texttemplate.Template)
	return nil
}

// GlobalContext merges data into the values seen by every render. Data must
// be a map[string]any or a Valuer.
func (e *Engine) GlobalContext(data any) error {
	if e == nil {
		return errors.New("gotemplate: engine is nil")
	}
	if data == nil {
		return nil
	}

	values, ok := asMap(data)
	if !ok {
		return fmt.Errorf("gotemplate: global data must be a map, got %T", data)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for key, value := range values {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		e.globals[key] = value
	}
	return nil
}

func (e *Engine) registerTemplateFunc(name string, fn any) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || fn == nil {
		return nil
	}
	if err := checkFunc(fn); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.funcs[trimmed] = fn
	e.templates = make(map[string]*texttemplate.Template)
	return nil
}

func (e *Engine) registerDefaultFuncs() {
	e.funcs["trim"] = funcTrim
	e.funcs["lowerfirst"] = funcLowerFirst
	e.funcs["globals"] = func() map[string]any {
		e.mu.RLock()
		defer e.mu.RUnlock()
		return copyMap(e.globals)
	}
}

func (e *Engine) getTemplate(path string) (*texttemplate.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	sources := e.sources
	e.mu.RUnlock()

	if len(sources) == 0 {
		return nil, fmt.Errorf("gotemplate: load template %q: no base dir or fs.FS configured", path)
	}

	var content []byte
	for _, files := range sources {
		data, err := fs.ReadFile(files, path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("gotemplate: load template %q: %w", path, err)
		}
		content = data
		break
	}
	if content == nil {
		return nil, fmt.Errorf("gotemplate: load template %q: %w", path, fs.ErrNotExist)
	}

	tmpl, err := e.parse(path, string(content))
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if cached, ok := e.templates[path]; ok {
		return cached, nil
	}
	e.templates[path] = tmpl
	return tmpl, nil
}

func (e *Engine) parse(name, content string) (*texttemplate.Template, error) {
	e.mu.RLock()
	funcs := make(texttemplate.FuncMap, len(e.funcs))
	for key, fn := range e.funcs {
		funcs[key] = fn
	}
	e.mu.RUnlock()

	tmpl, err := texttemplate.New(name).
		Option("missingkey=" + e.missingKey).
		Funcs(funcs).
		Parse(content)
	if err != nil {
		return nil, locate(template.PhaseParse, name, err)
	}
	return tmpl, nil
}

// execute runs tmpl and returns whatever was rendered, even on failure.
// Writers only receive successful output.
func (e *Engine) execute(tmpl *texttemplate.Template, data any, out []io.Writer) (string, error) {
	viewContext := e.context(data)

	var buf bytes.Buffer
	err := tmpl.Execute(&buf, viewContext)
	rendered := buf.String()
	if err != nil {
		return rendered, locate(template.PhaseExecute, tmpl.Name(), err)
	}

	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, rendered); err != nil {
			return rendered, err
		}
	}
	return rendered, nil
}

// context merges globals under map data. Other values are passed through as
// dot; their templates reach globals with the globals function.
func (e *Engine) context(data any) any {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if data == nil {
		return copyMap(e.globals)
	}
	values, ok := asMap(data)
	if !ok {
		return data
	}
	merged := copyMap(e.globals)
	for key, value := range values {
		merged[key] = value
	}
	return merged
}

var positionPattern = regexp.MustCompile(`(?s)^template: ([^:]*):(\d+):(?:(\d+):)?\s*(.*)$`)

// locate converts a text/template error into a *template.Error carrying the
// position reported by the engine.
func locate(phase, name string, err error) error {
	out := &template.Error{Phase: phase, Name: name, Message: err.Error(), Err: err}
	m := positionPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return out
	}
	out.Name = m[1]
	out.Line, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		out.Column, _ = strconv.Atoi(m[3])
	}
	out.Message = m[4]
	return out
}

func asMap(data any) (map[string]any, bool) {
	switch v := data.(type) {
	case map[string]any:
		return v, true
	case Valuer:
		return v.Values(), true
	default:
		return nil, false
	}
}

func copyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func checkFunc(fn any) error {
	rt := reflect.TypeOf(fn)
	if rt == nil || rt.Kind() != reflect.Func {
		return fmt.Errorf("value of type %T is not a function", fn)
	}
	errType := reflect.TypeOf((*error)(nil)).Elem()
	switch {
	case rt.NumOut() == 1:
		return nil
	case rt.NumOut() == 2 && rt.Out(1) == errType:
		return nil
	default:
		return errors.New("function must return one value, or a value and an error")
	}
}

func isTemplateContent(s string) bool {
	return strings.Contains(s, "{{")
}

func funcTrim(in any) string {
	if in == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(in))
}

// funcLowerFirst lowers the first non-space rune and keeps leading space.
func funcLowerFirst(in any) string {
	if in == nil {
		return ""
	}
	t := fmt.Sprint(in)
	idx := strings.IndexFunc(t, func(r rune) bool { return !unicode.IsSpace(r) })
	if idx < 0 {
		return t
	}
	r, size := utf8.DecodeRuneInString(t[idx:])
	return t[:idx] + string(unicode.ToLower(r)) + t[idx+size:]
}
