package template_test

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-blockgen/pkg/render/template"
	"github.com/goliatone/go-blockgen/pkg/render/template/gotemplate"
	"github.com/goliatone/go-blockgen/pkg/testsupport"
)

//go:embed testdata/templates/*.tmpl
var embeddedTemplates embed.FS

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "hello.golden"))
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func TestGoTemplateEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-global", nil, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "use-global.golden"))
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}

	if err := engine.GlobalContext([]string{"nope"}); err == nil {
		t.Fatalf("expected error for non-map global data")
	}
}

func TestGoTemplateEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout", func(input any, param any) (any, error) {
		if input == nil {
			return "", nil
		}
		suffix := "!"
		if param != nil {
			suffix = fmt.Sprint(param)
		}
		return strings.ToUpper(fmt.Sprint(input)) + suffix, nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"}, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "use-filter.golden"))
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}

	if err := engine.RegisterFilter("shout", func(any, any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate filter error")
	}
}

func TestGoTemplateEngine_MissingKeyReturnsPartialOutput(t *testing.T) {
	engine := newEngine(t)

	var buf bytes.Buffer
	out, err := engine.RenderString("a={{.a}} b={{.b}} c", map[string]any{"a": 1}, &buf)
	if err == nil {
		t.Fatalf("expected missing key error")
	}
	if out != "a=1 b=" {
		t.Fatalf("expected partial output, got %q", out)
	}
	if buf.Len() != 0 {
		t.Fatalf("writers must not receive failed output, got %q", buf.String())
	}

	var tmplErr *template.Error
	if !errors.As(err, &tmplErr) {
		t.Fatalf("expected *template.Error, got %T", err)
	}
	if tmplErr.Phase != template.PhaseExecute || tmplErr.Name != "inline" || tmplErr.Line != 1 || tmplErr.Column == 0 {
		t.Fatalf("unexpected error position %+v", tmplErr)
	}
	if !strings.Contains(tmplErr.Message, `"b"`) {
		t.Fatalf("expected missing key in message, got %q", tmplErr.Message)
	}
}

func TestGoTemplateEngine_ErrorLines(t *testing.T) {
	engine := newEngine(t)

	_, err := engine.RenderContent("factory", "line one\n{{.missing}}\n", map[string]any{})
	var tmplErr *template.Error
	if !errors.As(err, &tmplErr) || tmplErr.Line != 2 || tmplErr.Name != "factory" {
		t.Fatalf("expected execute error on line 2, got %v", err)
	}

	_, err = engine.RenderString("one\ntwo\n{{.a", nil)
	if !errors.As(err, &tmplErr) || tmplErr.Phase != template.PhaseParse || tmplErr.Line != 3 {
		t.Fatalf("expected parse error on line 3, got %v", err)
	}

	_, err = engine.RenderString("{{nope .a}}", nil)
	if !errors.As(err, &tmplErr) || tmplErr.Phase != template.PhaseParse {
		t.Fatalf("expected undefined function to fail at parse, got %v", err)
	}
}

func TestGoTemplateEngine_StructFieldsAreStrict(t *testing.T) {
	engine := newEngine(t)

	type block struct{ Name string }
	_, err := engine.RenderString("{{.Name}}{{.Missing}}", block{Name: "acos"})
	if err == nil {
		t.Fatalf("expected undefined field error")
	}

	out, err := engine.RenderString("{{.Name | lowerfirst}} {{globals}}", block{Name: "Acos"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "acos map[]" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestGoTemplateEngine_Render(t *testing.T) {
	engine := newEngine(t)

	out, err := engine.Render("{{.name | trim}}", map[string]any{"name": "  Ada "})
	if err != nil || out != "Ada" {
		t.Fatalf("inline render = %q, %v", out, err)
	}
	out, err = engine.Render("hello", map[string]any{"name": "Ada"})
	if err != nil || out != "Hello Ada!\n" {
		t.Fatalf("named render = %q, %v", out, err)
	}
}

func TestGoTemplateEngine_Options(t *testing.T) {
	if _, err := gotemplate.New(gotemplate.WithMissingKey("explode")); err == nil {
		t.Fatalf("expected invalid missingkey error")
	}
	if _, err := gotemplate.New(gotemplate.WithBaseDir(filepath.Join(t.TempDir(), "missing"))); err == nil {
		t.Fatalf("expected missing base dir error")
	}
	if _, err := gotemplate.New(gotemplate.WithTemplateFunc(map[string]any{"bad": 42})); err == nil {
		t.Fatalf("expected non-function error")
	}

	engine, err := gotemplate.New(
		gotemplate.WithGlobalData(map[string]any{"year": 2024}),
		gotemplate.WithTemplateFunc(map[string]any{"double": func(v int) int { return v * 2 }}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	out, err := engine.RenderString("{{double .year}}", nil)
	if err != nil || out != "4048" {
		t.Fatalf("render = %q, %v", out, err)
	}
	if _, err := engine.RenderTemplate("hello", nil); err == nil {
		t.Fatalf("expected error without template source")
	}
}

func TestGoTemplateEngine_BaseDir(t *testing.T) {
	dir := filepath.Dir(testsupport.WriteSchema(t, "banner.tmpl", "// {{.name}}\n"))

	engine, err := gotemplate.New(gotemplate.WithBaseDir(dir))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	out, err := engine.RenderTemplate("banner.tmpl", map[string]any{"name": "volk"})
	if err != nil || out != "// volk\n" {
		t.Fatalf("render = %q, %v", out, err)
	}
	if _, err := engine.RenderTemplate("absent", nil); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := gotemplate.New(gotemplate.WithFS(templatesFS))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
