package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-blockgen/pkg/schema"
)

const sampleSchema = `SimpleBlocks:
  - name: Add
  - name: Sub
`

func TestLoader_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blocks.yaml")
	if err := os.WriteFile(path, []byte(sampleSchema), 0o644); err != nil {
		t.Fatalf("write schema: %v", err)
	}

	doc, err := New(schema.NewLoaderOptions()).Load(context.Background(), schema.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"SimpleBlocks"}, doc.Names()); diff != "" {
		t.Fatalf("group names mismatch (-want +got):\n%s", diff)
	}
	if doc.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", doc.Len())
	}
}

func TestLoader_LoadFileMissing(t *testing.T) {
	_, err := New(schema.NewLoaderOptions()).Load(context.Background(), schema.SourceFromFile(filepath.Join(t.TempDir(), "nope.yaml")))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoader_LoadFS(t *testing.T) {
	files := fstest.MapFS{
		"schemas/blocks.yaml": {Data: []byte(sampleSchema)},
	}
	l := New(schema.NewLoaderOptions(schema.WithFileSystem(files)))

	doc, err := l.Load(context.Background(), schema.SourceFromFS("schemas/blocks.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Location() != "schemas/blocks.yaml" {
		t.Fatalf("unexpected location %q", doc.Location())
	}
}

func TestLoader_LoadFSWithoutFileSystem(t *testing.T) {
	_, err := New(schema.NewLoaderOptions()).Load(context.Background(), schema.SourceFromFS("blocks.yaml"))
	if err == nil {
		t.Fatalf("expected error without fs")
	}
}

func TestLoader_EmptyFileIsNoData(t *testing.T) {
	files := fstest.MapFS{"empty.yaml": {Data: []byte("# nothing here\n")}}
	l := New(schema.NewLoaderOptions(schema.WithFileSystem(files)))

	_, err := l.Load(context.Background(), schema.SourceFromFS("empty.yaml"))
	if !errors.Is(err, schema.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestLoader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files := fstest.MapFS{"blocks.yaml": {Data: []byte(sampleSchema)}}
	l := New(schema.NewLoaderOptions(schema.WithFileSystem(files)))
	if _, err := l.Load(ctx, schema.SourceFromFS("blocks.yaml")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoader_HTTPDisabledByDefault(t *testing.T) {
	_, err := New(schema.NewLoaderOptions()).Load(context.Background(), schema.SourceFromURL("http://example.invalid/blocks.yaml"))
	if err == nil {
		t.Fatalf("expected http disabled error")
	}
}

func TestLoader_LoadHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/blocks.yaml" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write([]byte(sampleSchema))
	}))
	defer server.Close()

	l := New(schema.NewLoaderOptions(schema.WithHTTPFallback(5 * time.Second)))

	doc, err := l.Load(context.Background(), schema.SourceFromURL(server.URL+"/blocks.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", doc.Len())
	}

	if _, err := l.Load(context.Background(), schema.SourceFromURL(server.URL+"/missing.yaml")); err == nil {
		t.Fatalf("expected status error for missing remote schema")
	}
}

func TestLoader_LoadHTTPRejectsOversizedSchema(t *testing.T) {
	padded := sampleSchema + "#" + strings.Repeat("x", maxRemoteSchema)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(padded))
	}))
	defer server.Close()

	l := New(schema.NewLoaderOptions(schema.WithHTTPFallback(5 * time.Second)))
	_, err := l.Load(context.Background(), schema.SourceFromURL(server.URL+"/blocks.yaml"))
	if err == nil || !strings.Contains(err.Error(), "exceeds") {
		t.Fatalf("expected size limit error, got %v", err)
	}
}

func TestLoader_CustomHTTPClientKeepsTimeout(t *testing.T) {
	client := &http.Client{}
	l := New(schema.NewLoaderOptions(
		schema.WithHTTPClient(client),
		func(opts *schema.LoaderOptions) { opts.RequestTimeout = time.Second },
	))
	if !l.allowHTTP {
		t.Fatalf("expected http to be enabled by custom client")
	}
	if l.http == client {
		t.Fatalf("expected client to be cloned")
	}
	if l.http.Timeout != time.Second {
		t.Fatalf("expected timeout copied onto clone, got %v", l.http.Timeout)
	}
}
