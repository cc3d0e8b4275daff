// Package output delivers generated text to its destination.
package output

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Emitter writes one generated artifact.
type Emitter interface {
	Emit(ctx context.Context, name, text string) error
}

// Stream writes every artifact to a single writer, each followed by a
// newline. The name is ignored.
type Stream struct {
	w io.Writer
}

// NewStream returns an emitter for w, typically os.Stdout.
func NewStream(w io.Writer) *Stream {
	return &Stream{w: w}
}

func (s *Stream) Emit(ctx context.Context, _ string, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.w == nil {
		return errors.New("output: stream writer is nil")
	}
	if _, err := io.WriteString(s.w, text+"\n"); err != nil {
		return fmt.Errorf("output: write stream: %w", err)
	}
	return nil
}

// Directory writes artifacts as files below an absolute root.
type Directory struct {
	root string
}

// NewDirectory resolves root to an absolute path and creates it.
func NewDirectory(root string) (*Directory, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("output: directory is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("output: resolve directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("output: create directory: %w", err)
	}
	return &Directory{root: abs}, nil
}

// Root returns the absolute output directory.
func (d *Directory) Root() string {
	return d.root
}

func (d *Directory) Emit(ctx context.Context, name, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clean := filepath.Clean(name)
	if name == "" || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("output: invalid artifact name %q", name)
	}

	path := filepath.Join(d.root, clean)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("output: create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("output: write %s: %w", path, err)
	}
	return nil
}
