package render

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Template is a template document read once per run and passed to the
// renderer by reference.
type Template struct {
	// Name identifies the template in error positions, usually its file name.
	Name string
	Text string
}

// LoadTemplate reads name from fsys.
func LoadTemplate(fsys fs.FS, name string) (*Template, error) {
	if fsys == nil {
		return nil, errors.New("render: template fs is nil")
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("render: template name is required")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("render: read template %q: %w", name, err)
	}
	return &Template{Name: name, Text: string(data)}, nil
}

// LoadTemplateFile reads a template from disk. The template is named after
// the file's base name.
func LoadTemplateFile(path string) (*Template, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("render: template path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("render: read template %q: %w", path, err)
	}
	return &Template{Name: filepath.Base(path), Text: string(data)}, nil
}
