package render

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-blockgen/pkg/blocks"
	"github.com/goliatone/go-blockgen/pkg/schema"
)

// DocsKey names the sequence reserved for documentation data. It is always
// present and empty.
const DocsKey = "docs"

// Context holds the named values a template sees: one sequence per schema
// group plus the docs placeholder.
type Context struct {
	names  []string
	values map[string]any
}

// BuildContext exposes every group of doc under its declared name and under its
// context name when the two differ. Groups with
// a registered kind are decoded into typed records; the others are exposed as
// []map[string]any. All decode failures are joined into the returned error.
func BuildContext(doc *schema.Document, kinds *blocks.Registry) (Context, error) {
	if doc == nil {
		return Context{}, errors.New("render: document is nil")
	}

	rc := Context{values: map[string]any{DocsKey: []any{}}}
	owners := map[string]string{DocsKey: DocsKey}

	var errs []error
	for _, group := range doc.Groups() {
		keys := []string{group.Name}
		if alias := ContextName(group.Name); alias != group.Name {
			keys = append(keys, alias)
		}
		for _, key := range keys {
			if owner, taken := owners[key]; taken {
				if owner == DocsKey {
					return Context{}, fmt.Errorf("render: group %q collides with the reserved %q value", group.Name, DocsKey)
				}
				return Context{}, fmt.Errorf("render: groups %q and %q both map to %q", owner, group.Name, key)
			}
			owners[key] = group.Name
		}

		value, err := decodeGroup(group, kinds)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rc.names = append(rc.names, group.Name)
		for _, key := range keys {
			rc.values[key] = value
		}
	}
	if len(errs) > 0 {
		return Context{}, errors.Join(errs...)
	}
	return rc, nil
}

func decodeGroup(group schema.Group, kinds *blocks.Registry) (any, error) {
	if kinds != nil {
		if kind, ok := kinds.Get(group.Name); ok {
			return kind.Decode(group)
		}
	}
	out := make([]map[string]any, 0, len(group.Entries))
	for _, entry := range group.Entries {
		out = append(out, entry.Values())
	}
	return out, nil
}

// ContextName lowers the first rune of a group name: OneToOneBlocks becomes
// oneToOneBlocks.
func ContextName(group string) string {
	r, size := utf8.DecodeRuneInString(group)
	if r == utf8.RuneError {
		return group
	}
	return string(unicode.ToLower(r)) + group[size:]
}

// Names returns the declared group names in document order. DocsKey is not
// included.
func (c Context) Names() []string {
	return append([]string(nil), c.names...)
}

// Get returns the value bound to name.
func (c Context) Get(name string) (any, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Values returns the template data. The map is a fresh copy; the sequences it
// holds are shared with the context.
func (c Context) Values() map[string]any {
	out := make(map[string]any, len(c.values)+1)
	for k, v := range c.values {
		out[k] = v
	}
	if _, ok := out[DocsKey]; !ok {
		out[DocsKey] = []any{}
	}
	return out
}
