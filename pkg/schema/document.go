package schema

import "fmt"

// Document is the parsed block schema: named groups of entries in the order
// they were declared. Documents are immutable once parsed; accessors return
// copies.
type Document struct {
	source Source
	groups []Group
}

// Group is one named, ordered sequence of block definitions.
type Group struct {
	Name    string
	Line    int
	Entries []Entry
}

// Field is a single name/value pair of an entry.
type Field struct {
	Name  string
	Value any
	Line  int

	// raw holds the literal text of scalar values.
	raw    string
	scalar bool
}

// Entry is one block definition: an ordered mapping of field names to values.
type Entry struct {
	group  string
	index  int
	line   int
	fields []Field
	byName map[string]int
}

// Source returns the origin of the document.
func (d *Document) Source() Source {
	if d == nil {
		return nil
	}
	return d.source
}

// Location returns the string identifier of the document origin.
func (d *Document) Location() string {
	if d == nil || d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Groups returns the groups in declaration order.
func (d *Document) Groups() []Group {
	if d == nil {
		return nil
	}
	out := make([]Group, len(d.groups))
	for i, g := range d.groups {
		out[i] = g.clone()
	}
	return out
}

// Group returns the named group.
func (d *Document) Group(name string) (Group, bool) {
	if d == nil {
		return Group{}, false
	}
	for _, g := range d.groups {
		if g.Name == name {
			return g.clone(), true
		}
	}
	return Group{}, false
}

// Names lists group names in declaration order.
func (d *Document) Names() []string {
	if d == nil {
		return nil
	}
	names := make([]string, len(d.groups))
	for i, g := range d.groups {
		names[i] = g.Name
	}
	return names
}

// Len reports the total number of entries across all groups.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	total := 0
	for _, g := range d.groups {
		total += len(g.Entries)
	}
	return total
}

func (g Group) clone() Group {
	out := g
	out.Entries = append([]Entry(nil), g.Entries...)
	return out
}

// Group names the group the entry belongs to.
func (e Entry) Group() string {
	return e.group
}

// Index is the zero-based position of the entry inside its group.
func (e Entry) Index() int {
	return e.index
}

// Line is the source line the entry starts on.
func (e Entry) Line() int {
	return e.line
}

// Keys lists field names in declaration order.
func (e Entry) Keys() []string {
	keys := make([]string, len(e.fields))
	for i, f := range e.fields {
		keys[i] = f.Name
	}
	return keys
}

// Has reports whether the entry declares the named field.
func (e Entry) Has(name string) bool {
	_, ok := e.byName[name]
	return ok
}

// Values returns a copy of the fields as a plain map.
func (e Entry) Values() map[string]any {
	out := make(map[string]any, len(e.fields))
	for _, f := range e.fields {
		out[f.Name] = f.Value
	}
	return out
}

// Field returns the named value or a *FieldError when the entry does not
// declare it. Templates call it as {{.Field "name"}}.
func (e Entry) Field(name string) (any, error) {
	idx, ok := e.byName[name]
	if !ok {
		return nil, e.fieldError(name, e.line, ReasonMissing)
	}
	return e.fields[idx].Value, nil
}

// Lookup returns the named value, or fallback when the field is absent.
func (e Entry) Lookup(name string, fallback any) any {
	idx, ok := e.byName[name]
	if !ok {
		return fallback
	}
	return e.fields[idx].Value
}

// Scalar returns the literal text of a scalar field. Missing fields and
// mappings or sequences are reported as *FieldError.
func (e Entry) Scalar(name string) (string, error) {
	idx, ok := e.byName[name]
	if !ok {
		return "", e.fieldError(name, e.line, ReasonMissing)
	}
	f := e.fields[idx]
	if !f.scalar {
		return "", e.fieldError(name, f.Line, ReasonNotScalar)
	}
	return f.raw, nil
}

func (e Entry) fieldError(name string, line int, reason string) *FieldError {
	return &FieldError{
		Group:  e.group,
		Index:  e.index,
		Field:  name,
		Line:   line,
		Reason: reason,
	}
}

// NewEntry builds an entry from ordered fields. It is intended for callers that
// assemble documents in code rather than parsing YAML.
func NewEntry(group string, index int, fields ...Field) (Entry, error) {
	e := Entry{
		group:  group,
		index:  index,
		fields: make([]Field, 0, len(fields)),
		byName: make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if _, dup := e.byName[f.Name]; dup {
			return Entry{}, fmt.Errorf("schema: group %q entry %d declares field %q twice", group, index, f.Name)
		}
		if !f.scalar {
			f.raw, f.scalar = scalarText(f.Value)
		}
		e.byName[f.Name] = len(e.fields)
		e.fields = append(e.fields, f)
	}
	return e, nil
}

// NewDocument assembles a document from groups, applying the same non-empty
// invariant as Parse.
func NewDocument(src Source, groups ...Group) (*Document, error) {
	if src == nil {
		return nil, fmt.Errorf("schema: source is required")
	}
	doc := &Document{source: src}
	seen := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		if _, dup := seen[g.Name]; dup {
			return nil, fmt.Errorf("schema: duplicate group %q", g.Name)
		}
		seen[g.Name] = struct{}{}
		doc.groups = append(doc.groups, g.clone())
	}
	if doc.Len() == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoData, src.Location())
	}
	return doc, nil
}

func scalarText(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return t, true
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(t), true
	default:
		return "", false
	}
}
