package blocks

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-blockgen/pkg/schema"
)

// Kind decodes the entries of one schema group into typed records.
type Kind interface {
	// Group names the schema group the kind is bound to.
	Group() string
	// Decode returns a slice of records in entry order.
	Decode(group schema.Group) (any, error)
}

type kind[T any] struct {
	group  string
	decode func(schema.Entry) (T, error)
}

// NewKind binds a typed decoder to a schema group. Decode reports every
// failing entry at once instead of stopping at the first.
func NewKind[T any](group string, decode func(schema.Entry) (T, error)) Kind {
	return kind[T]{group: group, decode: decode}
}

func (k kind[T]) Group() string {
	return k.group
}

func (k kind[T]) Decode(group schema.Group) (any, error) {
	if k.decode == nil {
		return nil, fmt.Errorf("blocks: kind %q has no decoder", k.group)
	}
	out := make([]T, 0, len(group.Entries))
	var errs []error
	for _, entry := range group.Entries {
		record, err := k.decode(entry)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, record)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// fields collects required scalar lookups so decoders can report every
// missing field of an entry together.
type fields struct {
	entry schema.Entry
	errs  []error
}

func (f *fields) require(name string) string {
	value, err := f.entry.Scalar(name)
	if err != nil {
		f.errs = append(f.errs, err)
	}
	return value
}

func (f *fields) err() error {
	return errors.Join(f.errs...)
}
