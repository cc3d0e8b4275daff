package blocks

import "github.com/goliatone/go-blockgen/pkg/schema"

// Schema groups understood by the bundled VOLK factory template.
const (
	GroupOneToOne    = "OneToOneBlocks"
	GroupScalarParam = "OneToOneWithScalarParamBlocks"
)

// OneToOne describes a block wrapping a single-input, single-output kernel.
// The embedded entry keeps every other schema field reachable from templates
// through Field and Lookup.
type OneToOne struct {
	schema.Entry

	BlockName string
	InType    string
	OutType   string
	Fcn       string
}

// ScalarParam is a OneToOne block whose kernel takes an extra scalar argument.
type ScalarParam struct {
	OneToOne

	ScalarType string
}

// DecodeOneToOne reads blockName, inType, outType and fcn, all required.
func DecodeOneToOne(entry schema.Entry) (OneToOne, error) {
	f := fields{entry: entry}
	block := OneToOne{
		Entry:     entry,
		BlockName: f.require("blockName"),
		InType:    f.require("inType"),
		OutType:   f.require("outType"),
		Fcn:       f.require("fcn"),
	}
	if err := f.err(); err != nil {
		return OneToOne{}, err
	}
	return block, nil
}

// DecodeScalarParam reads the OneToOne fields plus scalarType.
func DecodeScalarParam(entry schema.Entry) (ScalarParam, error) {
	f := fields{entry: entry}
	block := ScalarParam{
		OneToOne: OneToOne{
			Entry:     entry,
			BlockName: f.require("blockName"),
			InType:    f.require("inType"),
			OutType:   f.require("outType"),
			Fcn:       f.require("fcn"),
		},
		ScalarType: f.require("scalarType"),
	}
	if err := f.err(); err != nil {
		return ScalarParam{}, err
	}
	return block, nil
}

// DefaultRegistry returns a registry holding the VOLK block kinds.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(NewKind(GroupOneToOne, DecodeOneToOne))
	r.MustRegister(NewKind(GroupScalarParam, DecodeScalarParam))
	return r
}
