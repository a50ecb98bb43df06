// Package options defines the resolved option objects produced by the
// specification parsers, along with the Cycle and Palette helper types that
// option values may refer to.
package options

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// Options holds the resolved keyword options for a single option category
// (style, plot or norm) of a single element path. Values are cty values so
// that numbers, strings, tuples and capsule types all travel through the
// same representation.
type Options struct {
	kwargs map[string]cty.Value
}

// New returns an Options over a copy of the given keyword map.
func New(kwargs map[string]cty.Value) *Options {
	copied := make(map[string]cty.Value, len(kwargs))
	for k, v := range kwargs {
		copied[k] = v
	}
	return &Options{kwargs: copied}
}

// Get returns the value stored under name, if any.
func (o *Options) Get(name string) (cty.Value, bool) {
	if o == nil {
		return cty.NilVal, false
	}
	v, ok := o.kwargs[name]
	return v, ok
}

// Keys returns the option names in sorted order.
func (o *Options) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, 0, len(o.kwargs))
	for k := range o.kwargs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len reports the number of stored options.
func (o *Options) Len() int {
	if o == nil {
		return 0
	}
	return len(o.kwargs)
}

// Map returns a copy of the underlying keyword map.
func (o *Options) Map() map[string]cty.Value {
	if o == nil {
		return map[string]cty.Value{}
	}
	copied := make(map[string]cty.Value, len(o.kwargs))
	for k, v := range o.kwargs {
		copied[k] = v
	}
	return copied
}

// Merged returns a new Options holding o's keywords with other's overlaid on
// top. Keys present in both keep other's value; keys only in o survive.
func (o *Options) Merged(other *Options) *Options {
	merged := o.Map()
	for k, v := range other.Map() {
		merged[k] = v
	}
	return &Options{kwargs: merged}
}

// String renders the options as "name=value" pairs in key order.
func (o *Options) String() string {
	var b strings.Builder
	b.WriteString("Options(")
	for i, k := range o.Keys() {
		if i > 0 {
			b.WriteString(", ")
		}
		v, _ := o.Get(k)
		fmt.Fprintf(&b, "%s=%v", k, v)
	}
	b.WriteString(")")
	return b.String()
}

// Cycle cycles through a sequence of style values, either named after a
// cycle defined by the plotting backend (Key) or listed explicitly (Values).
type Cycle struct {
	Key    string
	Values []cty.Value
}

// Palette specifies a continuous color palette by name, sampled instead of
// cycled when applied across elements.
type Palette struct {
	Key string
}

// DefaultCycleKey names the backend style cycle used when Cycle is called
// without arguments.
const DefaultCycleKey = "default_colors"

// CycleType and PaletteType are capsule types so Cycle and Palette instances
// can be stored in option dictionaries alongside ordinary cty values.
var (
	CycleType   = cty.Capsule("cycle", reflect.TypeOf(Cycle{}))
	PaletteType = cty.Capsule("palette", reflect.TypeOf(Palette{}))
)

// CycleVal wraps a Cycle in its capsule type.
func CycleVal(c Cycle) cty.Value {
	return cty.CapsuleVal(CycleType, &c)
}

// PaletteVal wraps a Palette in its capsule type.
func PaletteVal(p Palette) cty.Value {
	return cty.CapsuleVal(PaletteType, &p)
}

// CycleFromVal unwraps a capsule value produced by CycleVal.
func CycleFromVal(v cty.Value) (Cycle, bool) {
	if v == cty.NilVal || !v.Type().Equals(CycleType) {
		return Cycle{}, false
	}
	return *v.EncapsulatedValue().(*Cycle), true
}

// PaletteFromVal unwraps a capsule value produced by PaletteVal.
func PaletteFromVal(v cty.Value) (Palette, bool) {
	if v == cty.NilVal || !v.Type().Equals(PaletteType) {
		return Palette{}, false
	}
	return *v.EncapsulatedValue().(*Palette), true
}

// CycleFunc is the constructor exposed to option expressions as Cycle. It
// accepts no arguments (the default backend cycle), a single string naming a
// backend cycle, or a single tuple/list of explicit values.
var CycleFunc = function.New(&function.Spec{
	VarParam: &function.Parameter{
		Name:             "values",
		Type:             cty.DynamicPseudoType,
		AllowDynamicType: true,
	},
	Type: function.StaticReturnType(CycleType),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		switch len(args) {
		case 0:
			return CycleVal(Cycle{Key: DefaultCycleKey}), nil
		case 1:
			arg := args[0]
			if arg.Type() == cty.String {
				return CycleVal(Cycle{Key: arg.AsString()}), nil
			}
			if arg.Type().IsTupleType() || arg.Type().IsListType() {
				var values []cty.Value
				for it := arg.ElementIterator(); it.Next(); {
					_, v := it.Element()
					values = append(values, v)
				}
				return CycleVal(Cycle{Values: values}), nil
			}
			return cty.NilVal, fmt.Errorf("Cycle argument must be a string or a sequence, not %s", arg.Type().FriendlyName())
		default:
			return cty.NilVal, fmt.Errorf("Cycle accepts at most one argument, got %d", len(args))
		}
	},
})

// PaletteFunc is the constructor exposed to option expressions as Palette.
// It requires a single string naming the palette.
var PaletteFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "key", Type: cty.String},
	},
	Type: function.StaticReturnType(PaletteType),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return PaletteVal(Palette{Key: args[0].AsString()}), nil
	},
})
