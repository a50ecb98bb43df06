package spec

import (
	"math"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/vk/plotspec/internal/options"
)

// Namespace is the set of names available to option value expressions:
// variables (resolved by name, with dotted attribute access into object
// values) and allow-listed constructor functions.
type Namespace struct {
	Vars  map[string]cty.Value
	Funcs map[string]function.Function
}

// DefaultNamespace returns the namespace every parse starts from: the np
// constants object plus the Cycle and Palette constructors.
func DefaultNamespace() *Namespace {
	return &Namespace{
		Vars: map[string]cty.Value{
			"np": cty.ObjectVal(map[string]cty.Value{
				"pi":  cty.NumberFloatVal(math.Pi),
				"e":   cty.NumberFloatVal(math.E),
				"tau": cty.NumberFloatVal(2 * math.Pi),
				"inf": cty.PositiveInfinity,
			}),
		},
		Funcs: map[string]function.Function{
			"Cycle":   options.CycleFunc,
			"Palette": options.PaletteFunc,
		},
	}
}

// Merged returns a new namespace with over's entries overlaid on ns. Neither
// input is mutated, so concurrent parses with different caller namespaces
// cannot interfere with each other or with the defaults.
func (ns *Namespace) Merged(over *Namespace) *Namespace {
	merged := &Namespace{
		Vars:  make(map[string]cty.Value),
		Funcs: make(map[string]function.Function),
	}
	for _, src := range []*Namespace{ns, over} {
		if src == nil {
			continue
		}
		for k, v := range src.Vars {
			merged.Vars[k] = v
		}
		for k, f := range src.Funcs {
			merged.Funcs[k] = f
		}
	}
	return merged
}
