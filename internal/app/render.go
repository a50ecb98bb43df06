package app

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/plotspec/internal/compositor"
	"github.com/vk/plotspec/internal/options"
	"github.com/vk/plotspec/internal/spec"
)

// elementJSON is the rendered form of one path's resolved options.
type elementJSON struct {
	Norm  map[string]any `json:"norm,omitempty"`
	Plot  map[string]any `json:"plot,omitempty"`
	Style map[string]any `json:"style,omitempty"`
}

// definitionJSON is the rendered form of one compositor definition.
type definitionJSON struct {
	Mode      string         `json:"mode"`
	Operation string         `json:"operation"`
	Group     string         `json:"group,omitempty"`
	Output    string         `json:"output,omitempty"`
	Pattern   string         `json:"pattern"`
	Value     string         `json:"value"`
	Settings  map[string]any `json:"settings,omitempty"`
}

// renderElementOptions converts a resolved options mapping to indented JSON.
func renderElementOptions(out map[string]spec.ElementOptions) ([]byte, error) {
	rendered := make(map[string]elementJSON, len(out))
	for path, eo := range out {
		var ej elementJSON
		var err error
		if ej.Norm, err = renderOptions(eo.Norm); err != nil {
			return nil, fmt.Errorf("path %q: %w", path, err)
		}
		if ej.Plot, err = renderOptions(eo.Plot); err != nil {
			return nil, fmt.Errorf("path %q: %w", path, err)
		}
		if ej.Style, err = renderOptions(eo.Style); err != nil {
			return nil, fmt.Errorf("path %q: %w", path, err)
		}
		rendered[path] = ej
	}
	return json.MarshalIndent(rendered, "", "  ")
}

// renderDefinitions converts parsed compositor definitions to indented JSON,
// preserving their order.
func renderDefinitions(defs []compositor.Definition) ([]byte, error) {
	rendered := make([]definitionJSON, 0, len(defs))
	for _, def := range defs {
		settings, err := renderKwargs(def.Settings)
		if err != nil {
			return nil, fmt.Errorf("operation %q: %w", def.Operation.Name, err)
		}
		rendered = append(rendered, definitionJSON{
			Mode:      string(def.Mode),
			Operation: def.Operation.Name,
			Group:     def.Operation.Group,
			Output:    def.Operation.Output,
			Pattern:   def.Pattern,
			Value:     def.Value,
			Settings:  settings,
		})
	}
	return json.MarshalIndent(rendered, "", "  ")
}

func renderOptions(o *options.Options) (map[string]any, error) {
	if o == nil {
		return nil, nil
	}
	return renderKwargs(o.Map())
}

func renderKwargs(kwargs map[string]cty.Value) (map[string]any, error) {
	if len(kwargs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(kwargs))
	for k, v := range kwargs {
		rendered, err := renderValue(v)
		if err != nil {
			return nil, fmt.Errorf("option %q: %w", k, err)
		}
		out[k] = rendered
	}
	return out, nil
}

// renderValue converts a cty option value to a JSON-marshalable Go value.
// Cycle and Palette capsules render as single-key objects; numbers keep their
// textual form via json.Number to avoid float round-tripping.
func renderValue(v cty.Value) (any, error) {
	if c, ok := options.CycleFromVal(v); ok {
		if c.Key != "" {
			return map[string]any{"cycle": c.Key}, nil
		}
		values, err := renderValueSlice(c.Values)
		if err != nil {
			return nil, err
		}
		return map[string]any{"cycle": values}, nil
	}
	if p, ok := options.PaletteFromVal(v); ok {
		return map[string]any{"palette": p.Key}, nil
	}
	if v.IsNull() {
		return nil, nil
	}

	t := v.Type()
	switch {
	case t == cty.String:
		return v.AsString(), nil
	case t == cty.Bool:
		return v.True(), nil
	case t == cty.Number:
		return json.Number(v.AsBigFloat().Text('g', -1)), nil
	case t.IsTupleType() || t.IsListType():
		var elems []cty.Value
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			elems = append(elems, ev)
		}
		return renderValueSlice(elems)
	case t.IsObjectType() || t.IsMapType():
		entries := make(map[string]any)
		for it := v.ElementIterator(); it.Next(); {
			ek, ev := it.Element()
			rendered, err := renderValue(ev)
			if err != nil {
				return nil, err
			}
			entries[ek.AsString()] = rendered
		}
		return entries, nil
	}
	return nil, fmt.Errorf("cannot render value of type %s", t.FriendlyName())
}

func renderValueSlice(values []cty.Value) ([]any, error) {
	out := make([]any, 0, len(values))
	for _, v := range values {
		rendered, err := renderValue(v)
		if err != nil {
			return nil, err
		}
		out = append(out, rendered)
	}
	return out, nil
}

// sortedPaths is a helper for deterministic log output.
func sortedPaths(out map[string]spec.ElementOptions) []string {
	paths := make([]string, 0, len(out))
	for p := range out {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
