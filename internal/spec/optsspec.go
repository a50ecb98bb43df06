package spec

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/plotspec/internal/compositor"
	"github.com/vk/plotspec/internal/ctxlog"
	"github.com/vk/plotspec/internal/options"
)

// Option category names as they appear in resolved mappings.
const (
	CategoryNorm  = "norm"
	CategoryPlot  = "plot"
	CategoryStyle = "style"
)

// DefaultAliases maps legacy option names to their current spelling.
// Unknown names pass through unchanged.
var DefaultAliases = map[string]string{
	"horizontal_spacing": "hspace",
	"vertical_spacing":   "vspace",
	"figure_alpha":       "fig_alpha",
	"figure_bounds":      "fig_bounds",
	"figure_inches":      "fig_inches",
	"figure_latex":       "fig_latex",
	"figure_rcparams":    "fig_rcparams",
	"figure_size":        "fig_size",
	"show_xaxis":         "xaxis",
	"show_yaxis":         "yaxis",
}

// Deprecation rewrites the first dotted component of a path specification.
type Deprecation struct {
	Old string
	New string
}

// DefaultDeprecations lists the element renames still accepted with a
// warning.
var DefaultDeprecations = []Deprecation{
	{Old: "GridImage", New: "Image"},
}

// ElementOptions is the resolved options for one path specification, one
// entry per option category that appeared. An absent category is nil; in
// particular a missing Norm is distinct from explicitly disabled
// normalization flags.
type ElementOptions struct {
	Norm  *options.Options
	Plot  *options.Options
	Style *options.Options
}

// OptsSpec parses option specification lines: a sequence of path
// specifications, each followed by any subset of normalization ({...} or
// norm{...}), plot ([...] or plot[...]) and style ((...) or style(...))
// keyword groups in any order. Consecutive path specifications without
// options share the next options group. The parser is forgiving; commas
// between keywords are optional and additional spaces are often allowed,
// but a keyword must be immediately followed by '=' with no space.
type OptsSpec struct {
	// Aliases rewrites resolved plot/style option names.
	Aliases map[string]string
	// Deprecations rewrites the head component of output paths.
	Deprecations []Deprecation
	// AbortOnEvalFailure upgrades keyword evaluation failures from
	// warnings to errors that abort the parse.
	AbortOnEvalFailure bool

	groups []string
}

// NewOptsSpec builds a parser recognizing the compositor group names
// registered in reg, in registration order, as path specifications. The
// name set is snapshotted: operations registered later require a new
// OptsSpec.
func NewOptsSpec(reg *compositor.Registry) *OptsSpec {
	var groups []string
	if reg != nil {
		groups = reg.Groups()
	}
	return &OptsSpec{
		Aliases:      DefaultAliases,
		Deprecations: DefaultDeprecations,
		groups:       groups,
	}
}

// Parse parses a full options specification line into a mapping from path
// specification to per-category options. The grammar must consume the whole
// trimmed line in a single match; anything unconsumed is an error. ns names
// are overlaid on the default namespace for keyword evaluation. Returned
// diagnostics carry non-fatal warnings even on success; on error the result
// is nil with no partial mapping.
func (s *OptsSpec) Parse(ctx context.Context, line string, ns *Namespace) (map[string]ElementOptions, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("parsing options specification", "line", line)

	matches := scanLine(line, func(sc *scanner) (optsGroup, bool) {
		return matchOptsGroup(sc, s.groups)
	})
	m, diags := requireFullMatch(line, matches)
	if diags.HasErrors() {
		return nil, diags
	}

	effNS := DefaultNamespace().Merged(ns)

	// parse accumulates path -> category -> option name -> value. Options
	// for a path seen again later merge key-wise per category rather than
	// replacing the earlier dictionary.
	parse := make(map[string]map[string]map[string]cty.Value)
	merge := func(paths []string, catOpts map[string]map[string]cty.Value) {
		for _, p := range paths {
			existing, ok := parse[p]
			if !ok {
				existing = make(map[string]map[string]cty.Value)
				parse[p] = existing
			}
			for cat, kv := range catOpts {
				target, ok := existing[cat]
				if !ok {
					target = make(map[string]cty.Value)
					existing[cat] = target
				}
				for k, v := range kv {
					target[k] = v
				}
			}
		}
	}

	// Path specifications without options accumulate until a group with at
	// least one options category picks them all up.
	var active []string
	activeSeen := make(map[string]bool)

	for _, g := range m.items {
		if !activeSeen[g.path] {
			activeSeen[g.path] = true
			active = append(active, g.path)
		}
		if !g.hasNorm && !g.hasPlot && !g.hasStyle {
			continue
		}

		catOpts := make(map[string]map[string]cty.Value)
		if g.hasNorm {
			norm, normDiags := processNormalization(g.norm, g.groupStart, g.groupEnd)
			diags = append(diags, normDiags...)
			if normDiags.HasErrors() {
				return nil, diags
			}
			if norm != nil {
				catOpts[CategoryNorm] = norm
			}
		}
		if g.hasPlot {
			kw, ds := ToDict(ctx, g.plot, ModeBrackets, effNS, s.AbortOnEvalFailure, [2]int{g.groupStart, g.groupEnd})
			diags = append(diags, ds...)
			if ds.HasErrors() {
				return nil, diags
			}
			catOpts[CategoryPlot] = s.applyAliases(kw)
		}
		if g.hasStyle {
			kw, ds := ToDict(ctx, g.style, ModeParens, effNS, s.AbortOnEvalFailure, [2]int{g.groupStart, g.groupEnd})
			diags = append(diags, ds...)
			if ds.HasErrors() {
				return nil, diags
			}
			catOpts[CategoryStyle] = s.applyAliases(kw)
		}

		merge(active, catOpts)
		active = nil
		activeSeen = make(map[string]bool)
	}
	// Trailing paths with no options still appear in the result, with an
	// empty options mapping.
	merge(active, nil)

	out := make(map[string]ElementOptions, len(parse))
	for path, cats := range parse {
		rewritten, depDiags := s.applyDeprecations(ctx, path)
		diags = append(diags, depDiags...)
		var eo ElementOptions
		if kv, ok := cats[CategoryNorm]; ok {
			eo.Norm = options.New(kv)
		}
		if kv, ok := cats[CategoryPlot]; ok {
			eo.Plot = options.New(kv)
		}
		if kv, ok := cats[CategoryStyle]; ok {
			eo.Style = options.New(kv)
		}
		out[rewritten] = eo
	}
	return out, diags
}

// applyAliases rewrites resolved option names through the alias table.
func (s *OptsSpec) applyAliases(kwargs map[string]cty.Value) map[string]cty.Value {
	out := make(map[string]cty.Value, len(kwargs))
	for k, v := range kwargs {
		if canonical, ok := s.Aliases[k]; ok {
			k = canonical
		}
		out[k] = v
	}
	return out
}

// applyDeprecations rewrites a deprecated head component of a dotted path
// and emits a warning. Non-deprecated paths pass through unchanged.
func (s *OptsSpec) applyDeprecations(ctx context.Context, path string) (string, hcl.Diagnostics) {
	parts := strings.Split(path, ".")
	for _, dep := range s.Deprecations {
		if parts[0] != dep.Old {
			continue
		}
		ctxlog.FromContext(ctx).Warn("deprecated element in path specification", "old", dep.Old, "new", dep.New)
		rewritten := strings.Join(append([]string{dep.New}, parts[1:]...), ".")
		return rewritten, hcl.Diagnostics{&hcl.Diagnostic{
			Severity: hcl.DiagWarning,
			Summary:  "Deprecated element name",
			Detail:   fmt.Sprintf("Element %s deprecated. Use %s instead.", dep.Old, dep.New),
		}}
	}
	return path, nil
}

// normFlags are the only tokens a normalization group may contain.
var normFlags = []string{"+framewise", "-framewise", "+axiswise", "-axiswise"}

// processNormalization validates the token list of a normalization group
// and resolves it to framewise/axiswise flags. An empty group yields no
// normalization entry at all. When the list holds a single flag, the other
// axis defaults to false; otherwise each flag defaults to false and is
// overridden by its signed token.
func processNormalization(tokens []Token, start, end int) (map[string]cty.Value, hcl.Diagnostics) {
	opts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.IsGroup() {
			return nil, hcl.Diagnostics{errDiag(
				"Invalid normalization option",
				fmt.Sprintf("Normalization option not one of %s.", strings.Join(normFlags, ", ")),
				start, end,
			)}
		}
		opts = append(opts, tok.Text)
	}
	if len(opts) == 0 {
		return nil, nil
	}

	counts := make(map[string]int, len(opts))
	for _, o := range opts {
		counts[o]++
	}
	for _, flag := range normFlags {
		if counts[flag] > 1 {
			return nil, hcl.Diagnostics{errDiag(
				"Invalid normalization option",
				fmt.Sprintf("Normalization specification must not contain repeated %q.", flag),
				start, end,
			)}
		}
	}
	for _, o := range opts {
		if !slices.Contains(normFlags, o) {
			return nil, hcl.Diagnostics{errDiag(
				"Invalid normalization option",
				fmt.Sprintf("Normalization option not one of %s.", strings.Join(normFlags, ", ")),
				start, end,
			)}
		}
	}
	for _, pair := range [][2]string{{"+framewise", "-framewise"}, {"+axiswise", "-axiswise"}} {
		if counts[pair[0]] > 0 && counts[pair[1]] > 0 {
			return nil, hcl.Diagnostics{errDiag(
				"Invalid normalization option",
				fmt.Sprintf("Normalization specification cannot contain both %s and %s.", pair[0], pair[1]),
				start, end,
			)}
		}
	}

	var framewise, axiswise bool
	switch {
	case len(opts) == 1 && strings.HasSuffix(opts[0], "framewise"):
		framewise = counts["+framewise"] > 0
	case len(opts) == 1 && strings.HasSuffix(opts[0], "axiswise"):
		axiswise = counts["+axiswise"] > 0
	default:
		framewise = counts["+framewise"] > 0
		axiswise = counts["+axiswise"] > 0
	}
	return map[string]cty.Value{
		"framewise": cty.BoolVal(framewise),
		"axiswise":  cty.BoolVal(axiswise),
	}, nil
}
