package spec

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/plotspec/internal/compositor"
	"github.com/vk/plotspec/internal/ctxlog"
)

// CompositorSpec parses compositor definition lines of the form
//
//	mode op(overlay-spec) value [settings]
//
// repeated one or more times, where mode is data or display, op names a
// registered operation, overlay-spec is a bracket-matched overlay pattern
// such as (A * B), value identifies the resulting group, and the optional
// settings are a bracketed keyword list passed to the operation.
type CompositorSpec struct {
	// AbortOnEvalFailure upgrades settings evaluation failures from
	// warnings to errors that abort the parse.
	AbortOnEvalFailure bool

	registry *compositor.Registry
}

// NewCompositorSpec builds a parser resolving operation names in reg.
func NewCompositorSpec(reg *compositor.Registry) *CompositorSpec {
	if reg == nil {
		reg = compositor.NewRegistry()
	}
	return &CompositorSpec{registry: reg}
}

// Parse parses a compositor specification line into definitions, preserving
// their left-to-right textual order. The grammar accepts any word in mode
// position; an invalid mode or an unregistered operation is rejected after
// parsing with a descriptive error. The whole-line consumption rules match
// OptsSpec.Parse.
func (s *CompositorSpec) Parse(ctx context.Context, line string, ns *Namespace) ([]compositor.Definition, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("parsing compositor specification", "line", line)

	matches := scanLine(line, matchCompGroup)
	m, diags := requireFullMatch(line, matches)
	if diags.HasErrors() {
		return nil, diags
	}

	effNS := DefaultNamespace().Merged(ns)

	definitions := make([]compositor.Definition, 0, len(m.items))
	for _, g := range m.items {
		mode := compositor.Mode(g.mode)
		if !mode.Valid() {
			diags = append(diags, errDiag(
				"Invalid compositor mode",
				fmt.Sprintf("Either data or display mode must be specified, got %q.", g.mode),
				g.modeStart, g.modeEnd,
			))
			return nil, diags
		}

		op, ok := s.registry.Lookup(g.op)
		if !ok {
			diags = append(diags, errDiag(
				"Unknown compositor operation",
				fmt.Sprintf("Operation %q not available for use with compositors.", g.op),
				g.opStart, g.opEnd,
			))
			return nil, diags
		}

		settings := make(map[string]cty.Value)
		if g.hasSettings {
			kw, ds := ToDict(ctx, g.settings, ModeBrackets, effNS, s.AbortOnEvalFailure, [2]int{g.groupStart, g.groupEnd})
			diags = append(diags, ds...)
			if ds.HasErrors() {
				return nil, diags
			}
			settings = kw
		}

		definitions = append(definitions, compositor.Definition{
			Pattern:   flattenOverlay(g.overlay),
			Operation: op,
			Value:     g.value,
			Mode:      mode,
			Settings:  settings,
		})
	}
	return definitions, diags
}

// flattenOverlay joins the top-level tokens of an overlay expression with
// single spaces, rendering any nested groups back into parenthesized text.
func flattenOverlay(tokens []Token) string {
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.IsGroup() {
			parts = append(parts, renderGroup(tok.Children, ModeParens))
		} else {
			parts = append(parts, tok.Text)
		}
	}
	return strings.Join(parts, " ")
}
