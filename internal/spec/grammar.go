package spec

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
)

// optsGroup is one parsed `pathspec [options...]` unit of an options line.
// The category fields hold the raw nested token tree of the corresponding
// bracket group, or nil when the category is absent.
type optsGroup struct {
	path       string
	pathStart  int
	pathEnd    int
	norm       []Token
	plot       []Token
	style      []Token
	hasNorm    bool
	hasPlot    bool
	hasStyle   bool
	groupStart int
	groupEnd   int
}

// compGroup is one parsed `mode op (overlay) value [settings]` unit of a
// compositor line.
type compGroup struct {
	mode        string
	modeStart   int
	modeEnd     int
	op          string
	opStart     int
	opEnd       int
	overlay     []Token
	value       string
	settings    []Token
	hasSettings bool
	groupStart  int
	groupEnd    int
}

// matchDottedPath matches an identifier beginning with a single uppercase
// letter followed by alphanumerics, dots or underscores.
func matchDottedPath(sc *scanner) (string, bool) {
	if sc.eof() {
		return "", false
	}
	if b := sc.peek(); b < 'A' || b > 'Z' {
		return "", false
	}
	start := sc.pos
	sc.pos++
	sc.word(isPathByte)
	return sc.src[start:sc.pos], true
}

// matchPathSpec matches a path specification: a dotted path, or one of the
// registered compositor group names tried in registration order. The first
// alternative that matches a prefix wins.
func matchPathSpec(sc *scanner, groups []string) (string, bool) {
	if path, ok := matchDottedPath(sc); ok {
		return path, true
	}
	for _, name := range groups {
		if name != "" && sc.literal(name) {
			return name, true
		}
	}
	return "", false
}

// matchOptsGroup matches one pathspec with any subset of the three option
// categories, in any order, each at most once. Both the short bracketed
// spelling and the long keyword-prefixed spelling of each category are
// accepted. On failure the scanner position is restored.
func matchOptsGroup(sc *scanner, groups []string) (optsGroup, bool) {
	save := sc.pos
	sc.skipSpace()
	g := optsGroup{pathStart: sc.pos, groupStart: sc.pos}

	path, ok := matchPathSpec(sc, groups)
	if !ok {
		sc.pos = save
		return optsGroup{}, false
	}
	g.path = path
	g.pathEnd = sc.pos

	for {
		mark := sc.pos
		sc.skipSpace()
		matched := false

		if !g.hasNorm {
			if sc.literal("norm{") || sc.literal("{") {
				tokens, err := parseNested(sc, '{', '}')
				if err != nil {
					sc.pos = mark
					break
				}
				g.norm, g.hasNorm, matched = tokens, true, true
			}
		}
		if !matched && !g.hasPlot {
			if sc.literal("plot[") || sc.literal("[") {
				tokens, err := parseNestedPlot(sc)
				if err != nil {
					sc.pos = mark
					break
				}
				g.plot, g.hasPlot, matched = tokens, true, true
			}
		}
		if !matched && !g.hasStyle {
			if sc.literal("style(") || sc.literal("(") {
				tokens, err := parseNested(sc, '(', ')')
				if err != nil {
					sc.pos = mark
					break
				}
				g.style, g.hasStyle, matched = tokens, true, true
			}
		}

		if !matched {
			sc.pos = mark
			break
		}
	}

	g.groupEnd = sc.pos
	return g, true
}

// matchCompGroup matches one `mode op (overlay) value [settings]` unit. The
// mode and operation are free words here; their values are validated by the
// orchestrator after parsing. On failure the scanner position is restored.
func matchCompGroup(sc *scanner) (compGroup, bool) {
	save := sc.pos
	sc.skipSpace()
	g := compGroup{groupStart: sc.pos}

	g.modeStart = sc.pos
	g.mode = sc.word(isIdentByte)
	g.modeEnd = sc.pos
	if g.mode == "" {
		sc.pos = save
		return compGroup{}, false
	}

	sc.skipSpace()
	g.opStart = sc.pos
	g.op = sc.word(isIdentByte)
	g.opEnd = sc.pos
	if g.op == "" {
		sc.pos = save
		return compGroup{}, false
	}

	sc.skipSpace()
	if !sc.literal("(") {
		sc.pos = save
		return compGroup{}, false
	}
	overlay, err := parseNested(sc, '(', ')')
	if err != nil {
		sc.pos = save
		return compGroup{}, false
	}
	g.overlay = overlay

	sc.skipSpace()
	g.value = sc.word(isIdentByte)
	if g.value == "" {
		sc.pos = save
		return compGroup{}, false
	}

	mark := sc.pos
	sc.skipSpace()
	if sc.literal("[") {
		settings, err := parseNested(sc, '[', ']')
		if err != nil {
			sc.pos = mark
		} else {
			g.settings = settings
			g.hasSettings = true
		}
	} else {
		sc.pos = mark
	}

	g.groupEnd = sc.pos
	return g, true
}

// scanMatch is one maximal grammar match found while scanning a line.
type scanMatch[T any] struct {
	start, end int
	items      []T
}

// scanLine finds every non-overlapping match of one-or-more grammar units
// anywhere in the line. Equivalent to scanning with the unit grammar under
// greedy repetition: at each candidate position the repetition consumes as
// many units as possible; failed positions advance by one byte.
func scanLine[T any](line string, match func(*scanner) (T, bool)) []scanMatch[T] {
	var out []scanMatch[T]
	i := 0
	for i <= len(line) {
		sc := &scanner{src: line, pos: i}
		sc.skipSpace()
		start := sc.pos
		if start >= len(line) {
			break
		}

		var items []T
		for {
			item, ok := match(sc)
			if !ok {
				break
			}
			items = append(items, item)
		}
		if len(items) > 0 {
			out = append(out, scanMatch[T]{start: start, end: sc.pos, items: items})
			if sc.pos > start {
				i = sc.pos
			} else {
				i = start + 1
			}
		} else {
			i = start + 1
		}
	}
	return out
}

// requireFullMatch enforces the line-shape contract shared by both spec
// parsers: the grammar must match exactly once, covering the entire trimmed
// line with nothing before or after the match.
func requireFullMatch[T any](line string, matches []scanMatch[T]) (scanMatch[T], hcl.Diagnostics) {
	var diags hcl.Diagnostics
	if len(matches) != 1 {
		diags = append(diags, errDiag(
			"Invalid specification syntax",
			fmt.Sprintf("Expected a single specification, found %d parseable regions.", len(matches)),
			0, len(line),
		))
		return scanMatch[T]{}, diags
	}
	m := matches[0]
	if strings.TrimSpace(line[:m.start]) != "" {
		diags = append(diags, errDiag(
			"Invalid specification syntax",
			fmt.Sprintf("Failed to parse leading input: %q.", line[:m.start]),
			0, m.start,
		))
		return scanMatch[T]{}, diags
	}
	if strings.TrimSpace(line[m.end:]) != "" {
		diags = append(diags, errDiag(
			"Invalid specification syntax",
			fmt.Sprintf("Failed to parse remainder of string: %q.", line[m.end:]),
			m.end, len(line),
		))
		return scanMatch[T]{}, diags
	}
	return m, nil
}
