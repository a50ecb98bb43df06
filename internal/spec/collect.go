package spec

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/plotspec/internal/ctxlog"
)

// renderGroup reconstructs a nested group back into a single flat string,
// wrapping every nesting level in the delimiters implied by mode. This
// rebuilds tuple and list literals that bracket matching split apart.
func renderGroup(children []Token, mode Mode) string {
	open, close := mode.delims()
	var b strings.Builder
	b.WriteString(open)
	for _, tok := range children {
		if tok.IsGroup() {
			b.WriteString(renderGroup(tok.Children, mode))
		} else {
			b.WriteString(tok.Text)
		}
	}
	b.WriteString(close)
	return b.String()
}

// stripCommas removes a single leading and trailing comma from a token.
func stripCommas(tok string) string {
	tok = strings.TrimSuffix(tok, ",")
	return strings.TrimPrefix(tok, ",")
}

// CollectTokens flattens the children of a bracket group into an ordered
// sequence of textual tokens. Nested groups are rendered back into a single
// string with mode's delimiters and concatenated onto the immediately
// preceding token; bare comma tokens are dropped and stray leading/trailing
// commas stripped. Already-flat input passes through unchanged apart from
// comma cleanup, preserving left-to-right order.
func CollectTokens(children []Token, mode Mode) []string {
	var tokens []string
	for _, tok := range children {
		if tok.IsGroup() {
			rendered := renderGroup(tok.Children, mode)
			if len(tokens) == 0 {
				tokens = append(tokens, rendered)
			} else {
				tokens[len(tokens)-1] += rendered
			}
			continue
		}
		if strings.TrimSpace(tok.Text) == "," {
			continue
		}
		tokens = append(tokens, stripCommas(tok.Text))
	}
	return tokens
}

// keywordRepairs are order-sensitive textual substitutions applied to each
// reassembled keyword token. Token reconstruction reintroduces commas in
// positions where they are never valid (a tuple ('a', 3) comes back as
// (,'a',3)); each pair repairs one such artifact. The table is a heuristic:
// an unquoted literal that legitimately contains one of these two-character
// sequences will be mangled.
var keywordRepairs = [][2]string{
	{"(,", "("},
	{"{,", "{"},
	{"=,", "="},
	{",:", ":"},
	{":,", ":"},
	{",,", ","},
	{",.", "."},
}

// repairKeyword applies the keywordRepairs table, in order.
func repairKeyword(keyword string) string {
	for _, pair := range keywordRepairs {
		keyword = strings.ReplaceAll(keyword, pair[0], pair[1])
	}
	return keyword
}

// groupKeywords partitions a flat token sequence into keyword tokens. A run
// of tokens without '=' is a continuation of the most recent keyword: such
// runs are rejoined with commas when any of them contains a closing bracket
// character (tuple syntax lost during tokenization), and with no separator
// otherwise. Continuations with no preceding keyword are returned separately
// as strays.
func groupKeywords(tokens []string) (keywords, strays []string) {
	flushRun := func(run []string) {
		if len(run) == 0 {
			return
		}
		joiner := ""
		for _, el := range run {
			if strings.Contains(el, ")") || strings.Contains(el, "}") {
				joiner = ","
				break
			}
		}
		joined := strings.Join(run, joiner)
		if len(keywords) == 0 {
			strays = append(strays, joined)
			return
		}
		keywords[len(keywords)-1] += joiner + joined
	}

	var run []string
	for _, tok := range tokens {
		if strings.Contains(tok, "=") {
			flushRun(run)
			run = nil
			keywords = append(keywords, tok)
		} else {
			run = append(run, tok)
		}
	}
	flushRun(run)
	return keywords, strays
}

// ToDict resolves the children of an options bracket group into a keyword
// map. Tokens are collected (CollectTokens), partitioned into keyword
// assignments, textually repaired and evaluated in ns. A keyword that fails
// to evaluate is skipped with a warning diagnostic unless strict is set, in
// which case it aborts the whole call with an error. subject should span the
// bracket group in the input line for diagnostic ranges.
func ToDict(ctx context.Context, children []Token, mode Mode, ns *Namespace, strict bool, subject [2]int) (map[string]cty.Value, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	var diags hcl.Diagnostics

	keywords, strays := groupKeywords(CollectTokens(children, mode))
	for _, stray := range strays {
		diags = append(diags, warnDiag(
			"Ignoring tokens with no keyword to attach to",
			fmt.Sprintf("Tokens %q precede any name=value pair.", stray),
			subject[0], subject[1],
		))
		logger.Warn("ignoring stray option tokens", "tokens", stray)
	}

	kwargs := make(map[string]cty.Value)
	for _, keyword := range keywords {
		keyword = repairKeyword(keyword)
		values, err := evalKeywordList(keyword, ns)
		if err != nil {
			if strict {
				diags = append(diags, errDiag(
					"Could not evaluate keyword",
					fmt.Sprintf("Keyword %q: %s", keyword, err),
					subject[0], subject[1],
				))
				return nil, diags
			}
			diags = append(diags, warnDiag(
				"Ignoring keyword pair that fails to evaluate",
				fmt.Sprintf("Keyword %q: %s", keyword, err),
				subject[0], subject[1],
			))
			logger.Warn("ignoring keyword pair that fails to evaluate", "keyword", keyword, "error", err)
			continue
		}
		for k, v := range values {
			kwargs[k] = v
		}
	}
	return kwargs, diags
}
