package spec

import (
	"fmt"
	"strings"
)

// Token is one node of a nested bracket parse: either a leaf holding raw
// text, or a bracketed group of child tokens. Bracket group content is
// captured verbatim; no tokenizing happens beyond whitespace splitting and
// matching of the group's own delimiter family.
type Token struct {
	Text     string
	Children []Token
	group    bool
}

// Leaf returns a leaf token.
func Leaf(text string) Token {
	return Token{Text: text}
}

// Group returns a nested group token.
func Group(children []Token) Token {
	return Token{Children: children, group: true}
}

// IsGroup reports whether the token is a nested group.
func (t Token) IsGroup() bool { return t.group }

// Mode selects the delimiter family used when nested groups are rendered
// back into flat token strings.
type Mode int

const (
	// ModeParens renders nested groups as (...), used for style options.
	ModeParens Mode = iota
	// ModeBrackets renders nested groups as [...], used for plot options
	// and compositor settings.
	ModeBrackets
)

func (m Mode) delims() (string, string) {
	if m == ModeBrackets {
		return "[", "]"
	}
	return "(", ")"
}

// scanner is a byte-position cursor over a single specification line.
type scanner struct {
	src string
	pos int
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

func (s *scanner) peek() byte { return s.src[s.pos] }

func (s *scanner) skipSpace() {
	for !s.eof() {
		switch s.src[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}

// literal consumes lit if the input continues with it exactly.
func (s *scanner) literal(lit string) bool {
	if strings.HasPrefix(s.src[s.pos:], lit) {
		s.pos += len(lit)
		return true
	}
	return false
}

// word consumes the maximal run of bytes satisfying pred.
func (s *scanner) word(pred func(byte) bool) string {
	start := s.pos
	for !s.eof() && pred(s.peek()) {
		s.pos++
	}
	return s.src[start:s.pos]
}

func isIdentByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '_'
}

func isPathByte(b byte) bool {
	return isIdentByte(b) || b == '.'
}

// allowedPlotByte reports whether b may appear in an unquoted plot-option
// word. Square brackets and quote characters are excluded so that nesting
// and quoted strings still delimit.
func allowedPlotByte(b byte) bool {
	if b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' {
		return true
	}
	return strings.IndexByte("!#$%&\\()*+,-./:;<=>?@^_`{|}~", b) >= 0
}

// parseNested reads the content of a bracket group up to the matching
// closer, splitting on whitespace and recursing on the group's own opener.
// All other characters, including other bracket families and quotes, are
// ordinary word characters. The scanner must be positioned just after the
// opener.
func parseNested(sc *scanner, open, close byte) ([]Token, error) {
	opened := sc.pos
	var tokens []Token
	for {
		sc.skipSpace()
		if sc.eof() {
			return nil, fmt.Errorf("unterminated %q group opened at byte %d", string(open), opened)
		}
		switch c := sc.peek(); c {
		case close:
			sc.pos++
			return tokens, nil
		case open:
			sc.pos++
			inner, err := parseNested(sc, open, close)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, Group(inner))
		default:
			start := sc.pos
			for !sc.eof() {
				c := sc.peek()
				if c == open || c == close || c == ' ' || c == '\t' || c == '\n' || c == '\r' {
					break
				}
				sc.pos++
			}
			tokens = append(tokens, Leaf(sc.src[start:sc.pos]))
		}
	}
}

// parseNestedPlot reads the content of a plot-options bracket group. Unlike
// parseNested, unquoted words are restricted to the allowed character set
// and quoted strings are captured atomically (quotes included).
func parseNestedPlot(sc *scanner) ([]Token, error) {
	opened := sc.pos
	var tokens []Token
	for {
		sc.skipSpace()
		if sc.eof() {
			return nil, fmt.Errorf("unterminated \"[\" group opened at byte %d", opened)
		}
		switch c := sc.peek(); {
		case c == ']':
			sc.pos++
			return tokens, nil
		case c == '[':
			sc.pos++
			inner, err := parseNestedPlot(sc)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, Group(inner))
		case c == '\'' || c == '"':
			quoted, err := scanQuoted(sc)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, Leaf(quoted))
		case allowedPlotByte(c):
			tokens = append(tokens, Leaf(sc.word(allowedPlotByte)))
		default:
			return nil, fmt.Errorf("character %q not allowed in plot options", string(c))
		}
	}
}

// scanQuoted consumes a single- or double-quoted string, honouring
// backslash escapes, and returns it with the quotes intact.
func scanQuoted(sc *scanner) (string, error) {
	start := sc.pos
	quote := sc.peek()
	sc.pos++
	for !sc.eof() {
		switch sc.peek() {
		case '\\':
			sc.pos++
			if !sc.eof() {
				sc.pos++
			}
		case quote:
			sc.pos++
			return sc.src[start:sc.pos], nil
		default:
			sc.pos++
		}
	}
	return "", fmt.Errorf("unterminated string opened at byte %d", start)
}
