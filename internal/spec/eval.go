package spec

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// evalParser is a recursive-descent evaluator for keyword value expressions.
// It is deliberately restricted: literals (numbers, strings, True, False,
// None), tuples, lists, string-keyed dicts, namespace names with dotted
// attribute access, and calls to allow-listed constructor functions. Nothing
// else evaluates.
type evalParser struct {
	src string
	pos int
	ns  *Namespace
}

// evalKeywordList evaluates a reassembled keyword token of the form
// "name=expr[,name=expr...]" and returns the resolved values.
func evalKeywordList(src string, ns *Namespace) (map[string]cty.Value, error) {
	p := &evalParser{src: src, ns: ns}
	out := make(map[string]cty.Value)
	for {
		p.skipSpace()
		name := p.ident()
		if name == "" {
			return nil, p.errf("expected option name")
		}
		if !p.eat('=') {
			return nil, p.errf("expected '=' after %q", name)
		}
		value, err := p.expr()
		if err != nil {
			return nil, err
		}
		out[name] = value
		p.skipSpace()
		if !p.eat(',') {
			break
		}
		p.skipSpace()
		if p.eof() { // trailing comma
			break
		}
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errf("unexpected trailing input")
	}
	return out, nil
}

func (p *evalParser) errf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s at offset %d in %q", msg, p.pos, p.src)
}

func (p *evalParser) eof() bool { return p.pos >= len(p.src) }

func (p *evalParser) skipSpace() {
	for !p.eof() && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *evalParser) eat(b byte) bool {
	if !p.eof() && p.src[p.pos] == b {
		p.pos++
		return true
	}
	return false
}

func (p *evalParser) ident() string {
	start := p.pos
	for !p.eof() {
		b := p.src[p.pos]
		if b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b == '_' || (p.pos > start && b >= '0' && b <= '9') {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *evalParser) expr() (cty.Value, error) {
	p.skipSpace()
	if p.eof() {
		return cty.NilVal, p.errf("expected expression")
	}
	switch b := p.src[p.pos]; {
	case b == '+' || b == '-' || b == '.' || b >= '0' && b <= '9':
		return p.number()
	case b == '\'' || b == '"':
		return p.stringLit()
	case b == '(':
		p.pos++
		return p.sequence(')', true)
	case b == '[':
		p.pos++
		return p.sequence(']', false)
	case b == '{':
		p.pos++
		return p.dict()
	default:
		return p.name()
	}
}

func (p *evalParser) number() (cty.Value, error) {
	start := p.pos
	if p.src[p.pos] == '+' || p.src[p.pos] == '-' {
		p.pos++
	}
	digits := 0
	for !p.eof() && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
		digits++
	}
	if p.eat('.') {
		for !p.eof() && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
			digits++
		}
	}
	if digits == 0 {
		p.pos = start
		return cty.NilVal, p.errf("malformed number")
	}
	if !p.eof() && (p.src[p.pos] == 'e' || p.src[p.pos] == 'E') {
		p.pos++
		if !p.eof() && (p.src[p.pos] == '+' || p.src[p.pos] == '-') {
			p.pos++
		}
		expDigits := 0
		for !p.eof() && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
			expDigits++
		}
		if expDigits == 0 {
			return cty.NilVal, p.errf("malformed exponent")
		}
	}
	v, err := cty.ParseNumberVal(p.src[start:p.pos])
	if err != nil {
		return cty.NilVal, p.errf("malformed number %q", p.src[start:p.pos])
	}
	return v, nil
}

func (p *evalParser) stringLit() (cty.Value, error) {
	quote := p.src[p.pos]
	p.pos++
	var b strings.Builder
	for !p.eof() {
		c := p.src[p.pos]
		switch c {
		case quote:
			p.pos++
			return cty.StringVal(b.String()), nil
		case '\\':
			p.pos++
			if p.eof() {
				return cty.NilVal, p.errf("unterminated string")
			}
			switch esc := p.src[p.pos]; esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\', '\'', '"':
				b.WriteByte(esc)
			default:
				b.WriteByte('\\')
				b.WriteByte(esc)
			}
			p.pos++
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return cty.NilVal, p.errf("unterminated string")
}

// sequence parses the elements of a tuple or list, the opener already
// consumed. In tuple position a single element without a trailing comma is
// plain grouping and evaluates to the element itself.
func (p *evalParser) sequence(close byte, tuple bool) (cty.Value, error) {
	var elems []cty.Value
	trailingComma := false
	for {
		p.skipSpace()
		if p.eat(close) {
			break
		}
		if p.eof() {
			return cty.NilVal, p.errf("expected %q", string(close))
		}
		elem, err := p.expr()
		if err != nil {
			return cty.NilVal, err
		}
		elems = append(elems, elem)
		p.skipSpace()
		trailingComma = p.eat(',')
		if !trailingComma {
			p.skipSpace()
			if !p.eat(close) {
				return cty.NilVal, p.errf("expected ',' or %q", string(close))
			}
			break
		}
	}
	if tuple && len(elems) == 1 && !trailingComma {
		return elems[0], nil
	}
	if len(elems) == 0 {
		return cty.EmptyTupleVal, nil
	}
	return cty.TupleVal(elems), nil
}

func (p *evalParser) dict() (cty.Value, error) {
	attrs := make(map[string]cty.Value)
	for {
		p.skipSpace()
		if p.eat('}') {
			break
		}
		if p.eof() {
			return cty.NilVal, p.errf("expected '}'")
		}
		if b := p.src[p.pos]; b != '\'' && b != '"' {
			return cty.NilVal, p.errf("dict keys must be quoted strings")
		}
		key, err := p.stringLit()
		if err != nil {
			return cty.NilVal, err
		}
		p.skipSpace()
		if !p.eat(':') {
			return cty.NilVal, p.errf("expected ':' after dict key")
		}
		value, err := p.expr()
		if err != nil {
			return cty.NilVal, err
		}
		attrs[key.AsString()] = value
		p.skipSpace()
		if p.eat(',') {
			continue
		}
		p.skipSpace()
		if !p.eat('}') {
			return cty.NilVal, p.errf("expected ',' or '}'")
		}
		break
	}
	if len(attrs) == 0 {
		return cty.EmptyObjectVal, nil
	}
	return cty.ObjectVal(attrs), nil
}

// name resolves an identifier: a literal keyword, a constructor call, or a
// dotted variable lookup in the namespace.
func (p *evalParser) name() (cty.Value, error) {
	path := []string{}
	for {
		part := p.ident()
		if part == "" {
			return cty.NilVal, p.errf("expected name")
		}
		path = append(path, part)
		if !p.eat('.') {
			break
		}
	}

	if len(path) == 1 {
		switch path[0] {
		case "None":
			return cty.NullVal(cty.DynamicPseudoType), nil
		case "True":
			return cty.True, nil
		case "False":
			return cty.False, nil
		}
	}

	if p.eat('(') {
		fname := strings.Join(path, ".")
		fn, ok := p.ns.Funcs[fname]
		if !ok {
			return cty.NilVal, p.errf("unknown function %q", fname)
		}
		var args []cty.Value
		for {
			p.skipSpace()
			if p.eat(')') {
				break
			}
			if p.eof() {
				return cty.NilVal, p.errf("expected ')'")
			}
			arg, err := p.expr()
			if err != nil {
				return cty.NilVal, err
			}
			args = append(args, arg)
			p.skipSpace()
			if p.eat(',') {
				continue
			}
			p.skipSpace()
			if !p.eat(')') {
				return cty.NilVal, p.errf("expected ',' or ')'")
			}
			break
		}
		result, err := fn.Call(args)
		if err != nil {
			return cty.NilVal, fmt.Errorf("call to %s failed: %w", fname, err)
		}
		return result, nil
	}

	value, ok := p.ns.Vars[path[0]]
	if !ok {
		return cty.NilVal, p.errf("unknown name %q", path[0])
	}
	for _, attr := range path[1:] {
		if !value.Type().IsObjectType() || !value.Type().HasAttribute(attr) {
			return cty.NilVal, p.errf("%q has no attribute %q", strings.Join(path, "."), attr)
		}
		value = value.GetAttr(attr)
	}
	return value, nil
}
