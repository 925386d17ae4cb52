package pyconf

import (
	"fmt"
	"strconv"
)

// Parse reads a settings module and returns its assignments in source order.
// A name assigned twice appears twice; use Lookup for the effective value.
func Parse(src []byte) ([]Assignment, error) {
	toks, err := newLexer(string(src)).tokens()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, env: make(map[string]Value)}
	return p.module()
}

type parser struct {
	toks []token
	pos  int
	env  map[string]Value
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isOp(text string) bool {
	t := p.peek()
	return t.kind == tokOp && t.text == text
}

func (p *parser) expectOp(text string) error {
	t := p.advance()
	if t.kind != tokOp || t.text != text {
		return p.unexpected(t, fmt.Sprintf("%q", text))
	}
	return nil
}

func (p *parser) unexpected(t token, want string) error {
	got := t.kind.String()
	if t.kind == tokOp || t.kind == tokName {
		got = fmt.Sprintf("%q", t.text)
	}
	return &SyntaxError{Line: t.line, Msg: fmt.Sprintf("expected %s, got %s", want, got)}
}

func (p *parser) module() ([]Assignment, error) {
	var out []Assignment
	for {
		t := p.peek()
		switch {
		case t.kind == tokEOF:
			return out, nil
		case t.kind == tokNewline:
			p.advance()
		case t.kind == tokName && (t.text == "from" || t.text == "import"):
			p.skipStatement()
		case t.kind == tokName:
			a, err := p.assignment()
			if err != nil {
				return nil, err
			}
			p.env[a.Name] = a.Value
			out = append(out, a)
		default:
			return nil, p.unexpected(t, "assignment")
		}
	}
}

func (p *parser) skipStatement() {
	for {
		t := p.peek()
		if t.kind == tokEOF || t.kind == tokNewline {
			return
		}
		p.advance()
	}
}

func (p *parser) assignment() (Assignment, error) {
	name := p.advance()
	if err := p.expectOp("="); err != nil {
		return Assignment{}, err
	}
	v, err := p.bareTuple()
	if err != nil {
		return Assignment{}, err
	}
	if t := p.peek(); t.kind != tokNewline && t.kind != tokEOF {
		return Assignment{}, p.unexpected(t, "end of statement")
	}
	return Assignment{Name: name.text, Value: v, Line: name.line}, nil
}

// bareTuple parses `a, b` on the right of an assignment as a tuple.
func (p *parser) bareTuple() (Value, error) {
	first, err := p.expr()
	if err != nil {
		return Value{}, err
	}
	if !p.isOp(",") {
		return first, nil
	}
	items := []Value{first}
	for p.isOp(",") {
		p.advance()
		if t := p.peek(); t.kind == tokNewline || t.kind == tokEOF {
			break
		}
		v, err := p.expr()
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
	}
	return Value{Kind: Tuple, Items: items}, nil
}

func (p *parser) expr() (Value, error) {
	t := p.advance()
	switch t.kind {
	case tokString:
		s := t.text
		for p.peek().kind == tokString {
			s += p.advance().text
		}
		return Str(s), nil
	case tokInt:
		n, _ := strconv.ParseInt(t.text, 10, 64)
		return IntValue(n), nil
	case tokName:
		switch t.text {
		case "None":
			return NoneValue, nil
		case "True":
			return True, nil
		case "False":
			return False, nil
		}
		if v, ok := p.env[t.text]; ok {
			return v, nil
		}
		return Value{}, &SyntaxError{Line: t.line, Msg: fmt.Sprintf("name %q is not defined", t.text)}
	case tokOp:
		switch t.text {
		case "-":
			n := p.advance()
			if n.kind != tokInt {
				return Value{}, p.unexpected(n, "integer")
			}
			v, _ := strconv.ParseInt(n.text, 10, 64)
			return IntValue(-v), nil
		case "(":
			return p.sequence(")", Tuple)
		case "[":
			return p.sequence("]", List)
		case "{":
			return p.dict()
		}
	}
	return Value{}, p.unexpected(t, "literal")
}

// sequence parses the items after an opening bracket. A parenthesized single
// item without a trailing comma is just that item.
func (p *parser) sequence(closing string, kind Kind) (Value, error) {
	var items []Value
	trailingComma := false
	for !p.isOp(closing) {
		v, err := p.expr()
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
		trailingComma = false
		if p.isOp(",") {
			p.advance()
			trailingComma = true
			continue
		}
		if !p.isOp(closing) {
			return Value{}, p.unexpected(p.peek(), fmt.Sprintf("%q or %q", ",", closing))
		}
	}
	p.advance()
	if kind == Tuple && len(items) == 1 && !trailingComma {
		return items[0], nil
	}
	return Value{Kind: kind, Items: items}, nil
}

func (p *parser) dict() (Value, error) {
	d := Value{Kind: Dict}
	for !p.isOp("}") {
		k, err := p.expr()
		if err != nil {
			return Value{}, err
		}
		if err := p.expectOp(":"); err != nil {
			return Value{}, err
		}
		v, err := p.expr()
		if err != nil {
			return Value{}, err
		}
		d.Keys = append(d.Keys, k)
		d.Items = append(d.Items, v)
		if p.isOp(",") {
			p.advance()
			continue
		}
		if !p.isOp("}") {
			return Value{}, p.unexpected(p.peek(), `"," or "}"`)
		}
	}
	p.advance()
	return d, nil
}
