package pyconf

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNewline
	tokName
	tokString
	tokInt
	tokOp
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of file"
	case tokNewline:
		return "newline"
	case tokName:
		return "name"
	case tokString:
		return "string"
	case tokInt:
		return "integer"
	default:
		return "operator"
	}
}

type token struct {
	kind tokenKind
	text string // decoded value for strings, raw text otherwise
	line int
}

// lexer splits a settings module into tokens. Newlines inside brackets and
// after a backslash continuation are not emitted.
type lexer struct {
	src   string
	pos   int
	line  int
	depth int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1}
}

func (l *lexer) errorf(format string, args ...any) error {
	return &SyntaxError{Line: l.line, Msg: fmt.Sprintf(format, args...)}
}

func (l *lexer) tokens() ([]token, error) {
	var out []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
		if tok.kind == tokEOF {
			return out, nil
		}
	}
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '#':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		case c == '\\' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '\n':
			l.pos += 2
			l.line++
		case c == '\r' || c == ' ' || c == '\t' || c == '\f':
			l.pos++
		case c == '\n':
			l.pos++
			l.line++
			if l.depth == 0 {
				return token{kind: tokNewline, line: l.line - 1}, nil
			}
		default:
			return l.lexToken()
		}
	}
	if l.depth > 0 {
		return token{}, l.errorf("unexpected end of file inside brackets")
	}
	return token{kind: tokEOF, line: l.line}, nil
}

func (l *lexer) lexToken() (token, error) {
	c := l.src[l.pos]
	switch {
	case c == '\'' || c == '"':
		return l.lexString("")
	case c >= '0' && c <= '9':
		return l.lexInt()
	case c == '_' || isLetter(l.src[l.pos:]):
		start := l.pos
		for l.pos < len(l.src) {
			r, size := utf8.DecodeRuneInString(l.src[l.pos:])
			if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				break
			}
			l.pos += size
		}
		word := l.src[start:l.pos]
		if l.pos < len(l.src) && (l.src[l.pos] == '\'' || l.src[l.pos] == '"') && isStringPrefix(word) {
			return l.lexString(strings.ToLower(word))
		}
		return token{kind: tokName, text: word, line: l.line}, nil
	}
	switch c {
	case '(', '[', '{':
		l.depth++
	case ')', ']', '}':
		if l.depth == 0 {
			return token{}, l.errorf("unbalanced %q", c)
		}
		l.depth--
	case '=', ',', '.', '-', '+', '*', ':':
	default:
		return token{}, l.errorf("unexpected character %q", c)
	}
	l.pos++
	return token{kind: tokOp, text: string(c), line: l.line}, nil
}

func isLetter(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLetter(r)
}

func isStringPrefix(w string) bool {
	switch strings.ToLower(w) {
	case "r", "u", "b", "br", "rb":
		return true
	}
	return false
}

func (l *lexer) lexInt() (token, error) {
	start := l.pos
	for l.pos < len(l.src) && (l.src[l.pos] >= '0' && l.src[l.pos] <= '9' || l.src[l.pos] == '_') {
		l.pos++
	}
	text := strings.ReplaceAll(l.src[start:l.pos], "_", "")
	if _, err := strconv.ParseInt(text, 10, 64); err != nil {
		return token{}, l.errorf("invalid integer %q", l.src[start:l.pos])
	}
	return token{kind: tokInt, text: text, line: l.line}, nil
}

func (l *lexer) lexString(prefix string) (token, error) {
	raw := strings.Contains(prefix, "r")
	startLine := l.line
	quote := l.src[l.pos]
	triple := strings.HasPrefix(l.src[l.pos:], strings.Repeat(string(quote), 3))
	if triple {
		l.pos += 3
	} else {
		l.pos++
	}

	var b strings.Builder
	for {
		if l.pos >= len(l.src) {
			return token{}, &SyntaxError{Line: startLine, Msg: "unterminated string"}
		}
		c := l.src[l.pos]
		switch {
		case c == quote && !triple:
			l.pos++
			return token{kind: tokString, text: b.String(), line: startLine}, nil
		case c == quote && strings.HasPrefix(l.src[l.pos:], strings.Repeat(string(quote), 3)):
			l.pos += 3
			return token{kind: tokString, text: b.String(), line: startLine}, nil
		case c == '\n':
			if !triple {
				return token{}, &SyntaxError{Line: startLine, Msg: "newline in string"}
			}
			l.line++
			b.WriteByte(c)
			l.pos++
		case c == '\\':
			if l.pos+1 >= len(l.src) {
				return token{}, &SyntaxError{Line: startLine, Msg: "unterminated string"}
			}
			if raw {
				b.WriteString(l.src[l.pos : l.pos+2])
				l.pos += 2
				continue
			}
			if err := l.escape(&b); err != nil {
				return token{}, err
			}
		default:
			b.WriteByte(c)
			l.pos++
		}
	}
}

// escape decodes the backslash sequence at l.pos. Unknown escapes are kept
// verbatim, as the interpreter does.
func (l *lexer) escape(b *strings.Builder) error {
	e := l.src[l.pos+1]
	l.pos += 2
	switch e {
	case '\n':
		l.line++
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'a':
		b.WriteByte('\a')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'v':
		b.WriteByte('\v')
	case '0', '1', '2', '3', '4', '5', '6', '7':
		// Up to three octal digits, the first already consumed.
		v := rune(e - '0')
		for i := 0; i < 2 && l.pos < len(l.src) && l.src[l.pos] >= '0' && l.src[l.pos] <= '7'; i++ {
			v = v*8 + rune(l.src[l.pos]-'0')
			l.pos++
		}
		b.WriteRune(v)
	case '\\', '\'', '"':
		b.WriteByte(e)
	case 'x', 'u', 'U':
		n := map[byte]int{'x': 2, 'u': 4, 'U': 8}[e]
		if l.pos+n > len(l.src) {
			return l.errorf("truncated \\%c escape", e)
		}
		v, err := strconv.ParseUint(l.src[l.pos:l.pos+n], 16, 32)
		if err != nil {
			return l.errorf("invalid \\%c escape", e)
		}
		b.WriteRune(rune(v))
		l.pos += n
	default:
		b.WriteByte('\\')
		b.WriteByte(e)
	}
	return nil
}
