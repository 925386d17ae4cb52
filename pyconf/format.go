package pyconf

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Format returns v as Python source.
func Format(v Value) string {
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

func writeValue(b *strings.Builder, v Value) {
	switch v.Kind {
	case None:
		b.WriteString("None")
	case Bool:
		if v.Bool {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case Int:
		b.WriteString(strconv.FormatInt(v.Int, 10))
	case String:
		b.WriteString(quote(v.Str))
	case Tuple, List:
		open, closing := "(", ")"
		if v.Kind == List {
			open, closing = "[", "]"
		}
		b.WriteString(open)
		for i, item := range v.Items {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, item)
		}
		if v.Kind == Tuple && len(v.Items) == 1 {
			b.WriteByte(',')
		}
		b.WriteString(closing)
	case Dict:
		b.WriteByte('{')
		for i := range v.Keys {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, v.Keys[i])
			b.WriteString(": ")
			writeValue(b, v.Items[i])
		}
		b.WriteByte('}')
	}
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\x%02x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// Write emits assignments as a settings module. Sequences of tuples are laid
// out one item per line, aligned under the opening bracket.
func Write(w io.Writer, assigns []Assignment) error {
	for _, a := range assigns {
		if _, err := io.WriteString(w, formatAssignment(a)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func formatAssignment(a Assignment) string {
	prefix := a.Name + " = "
	v := a.Value
	if !v.IsSequence() || len(v.Items) < 2 {
		return prefix + Format(v)
	}
	open, closing := "(", ")"
	if v.Kind == List {
		open, closing = "[", "]"
	}
	indent := strings.Repeat(" ", len(prefix)+1)
	var b strings.Builder
	b.WriteString(prefix + open)
	for i, item := range v.Items {
		if i > 0 {
			b.WriteString("\n" + indent)
		}
		b.WriteString(Format(item) + ",")
	}
	b.WriteString(closing)
	return b.String()
}
