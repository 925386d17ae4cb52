// Package pyconf reads and writes the flat literal subset of Python used by
// static-site settings modules such as pelicanconf.py.
//
// A module is a sequence of NAME = literal assignments. Literals are strings,
// integers, True/False/None, tuples, lists and dicts, or a reference to a
// name assigned earlier in the same module. Imports are skipped; anything
// else is rejected with a *SyntaxError.
package pyconf

import (
	"fmt"
	"strconv"
)

// Kind identifies the type of a literal Value.
type Kind int

const (
	None Kind = iota
	Bool
	Int
	String
	Tuple
	List
	Dict
)

func (k Kind) String() string {
	switch k {
	case None:
		return "None"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case String:
		return "str"
	case Tuple:
		return "tuple"
	case List:
		return "list"
	case Dict:
		return "dict"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a parsed literal. Items holds tuple and list elements; for dicts
// Keys and Items are parallel and keep source order.
type Value struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Str   string
	Keys  []Value
	Items []Value
}

// Assignment is one top-level NAME = literal statement.
type Assignment struct {
	Name  string
	Value Value
	Line  int
}

// SyntaxError reports input outside the supported subset.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// NoneValue, True and False are the singleton literals.
var (
	NoneValue = Value{Kind: None}
	True      = Value{Kind: Bool, Bool: true}
	False     = Value{Kind: Bool, Bool: false}
)

// Str returns a string literal.
func Str(s string) Value { return Value{Kind: String, Str: s} }

// IntValue returns an integer literal.
func IntValue(n int64) Value { return Value{Kind: Int, Int: n} }

// TupleOf returns a tuple literal of items.
func TupleOf(items ...Value) Value { return Value{Kind: Tuple, Items: items} }

// ListOf returns a list literal of items.
func ListOf(items ...Value) Value { return Value{Kind: List, Items: items} }

// IsSequence reports whether v is a tuple or list.
func (v Value) IsSequence() bool {
	return v.Kind == Tuple || v.Kind == List
}

// Equal reports whether two values are structurally identical.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case None:
		return true
	case Bool:
		return v.Bool == o.Bool
	case Int:
		return v.Int == o.Int
	case String:
		return v.Str == o.Str
	}
	if len(v.Items) != len(o.Items) || len(v.Keys) != len(o.Keys) {
		return false
	}
	for i := range v.Keys {
		if !v.Keys[i].Equal(o.Keys[i]) {
			return false
		}
	}
	for i := range v.Items {
		if !v.Items[i].Equal(o.Items[i]) {
			return false
		}
	}
	return true
}

// Lookup returns the value of the last assignment to name.
func Lookup(assigns []Assignment, name string) (Value, bool) {
	for i := len(assigns) - 1; i >= 0; i-- {
		if assigns[i].Name == name {
			return assigns[i].Value, true
		}
	}
	return Value{}, false
}
