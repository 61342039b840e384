// Package term implements the clause-tree representation that the parser
// builds and the wam compiler consumes: facts, rules, queries, and the
// leaf kinds a clause argument can be (variable, compound term, integer,
// list literal, string literal).
package term

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/varkor/Epilog/runes"
)

// Term is any node that can appear as a clause argument.
type Term interface {
	fmt.Stringer
	vars(seen map[string]struct{}, out *[]string)
}

// Var is a named variable leaf. "_" is the anonymous variable: every
// occurrence is a distinct variable, so the compiler must never fold two
// "_" occurrences together by name.
type Var struct {
	Name string
}

// Int is a 64-bit integer leaf.
type Int struct {
	Value int64
}

// Comp is a compound term: a functor name applied to zero or more
// arguments. An atom is a Comp with no arguments.
type Comp struct {
	Functor string
	Args    []Term
}

// List is sugar for a chain of "./2" cells ending in Tail (defaults to the
// "[]" atom when nil). Lower before compilation; the wam package never sees
// a List value.
type List struct {
	Elems []Term
	Tail  Term // nil means closed ("[]")
}

// Str is sugar for a double-quoted string literal, lowered to a list of
// single-character atoms before compilation.
type Str struct {
	Value string
}

func NewVar(name string) Var { return Var{Name: name} }
func NewInt(v int64) Int     { return Int{Value: v} }
func NewComp(f string, a ...Term) *Comp {
	return &Comp{Functor: f, Args: a}
}
func Atom(name string) *Comp { return &Comp{Functor: name} }

func (Var) vars(seen map[string]struct{}, out *[]string) {}
func (Int) vars(seen map[string]struct{}, out *[]string) {}

func (v Var) String() string { return v.Name }
func (i Int) String() string { return fmt.Sprintf("%d", i.Value) }

func (c *Comp) vars(seen map[string]struct{}, out *[]string) {
	for _, a := range c.Args {
		a.vars(seen, out)
	}
}

func (c *Comp) String() string {
	if len(c.Args) == 0 {
		return FormatAtomName(c.Functor)
	}
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", FormatAtomName(c.Functor), strings.Join(parts, ","))
}

func (l *List) vars(seen map[string]struct{}, out *[]string) {
	for _, e := range l.Elems {
		e.vars(seen, out)
	}
	if l.Tail != nil {
		l.Tail.vars(seen, out)
	}
}

func (l *List) String() string {
	parts := make([]string, len(l.Elems))
	for i, e := range l.Elems {
		parts[i] = e.String()
	}
	body := strings.Join(parts, ",")
	if l.Tail == nil {
		return "[" + body + "]"
	}
	return fmt.Sprintf("[%s|%s]", body, l.Tail.String())
}

func (s *Str) vars(seen map[string]struct{}, out *[]string) {}
func (s *Str) String() string                               { return fmt.Sprintf("%q", s.Value) }

// Vars returns the distinct named variables referenced by t, in first-seen
// order. "_" is never returned: callers that need to count anonymous
// occurrences must walk the term themselves.
func Vars(t Term) []string {
	var out []string
	seen := map[string]struct{}{}
	walkNamedVars(t, seen, &out)
	return out
}

func walkNamedVars(t Term, seen map[string]struct{}, out *[]string) {
	switch x := t.(type) {
	case Var:
		if x.Name == "_" {
			return
		}
		if _, ok := seen[x.Name]; !ok {
			seen[x.Name] = struct{}{}
			*out = append(*out, x.Name)
		}
	case *Comp:
		for _, a := range x.Args {
			walkNamedVars(a, seen, out)
		}
	case *List:
		for _, e := range x.Elems {
			walkNamedVars(e, seen, out)
		}
		if x.Tail != nil {
			walkNamedVars(x.Tail, seen, out)
		}
	case *Str:
		// strings carry no variables; lowered before this ever matters.
	}
}

// FormatAtomName renders an atom name the way write/1 and the REPL do:
// bare when it already looks like an identifier, single-quoted (with `'`
// doubled) otherwise.
func FormatAtomName(name string) string {
	if !needsQuote(name) {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func needsQuote(name string) bool {
	if name == "[]" || name == "{}" || name == "!" {
		return false
	}
	first, ok := runes.First(name)
	if !ok || !unicode.IsLower(first) {
		return true
	}
	for _, c := range name {
		if !runes.IsIdent(c) {
			return true
		}
	}
	return false
}
