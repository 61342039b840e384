// Package dsl provides short constructors for building clause trees in
// Go code, mostly for tests and example programs.
package dsl

import (
	"github.com/varkor/Epilog/term"
)

func Terms(ts ...term.Term) []term.Term {
	return ts
}

func Atom(name string) *term.Comp {
	return term.Atom(name)
}

func Int(i int64) term.Int {
	return term.NewInt(i)
}

func Var(name string) term.Var {
	return term.NewVar(name)
}

func Comp(functor string, args ...term.Term) *term.Comp {
	return term.NewComp(functor, args...)
}

func Indicator(name string, arity int) term.Indicator {
	return term.Indicator{Name: name, Arity: arity}
}

// ----

func List(ts ...term.Term) *term.List {
	return &term.List{Elems: ts}
}

// IList is an incomplete list: the last term is the tail.
func IList(ts ...term.Term) *term.List {
	n := len(ts)
	butlast, last := ts[:n-1], ts[n-1]
	return &term.List{Elems: butlast, Tail: last}
}

func Str(s string) *term.Str {
	return &term.Str{Value: s}
}

// ----

func Goal(functor string, args ...term.Term) term.Goal {
	return term.Goal{Call: Comp(functor, args...)}
}

// NegGoal is a goal under `\+`.
func NegGoal(functor string, args ...term.Term) term.Goal {
	return term.Goal{Modifier: term.Negate, Call: Comp(functor, args...)}
}

// IntGoal is a goal under `\:`.
func IntGoal(functor string, args ...term.Term) term.Goal {
	return term.Goal{Modifier: term.Intercept, Call: Comp(functor, args...)}
}

func Fact(head *term.Comp) *term.Clause {
	return term.NewFact(head)
}

func Rule(head *term.Comp, body ...term.Goal) *term.Clause {
	return term.NewRule(head, body...)
}

func Query(body ...term.Goal) *term.Clause {
	return term.NewQuery(body...)
}

func Clauses(cs ...*term.Clause) []*term.Clause {
	return cs
}
