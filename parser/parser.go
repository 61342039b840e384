// Package parser reads source text into term.Clause values using
// Participle v2: a lexer plus a struct-tagged grammar, the way
// oisee-psil's pkg/parser builds its own language's front end.
package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/varkor/Epilog/term"
)

// Program is every clause in a source file, in textual order.
type Program struct {
	Clauses []*ClauseNode `@@*`
}

// ClauseNode is a query, a rule, or a fact. The head/body split is
// factored so a clause's kind is decided by its first token (`?-`) or by
// whether a `:-` follows the head, with no backtracking over the head
// itself.
type ClauseNode struct {
	Query *GoalSeq  `  "?-" @@ "."`
	Head  *TermNode `| @@`
	Body  *GoalSeq  `  ( ":-" @@ )? "."`
}

// GoalSeq is a comma-separated conjunction of goals.
type GoalSeq struct {
	Goals []*GoalNode `@@ ("," @@)*`
}

// GoalNode is one conjunct: an optional `\+`/`\:` modifier applied to a
// call, or an infix `=`/`is` goal.
type GoalNode struct {
	Modifier string    `( @("\\+" | "\\:") )?`
	Left     *TermNode `@@`
	Op       string    `( @("=" | "is")`
	Right    *TermNode `  @@ )?`
}

// TermNode is the additive level of a small two-level operator-
// precedence ladder for `+`/`*` (enough for is/2's arithmetic): a
// TermNode is a sum of Factors, each Factor a product of Primaries, so
// `1 + 2 * 3` parses as `+(1, *(2, 3))` rather than left-to-right.
// Rest is a slice (not a bare Op/Right pair) because participle
// overwrites a non-slice field on every repetition instead of
// accumulating — a chain like `1 + 2 + 3` needs every addend kept, not
// just the last.
type TermNode struct {
	Left *Factor       `@@`
	Rest []*AddendTerm `@@*`
}

// AddendTerm is one "+ <factor>" step of a TermNode's additive chain.
type AddendTerm struct {
	Op    string  `@"+"`
	Right *Factor `@@`
}

// Factor is the multiplicative level: a product of Primaries.
type Factor struct {
	Left *Primary      `@@`
	Rest []*FactorTerm `@@*`
}

// FactorTerm is one "* <primary>" step of a Factor's multiplicative
// chain.
type FactorTerm struct {
	Op    string   `@"*"`
	Right *Primary `@@`
}

type Primary struct {
	Int     *int64      `  @Number`
	Str     *string     `| @String`
	Var     *string     `| @Var`
	List    *ListNode   `| @@`
	Paren   *TermNode   `| "(" @@ ")"`
	Functor *string     `| ( @Ident | @Quoted )`
	Args    []*TermNode `  ( "(" @@ ("," @@)* ")" )?`
}

// ListNode is "[ Elem, Elem, ... | Tail ]".
type ListNode struct {
	Elems []*TermNode `"[" ( @@ ("," @@)* )?`
	Tail  *TermNode   `( "|" @@ )? "]"`
}

var lex = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Comment", Pattern: `%[^\n]*`},
	{Name: "QueryMark", Pattern: `\?-`},
	{Name: "Arrow", Pattern: `:-`},
	{Name: "Negate", Pattern: `\\\+`},
	{Name: "Intercept", Pattern: `\\:`},
	{Name: "Number", Pattern: `-?[0-9]+`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Quoted", Pattern: `'(''|\\.|[^'\\])*'`},
	{Name: "Var", Pattern: `[A-Z_][A-Za-z0-9_]*`},
	{Name: "Ident", Pattern: `[a-z][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[()\[\]|,.]`},
	{Name: "Op", Pattern: `[+*=]`},
})

var grammar = participle.MustBuild[Program](
	participle.Lexer(lex),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(4),
	participle.Unquote("String"),
)

// Parse reads source into clauses, lowered and ready for wam.CompileRule
// or wam.CompileQuery.
func Parse(source string) ([]*term.Clause, error) {
	prog, err := grammar.ParseString("", source)
	if err != nil {
		return nil, err
	}
	clauses := make([]*term.Clause, 0, len(prog.Clauses))
	for _, c := range prog.Clauses {
		clauses = append(clauses, c.toClause())
	}
	return clauses, nil
}

func (c *ClauseNode) toClause() *term.Clause {
	switch {
	case c.Query != nil:
		return term.NewQuery(c.Query.toGoals()...)
	case c.Body != nil:
		return term.NewRule(c.Head.toComp(), c.Body.toGoals()...)
	default:
		return term.NewFact(c.Head.toComp())
	}
}

func (gs *GoalSeq) toGoals() []term.Goal {
	goals := make([]term.Goal, 0, len(gs.Goals))
	for _, g := range gs.Goals {
		goals = append(goals, g.toGoal())
	}
	return goals
}

func (g *GoalNode) toGoal() term.Goal {
	modifier := term.None
	switch g.Modifier {
	case `\+`:
		modifier = term.Negate
	case `\:`:
		modifier = term.Intercept
	}
	left := g.Left.toTerm()
	if g.Op != "" {
		return term.Goal{Modifier: modifier, Call: term.NewComp(g.Op, left, g.Right.toTerm())}
	}
	comp, ok := left.(*term.Comp)
	if !ok {
		comp = term.Atom(left.String())
	}
	// not(G) is a synonym for \+ G.
	if modifier == term.None && comp.Functor == "not" && len(comp.Args) == 1 {
		if inner, ok := comp.Args[0].(*term.Comp); ok {
			return term.Goal{Modifier: term.Negate, Call: inner}
		}
	}
	return term.Goal{Modifier: modifier, Call: comp}
}

// toComp forces a TermNode into head/fact position, where the grammar
// always produces a compound (a bare atom is a zero-arity Comp already).
func (t *TermNode) toComp() *term.Comp {
	v := t.toTerm()
	if comp, ok := v.(*term.Comp); ok {
		return comp
	}
	return term.Atom(v.String())
}

// toTerm folds the additive chain left-associatively: 1 + 2 + 3 becomes
// (1 + 2) + 3, with each addend itself a Factor's own multiplicative
// fold, so `*` binds tighter than `+`.
func (t *TermNode) toTerm() term.Term {
	result := t.Left.toTerm()
	for _, step := range t.Rest {
		result = term.NewComp(step.Op, result, step.Right.toTerm())
	}
	return result
}

func (f *Factor) toTerm() term.Term {
	result := f.Left.toTerm()
	for _, step := range f.Rest {
		result = term.NewComp(step.Op, result, step.Right.toTerm())
	}
	return result
}

func (p *Primary) toTerm() term.Term {
	switch {
	case p.Int != nil:
		return term.NewInt(*p.Int)
	case p.Str != nil:
		return &term.Str{Value: *p.Str}
	case p.Var != nil:
		return term.NewVar(*p.Var)
	case p.List != nil:
		return p.List.toTerm()
	case p.Paren != nil:
		return p.Paren.toTerm()
	default:
		name := unquoteAtom(*p.Functor)
		if len(p.Args) == 0 {
			return term.Atom(name)
		}
		args := make([]term.Term, len(p.Args))
		for i, a := range p.Args {
			args[i] = a.toTerm()
		}
		return term.NewComp(name, args...)
	}
}

func (l *ListNode) toTerm() term.Term {
	elems := make([]term.Term, len(l.Elems))
	for i, e := range l.Elems {
		elems[i] = e.toTerm()
	}
	lst := &term.List{Elems: elems}
	if l.Tail != nil {
		lst.Tail = l.Tail.toTerm()
	}
	return lst
}

// unquoteAtom strips a quoted atom's surrounding quotes and unescapes
// both quote spellings: doubled ('') and backslashed (\').
func unquoteAtom(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		body := s[1 : len(s)-1]
		body = strings.ReplaceAll(body, `''`, "'")
		return strings.ReplaceAll(body, `\'`, "'")
	}
	return s
}
