package term

// Lower rewrites List and Str sugar into the "./2" / "[]/0" nucleus the
// compiler understands, recursively. It is idempotent: a term with no
// List/Str anywhere is returned unchanged (by value, for Var/Int; the same
// pointer for already-lowered Comp nodes is not guaranteed, since Lower
// always rebuilds Comp args to make the recursion simple to reason about).
func Lower(t Term) Term {
	switch x := t.(type) {
	case Var, Int:
		return x
	case *Comp:
		args := make([]Term, len(x.Args))
		for i, a := range x.Args {
			args[i] = Lower(a)
		}
		return &Comp{Functor: x.Functor, Args: args}
	case *List:
		tail := Term(Atom("[]"))
		if x.Tail != nil {
			tail = Lower(x.Tail)
		}
		for i := len(x.Elems) - 1; i >= 0; i-- {
			tail = &Comp{Functor: ".", Args: []Term{Lower(x.Elems[i]), tail}}
		}
		return tail
	case *Str:
		return lowerString(x.Value)
	default:
		return t
	}
}

// lowerString renders a double-quoted literal as a list of single-character
// atoms: "ab" becomes .(a, .(b, [])). No separate string cell type exists
// at runtime, so character data must become ordinary list structure before
// compilation.
func lowerString(s string) Term {
	runes := []rune(s)
	tail := Term(Atom("[]"))
	for i := len(runes) - 1; i >= 0; i-- {
		tail = &Comp{Functor: ".", Args: []Term{Atom(string(runes[i])), tail}}
	}
	return tail
}

// LowerClause lowers every term in a clause's head and body in place and
// returns it for chaining.
func LowerClause(c *Clause) *Clause {
	if c.Head != nil {
		c.Head = Lower(c.Head).(*Comp)
	}
	for i, g := range c.Body {
		c.Body[i].Call = Lower(g.Call).(*Comp)
	}
	return c
}
