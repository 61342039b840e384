package term

// Modifier is a goal's call modifier, chosen by the `\+` and `\:` prefixes.
type Modifier int

const (
	None Modifier = iota
	Negate
	Intercept
)

func (m Modifier) String() string {
	switch m {
	case Negate:
		return `\+`
	case Intercept:
		return `\:`
	default:
		return ""
	}
}

// Goal is one conjunct of a rule or query body.
type Goal struct {
	Modifier Modifier
	Call     *Comp
}

func (g Goal) String() string {
	if g.Modifier == None {
		return g.Call.String()
	}
	return g.Modifier.String() + " " + g.Call.String()
}

// Kind distinguishes the three top-level clause shapes.
type Kind int

const (
	FactClause Kind = iota
	RuleClause
	QueryClause
)

func (k Kind) String() string {
	switch k {
	case FactClause:
		return "fact"
	case RuleClause:
		return "rule"
	default:
		return "query"
	}
}

// Clause is a fact (head only), a rule (head and body), or a query
// (body only).
type Clause struct {
	Kind Kind
	Head *Comp // nil for QueryClause
	Body []Goal
}

func NewFact(head *Comp) *Clause {
	return &Clause{Kind: FactClause, Head: head}
}

func NewRule(head *Comp, body ...Goal) *Clause {
	return &Clause{Kind: RuleClause, Head: head, Body: body}
}

func NewQuery(body ...Goal) *Clause {
	return &Clause{Kind: QueryClause, Body: body}
}

// Indicator is the functor/arity pair identifying a predicate.
type Indicator struct {
	Name  string
	Arity int
}

func (c *Clause) Indicator() Indicator {
	if c.Head == nil {
		return Indicator{}
	}
	return Indicator{c.Head.Functor, len(c.Head.Args)}
}
