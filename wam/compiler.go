package wam

import "github.com/varkor/Epilog/term"

// classifyVariables decides which variables need an environment slot: a
// variable is temporary if every occurrence falls within a single goal
// (the head counts as goal 0, each body literal as goal 1..n); it is
// permanent the moment it spans more than one goal, since it must then
// survive at least one intervening Call. A query forces every named
// variable permanent, so its bindings stay readable for the solution
// display after the last goal returns.
func classifyVariables(c *term.Clause) map[string]bool {
	goals := make([]term.Term, 0, len(c.Body)+1)
	if c.Head != nil {
		goals = append(goals, c.Head)
	}
	for _, g := range c.Body {
		goals = append(goals, g.Call)
	}

	spans := make(map[string]map[int]bool)
	for i, g := range goals {
		for _, name := range term.Vars(g) {
			if spans[name] == nil {
				spans[name] = make(map[int]bool)
			}
			spans[name][i] = true
		}
	}
	permanent := make(map[string]bool)
	for name, set := range spans {
		if c.Kind == term.QueryClause || len(set) > 1 {
			permanent[name] = true
		}
	}
	return permanent
}

// maxArity returns the widest argument list the clause ever writes
// through a shared 0-based register window: its own head, and every
// call its body makes. Variable homes are allocated starting above this
// window so that no later goal's argument-passing can ever clobber an
// earlier variable's home register.
func maxArity(c *term.Clause) int {
	max := 0
	if c.Head != nil {
		max = len(c.Head.Args)
	}
	for _, g := range c.Body {
		if n := len(g.Call.Args); n > max {
			max = n
		}
	}
	return max
}

// clauseCompiler emits one clause's instructions. Temporary variables
// are each given one stable scratch register, distinct from the
// argument-register window every Call's PutValue writes through; a
// temporary variable's first occurrence always mints a fresh register
// rather than reusing whatever register it was discovered in, so a
// later goal's own argument construction can never clobber it. This
// trades the register-reuse classic WAM compilers do for simplicity;
// correctness doesn't depend on it.
type clauseCompiler struct {
	permanent map[string]bool
	regOf     map[string]Address
	envNames  []string // names in environment-slot order
	nextEnv   int
	nextReg   int
	code      []Instruction
}

func newClauseCompiler(permanent map[string]bool, firstScratchReg int) *clauseCompiler {
	return &clauseCompiler{
		permanent: permanent,
		regOf:     make(map[string]Address),
		nextReg:   firstScratchReg,
	}
}

func (cc *clauseCompiler) emit(i Instruction) int {
	cc.code = append(cc.code, i)
	return len(cc.code) - 1
}

func (cc *clauseCompiler) freshScratch() Address {
	a := RegAddr(cc.nextReg)
	cc.nextReg++
	return a
}

// homeFor returns the address a variable's first occurrence should live
// at: an environment slot if it's permanent, otherwise candidate (always
// a freshly minted scratch register, never an argument register).
func (cc *clauseCompiler) homeFor(name string, candidate Address) Address {
	if cc.permanent[name] {
		a := EnvAddr(cc.nextEnv)
		cc.nextEnv++
		cc.envNames = append(cc.envNames, name)
		return a
	}
	return candidate
}

// pendingHead is one worklist entry: term t must be matched against
// whatever value already sits in reg.
type pendingHead struct {
	term term.Term
	reg  Address
}

// compileHead drains a breadth-first worklist of head arguments. This
// has to be breadth-first, not the naive depth-first recursion it looks
// like it could be: a nested structure's own GetStructure overwrites the
// machine's single mode/matchBase/cursor, which the *enclosing*
// structure still needs for its own remaining arguments. Finishing every
// argument of the current structure before descending into any of them
// keeps that shared state valid throughout.
func (cc *clauseCompiler) compileHead(args []term.Term) {
	queue := make([]pendingHead, len(args))
	for i, a := range args {
		queue[i] = pendingHead{term: a, reg: RegAddr(i)}
	}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		queue = append(queue, cc.compileHeadTerm(p.term, p.reg)...)
	}
}

// compileHeadTerm emits the instructions for one worklist entry and
// returns any nested structures it exposed, for the caller to enqueue.
func (cc *clauseCompiler) compileHeadTerm(t term.Term, reg Address) []pendingHead {
	switch v := t.(type) {
	case term.Var:
		if v.Name == "_" {
			return nil
		}
		if addr, seen := cc.regOf[v.Name]; seen {
			cc.emit(GetValue{Reg: addr, ArgReg: reg})
			return nil
		}
		addr := cc.homeFor(v.Name, cc.freshScratch())
		cc.regOf[v.Name] = addr
		cc.emit(GetVariable{Dst: addr, ArgReg: reg})
		return nil
	case term.Int:
		cc.emit(GetInteger{Value: v.Value, Reg: reg})
		return nil
	case *term.Comp:
		cc.emit(GetStructure{Functor: Functor{Name: v.Functor, Arity: len(v.Args)}, Reg: reg})
		var nested []pendingHead
		for _, arg := range v.Args {
			nested = append(nested, cc.compileStructArg(arg)...)
		}
		return nested
	default:
		return nil
	}
}

// compileStructArg emits one unify_variable/unify_value against the
// cursor GetStructure just positioned. A variable is resolved directly,
// since it can never itself carry further structure to decompose; any
// other term claims a fresh scratch register now (consuming this
// structure's next argument slot) and is handed back to the worklist so
// its own decomposition happens only once this structure's scan ends.
func (cc *clauseCompiler) compileStructArg(t term.Term) []pendingHead {
	if v, ok := t.(term.Var); ok {
		if v.Name == "_" {
			cc.emit(UnifyVariable{Reg: cc.freshScratch()})
			return nil
		}
		if addr, seen := cc.regOf[v.Name]; seen {
			cc.emit(UnifyValue{Reg: addr})
			return nil
		}
		addr := cc.homeFor(v.Name, cc.freshScratch())
		cc.regOf[v.Name] = addr
		cc.emit(UnifyVariable{Reg: addr})
		return nil
	}
	scratch := cc.freshScratch()
	cc.emit(UnifyVariable{Reg: scratch})
	return []pendingHead{{term: t, reg: scratch}}
}

// compileBodyTerm builds t on the heap in post-order, so nested
// structures are fully built, bottom-up, before the enclosing structure
// is, and returns the address holding its value.
func (cc *clauseCompiler) compileBodyTerm(t term.Term) Address {
	switch v := t.(type) {
	case term.Var:
		if v.Name != "_" {
			if addr, seen := cc.regOf[v.Name]; seen {
				return addr
			}
		}
		addr := cc.homeFor(v.Name, cc.freshScratch())
		if v.Name != "_" {
			cc.regOf[v.Name] = addr
		}
		cc.emit(SetVariable{Reg: addr})
		return addr
	case term.Int:
		addr := cc.freshScratch()
		cc.emit(PutInteger{Value: v.Value, Reg: addr})
		return addr
	case *term.Comp:
		childAddrs := make([]Address, len(v.Args))
		for i, arg := range v.Args {
			childAddrs[i] = cc.compileBodyTerm(arg)
		}
		reg := cc.freshScratch()
		cc.emit(PutStructure{Functor: Functor{Name: v.Functor, Arity: len(v.Args)}, Reg: reg})
		for _, ca := range childAddrs {
			cc.emit(SetValue{Reg: ca})
		}
		return reg
	default:
		panic("compileBodyTerm: unexpected term type")
	}
}

// compileGoal emits a body literal's argument construction and its Call.
// A modified goal (`\+`/`\:`) is wrapped in a try/trust boundary so that
// G's own choice points or environment never escape into the enclosing
// clause: see the design note in wam/run.go's resolveModifier for how
// the boundary's two landing points (G succeeds vs. G's alternatives are
// exhausted) are reached.
func (cc *clauseCompiler) compileGoal(g term.Goal) {
	functor := Functor{Name: g.Call.Functor, Arity: len(g.Call.Args)}
	for i, arg := range g.Call.Args {
		addr := cc.compileBodyTerm(arg)
		cc.emit(PutValue{Reg: addr, ArgReg: RegAddr(i)})
	}

	if g.Modifier == term.None {
		cc.emit(Call{Functor: functor, Modifier: term.None})
		return
	}

	tryIdx := cc.emit(TryInitialClause{})
	callIdx := cc.emit(Call{Functor: functor, Modifier: g.Modifier})
	boundaryAddr := callIdx + 1
	cc.emit(TrustFinalClause{})
	if g.Modifier == term.Intercept {
		cc.emit(Command{Name: "fail"})
	}
	afterAddr := len(cc.code)

	cc.code[tryIdx] = TryInitialClause{Alternative: boundaryAddr}
	cc.code[callIdx] = Call{Functor: functor, Modifier: g.Modifier, After: afterAddr}
}

// rebase shifts every jump target compileGoal computed relative to a
// code block's own start (0) by base, so the block can be spliced into
// m.Code at that absolute position without corrupting its internal
// `\+`/`\:` try/call boundaries. Every other instruction carries no
// address operand of its own and passes through unchanged.
func rebase(code []Instruction, base int) []Instruction {
	if base == 0 {
		return code
	}
	out := make([]Instruction, len(code))
	for i, instr := range code {
		switch v := instr.(type) {
		case TryInitialClause:
			out[i] = TryInitialClause{Alternative: v.Alternative + base}
		case TryIntermediateClause:
			out[i] = TryIntermediateClause{Alternative: v.Alternative + base}
		case Call:
			if v.Modifier != term.None {
				out[i] = Call{Functor: v.Functor, Modifier: v.Modifier, After: v.After + base}
			} else {
				out[i] = v
			}
		default:
			out[i] = instr
		}
	}
	return out
}

// CompileRule lowers and compiles a fact or rule clause into the
// instruction sequence AddClause should splice into the database.
func CompileRule(c *term.Clause) (Functor, []Instruction) {
	term.LowerClause(c)
	permanent := classifyVariables(c)
	cc := newClauseCompiler(permanent, maxArity(c))

	allocated := len(permanent) > 0
	allocIdx := -1
	if allocated {
		allocIdx = cc.emit(Allocate{})
	}

	cc.compileHead(c.Head.Args)
	for _, g := range c.Body {
		cc.compileGoal(g)
	}

	if allocated {
		cc.code[allocIdx] = Allocate{NumVars: cc.nextEnv}
		cc.emit(Deallocate{})
	} else {
		cc.emit(Proceed{})
	}

	return Functor{Name: c.Head.Functor, Arity: len(c.Head.Args)}, cc.code
}

// QueryVar names one of a query's variables and the environment slot its
// binding can be read back from once the query succeeds.
type QueryVar struct {
	Name string
	Addr Address
}

// CompiledQuery is a query body ready for Machine.LoadQuery/RunQuery,
// plus the variable/slot table the solution display reads.
type CompiledQuery struct {
	Code []Instruction
	Vars []QueryVar
}

// CompileQuery lowers and compiles a query clause's body into a runnable
// instruction sequence for RunQuery; queries have no head and are never
// added to the database. Every named query variable is permanent, and
// the query's terminator is a plain Proceed rather than a Deallocate:
// the environment frame must outlive the run so the caller can format
// each variable's binding out of it.
func CompileQuery(c *term.Clause) *CompiledQuery {
	term.LowerClause(c)
	permanent := classifyVariables(c)
	cc := newClauseCompiler(permanent, maxArity(c))

	allocated := len(permanent) > 0
	allocIdx := -1
	if allocated {
		allocIdx = cc.emit(Allocate{})
	}

	for _, g := range c.Body {
		cc.compileGoal(g)
	}

	if allocated {
		cc.code[allocIdx] = Allocate{NumVars: cc.nextEnv}
	}
	cc.emit(Proceed{})

	vars := make([]QueryVar, len(cc.envNames))
	for i, name := range cc.envNames {
		vars[i] = QueryVar{Name: name, Addr: EnvAddr(i)}
	}
	return &CompiledQuery{Code: cc.code, Vars: vars}
}
