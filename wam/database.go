package wam

import "github.com/varkor/Epilog/errors"

// AddClause registers a compiled clause body under functor, splicing it
// into the shared instruction vector. Once a predicate has a second
// clause, every one of its clauses, the first included, is guarded by a
// try-family prologue instruction immediately preceding its body, so
// that Call always lands on either a plain clause prologue (one clause)
// or a try-me-else chain (multiple clauses), and backtracking always
// lands on a retry-me-else or trust-me prologue that falls through into
// the clause it guards. K >= 2 clauses thus carry exactly K try-family
// prologues: one try-me-else, K-2 retry-me-else and one trust-me.
//
// code's own TryInitialClause/Call addresses (emitted by a `\+`/`\:`
// wrapper inside the clause) are relative to code's own start, since the
// compiler has no way to know where AddClause will land it; rebase
// translates them to the absolute position they actually land at.
func (m *Machine) AddClause(functor Functor, code []Instruction) error {
	if m.builtinFunctors[functor] {
		return errors.Fatal("redeclaring built-in %s", functor)
	}
	rec, exists := m.Labels[functor]
	if !exists {
		start := m.loadCode(code)
		m.Labels[functor] = &FunctorRecord{Starts: []int{start}, End: len(m.Code)}
		return nil
	}
	switch len(rec.Starts) {
	case 1:
		insertPos := rec.Starts[0]
		m.insertInstructions(insertPos, []Instruction{TryInitialClause{}})
		newPrologue := len(m.Code)
		m.Code = append(m.Code, TrustFinalClause{})
		m.Code = append(m.Code, rebase(code, len(m.Code))...)
		m.Code[insertPos] = TryInitialClause{Alternative: newPrologue}
		// insertInstructions shifted rec.Starts[0] past the slot the
		// prologue it just inserted now occupies (the same shift it
		// would give any genuine instruction already at insertPos); put
		// it back so Starts[0] names the prologue, not the clause body.
		rec.Starts[0] = insertPos
		rec.Starts = append(rec.Starts, newPrologue)
		rec.End = len(m.Code)
	default:
		prevPrologue := rec.Starts[len(rec.Starts)-1]
		newPrologue := len(m.Code)
		m.Code = append(m.Code, TrustFinalClause{})
		m.Code = append(m.Code, rebase(code, len(m.Code))...)
		m.Code[prevPrologue] = TryIntermediateClause{Alternative: newPrologue}
		rec.Starts = append(rec.Starts, newPrologue)
		rec.End = len(m.Code)
	}
	return nil
}

// loadCode appends a freshly compiled, self-relative instruction block
// to the end of m.Code, rebasing its internal jump targets to the
// absolute position it lands at, and returns that position.
func (m *Machine) loadCode(code []Instruction) int {
	start := len(m.Code)
	m.Code = append(m.Code, rebase(code, start)...)
	return start
}

// insertInstructions splices instrs into m.Code at pos, shifting every
// later instruction, label start/end, and try/retry/call address operand
// by len(instrs). This is the only mid-vector patch the splicer performs
// (the 1->2 clause transition in AddClause); every later clause addition
// only ever appends.
func (m *Machine) insertInstructions(pos int, instrs []Instruction) {
	n := len(instrs)
	grown := make([]Instruction, 0, len(m.Code)+n)
	grown = append(grown, m.Code[:pos]...)
	grown = append(grown, instrs...)
	grown = append(grown, m.Code[pos:]...)
	m.Code = grown

	for _, rec := range m.Labels {
		for i, s := range rec.Starts {
			if s >= pos {
				rec.Starts[i] = s + n
			}
		}
		if rec.End >= pos {
			rec.End += n
		}
	}
	for i := pos + n; i < len(m.Code); i++ {
		switch instr := m.Code[i].(type) {
		case TryInitialClause:
			if instr.Alternative >= pos {
				m.Code[i] = TryInitialClause{Alternative: instr.Alternative + n}
			}
		case TryIntermediateClause:
			if instr.Alternative >= pos {
				m.Code[i] = TryIntermediateClause{Alternative: instr.Alternative + n}
			}
		case Call:
			if instr.Modifier != 0 && instr.After >= pos {
				m.Code[i] = Call{Functor: instr.Functor, Modifier: instr.Modifier, After: instr.After + n}
			}
		}
	}
}

func (m *Machine) registerBuiltin(functor Functor) {
	m.builtinFunctors[functor] = true
}

// labelStart resolves a functor/arity to the instruction address Call
// should jump to: an unknown label is fatal. fail/0 is
// deliberately NOT implemented by calling an undeclared symbol through
// this path (that would always be fatal, not a recoverable failure); see
// wam/builtins.go for how fail/0 raises a plain Unify failure instead.
func (m *Machine) labelStart(functor Functor) (int, error) {
	rec, ok := m.Labels[functor]
	if !ok {
		return 0, errors.Fatal("unknown predicate %s", functor)
	}
	return rec.Starts[0], nil
}
