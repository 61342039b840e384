package wam

import (
	"github.com/varkor/Epilog/errors"
	"github.com/varkor/Epilog/term"
)

// halt is the nextInstruction sentinel meaning "the top-level query's own
// continuation", set before the first Call and never a real code address.
const halt = -1

// LoadQuery appends a query's compiled instructions to the end of the
// shared code vector, rebasing its internal jump targets the same way
// AddClause does for a stored clause, and returns the address RunQuery
// should start at.
func (m *Machine) LoadQuery(code []Instruction) int {
	return m.loadCode(code)
}

// RunQuery runs the query body LoadQuery placed at start and drives it
// to its first solution. It returns (found, err): found is false when
// every alternative was exhausted without success; err is non-nil only
// for a Fatal condition. Choice points, modifier frames and trail
// entries left by an earlier query are discarded first, so a failure
// never backtracks into another query's alternatives.
func (m *Machine) RunQuery(start int) (bool, error) {
	m.ChoicePoints = m.ChoicePoints[:0]
	m.CPTop = -1
	m.Modifiers = m.Modifiers[:0]
	m.Trail = m.Trail[:0]
	m.nextInstruction = start
	m.nextGoal = halt
	m.iters = 0
	return m.resume()
}

// Retry backtracks into the next untried alternative of the most recent
// query, for callers that want further solutions (the REPL's ";").
func (m *Machine) Retry() (bool, error) {
	if m.CPTop < 0 {
		return false, nil
	}
	if err := m.backtrack(); err != nil {
		return false, err
	}
	return m.resume()
}

func (m *Machine) resume() (bool, error) {
	for {
		if m.nextInstruction == halt {
			return true, nil
		}
		if m.nextInstruction < 0 || m.nextInstruction >= len(m.Code) {
			return false, errors.Fatal("instruction pointer %d out of range", m.nextInstruction)
		}
		m.iters++
		if m.IterLimit > 0 && m.iters > m.IterLimit {
			return false, errors.Fatal("interrupted after %d instructions", m.IterLimit)
		}
		if m.Log != nil {
			m.Log.WithField("pc", m.nextInstruction).Debug(m.Code[m.nextInstruction].String())
		}
		err := m.step(m.Code[m.nextInstruction])
		if err == nil {
			continue
		}
		if !errors.IsFatal(err) {
			if errors.IsUnify(err) {
				if m.CPTop < 0 {
					return false, nil
				}
				if err := m.backtrack(); err != nil {
					return false, err
				}
				continue
			}
		}
		return false, err
	}
}

// backtrack dispatches whichever try-family prologue the top choice
// point's NextClause currently points at.
func (m *Machine) backtrack() error {
	m.nextInstruction = m.ChoicePoints[m.CPTop].NextClause
	return m.step(m.Code[m.nextInstruction])
}

func (m *Machine) step(instr Instruction) error {
	switch i := instr.(type) {
	case GetStructure:
		return m.execGetStructure(i)
	case GetInteger:
		return m.execGetInteger(i)
	case UnifyVariable:
		return m.execUnifyVariable(i)
	case UnifyValue:
		return m.execUnifyValue(i)
	case GetVariable:
		m.setCell(i.Dst, m.cellAt(i.ArgReg))
		m.nextInstruction++
		return nil
	case GetValue:
		if err := m.unify(i.Reg, i.ArgReg); err != nil {
			return err
		}
		m.nextInstruction++
		return nil
	case PutStructure:
		return m.execPutStructure(i)
	case PutInteger:
		m.setCell(i.Reg, integerCell(i.Value))
		m.nextInstruction++
		return nil
	case SetVariable:
		return m.execSetVariable(i)
	case SetValue:
		m.pushHeap(m.cellAt(i.Reg))
		m.nextInstruction++
		return nil
	case PutVariable:
		idx := m.pushHeap(Cell{})
		m.Heap[idx] = referenceCell(idx)
		m.setCell(i.Reg, referenceCell(idx))
		m.setCell(i.ArgReg, referenceCell(idx))
		m.nextInstruction++
		return nil
	case PutValue:
		m.setCell(i.ArgReg, m.cellAt(i.Reg))
		m.nextInstruction++
		return nil
	case Call:
		return m.execCall(i)
	case Proceed:
		return m.execProceed()
	case Allocate:
		m.Envs = append(m.Envs, Frame{Continuation: m.nextGoal, Prev: m.EnvTop, Vars: make([]Cell, i.NumVars)})
		m.EnvTop = len(m.Envs) - 1
		m.nextInstruction++
		return nil
	case Deallocate:
		return m.execDeallocate()
	case TryInitialClause:
		return m.execTryInitialClause(i)
	case TryIntermediateClause:
		return m.execTryIntermediateClause(i)
	case TrustFinalClause:
		return m.execTrustFinalClause()
	case Command:
		return m.execCommand(i)
	default:
		return errors.Fatal("unrecognised instruction %T", instr)
	}
}

func (m *Machine) execGetStructure(i GetStructure) error {
	addr := m.deref(i.Reg)
	if m.isUnboundVar(addr) {
		fIdx := m.pushHeap(functorCell(i.Functor.Name, i.Functor.Arity))
		m.bindToValue(addr, compoundTermCell(fIdx))
		m.mode = writeMode
		m.nextInstruction++
		return nil
	}
	c := m.cellAt(addr)
	if c.Tag != CompoundTermCell {
		return errors.Unify("expected structure %s, got %s", i.Functor, c)
	}
	f := m.cellAt(HeapAddr(c.RefIndex))
	if f.Name != i.Functor.Name || f.Arity != i.Functor.Arity {
		return errors.Unify("functor mismatch: expected %s, got %s/%d", i.Functor, f.Name, f.Arity)
	}
	m.mode = readMode
	m.matchBase = c.RefIndex
	m.cursor = 0
	m.nextInstruction++
	return nil
}

func (m *Machine) execGetInteger(i GetInteger) error {
	addr := m.deref(i.Reg)
	if m.isUnboundVar(addr) {
		m.bindToValue(addr, integerCell(i.Value))
		m.nextInstruction++
		return nil
	}
	c := m.cellAt(addr)
	if c.Tag != IntegerCell || c.Value != i.Value {
		return errors.Unify("expected integer %d, got %s", i.Value, c)
	}
	m.nextInstruction++
	return nil
}

func (m *Machine) execUnifyVariable(i UnifyVariable) error {
	if m.mode == readMode {
		src := HeapAddr(m.matchBase + 1 + m.cursor)
		m.setCell(i.Reg, m.cellAt(src))
	} else {
		idx := m.pushHeap(Cell{})
		m.Heap[idx] = referenceCell(idx)
		m.setCell(i.Reg, referenceCell(idx))
	}
	m.cursor++
	m.nextInstruction++
	return nil
}

func (m *Machine) execUnifyValue(i UnifyValue) error {
	if m.mode == readMode {
		src := HeapAddr(m.matchBase + 1 + m.cursor)
		if err := m.unify(i.Reg, src); err != nil {
			return err
		}
	} else {
		m.pushHeap(m.cellAt(i.Reg))
	}
	m.cursor++
	m.nextInstruction++
	return nil
}

func (m *Machine) execPutStructure(i PutStructure) error {
	fIdx := m.pushHeap(functorCell(i.Functor.Name, i.Functor.Arity))
	m.setCell(i.Reg, compoundTermCell(fIdx))
	m.nextInstruction++
	return nil
}

func (m *Machine) execSetVariable(i SetVariable) error {
	idx := m.pushHeap(Cell{})
	m.Heap[idx] = referenceCell(idx)
	m.setCell(i.Reg, referenceCell(idx))
	m.nextInstruction++
	return nil
}

// execCall pushes a modifier frame unconditionally, so Proceed and
// Deallocate can always pop exactly one frame per return with no
// signalling beyond the stack discipline itself.
func (m *Machine) execCall(i Call) error {
	cont := m.nextInstruction + 1
	if i.Modifier != term.None {
		cont = i.After
	}
	frame := ModifierFrame{Kind: i.Modifier, EnvIndex: m.EnvTop, CPIndex: m.CPTop, Continuation: cont}
	m.Modifiers = append(m.Modifiers, frame)
	m.nextGoal = cont
	start, err := m.labelStart(i.Functor)
	if err != nil {
		return err
	}
	m.nextInstruction = start
	return nil
}

func (m *Machine) popModifier() ModifierFrame {
	frame := m.Modifiers[len(m.Modifiers)-1]
	m.Modifiers = m.Modifiers[:len(m.Modifiers)-1]
	return frame
}

func (m *Machine) execProceed() error {
	if len(m.Modifiers) == 0 {
		// No Call ever entered this block: it is the top-level query's
		// own terminator.
		m.nextInstruction = halt
		return nil
	}
	frame := m.popModifier()
	if frame.Kind == term.None {
		m.nextInstruction = frame.Continuation
		return nil
	}
	return m.resolveModifier(frame)
}

func (m *Machine) execDeallocate() error {
	env := m.Envs[m.EnvTop]
	m.EnvTop = env.Prev
	if len(m.Modifiers) == 0 {
		m.nextInstruction = env.Continuation
		return nil
	}
	frame := m.popModifier()
	if frame.Kind == term.None {
		m.nextInstruction = frame.Continuation
		return nil
	}
	return m.resolveModifier(frame)
}

// resolveModifier implements the success path of `\+`/`\:`: the wrapped
// goal succeeded. Negate must force a failure (`\+ G`
// fails when G succeeds) that propagates past its own try/trust
// boundary entirely — it pops the boundary's barrier choice point
// directly (discarding any alternatives G itself left behind) and
// raises a plain failure, so the caller's own backtrack() goes looking
// at whatever choice point existed before the boundary, never landing on
// the boundary's own TrustFinalClause (which exists only to catch G's
// own, unforced failure and fall through to success).  Intercept instead
// keeps the goal's bindings and jumps forward past the call, deliberately
// leaving its barrier choice point in place: a later backtrack into it
// hits that same TrustFinalClause, which falls through to a Command that
// fails outright, so once a `\:` goal commits to a solution it is never
// retried.
func (m *Machine) resolveModifier(frame ModifierFrame) error {
	switch frame.Kind {
	case term.Negate:
		cp := m.ChoicePoints[frame.CPIndex]
		m.EnvTop = frame.EnvIndex
		m.Heap = m.Heap[:cp.HeapSize]
		m.unwindTrail(cp.TrailSize)
		m.Modifiers = append(m.Modifiers[:0], cp.Mods...)
		m.CPTop = cp.Prev
		return errors.Unify("negated goal succeeded")
	default: // Intercept
		m.EnvTop = frame.EnvIndex
		m.CPTop = frame.CPIndex
		m.nextInstruction = frame.Continuation
		return nil
	}
}

func (m *Machine) execTryInitialClause(i TryInitialClause) error {
	m.pushChoicePoint(i.Alternative)
	m.nextInstruction++
	return nil
}

func (m *Machine) execTryIntermediateClause(i TryIntermediateClause) error {
	m.restoreChoicePoint()
	m.ChoicePoints[m.CPTop].NextClause = i.Alternative
	m.nextInstruction++
	return nil
}

func (m *Machine) execTrustFinalClause() error {
	m.restoreChoicePoint()
	m.CPTop = m.ChoicePoints[m.CPTop].Prev
	m.nextInstruction++
	return nil
}

func (m *Machine) pushChoicePoint(alternative int) {
	cp := ChoicePointFrame{
		Args:         append([]Cell{}, m.Reg...),
		EnvIndex:     m.EnvTop,
		Continuation: m.nextGoal,
		NextClause:   alternative,
		TrailSize:    len(m.Trail),
		HeapSize:     len(m.Heap),
		Mods:         append([]ModifierFrame{}, m.Modifiers...),
		Prev:         m.CPTop,
	}
	m.ChoicePoints = append(m.ChoicePoints, cp)
	m.CPTop = len(m.ChoicePoints) - 1
}

func (m *Machine) restoreChoicePoint() {
	cp := m.ChoicePoints[m.CPTop]
	m.ensureRegisters(len(cp.Args))
	copy(m.Reg, cp.Args)
	m.EnvTop = cp.EnvIndex
	m.nextGoal = cp.Continuation
	m.Heap = m.Heap[:cp.HeapSize]
	m.unwindTrail(cp.TrailSize)
	m.Modifiers = append(m.Modifiers[:0], cp.Mods...)
}
