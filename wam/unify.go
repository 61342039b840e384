package wam

import "github.com/varkor/Epilog/errors"

// deref follows reference chains: a Reference cell always
// recurses into (Heap, RefIndex); it stops the moment that lands back on
// itself (the self-referential unbound-variable invariant) or on any
// non-reference cell.
func (m *Machine) deref(a Address) Address {
	for {
		c := m.cellAt(a)
		if c.Tag != ReferenceCell {
			return a
		}
		if a.Area == Heap && a.Index == c.RefIndex {
			return a
		}
		a = HeapAddr(c.RefIndex)
	}
}

func (m *Machine) isUnboundVar(a Address) bool {
	c := m.cellAt(a)
	return c.Tag == ReferenceCell && a.Area == Heap && a.Index == c.RefIndex
}

// bind links two dereferenced addresses. Exactly one side is
// overwritten: a lower-numbered unbound heap variable always receives
// the reference, so chains point from old cells to young. Trailing is
// decided by shouldTrail.
func (m *Machine) bind(a, b Address) {
	aVar, bVar := m.isUnboundVar(a), m.isUnboundVar(b)
	if aVar && (!bVar || a.Index <= b.Index) {
		m.overwrite(a, b, bVar)
	} else {
		m.overwrite(b, a, aVar)
	}
}

// overwrite sets target's cell to alias (or copy) source, and trails
// target if the choice-point discipline requires it.
func (m *Machine) overwrite(target, source Address, sourceIsVar bool) {
	if m.shouldTrail(target) {
		m.Trail = append(m.Trail, target)
	}
	if sourceIsVar {
		m.setCell(target, referenceCell(source.Index))
	} else {
		m.setCell(target, m.cellAt(source))
	}
}

// bindToValue overwrites an already-dereferenced unbound variable with a
// concrete cell (used by GetStructure/GetInteger when the register side
// is unbound), trailing it under the same discipline as overwrite.
func (m *Machine) bindToValue(target Address, value Cell) {
	if m.shouldTrail(target) {
		m.Trail = append(m.Trail, target)
	}
	m.setCell(target, value)
}

// shouldTrail reports whether overwriting a must be recorded for undo:
// only when a choice point exists and the overwritten address is either
// environment-stored or heap-stored below the choice point's recorded
// heap size. Anything younger is truncated wholesale on backtrack and
// needs no individual undo entry.
func (m *Machine) shouldTrail(a Address) bool {
	if m.CPTop < 0 {
		return false
	}
	cp := m.ChoicePoints[m.CPTop]
	if a.Area == Environment {
		return true
	}
	return a.Area == Heap && a.Index < cp.HeapSize
}

// unwindTrail restores every trailed address back to an unbound
// self-reference, from the current trail length down to size.
func (m *Machine) unwindTrail(size int) {
	for i := len(m.Trail) - 1; i >= size; i-- {
		a := m.Trail[i]
		m.setCell(a, referenceCell(a.Index))
	}
	m.Trail = m.Trail[:size]
}

// unify runs the iterative unification algorithm with an explicit
// pushdown stack of address pairs.
func (m *Machine) unify(a, b Address) error {
	stack := [][2]Address{{a, b}}
	for len(stack) > 0 {
		pair := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		x := m.deref(pair[0])
		y := m.deref(pair[1])
		if x == y {
			continue
		}
		cx, cy := m.cellAt(x), m.cellAt(y)

		xVar := m.isUnboundVar(x)
		yVar := m.isUnboundVar(y)
		if xVar || yVar {
			m.bind(x, y)
			continue
		}

		switch {
		case cx.Tag == CompoundTermCell && cy.Tag == CompoundTermCell:
			fx, fy := m.cellAt(HeapAddr(cx.RefIndex)), m.cellAt(HeapAddr(cy.RefIndex))
			if fx.Name != fy.Name || fx.Arity != fy.Arity {
				return errors.Unify("functor mismatch: %s/%d vs %s/%d", fx.Name, fx.Arity, fy.Name, fy.Arity)
			}
			for i := fx.Arity - 1; i >= 0; i-- {
				stack = append(stack, [2]Address{
					HeapAddr(cx.RefIndex + 1 + i),
					HeapAddr(cy.RefIndex + 1 + i),
				})
			}
		case cx.Tag == IntegerCell && cy.Tag == IntegerCell:
			if cx.Value != cy.Value {
				return errors.Unify("integer mismatch: %d vs %d", cx.Value, cy.Value)
			}
		case cx.Tag == CompoundTermCell && cy.Tag == IntegerCell,
			cx.Tag == IntegerCell && cy.Tag == CompoundTermCell:
			return errors.Unify("structure/integer mismatch")
		default:
			return errors.Fatal("unify: unexpected cell combination %v / %v", cx, cy)
		}
	}
	return nil
}
