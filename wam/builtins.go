package wam

import (
	"fmt"

	"github.com/varkor/Epilog/errors"
)

// registerBuiltins installs the built-in library, each predicate as a
// single reserved clause in the shared database. The simple ones
// (write/1, writeln/1, nl/0, =/2, is/2) are deterministic and need no
// choice point or environment: a Command reading straight out of the
// argument registers followed by Proceed; true/0 is a bare Proceed.
// fail/0 is the one exception: rather
// than calling a symbol the database never defines (which labelStart
// treats as fatal, not recoverable), it's a Command that raises a plain
// Unify failure directly.
func registerBuiltins(m *Machine) {
	install := func(name string, arity int, code ...Instruction) {
		f := Functor{Name: name, Arity: arity}
		m.registerBuiltin(f)
		m.Labels[f] = &FunctorRecord{Starts: []int{len(m.Code)}, End: len(m.Code) + len(code)}
		m.Code = append(m.Code, code...)
	}

	install("true", 0, Proceed{})
	install("fail", 0, Command{Name: "fail"})
	install("nl", 0, Command{Name: "nl"}, Proceed{})
	install("write", 1, Command{Name: "write"}, Proceed{})
	install("writeln", 1, Command{Name: "writeln"}, Proceed{})
	install("=", 2, Command{Name: "unify"}, Proceed{})
	install("is", 2, Command{Name: "is"}, Proceed{})

	m.commands = map[string]func(*Machine) error{
		"fail":  func(m *Machine) error { return errors.Unify("fail/0") },
		"nl":    func(m *Machine) error { fmt.Fprintln(m.Out); return nil },
		"write": func(m *Machine) error { fmt.Fprint(m.Out, m.Format(RegAddr(0))); return nil },
		"writeln": func(m *Machine) error {
			fmt.Fprintln(m.Out, m.Format(RegAddr(0)))
			return nil
		},
		"unify": func(m *Machine) error { return m.unify(RegAddr(0), RegAddr(1)) },
		"is":    func(m *Machine) error { return m.evalIs() },
	}
}

// evalIs implements is/2: Reg(1) is an arithmetic expression over
// Integer leaves and the functors +/2 and */2; the result unifies with
// Reg(0).
func (m *Machine) evalIs() error {
	v, err := m.evalArith(RegAddr(1))
	if err != nil {
		return err
	}
	dst := m.deref(RegAddr(0))
	if m.isUnboundVar(dst) {
		m.bindToValue(dst, integerCell(v))
		return nil
	}
	c := m.cellAt(dst)
	if c.Tag != IntegerCell || c.Value != v {
		return errors.Unify("is/2: %d does not unify with %s", v, m.Format(dst))
	}
	return nil
}

func (m *Machine) evalArith(a Address) (int64, error) {
	addr := m.deref(a)
	c := m.cellAt(addr)
	switch c.Tag {
	case IntegerCell:
		return c.Value, nil
	case CompoundTermCell:
		f := m.cellAt(HeapAddr(c.RefIndex))
		if f.Arity != 2 {
			return 0, errors.Fatal("is/2: non-arithmetic operand %s", f)
		}
		left, err := m.evalArith(HeapAddr(c.RefIndex + 1))
		if err != nil {
			return 0, err
		}
		right, err := m.evalArith(HeapAddr(c.RefIndex + 2))
		if err != nil {
			return 0, err
		}
		switch f.Name {
		case "+":
			return left + right, nil
		case "*":
			return left * right, nil
		default:
			return 0, errors.Fatal("is/2: non-arithmetic operand %s", f)
		}
	default:
		return 0, errors.Fatal("is/2: non-arithmetic operand %s", c)
	}
}

func (m *Machine) execCommand(i Command) error {
	handler, ok := m.commands[i.Name]
	if !ok {
		return errors.Fatal("unknown command %s", i.Name)
	}
	if err := handler(m); err != nil {
		return err
	}
	m.nextInstruction++
	return nil
}
