package wam

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/varkor/Epilog/term"
)

// Frame is an environment: a rule activation's permanent-variable slots
// plus enough to resume the caller once the rule's body finishes.
type Frame struct {
	Continuation int // instruction address to resume at
	Prev         int // index of the previous environment, -1 if none
	Vars         []Cell
}

// ChoicePointFrame is a snapshot enabling re-entry into an untried clause
// alternative. Mods is a by-value copy of the modifier stack at creation,
// restored alongside heap/trail/env: frames popped and re-pushed between
// the snapshot and the backtrack would otherwise come back holding a
// later call's continuation.
type ChoicePointFrame struct {
	Args         []Cell
	EnvIndex     int
	Continuation int
	NextClause   int
	TrailSize    int
	HeapSize     int
	Mods         []ModifierFrame
	Prev         int
}

// ModifierFrame tracks one active call's modifier: a snapshot of the
// environment and choice-point tops at call time, and the address to
// resume at once the call returns.
type ModifierFrame struct {
	Kind         term.Modifier
	EnvIndex     int
	CPIndex      int
	Continuation int
}

// Machine holds all mutable interpreter state: storage areas, stacks,
// the shared instruction vector, and the clause database index. One
// machine runs one query at a time; compilation and execution never
// interleave on the same machine.
type Machine struct {
	Heap []Cell
	Reg  []Cell

	Envs   []Frame
	EnvTop int

	ChoicePoints []ChoicePointFrame
	CPTop        int

	Modifiers []ModifierFrame

	Trail []Address

	Code   []Instruction
	Labels map[Functor]*FunctorRecord

	builtinFunctors map[Functor]bool
	commands        map[string]func(*Machine) error

	// continuation/mode registers driving the execute loop.
	nextInstruction int
	nextGoal        int
	mode            unifyMode
	cursor          int // unificationIndex: argument cursor into a CompoundTerm's args
	matchBase       int // heap index of the Functor cell currently being read

	// IterLimit aborts a runaway query after that many instructions;
	// zero means no limit. iters resets on each RunQuery.
	IterLimit int
	iters     int

	Out io.Writer
	Log *logrus.Entry
}

// FunctorRecord is the compile-time database index entry: the instruction
// addresses each clause begins at, and the address just past the last one.
type FunctorRecord struct {
	Starts []int
	End    int
}

type unifyMode int

const (
	readMode unifyMode = iota
	writeMode
)

// NewMachine creates an empty machine and registers the built-in library.
func NewMachine(out io.Writer) *Machine {
	m := &Machine{
		EnvTop:          -1,
		CPTop:           -1,
		Labels:          make(map[Functor]*FunctorRecord),
		builtinFunctors: make(map[Functor]bool),
		Out:             out,
	}
	registerBuiltins(m)
	return m
}

func (m *Machine) cellAt(a Address) Cell {
	switch a.Area {
	case Heap:
		return m.Heap[a.Index]
	case Register:
		return m.Reg[a.Index]
	case Environment:
		return m.Envs[m.EnvTop].Vars[a.Index]
	default:
		panic("cellAt: undefined address")
	}
}

func (m *Machine) setCell(a Address, c Cell) {
	switch a.Area {
	case Heap:
		m.Heap[a.Index] = c
	case Register:
		m.ensureRegisters(a.Index + 1)
		m.Reg[a.Index] = c
	case Environment:
		m.Envs[m.EnvTop].Vars[a.Index] = c
	default:
		panic("setCell: undefined address")
	}
}

func (m *Machine) pushHeap(c Cell) int {
	m.Heap = append(m.Heap, c)
	return len(m.Heap) - 1
}

func (m *Machine) ensureRegisters(n int) {
	if len(m.Reg) < n {
		grown := make([]Cell, n)
		copy(grown, m.Reg)
		m.Reg = grown
	}
}
