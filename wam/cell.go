package wam

import "fmt"

// CellTag discriminates the heap cell sum type.
type CellTag int

const (
	ReferenceCell CellTag = iota
	CompoundTermCell
	FunctorCell
	IntegerCell
)

// Cell is a flat value, never a pointer: the three addressable areas
// (heap, register, environment) all store Cell values directly, and a
// Cell's only way to refer elsewhere is the heap index it carries.
// Index-based references stay valid when the backing slice reallocates
// on growth, which a live Go pointer into the heap would not.
type Cell struct {
	Tag CellTag

	// RefIndex is valid for ReferenceCell and CompoundTermCell: the heap
	// index of the referenced cell, or of the CompoundTerm's Functor cell.
	RefIndex int

	// Name and Arity are valid for FunctorCell.
	Name  string
	Arity int

	// Value is valid for IntegerCell.
	Value int64
}

func referenceCell(target int) Cell       { return Cell{Tag: ReferenceCell, RefIndex: target} }
func compoundTermCell(functorAt int) Cell { return Cell{Tag: CompoundTermCell, RefIndex: functorAt} }
func functorCell(name string, arity int) Cell {
	return Cell{Tag: FunctorCell, Name: name, Arity: arity}
}
func integerCell(v int64) Cell { return Cell{Tag: IntegerCell, Value: v} }

// Functor is a predicate or compound term's name/arity pair.
type Functor struct {
	Name  string
	Arity int
}

func (f Functor) String() string {
	return fmt.Sprintf("%s/%d", f.Name, f.Arity)
}

func (c Cell) String() string {
	switch c.Tag {
	case ReferenceCell:
		return fmt.Sprintf("ref->heap(%d)", c.RefIndex)
	case CompoundTermCell:
		return fmt.Sprintf("struct->heap(%d)", c.RefIndex)
	case FunctorCell:
		return Functor{c.Name, c.Arity}.String()
	case IntegerCell:
		return fmt.Sprintf("%d", c.Value)
	default:
		return "?"
	}
}
