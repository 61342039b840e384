package wam

import (
	"fmt"

	"github.com/varkor/Epilog/term"
)

// Instruction is any opcode the execute loop can dispatch. Each carries
// its operands inline and shares no mutable state with other
// instructions.
type Instruction interface {
	fmt.Stringer
	isInstruction()
}

// ---- Head-side ("get") instructions

type GetStructure struct {
	Functor Functor
	Reg     Address
}

type GetInteger struct {
	Value int64
	Reg   Address
}

type UnifyVariable struct{ Reg Address }
type UnifyValue struct{ Reg Address }

type GetVariable struct {
	Dst    Address
	ArgReg Address
}

type GetValue struct {
	Reg    Address
	ArgReg Address
}

// ---- Body-side ("put") instructions

type PutStructure struct {
	Functor Functor
	Reg     Address
}

type PutInteger struct {
	Value int64
	Reg   Address
}

type SetVariable struct{ Reg Address }
type SetValue struct{ Reg Address }

type PutVariable struct {
	Reg    Address
	ArgReg Address
}

type PutValue struct {
	Reg    Address
	ArgReg Address
}

// ---- Control instructions

// Call invokes a predicate. After is only meaningful when Modifier is
// Negate or Intercept: the address execution resumes at once the modifier
// stack observes the wrapped goal's outcome (see resolveModifier in
// run.go). For an unmodified call, the continuation is simply the next
// instruction.
type Call struct {
	Functor  Functor
	Modifier term.Modifier
	After    int
}

type Proceed struct{}

type Allocate struct{ NumVars int }
type Deallocate struct{}

type TryInitialClause struct{ Alternative int }
type TryIntermediateClause struct{ Alternative int }
type TrustFinalClause struct{}

// Command invokes a host-side built-in routine by name (I/O, arithmetic
// evaluation).
type Command struct{ Name string }

func (GetStructure) isInstruction()          {}
func (GetInteger) isInstruction()            {}
func (UnifyVariable) isInstruction()         {}
func (UnifyValue) isInstruction()            {}
func (GetVariable) isInstruction()           {}
func (GetValue) isInstruction()              {}
func (PutStructure) isInstruction()          {}
func (PutInteger) isInstruction()            {}
func (SetVariable) isInstruction()           {}
func (SetValue) isInstruction()              {}
func (PutVariable) isInstruction()           {}
func (PutValue) isInstruction()              {}
func (Call) isInstruction()                  {}
func (Proceed) isInstruction()               {}
func (Allocate) isInstruction()              {}
func (Deallocate) isInstruction()            {}
func (TryInitialClause) isInstruction()      {}
func (TryIntermediateClause) isInstruction() {}
func (TrustFinalClause) isInstruction()      {}
func (Command) isInstruction()               {}

func (i GetStructure) String() string  { return fmt.Sprintf("get_structure %s, %s", i.Functor, i.Reg) }
func (i GetInteger) String() string    { return fmt.Sprintf("get_integer %d, %s", i.Value, i.Reg) }
func (i UnifyVariable) String() string { return fmt.Sprintf("unify_variable %s", i.Reg) }
func (i UnifyValue) String() string    { return fmt.Sprintf("unify_value %s", i.Reg) }
func (i GetVariable) String() string   { return fmt.Sprintf("get_variable %s, %s", i.Dst, i.ArgReg) }
func (i GetValue) String() string      { return fmt.Sprintf("get_value %s, %s", i.Reg, i.ArgReg) }
func (i PutStructure) String() string  { return fmt.Sprintf("put_structure %s, %s", i.Functor, i.Reg) }
func (i PutInteger) String() string    { return fmt.Sprintf("put_integer %d, %s", i.Value, i.Reg) }
func (i SetVariable) String() string   { return fmt.Sprintf("set_variable %s", i.Reg) }
func (i SetValue) String() string      { return fmt.Sprintf("set_value %s", i.Reg) }
func (i PutVariable) String() string   { return fmt.Sprintf("put_variable %s, %s", i.Reg, i.ArgReg) }
func (i PutValue) String() string      { return fmt.Sprintf("put_value %s, %s", i.Reg, i.ArgReg) }
func (i Call) String() string {
	if i.Modifier == term.None {
		return fmt.Sprintf("call %s", i.Functor)
	}
	return fmt.Sprintf("call %s %s", i.Modifier, i.Functor)
}
func (i Proceed) String() string  { return "proceed" }
func (i Allocate) String() string { return fmt.Sprintf("allocate %d", i.NumVars) }
func (Deallocate) String() string { return "deallocate" }
func (i TryInitialClause) String() string {
	return fmt.Sprintf("try_me_else %d", i.Alternative)
}
func (i TryIntermediateClause) String() string {
	return fmt.Sprintf("retry_me_else %d", i.Alternative)
}
func (TrustFinalClause) String() string { return "trust_me" }
func (i Command) String() string        { return fmt.Sprintf("command %s", i.Name) }
