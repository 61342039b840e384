package wam

import (
	"testing"

	"github.com/varkor/Epilog/term"
)

func TestClassifyVariablesPermanence(t *testing.T) {
	// p(X, Y) :- q(X), r(Y, X). X spans goals 0,1,2 (permanent); Y spans
	// goals 0,2 (permanent too, since it is used outside the goal it was
	// introduced in). No variable here is confined to a single goal;
	// TestClassifyVariablesTemporary covers that case.
	c := term.NewRule(
		term.NewComp("p", term.NewVar("X"), term.NewVar("Y")),
		term.Goal{Call: term.NewComp("q", term.NewVar("X"))},
		term.Goal{Call: term.NewComp("r", term.NewVar("Y"), term.NewVar("X"))},
	)
	perm := classifyVariables(c)
	if !perm["X"] || !perm["Y"] {
		t.Errorf("classifyVariables() = %v, want X and Y permanent", perm)
	}
}

func TestClassifyVariablesTemporary(t *testing.T) {
	// p(X) :- q(X, Y). Y only ever appears in goal 1, so it's temporary.
	c := term.NewRule(
		term.NewComp("p", term.NewVar("X")),
		term.Goal{Call: term.NewComp("q", term.NewVar("X"), term.NewVar("Y"))},
	)
	perm := classifyVariables(c)
	if perm["Y"] {
		t.Errorf("classifyVariables() = %v, want Y temporary", perm)
	}
	if !perm["X"] {
		t.Errorf("classifyVariables() = %v, want X permanent", perm)
	}
}

func TestMaxArity(t *testing.T) {
	c := term.NewRule(
		term.NewComp("p", term.NewVar("X")),
		term.Goal{Call: term.NewComp("q", term.NewVar("X"), term.NewVar("Y"), term.NewVar("Z"))},
	)
	if got := maxArity(c); got != 3 {
		t.Errorf("maxArity() = %d, want 3", got)
	}
}

func TestCompileRuleFact(t *testing.T) {
	c := term.NewFact(term.NewComp("p", term.NewInt(1)))
	f, code := CompileRule(c)
	if f != (Functor{Name: "p", Arity: 1}) {
		t.Errorf("functor = %v, want p/1", f)
	}
	if len(code) == 0 {
		t.Fatal("CompileRule() produced no instructions")
	}
	if _, ok := code[len(code)-1].(Proceed); !ok {
		t.Errorf("last instruction = %v, want Proceed (no permanent vars)", code[len(code)-1])
	}
}

func TestCompileRuleAllocatesForPermanentVars(t *testing.T) {
	c := term.NewRule(
		term.NewComp("p", term.NewVar("X"), term.NewVar("Y")),
		term.Goal{Call: term.NewComp("q", term.NewVar("X"))},
		term.Goal{Call: term.NewComp("r", term.NewVar("Y"))},
	)
	_, code := CompileRule(c)
	if _, ok := code[0].(Allocate); !ok {
		t.Errorf("first instruction = %v, want Allocate", code[0])
	}
	if _, ok := code[len(code)-1].(Deallocate); !ok {
		t.Errorf("last instruction = %v, want Deallocate", code[len(code)-1])
	}
}

// TestCompileQueryVarTable checks that a query's named variables all get
// environment slots, in discovery order, and that the query keeps its
// environment alive (terminating in Proceed, not Deallocate) so those
// slots stay readable for the solution display.
func TestCompileQueryVarTable(t *testing.T) {
	q := CompileQuery(term.NewQuery(
		term.Goal{Call: term.NewComp("p", term.NewVar("X"), term.NewVar("Y"))},
	))
	want := []QueryVar{
		{Name: "X", Addr: EnvAddr(0)},
		{Name: "Y", Addr: EnvAddr(1)},
	}
	if len(q.Vars) != len(want) {
		t.Fatalf("Vars = %v, want %v", q.Vars, want)
	}
	for i := range want {
		if q.Vars[i] != want[i] {
			t.Errorf("Vars[%d] = %v, want %v", i, q.Vars[i], want[i])
		}
	}
	if alloc, ok := q.Code[0].(Allocate); !ok || alloc.NumVars != 2 {
		t.Errorf("first instruction = %v, want Allocate 2", q.Code[0])
	}
	if _, ok := q.Code[len(q.Code)-1].(Proceed); !ok {
		t.Errorf("last instruction = %v, want Proceed", q.Code[len(q.Code)-1])
	}
}

func TestCompileGoalWithModifierEmitsBoundary(t *testing.T) {
	c := term.NewQuery(
		term.Goal{Modifier: term.Negate, Call: term.NewComp("fail")},
	)
	q := CompileQuery(c)

	var sawTry, sawCall, sawTrust bool
	for _, instr := range q.Code {
		switch v := instr.(type) {
		case TryInitialClause:
			sawTry = true
		case Call:
			if v.Modifier == term.Negate {
				sawCall = true
			}
		case TrustFinalClause:
			sawTrust = true
		}
	}
	if !sawTry || !sawCall || !sawTrust {
		t.Errorf("CompileQuery(\\+ fail) = %v, want a try/call/trust boundary", q.Code)
	}
}
