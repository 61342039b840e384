package solver_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/varkor/Epilog/dsl"
	"github.com/varkor/Epilog/parser"
	"github.com/varkor/Epilog/solver"
	"github.com/varkor/Epilog/term"
	"github.com/varkor/Epilog/test_helpers"
)

// consult parses source and splits it into the program's clauses and its
// queries, in order.
func consult(t *testing.T, source string) ([]*term.Clause, []*term.Clause) {
	t.Helper()
	clauses, err := parser.Parse(test_helpers.Dedent(source))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	var program, queries []*term.Clause
	for _, c := range clauses {
		if c.Kind == term.QueryClause {
			queries = append(queries, c)
		} else {
			program = append(program, c)
		}
	}
	return program, queries
}

// solveFirst runs the source's single query to its first solution.
func solveFirst(t *testing.T, source string) (solver.Solution, bool) {
	t.Helper()
	program, queries := consult(t, source)
	if len(queries) != 1 {
		t.Fatalf("source has %d queries, want 1", len(queries))
	}
	s, err := solver.NewSolver(io.Discard, program)
	if err != nil {
		t.Fatalf("NewSolver() error: %v", err)
	}
	sols, err := s.Query(queries[0])
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	sol, ok, err := sols.Next()
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	return sol, ok
}

func TestGroundFactMatch(t *testing.T) {
	if _, ok := solveFirst(t, `
		p(a).
		?- p(a).
	`); !ok {
		t.Error("p(a) expected to succeed")
	}
}

func TestGroundFactMismatch(t *testing.T) {
	if _, ok := solveFirst(t, `
		p(a).
		?- p(b).
	`); ok {
		t.Error("p(b) expected to fail")
	}
}

func TestVariableBindsToFirstClause(t *testing.T) {
	sol, ok := solveFirst(t, `
		p(a).
		p(b).
		?- p(X).
	`)
	if !ok {
		t.Fatal("p(X) expected to succeed")
	}
	if diff := cmp.Diff(solver.Solution{"X": "a"}, sol); diff != "" {
		t.Errorf("solution mismatch (-want +got):\n%s", diff)
	}
}

func TestRuleWithSharedVariable(t *testing.T) {
	sol, ok := solveFirst(t, `
		parent(tom, bob).
		parent(bob, ann).
		grandparent(X, Z) :- parent(X, Y), parent(Y, Z).
		?- grandparent(tom, W).
	`)
	if !ok {
		t.Fatal("grandparent(tom, W) expected to succeed")
	}
	if diff := cmp.Diff(solver.Solution{"W": "ann"}, sol); diff != "" {
		t.Errorf("solution mismatch (-want +got):\n%s", diff)
	}
}

func TestBacktracksAcrossClauses(t *testing.T) {
	sol, ok := solveFirst(t, `
		p(1).
		p(2).
		q(X) :- p(X), X = 2.
		?- q(R).
	`)
	if !ok {
		t.Fatal("q(R) expected to succeed")
	}
	if diff := cmp.Diff(solver.Solution{"R": "2"}, sol); diff != "" {
		t.Errorf("solution mismatch (-want +got):\n%s", diff)
	}
}

func TestArithmetic(t *testing.T) {
	sol, ok := solveFirst(t, `?- X is (1 + 2) * 3.`)
	if !ok {
		t.Fatal("X is (1 + 2) * 3 expected to succeed")
	}
	if diff := cmp.Diff(solver.Solution{"X": "9"}, sol); diff != "" {
		t.Errorf("solution mismatch (-want +got):\n%s", diff)
	}
}

func TestNegationAsFailure(t *testing.T) {
	if _, ok := solveFirst(t, `
		p(a).
		?- \+ p(b).
	`); !ok {
		t.Error("\\+ p(b) expected to succeed")
	}
	if _, ok := solveFirst(t, `
		p(a).
		?- \+ p(a).
	`); ok {
		t.Error("\\+ p(a) expected to fail")
	}
}

func TestListUnification(t *testing.T) {
	sol, ok := solveFirst(t, `
		head([H|_], H).
		?- head([1, 2, 3], X).
	`)
	if !ok {
		t.Fatal("head([1,2,3], X) expected to succeed")
	}
	if diff := cmp.Diff(solver.Solution{"X": "1"}, sol); diff != "" {
		t.Errorf("solution mismatch (-want +got):\n%s", diff)
	}
}

// TestEnumeratesRecursivePredicate pulls the first five naturals from an
// infinite generator, one Retry at a time.
func TestEnumeratesRecursivePredicate(t *testing.T) {
	s, err := solver.NewSolver(io.Discard, dsl.Clauses(
		dsl.Fact(dsl.Comp("nat", dsl.Int(0))),
		dsl.Rule(dsl.Comp("nat", dsl.Comp("s", dsl.Var("X"))),
			dsl.Goal("nat", dsl.Var("X"))),
	))
	if err != nil {
		t.Fatalf("NewSolver() error: %v", err)
	}
	sols, err := s.Query(dsl.Query(dsl.Goal("nat", dsl.Var("X"))))
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	want := []string{
		"0",
		"s(0)",
		"s(s(0))",
		"s(s(s(0)))",
		"s(s(s(s(0))))",
	}
	for i, w := range want {
		sol, ok, err := sols.Next()
		if err != nil {
			t.Fatalf("Next() #%d error: %v", i, err)
		}
		if !ok {
			t.Fatalf("Next() #%d expected a solution", i)
		}
		if sol["X"] != w {
			t.Errorf("solution #%d: X = %q, want %q", i, sol["X"], w)
		}
	}
}

func TestWriteOutput(t *testing.T) {
	var buf bytes.Buffer
	program, queries := consult(t, `
		greet(N) :- write(hello), nl, writeln(N).
		?- greet(world).
	`)
	s, err := solver.NewSolver(&buf, program)
	if err != nil {
		t.Fatalf("NewSolver() error: %v", err)
	}
	sols, err := s.Query(queries[0])
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if _, ok, err := sols.Next(); err != nil || !ok {
		t.Fatalf("Next() = %v, %v; want a solution", ok, err)
	}
	if got, want := buf.String(), "hello\nworld\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestAssertRejectsQuery(t *testing.T) {
	s, err := solver.NewSolver(io.Discard, nil)
	if err != nil {
		t.Fatalf("NewSolver() error: %v", err)
	}
	if err := s.Assert(dsl.Query(dsl.Goal("true"))); err == nil {
		t.Error("Assert(query) expected an error")
	}
}

func TestAssertRejectsBuiltinRedeclaration(t *testing.T) {
	s, err := solver.NewSolver(io.Discard, nil)
	if err != nil {
		t.Fatalf("NewSolver() error: %v", err)
	}
	if err := s.Assert(dsl.Fact(dsl.Comp("true"))); err == nil {
		t.Error("Assert(true.) expected a built-in redeclaration error")
	}
}
