package parser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/varkor/Epilog/parser"
	"github.com/varkor/Epilog/term"
)

func TestParseFact(t *testing.T) {
	got, err := parser.Parse("parent(tom, bob).")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := []*term.Clause{
		term.NewFact(term.NewComp("parent", term.Atom("tom"), term.Atom("bob"))),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRule(t *testing.T) {
	got, err := parser.Parse("grandparent(X, Z) :- parent(X, Y), parent(Y, Z).")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := []*term.Clause{
		term.NewRule(
			term.NewComp("grandparent", term.NewVar("X"), term.NewVar("Z")),
			term.Goal{Call: term.NewComp("parent", term.NewVar("X"), term.NewVar("Y"))},
			term.Goal{Call: term.NewComp("parent", term.NewVar("Y"), term.NewVar("Z"))},
		),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseQuery(t *testing.T) {
	got, err := parser.Parse("?- parent(tom, X).")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := []*term.Clause{
		term.NewQuery(term.Goal{Call: term.NewComp("parent", term.Atom("tom"), term.NewVar("X"))}),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseModifiers(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		modifier term.Modifier
	}{
		{"negate", `?- \+ fail.`, term.Negate},
		{"intercept", `?- \: member(X, Y).`, term.Intercept},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.Parse(tt.source)
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if len(got) != 1 || len(got[0].Body) != 1 {
				t.Fatalf("Parse() = %v, want one clause with one goal", got)
			}
			if mod := got[0].Body[0].Modifier; mod != tt.modifier {
				t.Errorf("Modifier = %v, want %v", mod, tt.modifier)
			}
		})
	}
}

func TestParseNotAlias(t *testing.T) {
	got, err := parser.Parse("?- not(p(a)).")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := []*term.Clause{
		term.NewQuery(term.Goal{Modifier: term.Negate, Call: term.NewComp("p", term.Atom("a"))}),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseInfixGoals(t *testing.T) {
	got, err := parser.Parse("?- X is 1 + 2 * 3, Y = X.")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := []*term.Clause{
		term.NewQuery(
			term.Goal{Call: term.NewComp("is", term.NewVar("X"),
				term.NewComp("+", term.NewInt(1), term.NewComp("*", term.NewInt(2), term.NewInt(3))))},
			term.Goal{Call: term.NewComp("=", term.NewVar("Y"), term.NewVar("X"))},
		),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseList(t *testing.T) {
	got, err := parser.Parse("?- X = [1, 2 | T].")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := []*term.Clause{
		term.NewQuery(term.Goal{Call: term.NewComp("=", term.NewVar("X"),
			&term.List{Elems: []term.Term{term.NewInt(1), term.NewInt(2)}, Tail: term.NewVar("T")})}),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseQuotedAtom(t *testing.T) {
	got, err := parser.Parse(`foo('It''s here').`)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := []*term.Clause{
		term.NewFact(term.NewComp("foo", term.Atom("It's here"))),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMultipleClauses(t *testing.T) {
	got, err := parser.Parse(`
		% comment
		fact1(a).
		fact2(b).
	`)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Parse() returned %d clauses, want 2", len(got))
	}
}

func TestParseSyntaxError(t *testing.T) {
	if _, err := parser.Parse("foo(."); err == nil {
		t.Error("Parse() expected an error for malformed input, got nil")
	}
}
