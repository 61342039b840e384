package term_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/varkor/Epilog/term"
)

func TestVars(t *testing.T) {
	tests := []struct {
		name string
		term term.Term
		want []string
	}{
		{
			name: "flat comp",
			term: term.NewComp("f", term.NewVar("X"), term.NewVar("Y"), term.NewVar("X")),
			want: []string{"X", "Y"},
		},
		{
			name: "anonymous is never returned",
			term: term.NewComp("f", term.NewVar("_"), term.NewVar("_")),
			want: nil,
		},
		{
			name: "nested list",
			term: &term.List{Elems: []term.Term{term.NewVar("H")}, Tail: term.NewVar("T")},
			want: []string{"H", "T"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := term.Vars(tt.term)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Vars() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLowerList(t *testing.T) {
	in := &term.List{
		Elems: []term.Term{term.NewInt(1), term.NewInt(2)},
	}
	want := term.NewComp(".", term.NewInt(1), term.NewComp(".", term.NewInt(2), term.Atom("[]")))
	got := term.Lower(in)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Lower() mismatch (-want +got):\n%s", diff)
	}
}

func TestLowerListWithTail(t *testing.T) {
	in := &term.List{
		Elems: []term.Term{term.NewVar("H")},
		Tail:  term.NewVar("T"),
	}
	want := term.NewComp(".", term.NewVar("H"), term.NewVar("T"))
	got := term.Lower(in)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Lower() mismatch (-want +got):\n%s", diff)
	}
}

func TestLowerString(t *testing.T) {
	got := term.Lower(&term.Str{Value: "ab"})
	want := term.NewComp(".", term.Atom("a"), term.NewComp(".", term.Atom("b"), term.Atom("[]")))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Lower() mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatAtomName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"foo", "foo"},
		{"[]", "[]"},
		{"Foo", "'Foo'"},
		{"it's", "'it''s'"},
		{"", "''"},
	}
	for _, tt := range tests {
		if got := term.FormatAtomName(tt.in); got != tt.want {
			t.Errorf("FormatAtomName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
