package wam

import "testing"

func TestFormatInteger(t *testing.T) {
	m := newTestMachine()
	a := HeapAddr(m.pushHeap(integerCell(42)))
	if got := m.Format(a); got != "42" {
		t.Errorf("Format() = %q, want %q", got, "42")
	}
}

func TestFormatAtom(t *testing.T) {
	m := newTestMachine()
	a := pushStruct(m, "foo")
	if got := m.Format(a); got != "foo" {
		t.Errorf("Format() = %q, want %q", got, "foo")
	}
}

func TestFormatCompound(t *testing.T) {
	m := newTestMachine()
	one := HeapAddr(m.pushHeap(integerCell(1)))
	two := HeapAddr(m.pushHeap(integerCell(2)))
	s := pushStruct(m, "point", one, two)
	if got := m.Format(s); got != "point(1, 2)" {
		t.Errorf("Format() = %q, want %q", got, "point(1, 2)")
	}
}

func TestFormatUnboundVar(t *testing.T) {
	m := newTestMachine()
	a := pushVar(m)
	got := m.Format(a)
	if got == "" || got[0] != '_' {
		t.Errorf("Format() = %q, want an underscore-prefixed name", got)
	}
}

func TestFormatProperList(t *testing.T) {
	m := newTestMachine()
	one := HeapAddr(m.pushHeap(integerCell(1)))
	two := HeapAddr(m.pushHeap(integerCell(2)))
	nilList := pushStruct(m, "[]")
	tail := pushStruct(m, ".", two, nilList)
	lst := pushStruct(m, ".", one, tail)

	if got := m.Format(lst); got != "[1, 2]" {
		t.Errorf("Format() = %q, want %q", got, "[1, 2]")
	}
}

func TestFormatImproperList(t *testing.T) {
	m := newTestMachine()
	one := HeapAddr(m.pushHeap(integerCell(1)))
	tailVar := pushVar(m)
	lst := pushStruct(m, ".", one, tailVar)

	got := m.Format(lst)
	if got[:4] != "[1 |" {
		t.Errorf("Format() = %q, want an improper-list rendering starting with %q", got, "[1 |")
	}
}

func TestFormatQuotedAtomName(t *testing.T) {
	m := newTestMachine()
	a := pushStruct(m, "It's Here")
	got := m.Format(a)
	want := "'It''s Here'"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}
