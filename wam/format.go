package wam

import (
	"strconv"
	"strings"

	"github.com/varkor/Epilog/term"
)

// Format renders the dereferenced value at a in source notation: unbound
// variables print as an underscore tagged with their heap address (so two
// prints of the same unbound cell visibly match), `./2` chains print as
// list notation, everything else prints as a compound term with its
// functor name quoted per term.FormatAtomName.
func (m *Machine) Format(a Address) string {
	var b strings.Builder
	m.writeTerm(&b, a)
	return b.String()
}

func (m *Machine) writeTerm(b *strings.Builder, a Address) {
	addr := m.deref(a)
	if m.isUnboundVar(addr) {
		b.WriteString("_G")
		b.WriteString(strconv.Itoa(addr.Index))
		return
	}
	c := m.cellAt(addr)
	switch c.Tag {
	case IntegerCell:
		b.WriteString(strconv.FormatInt(c.Value, 10))
	case CompoundTermCell:
		f := m.cellAt(HeapAddr(c.RefIndex))
		if f.Name == "." && f.Arity == 2 {
			m.writeList(b, c.RefIndex)
			return
		}
		b.WriteString(term.FormatAtomName(f.Name))
		if f.Arity == 0 {
			return
		}
		b.WriteByte('(')
		for i := 0; i < f.Arity; i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			m.writeTerm(b, HeapAddr(c.RefIndex+1+i))
		}
		b.WriteByte(')')
	default:
		b.WriteString(c.String())
	}
}

// writeList walks a `./2` spine starting at the Functor cell fIdx,
// stopping at `[]` (printed as nothing further) or an improper tail
// (printed after a `|`).
func (m *Machine) writeList(b *strings.Builder, fIdx int) {
	b.WriteByte('[')
	first := true
	for {
		head := HeapAddr(fIdx + 1)
		tail := HeapAddr(fIdx + 2)
		if !first {
			b.WriteString(", ")
		}
		first = false
		m.writeTerm(b, head)

		tailAddr := m.deref(tail)
		if m.isUnboundVar(tailAddr) {
			b.WriteString(" | ")
			m.writeTerm(b, tailAddr)
			break
		}
		tc := m.cellAt(tailAddr)
		if tc.Tag == CompoundTermCell {
			tf := m.cellAt(HeapAddr(tc.RefIndex))
			if tf.Name == "[]" && tf.Arity == 0 {
				break
			}
			if tf.Name == "." && tf.Arity == 2 {
				fIdx = tc.RefIndex
				continue
			}
		}
		b.WriteString(" | ")
		m.writeTerm(b, tailAddr)
		break
	}
	b.WriteByte(']')
}
