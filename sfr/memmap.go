package sfr

import (
	"fmt"

	"github.com/wippyai/regmap/errors"
)

// SlotKind tags a memory map slot.
type SlotKind int

const (
	SlotUnused SlotKind = iota
	SlotRegister
)

// Slot is one entry in the assembled map: a register occupying its full
// byte span, or a single unused byte.
type Slot struct {
	Kind SlotKind
	Addr uint32
	Reg  *Register
}

// Span returns the number of addresses the slot covers.
func (s Slot) Span() uint32 {
	if s.Kind == SlotRegister && s.Reg != nil {
		return uint32(s.Reg.Size)
	}
	return 1
}

// MemoryMap is the gapless, address-ordered slot sequence covering
// [Start, Start+Length). Slot spans partition the window exactly once,
// except when a flagged register overflows past the end.
type MemoryMap struct {
	Start  uint32
	Length uint32
	Slots  []Slot

	diags []Diagnostic
}

// Diagnostics returns the observations recorded during assembly.
func (m *MemoryMap) Diagnostics() []Diagnostic {
	if m == nil {
		return nil
	}
	return m.diags
}

func (m *MemoryMap) record(d Diagnostic) {
	m.diags = append(m.diags, d)
	logDiagnostic(d)
}

// Assemble walks [start, start+length) and places each canonical register
// at its declared address, filling every other address with an unused-byte
// slot. A register is placed once and consumes its full byte span. A
// register whose span crosses the window end is still placed in full and
// flagged. A register the walk can never reach, because its address lies
// below the window or inside the span of an earlier register, is skipped
// and flagged. A nil or empty set yields a map of nothing but unused
// bytes.
func Assemble(set *RegisterSet, start, length uint32) *MemoryMap {
	m := &MemoryMap{Start: start, Length: length}

	regs := set.Sorted()
	next := 0 // pending register cursor, advanced only on placement or skip

	end := uint64(start) + uint64(length)
	for addr := uint64(start); addr < end; {
		for next < len(regs) && uint64(regs[next].Addr) < addr {
			m.record(Diagnostic{
				Phase:  errors.PhaseAssemble,
				Kind:   errors.KindUnplacedRegister,
				Addr:   regs[next].Addr,
				Name:   regs[next].Name,
				Detail: fmt.Sprintf("address unreachable by the walk at 0x%X", addr),
			})
			next++
		}

		if next < len(regs) && uint64(regs[next].Addr) == addr {
			reg := regs[next]
			m.Slots = append(m.Slots, Slot{Kind: SlotRegister, Addr: reg.Addr, Reg: reg})
			if uint64(reg.Addr)+uint64(reg.Size) > end {
				m.record(Diagnostic{
					Phase:  errors.PhaseAssemble,
					Kind:   errors.KindWindowOverflow,
					Addr:   reg.Addr,
					Name:   reg.Name,
					Detail: fmt.Sprintf("register spans %d byte(s) past window end 0x%X", uint64(reg.Addr)+uint64(reg.Size)-end, end),
				})
			}
			addr += uint64(reg.Size)
			next++
			continue
		}

		m.Slots = append(m.Slots, Slot{Kind: SlotUnused, Addr: uint32(addr)})
		addr++
	}

	for ; next < len(regs); next++ {
		m.record(Diagnostic{
			Phase:  errors.PhaseAssemble,
			Kind:   errors.KindUnplacedRegister,
			Addr:   regs[next].Addr,
			Name:   regs[next].Name,
			Detail: fmt.Sprintf("address outside window [0x%X, 0x%X)", start, end),
		})
	}

	return m
}
