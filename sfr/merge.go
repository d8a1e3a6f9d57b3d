package sfr

import (
	"fmt"
	"sort"

	"github.com/wippyai/regmap/errors"
)

// Builder folds raw register descriptors into canonical registers, one per
// address. The first descriptor seen at an address is authoritative for the
// register's name, caption, size and mask; later descriptors at the same
// address contribute bits only. The zero value is not usable, call
// NewBuilder.
type Builder struct {
	byAddr map[uint32]*Register
	diags  []Diagnostic
	err    error
}

// NewBuilder returns an empty register builder.
func NewBuilder() *Builder {
	return &Builder{byAddr: make(map[uint32]*Register)}
}

// Add merges one raw register descriptor. A descriptor whose size is not 1
// or 2 is a fatal data error: Add returns it, and the builder refuses all
// further work so a corrupt layout can never be emitted.
func (b *Builder) Add(raw RawRegister) error {
	if b.err != nil {
		return b.err
	}

	if raw.Size != 1 && raw.Size != 2 {
		b.err = errors.MalformedRegister(raw.Name, raw.Addr, raw.Size)
		return b.err
	}

	reg, seen := b.byAddr[raw.Addr]
	if !seen {
		reg = &Register{
			Addr:    raw.Addr,
			Size:    raw.Size,
			Name:    raw.Name,
			Caption: raw.Caption,
		}
		if reg.Caption == "" {
			reg.Caption = "missing caption"
		}
		switch {
		case raw.Mask != nil:
			reg.Mask = *raw.Mask
		case raw.Size == 2:
			reg.Mask = 0xFFFF
		default:
			reg.Mask = 0xFF
		}
		b.byAddr[raw.Addr] = reg
	}

	for _, rb := range raw.Bitfields {
		for _, bf := range DecomposeBits(rb) {
			b.insertBit(reg, bf)
		}
	}

	sort.Slice(reg.Bits, func(i, j int) bool { return reg.Bits[i].Pos < reg.Bits[j].Pos })
	return nil
}

// insertBit adds bf unless its position is already taken. First writer
// wins; a rejected bit that differs in name or caption is surfaced as a
// merge conflict diagnostic.
func (b *Builder) insertBit(reg *Register, bf BitField) {
	for _, have := range reg.Bits {
		if have.Pos != bf.Pos {
			continue
		}
		if have.Name != bf.Name || have.Caption != bf.Caption {
			b.record(Diagnostic{
				Phase:  errors.PhaseMerge,
				Kind:   errors.KindMergeConflict,
				Addr:   reg.Addr,
				Name:   reg.Name,
				Detail: fmt.Sprintf("bit %d already declared as %q, dropping %q", bf.Pos, have.Name, bf.Name),
			})
		}
		return
	}
	reg.Bits = append(reg.Bits, bf)
}

func (b *Builder) record(d Diagnostic) {
	b.diags = append(b.diags, d)
	logDiagnostic(d)
}

// Build finalizes the merge and returns the canonical register set. After
// a fatal data error every call returns that error and no set.
func (b *Builder) Build() (*RegisterSet, error) {
	if b.err != nil {
		return nil, b.err
	}

	set := &RegisterSet{
		byAddr: b.byAddr,
		sorted: make([]*Register, 0, len(b.byAddr)),
		diags:  b.diags,
	}
	for _, reg := range b.byAddr {
		set.sorted = append(set.sorted, reg)
	}
	sort.Slice(set.sorted, func(i, j int) bool { return set.sorted[i].Addr < set.sorted[j].Addr })
	return set, nil
}

// BuildRegisters folds raw registers into a canonical set in one call,
// feeding a Builder in ingestion order.
func BuildRegisters(raws []RawRegister) (*RegisterSet, error) {
	b := NewBuilder()
	for _, raw := range raws {
		if err := b.Add(raw); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

// RegisterSet is the canonical mapping from address to merged register.
type RegisterSet struct {
	byAddr map[uint32]*Register
	sorted []*Register
	diags  []Diagnostic
}

// At returns the canonical register at addr, or nil if the address holds
// none.
func (s *RegisterSet) At(addr uint32) *Register {
	if s == nil {
		return nil
	}
	return s.byAddr[addr]
}

// Sorted returns the registers in ascending address order.
func (s *RegisterSet) Sorted() []*Register {
	if s == nil {
		return nil
	}
	return s.sorted
}

// Len returns the number of canonical registers.
func (s *RegisterSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.sorted)
}

// Diagnostics returns the observations recorded during merging.
func (s *RegisterSet) Diagnostics() []Diagnostic {
	if s == nil {
		return nil
	}
	return s.diags
}
