package sfr

import (
	"fmt"
	"math/bits"

	"github.com/wippyai/regmap/errors"
)

// RawBitfield is a single bitfield descriptor as found in a vendor file,
// before decomposition. The mask may cover any number of bits, contiguous
// or not.
type RawBitfield struct {
	Mask    uint64
	LSB     uint
	Name    string
	Caption string
}

// BitField is one named bit within a canonical register.
type BitField struct {
	Pos     uint
	Name    string
	Caption string
}

// RawRegister is a register descriptor as found in a vendor file. Several
// raw registers may share an address; merging folds them into one Register.
// A nil Mask means the register did not declare one and the full byte or
// word mask is assumed.
type RawRegister struct {
	Addr      uint32
	Size      int
	Mask      *uint64
	Name      string
	Caption   string
	Bitfields []RawBitfield
}

// Register is the canonical merged register at a single address. Bits is
// kept sorted by ascending position and never holds two fields at the same
// position. An empty Bits means the register is addressed as a whole.
type Register struct {
	Addr    uint32
	Size    int
	Mask    uint64
	Name    string
	Caption string
	Bits    []BitField
}

// PopCount returns the number of set bits in the register mask. This, not
// Size*8, is the register's addressable bit count.
func (r *Register) PopCount() int {
	return bits.OnesCount64(r.Mask)
}

// Whole reports whether the register carries no named bits.
func (r *Register) Whole() bool {
	return len(r.Bits) == 0
}

// Diagnostic is a non-fatal observation recorded while building a device.
// The build that produced it is still usable; callers decide whether to
// proceed.
type Diagnostic struct {
	Phase  errors.Phase
	Kind   errors.Kind
	Addr   uint32
	Name   string
	Detail string
}

func (d Diagnostic) String() string {
	if d.Name != "" {
		return fmt.Sprintf("[%s] %s at %s (0x%X): %s", d.Phase, d.Kind, d.Name, d.Addr, d.Detail)
	}
	return fmt.Sprintf("[%s] %s at 0x%X: %s", d.Phase, d.Kind, d.Addr, d.Detail)
}
