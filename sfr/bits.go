package sfr

import (
	"math/bits"
	"strconv"
)

// DecomposeBits expands one raw bitfield descriptor into single-bit fields.
//
// A mask with exactly one set bit yields one field at that position with the
// name unchanged. A wider mask is scanned from bit 0 upward and every set bit
// becomes its own field named name+ordinal, where the ordinal starts at the
// descriptor's declared least significant bit number and counts up once per
// emitted field, gaps in the mask notwithstanding. A zero mask yields
// nothing.
//
// The expansion is deterministic: the same descriptor always produces the
// same sequence.
func DecomposeBits(rb RawBitfield) []BitField {
	if rb.Mask == 0 {
		return nil
	}

	caption := rb.Caption
	if caption == "" {
		caption = "caption missing"
	}

	if bits.OnesCount64(rb.Mask) == 1 {
		return []BitField{{
			Pos:     uint(bits.TrailingZeros64(rb.Mask)),
			Name:    rb.Name,
			Caption: caption,
		}}
	}

	fields := make([]BitField, 0, bits.OnesCount64(rb.Mask))
	ordinal := rb.LSB
	for pos := uint(0); pos < 64; pos++ {
		if rb.Mask&(1<<pos) == 0 {
			continue
		}
		fields = append(fields, BitField{
			Pos:     pos,
			Name:    rb.Name + strconv.Itoa(int(ordinal)),
			Caption: caption,
		})
		ordinal++
	}
	return fields
}
