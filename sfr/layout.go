package sfr

import "strconv"

// LayoutKind classifies the bit-level shape of a register by its
// addressable bit count.
type LayoutKind int

const (
	// LayoutBitset is an irregular register: the addressable bit count is
	// neither 8 nor 16, so the raw value is a bit-width integer rather
	// than a byte-backed one.
	LayoutBitset LayoutKind = iota
	// LayoutByte is a register with exactly 8 addressable bits.
	LayoutByte
	// LayoutWord is a register with exactly 16 addressable bits; it also
	// decomposes into low and high byte halves.
	LayoutWord
)

// LayoutField is one field in a register's bit-level layout: a named bit,
// an anonymous ordinal bit of a whole register, or a run of padding
// positions.
type LayoutField struct {
	Name    string
	Caption string
	Pos     uint
	Width   uint
	Padding bool
	Anon    bool
}

// Last returns the highest bit position the field covers.
func (f LayoutField) Last() uint {
	return f.Pos + f.Width - 1
}

// Layout is the synthesized bit-level shape of one register.
type Layout struct {
	Kind   LayoutKind
	Bits   int
	Fields []LayoutField
	Halves bool
}

// LayoutOf classifies a register by the population count of its mask;
// the byte size never enters into it. A whole register gets one anonymous
// single-bit field per addressable bit, named b0 upward. A register with
// named bits gets a padding field for every run of unused positions below
// a named bit, then the named bit itself, in ascending position order. No
// padding is emitted above the last named bit.
func LayoutOf(r *Register) Layout {
	l := Layout{Bits: r.PopCount()}

	switch l.Bits {
	case 8:
		l.Kind = LayoutByte
	case 16:
		l.Kind = LayoutWord
		l.Halves = true
	default:
		l.Kind = LayoutBitset
	}

	if r.Whole() {
		for i := 0; i < l.Bits; i++ {
			l.Fields = append(l.Fields, LayoutField{
				Name:  "b" + strconv.Itoa(i),
				Pos:   uint(i),
				Width: 1,
				Anon:  true,
			})
		}
		return l
	}

	next := uint(0)
	for _, bf := range r.Bits {
		if bf.Pos > next {
			l.Fields = append(l.Fields, LayoutField{
				Pos:     next,
				Width:   bf.Pos - next,
				Padding: true,
			})
		}
		l.Fields = append(l.Fields, LayoutField{
			Name:    bf.Name,
			Caption: bf.Caption,
			Pos:     bf.Pos,
			Width:   1,
		})
		next = bf.Pos + 1
	}
	return l
}
