package header

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/regmap/errors"
	"github.com/wippyai/regmap/sfr"
)

// Options control the emitted header's decoration.
type Options struct {
	Doxygen bool
}

// decorations are the comment fragments that differ between plain and
// doxygen output.
type decorations struct {
	brief1 string
	brief2 string
	member string
	whole  string
	bits   string
	split  string
	part   string
}

func decorate(part string, opts Options) decorations {
	if opts.Doxygen {
		return decorations{
			brief1: "* @brief",
			member: "*<",
			whole:  " /**< whole reg */",
			bits:   " /**< the bits */",
			split:  " /**< Split as two bytes */",
			part:   " /**< Complete register layout for " + part + " */",
		}
	}
	return decorations{
		brief1: "================",
		brief2: " ================",
	}
}

var doxyPreamble = strings.Join([]string{
	"",
	"/**",
	" * @mainpage\tThe Atmel ##",
	" *",
	" * @details \tThis is a complete definition of the layout of the ##",
	" *",
	" * @file",
	" * @brief      \tThese are the register/bit definitions:",
	" */",
	"",
}, "\n")

// Emit renders the device as a C header: one union typedef per register,
// a device struct spanning the full window with explicit unused bytes,
// the USE_SFRS accessor macro, and shortcut defines for every register
// and bit.
func Emit(w io.Writer, dev *sfr.Device, part string, opts Options) error {
	e := &emitter{dev: dev, part: part, opts: opts, dec: decorate(part, opts)}

	e.preamble()
	for _, reg := range dev.Regs.Sorted() {
		e.registerType(reg)
	}
	e.deviceStruct()
	e.defines()

	Logger().Debug("emitted header",
		zap.String("part", part),
		zap.Int("registers", dev.Regs.Len()),
		zap.Int("bytes", e.b.Len()),
	)

	if _, err := io.WriteString(w, e.b.String()); err != nil {
		return errors.Wrap(errors.PhaseEmit, errors.KindIO, err, "write header")
	}
	return nil
}

type emitter struct {
	b    strings.Builder
	dev  *sfr.Device
	part string
	opts Options
	dec  decorations
}

func (e *emitter) preamble() {
	e.b.WriteString("#include <stdint.h>\n\n")
	if e.opts.Doxygen {
		e.b.WriteString(strings.ReplaceAll(doxyPreamble, "##", e.part))
		e.b.WriteString("\n\n")
	}
}

// registerType writes one union typedef. The raw value member is a byte
// or word for regular registers and a bit-width integer otherwise; the
// bit struct carries the named or ordinal single-bit fields with padding
// runs between them; full 16-bit registers also get the byte halves.
func (e *emitter) registerType(reg *sfr.Register) {
	l := sfr.LayoutOf(reg)

	fmt.Fprintf(&e.b, "/*%s %s - %s @ %s%s */\n",
		e.dec.brief1, reg.Name, reg.Caption, hexUpper(reg.Addr), e.dec.brief2)

	switch l.Kind {
	case sfr.LayoutByte:
		e.b.WriteString("typedef union {\n\tuint8_t reg;" + e.dec.whole + "\n\tstruct {\n")
	case sfr.LayoutWord:
		e.b.WriteString("typedef union {\n\tuint16_t reg;" + e.dec.whole + "\n\tstruct {\n")
	default:
		fmt.Fprintf(&e.b, "typedef union {\n\tunsigned int reg:%d; /*%s (@ %s) %s (range: 0..%d) */\n\tstruct {\n",
			l.Bits, e.dec.member, hexLower(reg.Addr), reg.Caption, (uint64(1)<<uint(l.Bits))-1)
	}

	for _, f := range l.Fields {
		switch {
		case f.Padding:
			fmt.Fprintf(&e.b, "\t\tunsigned int       :%d; /*%s b%d", f.Width, e.dec.member, f.Pos)
			if f.Width > 1 {
				fmt.Fprintf(&e.b, "...b%d", f.Last())
			}
			e.b.WriteString(" - unused */\n")
		case f.Anon:
			fmt.Fprintf(&e.b, "\t\tunsigned int %s:1;\n", f.Name)
		default:
			fmt.Fprintf(&e.b, "\t\tunsigned int _%s:1; /*%s b%d %s */\n",
				f.Name, e.dec.member, f.Pos, f.Caption)
		}
	}

	e.b.WriteString("\t} bit;" + e.dec.bits + "\n")
	if l.Halves {
		e.b.WriteString("\tstruct {\n\t\tuint8_t low;\n\t\tuint8_t high;\n\t} halves;" + e.dec.split + "\n")
	}
	fmt.Fprintf(&e.b, "} %s_t;\n\n", reg.Name)
}

// deviceStruct writes the struct covering the whole window, one member
// per memory map slot.
func (e *emitter) deviceStruct() {
	e.b.WriteString("\ntypedef struct {\n")

	for _, slot := range e.dev.Map.Slots {
		if slot.Kind == sfr.SlotRegister {
			reg := slot.Reg
			tab2 := ""
			if len(reg.Name) < 6 {
				tab2 = "\t"
			}
			fmt.Fprintf(&e.b, "\t%s_t\t%s_%s; /*%s (@ %s) %s */\n",
				reg.Name, tab2, reg.Name, e.dec.member, hexLower(reg.Addr), reg.Caption)
			continue
		}
		fmt.Fprintf(&e.b, "\tuint8_t\t\tunused%s;\n", hexLower(slot.Addr))
	}

	fmt.Fprintf(&e.b, "} %s;%s\n\n", e.part, e.dec.part)
	e.b.WriteString("/** This must be used in your file to use these definitions */\n")
	fmt.Fprintf(&e.b, "#define USE_SFRS() volatile %s * const pSFR = (%s *)%s\n\n",
		e.part, e.part, hexLower(e.dev.Start))
}

// defines writes the shortcut macros that hide the union plumbing.
func (e *emitter) defines() {
	if e.opts.Doxygen {
		e.b.WriteString("#ifndef __DOXYGEN__\n")
	}
	for _, reg := range e.dev.Regs.Sorted() {
		e.defineBlock(reg)
	}
	if e.opts.Doxygen {
		e.b.WriteString("#endif /*__DOXYGEN__*/\n")
	}
}

func (e *emitter) defineBlock(reg *sfr.Register) {
	l := sfr.LayoutOf(reg)
	lower := strings.ToLower(reg.Name)

	fmt.Fprintf(&e.b, "/* ================= (%s) %s ================ */\n", reg.Name, reg.Caption)
	fmt.Fprintf(&e.b, "#define %s pSFR->_%s.reg\n", lower, reg.Name)

	if reg.Whole() {
		for n := 0; n < l.Bits; n++ {
			fmt.Fprintf(&e.b, "#define %s_b%d pSFR->_%s.bit.b%d\n", lower, n, reg.Name, n)
		}
		if l.Halves {
			fmt.Fprintf(&e.b, "#define %sl pSFR->_%s.halves.low\n", lower, reg.Name)
			fmt.Fprintf(&e.b, "#define %sh pSFR->_%s.halves.high\n", lower, reg.Name)
		}
	} else {
		for _, bit := range reg.Bits {
			fmt.Fprintf(&e.b, "#define %s_%s pSFR->_%s.bit._%s\n",
				lower, strings.ToLower(bit.Name), reg.Name, strings.ToUpper(bit.Name))
		}
		for _, bit := range reg.Bits {
			suffix := ""
			if reg.Name == "SREG" {
				suffix = "_flag"
			}
			fmt.Fprintf(&e.b, "#define %s%s (1 << %d)\n", strings.ToLower(bit.Name), suffix, bit.Pos)
		}
		for _, bit := range reg.Bits {
			fmt.Fprintf(&e.b, "#define %s_bp %d\n", strings.ToLower(bit.Name), bit.Pos)
		}
	}

	e.b.WriteByte('\n')
}

func hexLower(v uint32) string {
	return fmt.Sprintf("%#x", v)
}

func hexUpper(v uint32) string {
	return "0x" + strings.ToUpper(strconv.FormatUint(uint64(v), 16))
}
