package sfr

import (
	"fmt"

	"github.com/wippyai/regmap/errors"
)

// Device bundles the canonical register set and the assembled memory map
// for one input, together with every diagnostic the build produced.
type Device struct {
	Name   string
	Start  uint32
	Length uint32
	Regs   *RegisterSet
	Map    *MemoryMap

	layoutDiags []Diagnostic
}

// NewDevice merges the raw registers and assembles the memory map over
// [start, start+length). Empty input is not an error: the map comes back
// all unused bytes. The only fatal condition is a malformed register
// size, which aborts the whole build.
func NewDevice(name string, raws []RawRegister, start, length uint32) (*Device, error) {
	set, err := BuildRegisters(raws)
	if err != nil {
		return nil, err
	}

	dev := &Device{
		Name:   name,
		Start:  start,
		Length: length,
		Regs:   set,
		Map:    Assemble(set, start, length),
	}

	for _, reg := range set.Sorted() {
		if reg.Size == 2 && reg.PopCount() != 16 {
			d := Diagnostic{
				Phase:  errors.PhaseLayout,
				Kind:   errors.KindIrregularHalves,
				Addr:   reg.Addr,
				Name:   reg.Name,
				Detail: fmt.Sprintf("2-byte register with %d addressable bits cannot expose byte halves", reg.PopCount()),
			}
			dev.layoutDiags = append(dev.layoutDiags, d)
			logDiagnostic(d)
		}
	}

	return dev, nil
}

// Diagnostics returns merge, assembly and layout observations, in that
// order.
func (d *Device) Diagnostics() []Diagnostic {
	var out []Diagnostic
	out = append(out, d.Regs.Diagnostics()...)
	out = append(out, d.Map.Diagnostics()...)
	out = append(out, d.layoutDiags...)
	return out
}
