package header

import (
	"io"
	"sort"
	"strings"

	"github.com/wippyai/regmap/errors"
	"github.com/wippyai/regmap/sfr"
)

// EmitSymbols writes the device's acronym list: one line per register and
// one per named bit, sorted alphabetically. The list is meant for humans
// decoding vendor shorthand, not for the compiler.
func EmitSymbols(w io.Writer, dev *sfr.Device) error {
	var lines []string

	for _, reg := range dev.Regs.Sorted() {
		lines = append(lines, reg.Name+" = "+reg.Caption+"\n")
		for _, bit := range reg.Bits {
			lines = append(lines, bit.Name+" : bit within "+reg.Name+" = "+bit.Caption+"\n")
		}
	}
	sort.Strings(lines)

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.Wrap(errors.PhaseEmit, errors.KindIO, err, "write symbols")
	}
	return nil
}
