package regmap

import (
	"io"

	"github.com/wippyai/regmap/atdf"
	"github.com/wippyai/regmap/header"
	"github.com/wippyai/regmap/sfr"
)

// Build decodes the ATDF document from r and reconciles it into the
// canonical device model: one merged register per address plus the
// gap-filled memory map over the document's I/O window.
func Build(r io.Reader) (*sfr.Device, error) {
	doc, err := atdf.Decode(r)
	if err != nil {
		return nil, err
	}

	start, length, err := doc.Window()
	if err != nil {
		return nil, err
	}

	raws, err := doc.Registers()
	if err != nil {
		return nil, err
	}

	return sfr.NewDevice(doc.Name(), raws, start, length)
}

// Generate runs the full pipeline in one call: the ATDF document from r
// becomes a C header on w. The part name becomes the device struct's type
// name in the emitted text.
func Generate(w io.Writer, r io.Reader, part string, opts header.Options) error {
	dev, err := Build(r)
	if err != nil {
		return err
	}
	return header.Emit(w, dev, part, opts)
}
