package atdf

import (
	"encoding/xml"
	"io"
	"os"

	"github.com/wippyai/regmap/errors"
)

// Document is the root of an ATDF device description file.
type Document struct {
	XMLName xml.Name `xml:"avr-tools-device-file"`
	Devices []Device `xml:"devices>device"`
	Modules []Module `xml:"modules>module"`
}

// Device describes one part and its address spaces.
type Device struct {
	Name          string         `xml:"name,attr"`
	Architecture  string         `xml:"architecture,attr"`
	Family        string         `xml:"family,attr"`
	AddressSpaces []AddressSpace `xml:"address-spaces>address-space"`
}

// AddressSpace is a named address range divided into memory segments.
type AddressSpace struct {
	Name     string          `xml:"name,attr"`
	Segments []MemorySegment `xml:"memory-segment"`
}

// MemorySegment is one region of an address space. Start and Size stay
// verbatim strings until collection.
type MemorySegment struct {
	Name  string `xml:"name,attr"`
	Start string `xml:"start,attr"`
	Size  string `xml:"size,attr"`
}

// Module is one peripheral block. Its registers live under register
// groups.
type Module struct {
	Name    string          `xml:"name,attr"`
	Caption string          `xml:"caption,attr"`
	Groups  []RegisterGroup `xml:"register-group"`
}

// RegisterGroup holds a module's register declarations.
type RegisterGroup struct {
	Name      string     `xml:"name,attr"`
	Registers []Register `xml:"register"`
}

// Register is one register declaration. Offset, Size and Mask stay
// verbatim strings until collection.
type Register struct {
	Name      string     `xml:"name,attr"`
	Caption   string     `xml:"caption,attr"`
	Offset    string     `xml:"offset,attr"`
	Size      string     `xml:"size,attr"`
	Mask      string     `xml:"mask,attr"`
	Bitfields []Bitfield `xml:"bitfield"`
}

// Bitfield is one bitfield declaration within a register.
type Bitfield struct {
	Name    string `xml:"name,attr"`
	Caption string `xml:"caption,attr"`
	Mask    string `xml:"mask,attr"`
	LSB     string `xml:"lsb,attr"`
}

// Decode reads an ATDF document from r.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.ParseFailed("ATDF document", err)
	}
	return &doc, nil
}

// DecodeFile reads an ATDF document from path.
func DecodeFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.ReadFailed(path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Name returns the described part's name, or "" when the document
// declares no device.
func (d *Document) Name() string {
	if len(d.Devices) == 0 {
		return ""
	}
	return d.Devices[0].Name
}
