package atdf

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wippyai/regmap/errors"
)

const sampleDoc = `<avr-tools-device-file>
  <devices>
    <device name="ATmega48" architecture="AVR8" family="megaAVR">
      <address-spaces>
        <address-space name="data">
          <memory-segment name="REGISTERS" start="0x0000" size="0x0020"/>
          <memory-segment name="MAPPED_IO" start="0x0020" size="0x00E0"/>
        </address-space>
      </address-spaces>
    </device>
  </devices>
  <modules>
    <module name="PORT" caption="I/O Port">
      <register-group name="PORTB">
        <register name="PORTB" caption="Port B Data Register" offset="0x25" size="1" mask="0xFF"/>
        <register name="DDRB" caption="Port B Data Direction" offset="0x24" size="1"/>
      </register-group>
    </module>
    <module name="CPU">
      <register-group name="CPU">
        <register name="SMCR" caption="Sleep Mode Control Register" offset="0x53" size="1" mask="0x0F">
          <bitfield name="SM" caption="Sleep Mode Select" mask="0x0E"/>
          <bitfield name="SE" caption="Sleep Enable" mask="0x01"/>
        </register>
        <register name="SPMCSR" caption="Store Program Memory Control" offset="0x57" size="1">
          <bitfield name="PGERS" caption="Page Erase" mask="0x02" lsb="1"/>
        </register>
      </register-group>
      <register-group name="CPU_ALIAS">
        <register name="HIDDEN" caption="never collected" offset="0x99" size="1"/>
      </register-group>
    </module>
    <module name="FUSE">
      <register-group name="FUSE">
        <register name="LOW" caption="Fuse Low Byte" offset="0x00" size="1"/>
      </register-group>
    </module>
    <module name="LOCKBIT">
      <register-group name="LOCKBIT">
        <register name="LOCKBIT" caption="Lockbits" offset="0x01" size="1"/>
      </register-group>
    </module>
    <module name="BARE"/>
  </modules>
</avr-tools-device-file>`

func decodeSample(t *testing.T) *Document {
	t.Helper()
	doc, err := Decode(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return doc
}

func TestDecode(t *testing.T) {
	doc := decodeSample(t)

	if doc.Name() != "ATmega48" {
		t.Errorf("Name = %q, want ATmega48", doc.Name())
	}
	if len(doc.Devices) != 1 {
		t.Errorf("got %d devices, want 1", len(doc.Devices))
	}
	if len(doc.Modules) != 5 {
		t.Errorf("got %d modules, want 5", len(doc.Modules))
	}
}

func TestDecode_WrongRoot(t *testing.T) {
	_, err := Decode(strings.NewReader(`<not-a-device-file/>`))
	if err == nil {
		t.Fatal("Decode should reject a foreign root element")
	}

	target := &errors.Error{Phase: errors.PhaseIngest, Kind: errors.KindInvalidData}
	if !stderrors.Is(err, target) {
		t.Errorf("error %v is not an ingest invalid_data error", err)
	}
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode(strings.NewReader("this is not xml at all"))
	if err == nil {
		t.Fatal("Decode should fail on garbage")
	}
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m48.atdf")
	if err := os.WriteFile(path, []byte(sampleDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}
	if doc.Name() != "ATmega48" {
		t.Errorf("Name = %q, want ATmega48", doc.Name())
	}
}

func TestDecodeFile_Missing(t *testing.T) {
	_, err := DecodeFile(filepath.Join(t.TempDir(), "nope.atdf"))
	if err == nil {
		t.Fatal("DecodeFile should fail for a missing file")
	}

	target := &errors.Error{Phase: errors.PhaseIngest, Kind: errors.KindIO}
	if !stderrors.Is(err, target) {
		t.Errorf("error %v is not an ingest io error", err)
	}
}

func TestDocument_Window(t *testing.T) {
	doc := decodeSample(t)

	start, length, err := doc.Window()
	if err != nil {
		t.Fatalf("Window: %v", err)
	}
	if start != 0x20 {
		t.Errorf("start = %#x, want 0x20", start)
	}
	if length != 0xE0 {
		t.Errorf("length = %#x, want 0xe0", length)
	}
}

func TestDocument_Window_Missing(t *testing.T) {
	doc := &Document{
		Devices: []Device{{
			Name: "bare",
			AddressSpaces: []AddressSpace{{
				Name:     "data",
				Segments: []MemorySegment{{Name: "IRAM", Start: "0x100", Size: "0x400"}},
			}},
		}},
	}

	_, _, err := doc.Window()
	if err == nil {
		t.Fatal("Window should fail without a MAPPED_IO segment")
	}

	target := &errors.Error{Phase: errors.PhaseIngest, Kind: errors.KindNotFound}
	if !stderrors.Is(err, target) {
		t.Errorf("error %v is not an ingest not_found error", err)
	}
}

func TestDocument_Window_BadBound(t *testing.T) {
	doc := &Document{
		Devices: []Device{{
			AddressSpaces: []AddressSpace{{
				Segments: []MemorySegment{{Name: "MAPPED_IO", Start: "bogus", Size: "0x10"}},
			}},
		}},
	}

	_, _, err := doc.Window()
	if err == nil {
		t.Fatal("Window should reject an unparseable start")
	}
}

func TestDocument_Registers(t *testing.T) {
	doc := decodeSample(t)

	raws, err := doc.Registers()
	if err != nil {
		t.Fatalf("Registers: %v", err)
	}

	var names []string
	for _, raw := range raws {
		names = append(names, raw.Name)
	}
	want := []string{"PORTB", "DDRB", "SMCR", "SPMCSR"}
	if len(names) != len(want) {
		t.Fatalf("collected %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("register %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestDocument_Registers_Conversion(t *testing.T) {
	doc := decodeSample(t)

	raws, err := doc.Registers()
	if err != nil {
		t.Fatalf("Registers: %v", err)
	}

	byName := make(map[string]int)
	for i, raw := range raws {
		byName[raw.Name] = i
	}

	portb := raws[byName["PORTB"]]
	if portb.Addr != 0x25 || portb.Size != 1 {
		t.Errorf("PORTB = addr %#x size %d, want 0x25/1", portb.Addr, portb.Size)
	}
	if portb.Mask == nil || *portb.Mask != 0xFF {
		t.Errorf("PORTB mask = %v, want explicit 0xff", portb.Mask)
	}

	ddrb := raws[byName["DDRB"]]
	if ddrb.Mask != nil {
		t.Errorf("DDRB mask = %v, want nil (absent)", ddrb.Mask)
	}

	smcr := raws[byName["SMCR"]]
	if len(smcr.Bitfields) != 2 {
		t.Fatalf("SMCR has %d bitfields, want 2", len(smcr.Bitfields))
	}
	if smcr.Bitfields[0].Name != "SM" || smcr.Bitfields[0].Mask != 0x0E {
		t.Errorf("SM bitfield = %+v", smcr.Bitfields[0])
	}
	if smcr.Bitfields[0].LSB != 0 {
		t.Errorf("SM lsb = %d, want default 0", smcr.Bitfields[0].LSB)
	}

	spmcsr := raws[byName["SPMCSR"]]
	if spmcsr.Bitfields[0].LSB != 1 {
		t.Errorf("PGERS lsb = %d, want 1", spmcsr.Bitfields[0].LSB)
	}
}

func TestDocument_Registers_BadOffset(t *testing.T) {
	doc := &Document{
		Modules: []Module{{
			Name: "X",
			Groups: []RegisterGroup{{
				Registers: []Register{{Name: "R", Offset: "0xZZ", Size: "1"}},
			}},
		}},
	}

	_, err := doc.Registers()
	if err == nil {
		t.Fatal("Registers should reject an unparseable offset")
	}

	target := &errors.Error{Phase: errors.PhaseIngest, Kind: errors.KindInvalidData}
	if !stderrors.Is(err, target) {
		t.Errorf("error %v is not an ingest invalid_data error", err)
	}
}

func TestDocument_Registers_MissingSizePassesThrough(t *testing.T) {
	// an absent size is the merge phase's fatal error, not a decode error
	doc := &Document{
		Modules: []Module{{
			Name: "X",
			Groups: []RegisterGroup{{
				Registers: []Register{{Name: "R", Offset: "0x20"}},
			}},
		}},
	}

	raws, err := doc.Registers()
	if err != nil {
		t.Fatalf("Registers: %v", err)
	}
	if raws[0].Size != 0 {
		t.Errorf("Size = %d, want 0 passthrough", raws[0].Size)
	}
}

func TestDocument_Registers_MissingBitfieldMask(t *testing.T) {
	doc := &Document{
		Modules: []Module{{
			Name: "X",
			Groups: []RegisterGroup{{
				Registers: []Register{{
					Name: "R", Offset: "0x20", Size: "1",
					Bitfields: []Bitfield{{Name: "GHOST"}},
				}},
			}},
		}},
	}

	raws, err := doc.Registers()
	if err != nil {
		t.Fatalf("Registers: %v", err)
	}
	if raws[0].Bitfields[0].Mask != 0 {
		t.Errorf("mask = %#x, want 0 (absent)", raws[0].Bitfields[0].Mask)
	}
}
