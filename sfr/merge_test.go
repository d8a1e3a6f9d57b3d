package sfr

import (
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/wippyai/regmap/errors"
)

func maskOf(v uint64) *uint64 {
	return &v
}

func TestBuilder_DisjointUnion(t *testing.T) {
	set, err := BuildRegisters([]RawRegister{
		{
			Addr: 0x6E, Size: 1, Name: "TIMSK0", Caption: "Timer Interrupt Mask",
			Bitfields: []RawBitfield{{Mask: 0x01, Name: "TOIE0", Caption: "Overflow Interrupt Enable"}},
		},
		{
			Addr: 0x6E, Size: 1, Name: "TIMSK0",
			Bitfields: []RawBitfield{{Mask: 0x06, Name: "OCIE0", Caption: "Output Compare Interrupt Enable"}},
		},
	})
	if err != nil {
		t.Fatalf("BuildRegisters: %v", err)
	}

	if set.Len() != 1 {
		t.Fatalf("Len = %d, want 1", set.Len())
	}

	reg := set.At(0x6E)
	if reg == nil {
		t.Fatal("At(0x6E) = nil")
	}

	want := []BitField{
		{Pos: 0, Name: "TOIE0", Caption: "Overflow Interrupt Enable"},
		{Pos: 1, Name: "OCIE0", Caption: "Output Compare Interrupt Enable"},
		{Pos: 2, Name: "OCIE1", Caption: "Output Compare Interrupt Enable"},
	}
	if !reflect.DeepEqual(reg.Bits, want) {
		t.Errorf("Bits = %+v, want %+v", reg.Bits, want)
	}

	if len(set.Diagnostics()) != 0 {
		t.Errorf("unexpected diagnostics: %v", set.Diagnostics())
	}
}

func TestBuilder_FirstWriterWinsScalars(t *testing.T) {
	set, err := BuildRegisters([]RawRegister{
		{Addr: 0x25, Size: 1, Mask: maskOf(0xFF), Name: "PORTB", Caption: "Port B Data Register"},
		{Addr: 0x25, Size: 2, Mask: maskOf(0x0F), Name: "PB", Caption: "something else"},
	})
	if err != nil {
		t.Fatalf("BuildRegisters: %v", err)
	}

	reg := set.At(0x25)
	if reg.Name != "PORTB" {
		t.Errorf("Name = %q, want PORTB", reg.Name)
	}
	if reg.Caption != "Port B Data Register" {
		t.Errorf("Caption = %q, want first writer's", reg.Caption)
	}
	if reg.Size != 1 {
		t.Errorf("Size = %d, want 1", reg.Size)
	}
	if reg.Mask != 0xFF {
		t.Errorf("Mask = %#x, want 0xff", reg.Mask)
	}
}

func TestBuilder_FirstWriterWinsBits(t *testing.T) {
	set, err := BuildRegisters([]RawRegister{
		{
			Addr: 0x3E, Size: 1, Name: "GPIOR0",
			Bitfields: []RawBitfield{{Mask: 0x08, Name: "PSR10", Caption: "Prescaler Reset"}},
		},
		{
			Addr: 0x3E, Size: 1, Name: "GPIOR0",
			Bitfields: []RawBitfield{{Mask: 0x08, Name: "PSRSYNC", Caption: "Prescaler Reset Synchronous"}},
		},
	})
	if err != nil {
		t.Fatalf("BuildRegisters: %v", err)
	}

	reg := set.At(0x3E)
	if len(reg.Bits) != 1 {
		t.Fatalf("got %d bits, want 1", len(reg.Bits))
	}
	if reg.Bits[0].Name != "PSR10" {
		t.Errorf("bit name = %q, want first writer's PSR10", reg.Bits[0].Name)
	}

	diags := set.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	if diags[0].Kind != errors.KindMergeConflict {
		t.Errorf("diagnostic kind = %v, want %v", diags[0].Kind, errors.KindMergeConflict)
	}
	if diags[0].Addr != 0x3E || diags[0].Name != "GPIOR0" {
		t.Errorf("diagnostic at %s (%#x), want GPIOR0 (0x3e)", diags[0].Name, diags[0].Addr)
	}
}

func TestBuilder_IdenticalRedeclarationIsSilent(t *testing.T) {
	set, err := BuildRegisters([]RawRegister{
		{
			Addr: 0x44, Size: 1, Name: "TCCR0A",
			Bitfields: []RawBitfield{{Mask: 0x03, Name: "WGM0", Caption: "Waveform Generation"}},
		},
		{
			Addr: 0x44, Size: 1, Name: "TCCR0A",
			Bitfields: []RawBitfield{{Mask: 0x03, Name: "WGM0", Caption: "Waveform Generation"}},
		},
	})
	if err != nil {
		t.Fatalf("BuildRegisters: %v", err)
	}

	if len(set.At(0x44).Bits) != 2 {
		t.Errorf("got %d bits, want 2", len(set.At(0x44).Bits))
	}
	if len(set.Diagnostics()) != 0 {
		t.Errorf("identical redeclaration should not be flagged, got %v", set.Diagnostics())
	}
}

func TestBuilder_DuplicateBitWithinOneDescriptor(t *testing.T) {
	set, err := BuildRegisters([]RawRegister{
		{
			Addr: 0x55, Size: 1, Name: "MCUCR",
			Bitfields: []RawBitfield{
				{Mask: 0x10, Name: "PUD", Caption: "Pull-up Disable"},
				{Mask: 0x10, Name: "PUD", Caption: "Pull-up Disable"},
			},
		},
	})
	if err != nil {
		t.Fatalf("BuildRegisters: %v", err)
	}

	if got := len(set.At(0x55).Bits); got != 1 {
		t.Errorf("got %d bits, want 1", got)
	}
}

func TestBuilder_MalformedSize(t *testing.T) {
	for _, size := range []int{0, 3, -1, 4} {
		b := NewBuilder()
		err := b.Add(RawRegister{Addr: 0x78, Size: size, Name: "ADC"})
		if err == nil {
			t.Fatalf("size %d: Add should fail", size)
		}

		target := &errors.Error{Phase: errors.PhaseMerge, Kind: errors.KindMalformedRegister}
		if !stderrors.Is(err, target) {
			t.Errorf("size %d: error %v is not a malformed register error", size, err)
		}

		// the builder is poisoned: later adds and the final build fail too
		if err2 := b.Add(RawRegister{Addr: 0x79, Size: 1, Name: "ADCH"}); err2 == nil {
			t.Errorf("size %d: Add after fatal error should fail", size)
		}
		if _, err3 := b.Build(); err3 == nil {
			t.Errorf("size %d: Build after fatal error should fail", size)
		}
	}
}

func TestBuilder_DefaultMask(t *testing.T) {
	set, err := BuildRegisters([]RawRegister{
		{Addr: 0x23, Size: 1, Name: "PINB"},
		{Addr: 0x84, Size: 2, Name: "TCNT1"},
		{Addr: 0x7C, Size: 1, Mask: maskOf(0x5F), Name: "ADMUX"},
	})
	if err != nil {
		t.Fatalf("BuildRegisters: %v", err)
	}

	tests := []struct {
		addr uint32
		want uint64
	}{
		{0x23, 0xFF},
		{0x84, 0xFFFF},
		{0x7C, 0x5F},
	}
	for _, tt := range tests {
		if got := set.At(tt.addr).Mask; got != tt.want {
			t.Errorf("mask at %#x = %#x, want %#x", tt.addr, got, tt.want)
		}
	}
}

func TestBuilder_DefaultCaption(t *testing.T) {
	set, err := BuildRegisters([]RawRegister{
		{Addr: 0x26, Size: 1, Name: "PINC"},
	})
	if err != nil {
		t.Fatalf("BuildRegisters: %v", err)
	}

	if got := set.At(0x26).Caption; got != "missing caption" {
		t.Errorf("Caption = %q, want default", got)
	}
}

func TestBuildRegisters_SortedByAddress(t *testing.T) {
	set, err := BuildRegisters([]RawRegister{
		{Addr: 0x6E, Size: 1, Name: "TIMSK0"},
		{Addr: 0x23, Size: 1, Name: "PINB"},
		{Addr: 0x44, Size: 1, Name: "TCCR0A"},
	})
	if err != nil {
		t.Fatalf("BuildRegisters: %v", err)
	}

	var got []uint32
	for _, reg := range set.Sorted() {
		got = append(got, reg.Addr)
	}
	want := []uint32{0x23, 0x44, 0x6E}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sorted addresses = %#v, want %#v", got, want)
	}
}

func TestBuilder_BitsSortedAfterEachAdd(t *testing.T) {
	set, err := BuildRegisters([]RawRegister{
		{
			Addr: 0x35, Size: 1, Name: "TIFR0",
			Bitfields: []RawBitfield{{Mask: 0x04, Name: "OCF0B", Caption: "Output Compare Flag B"}},
		},
		{
			Addr: 0x35, Size: 1, Name: "TIFR0",
			Bitfields: []RawBitfield{{Mask: 0x01, Name: "TOV0", Caption: "Timer Overflow"}},
		},
	})
	if err != nil {
		t.Fatalf("BuildRegisters: %v", err)
	}

	bits := set.At(0x35).Bits
	for i := 1; i < len(bits); i++ {
		if bits[i-1].Pos >= bits[i].Pos {
			t.Fatalf("bits not sorted ascending: %+v", bits)
		}
	}
	if bits[0].Name != "TOV0" || bits[1].Name != "OCF0B" {
		t.Errorf("order = [%s %s], want [TOV0 OCF0B]", bits[0].Name, bits[1].Name)
	}
}
