package atdf

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/regmap/errors"
	"github.com/wippyai/regmap/sfr"
)

// Window returns the bounds of the MAPPED_IO memory segment, the region
// the register map is assembled over. Its absence is fatal: without the
// window there is nothing to span.
func (d *Document) Window() (start, length uint32, err error) {
	for _, dev := range d.Devices {
		for _, space := range dev.AddressSpaces {
			for _, seg := range space.Segments {
				if seg.Name != "MAPPED_IO" {
					continue
				}
				s, err := strconv.ParseUint(seg.Start, 0, 32)
				if err != nil {
					return 0, 0, errors.InvalidAttr("memory-segment", "start", seg.Start, err)
				}
				n, err := strconv.ParseUint(seg.Size, 0, 32)
				if err != nil {
					return 0, 0, errors.InvalidAttr("memory-segment", "size", seg.Size, err)
				}
				Logger().Debug("found io window",
					zap.Uint32("start", uint32(s)),
					zap.Uint32("length", uint32(n)),
				)
				return uint32(s), uint32(n), nil
			}
		}
	}
	return 0, 0, errors.NotFound(errors.PhaseIngest, "memory segment", "MAPPED_IO")
}

// Registers flattens the module tree into raw register descriptors in
// document order. The FUSE and LOCKBIT modules describe configuration
// memory rather than I/O registers and are skipped, as is any module
// without a register group. Only a module's first register group is
// read; later groups re-describe the same registers under other names.
func (d *Document) Registers() ([]sfr.RawRegister, error) {
	var raws []sfr.RawRegister

	for _, mod := range d.Modules {
		if mod.Name == "FUSE" || mod.Name == "LOCKBIT" {
			continue
		}
		if len(mod.Groups) == 0 {
			Logger().Debug("module has no register group", zap.String("module", mod.Name))
			continue
		}

		group := mod.Groups[0]
		Logger().Debug("collecting module",
			zap.String("module", mod.Name),
			zap.Int("registers", len(group.Registers)),
		)

		for _, reg := range group.Registers {
			raw, err := reg.raw()
			if err != nil {
				return nil, err
			}
			raws = append(raws, raw)
		}
	}

	return raws, nil
}

// raw converts one register declaration. The offset must parse; the size
// is passed through as-is so an unsupported width surfaces as the merge
// phase's fatal error rather than a decode failure. A missing mask means
// the full byte or word is addressable.
func (r Register) raw() (sfr.RawRegister, error) {
	addr, err := strconv.ParseUint(r.Offset, 0, 32)
	if err != nil {
		return sfr.RawRegister{}, errors.InvalidAttr("register", "offset", r.Offset, err)
	}

	size := 0
	if r.Size != "" {
		size, err = strconv.Atoi(r.Size)
		if err != nil {
			return sfr.RawRegister{}, errors.InvalidAttr("register", "size", r.Size, err)
		}
	}

	raw := sfr.RawRegister{
		Addr:    uint32(addr),
		Size:    size,
		Name:    r.Name,
		Caption: r.Caption,
	}

	if r.Mask != "" {
		mask, err := strconv.ParseUint(r.Mask, 0, 64)
		if err != nil {
			return sfr.RawRegister{}, errors.InvalidAttr("register", "mask", r.Mask, err)
		}
		raw.Mask = &mask
	}

	for _, bf := range r.Bitfields {
		rb, err := bf.raw()
		if err != nil {
			return sfr.RawRegister{}, err
		}
		raw.Bitfields = append(raw.Bitfields, rb)
	}

	return raw, nil
}

// raw converts one bitfield declaration. A missing mask decomposes to
// nothing, which drops the bitfield without failing the file.
func (b Bitfield) raw() (sfr.RawBitfield, error) {
	rb := sfr.RawBitfield{
		Name:    b.Name,
		Caption: b.Caption,
	}

	if b.Mask != "" {
		mask, err := strconv.ParseUint(b.Mask, 0, 64)
		if err != nil {
			return sfr.RawBitfield{}, errors.InvalidAttr("bitfield", "mask", b.Mask, err)
		}
		rb.Mask = mask
	}

	if b.LSB != "" {
		lsb, err := strconv.ParseUint(b.LSB, 10, 32)
		if err != nil {
			return sfr.RawBitfield{}, errors.InvalidAttr("bitfield", "lsb", b.LSB, err)
		}
		rb.LSB = uint(lsb)
	}

	return rb, nil
}
