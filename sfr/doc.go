// Package sfr builds canonical register models from raw vendor descriptors.
//
// Vendor device files describe registers piecemeal: the same address may
// appear several times across modules, each sighting contributing a subset
// of the register's bits. This package reconciles those sightings into one
// canonical record per address, decomposes arbitrary (including
// non-contiguous) bit masks into individually named single-bit fields, and
// assembles a gapless memory map over a declared address window.
//
// Basic usage:
//
//	set, err := sfr.BuildRegisters(raws)
//	if err != nil {
//		return err
//	}
//	mm := sfr.Assemble(set, 0x20, 0xE0)
//
// The entry points mirror the pipeline stages:
//   - DecomposeBits expands one raw bitfield into single-bit fields
//   - Builder / BuildRegisters folds raw registers into canonical ones,
//     first writer wins on conflicts
//   - Assemble walks the window and produces the ordered sequence of
//     register and unused-byte slots
//   - LayoutOf classifies a register's bit-level shape for emission
//
// Fatal data errors (unsupported register width) abort the build. Non-fatal
// observations (duplicate bit declarations, registers that overflow or fall
// outside the window) are collected as Diagnostics alongside the result.
package sfr
