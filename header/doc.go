// Package header renders a device model as C source text.
//
// The emitted header defines one union typedef per register (raw value,
// single-bit struct, and byte halves for full 16-bit registers), a device
// struct that spans the whole I/O window with explicit unused bytes, the
// USE_SFRS accessor macro, and shortcut defines for every register and
// named bit. A doxygen mode decorates the same structure with
// documentation comments. EmitSymbols writes the flat, alphabetically
// sorted acronym list instead.
package header
