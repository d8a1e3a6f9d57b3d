// Package atdf reads Atmel/Microchip device description files.
//
// An ATDF file is an XML document describing one device: its address
// spaces, memory segments, and a set of peripheral modules whose register
// groups declare the memory-mapped registers and their bitfields. This
// package decodes the document and flattens the module tree into the raw
// register descriptors the sfr package merges, plus the MAPPED_IO window
// the memory map is assembled over.
//
// Basic usage:
//
//	doc, err := atdf.DecodeFile("m328.atdf")
//	if err != nil {
//		return err
//	}
//	start, length, err := doc.Window()
//	raws, err := doc.Registers()
//
// Numeric attributes are carried as strings by the XML layer and
// converted during collection, so a document with irrelevant malformed
// corners can still be browsed.
package atdf
