// Package regmap converts vendor register descriptor files into a canonical
// register model, a gapless memory map and generated C header output.
//
// Atmel/Microchip .atdf files describe a microcontroller's memory-mapped
// register set redundantly and out of order: the same address may be
// declared several times across peripheral modules, and multi-bit masks
// hide the individual bits firmware actually addresses. This library
// reconciles those descriptions into one register per address, splits
// every mask into single named bits, and fills the declared I/O window
// byte by byte so the result can be laid over the hardware directly.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	regmap/              Root package with the end-to-end facade
//	├── atdf/            ATDF document decoding and descriptor collection
//	├── sfr/             Bit decomposition, register merging, map assembly
//	├── header/          C header and symbol list emission
//	├── errors/          Structured error types for debugging
//	└── cmd/regmap/      Command line converter and interactive map browser
//
// # Quick Start
//
// Convert a device file to a header:
//
//	in, err := os.Open("ATmega48.atdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer in.Close()
//
//	out, err := os.Create("ATmega48.h")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer out.Close()
//
//	if err := regmap.Generate(out, in, "ATmega48", header.Options{}); err != nil {
//	    log.Fatal(err)
//	}
//
// Or build the model and inspect it before emitting:
//
//	dev, err := regmap.Build(in)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, reg := range dev.Regs.Sorted() {
//	    fmt.Printf("%#04x %s\n", reg.Addr, reg.Name)
//	}
//
// # Diagnostics
//
// A build distinguishes fatal data errors from diagnostics. An unsupported
// register width aborts the build, since a corrupt layout must never be
// emitted. Everything else survives as a best-effort result plus recorded
// observations: duplicate bit declarations, registers spanning past the
// window end, registers the map walk cannot reach. Callers read them from
// Device.Diagnostics and decide whether to proceed.
//
// # Thread Safety
//
// A build is a single-threaded batch computation and the resulting Device
// is immutable. Distinct inputs share no state and may be processed
// concurrently, one build per goroutine.
package regmap
