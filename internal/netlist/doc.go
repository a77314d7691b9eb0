// Package netlist models a hierarchical hardware design as loaded from a
// Yosys-style JSON netlist.
//
// ARCHITECTURE:
//
// The package has three layers:
//
//  1. Model: Design, Module, Cell, Wire and SigSpec. Connections and
//     parameter defaults are held in the same literal forms the RTLIL text
//     dump uses ("42", `8'00101100`, `"ocla"`), so downstream decoding is
//     format-driven rather than type-driven.
//  2. Loader: schema precheck of the raw JSON against an embedded CUE
//     schema, then decoding. Bit-id lists from the JSON are re-chunked
//     into wire ranges and constant runs.
//  3. Transforms: Blackbox and Flatten. These are the only mutations the
//     package performs; analysis passes treat the design as read-only.
//
// Determinism: modules, cells and connections are kept in sorted order so
// that two loads of the same file walk the design identically. Nothing in
// this package iterates a Go map directly into results.
//
// Names use the RTLIL escaped-id convention: public names carry a leading
// backslash, generated names start with '$'. Flattening prefixes inner
// names with the instance path ("\u1.counter").
package netlist
