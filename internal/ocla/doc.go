// Package ocla discovers embedded OCLA debug instrumentation in a
// netlist, validates how it is wired and resolves the probe signals
// attached to it.
//
// ARCHITECTURE:
//
// The analyzer is a strictly single-threaded sequence of whole-design
// passes:
//
//  1. Classify: scan all modules, match the configured OCLA and debug
//     subsystem names, decode their parameters through the schema.
//  2. Hierarchy: prove the subsystem has exactly one live instantiation
//     chain up to the top module.
//  3. Mapping: decode the packed per-interface probe fields into a
//     probe-to-core assignment.
//  4. Cross-validate: enforce the global consistency checks across all
//     cores and the subsystem.
//  5. Blackbox + Flatten: performed by the netlist package on request;
//     classification and hierarchy queries are invalid afterward.
//  6. Resolve: match the flattened instantiator's probe connections to
//     each core and record the real wire fragments.
//  7. Finalize: per core, require the resolved fragment stream to cover
//     the declared probe widths exactly.
//
// Error discipline: schema errors discard one candidate, structural
// errors zero the run's success count, resolution errors discard one
// core. Nothing panics across stage boundaries and the diagnostic
// message log is always emitted in full, even on total failure. The
// only unrecoverable condition is a design without a top module.
package ocla
