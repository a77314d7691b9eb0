// Package store provides SQLite-backed storage for analysis run history.
//
// Each completed analysis is persisted as one immutable run record:
// the netlist that was analyzed, the outcome and the full canonical
// output document. Records are append-only; re-running an analysis
// inserts a new run instead of mutating an old one, so the history can
// be diffed to find the exact run where an instrumentation setup broke.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Run IDs are UUIDv7, so lexicographic order on id matches creation
// order and listings need no separate sequence column.
package store
