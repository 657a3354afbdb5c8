// Package store provides SQLite-backed history of generation runs.
//
// Each run records which node was generated, the schema it was generated
// from and the fragments produced:
//   - generation_runs: one row per distinct (schema, output) pair
//   - fragments: fragment text, content-addressed by ir.FragmentHash
//   - run_fragments: which fragments a run produced, in output order
//
// # Ordering
//
// Runs carry a seq INTEGER assigned at insert time. Queries order by
// seq ASC, id ASC COLLATE BINARY, never by wall time. Run listings are
// built as queryir selects and compiled by querysql.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
