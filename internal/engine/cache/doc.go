// Package cache memoizes engine results keyed on the answer set.
//
// The engine is a pure function of its read-only definitions and the answer
// set, so a result computed once for an answer set can be returned again
// without changing observable behavior. Key features:
//   - In-memory only; nothing is written to disk and nothing outlives the process
//   - SHA256 keys over the canonical (sorted) answer set for deterministic lookups
//   - Bounded size with oldest-first eviction
//
// Interactive sessions recompute on every answer change and toggle back and
// forth between a handful of answer sets, which is where the memo pays off.
package cache
