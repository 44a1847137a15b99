// Package store provides durable storage for named temporal values.
//
// Two backends implement Store:
//   - SQLite: one row per value in the temporals table, with the bounding
//     period in indexed columns so Overlapping can filter in SQL
//   - Badger: a metadata key and a data key per value
//
// Both keep the binary encoding of the value as the source of truth; the
// literal and period columns are derived from it on every Put.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Results are always ordered by name, byte-wise, on both backends.
package store
