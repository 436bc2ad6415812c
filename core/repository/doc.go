// Package repository defines the content repository contract consumed by the
// transfer feature: typed entities, create/update structs, per-entity service
// interfaces and transaction control.
//
// Two implementations ship with the module:
//   - a MySQL backend built on GORM (persistent, used by the server and CLI)
//   - an in-memory backend with snapshot transactions (tests and dry runs)
//
// All lookups signal a miss with the ErrNotFound sentinel so callers can
// branch with errors.Is regardless of backend.
package repository
