// Package objects defines the transfer objects accepted by the adapter:
// typed, transport-agnostic descriptions of the desired end state of
// content, content types, languages, locations, users and user groups,
// plus the tree wrapper for hierarchical payloads.
//
// Each variant carries the data destined for the repository as plain struct
// fields, and a small set of bookkeeping attributes (the reconcile action,
// repository-assigned ids, an optional struct callback) that never travel to
// the repository themselves. Content keeps one generic Fields map because
// CMS fields are schema-driven and unknown at compile time; everything else
// is fixed.
//
// Every variant owns a mapper translating between the object and the
// repository's native create/update structs. Mappers are bound 1:1 to their
// object and never perform repository calls.
package objects
