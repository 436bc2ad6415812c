// Package managers implements the per-entity reconciliation state machine:
// Find, Create, Update, Remove and CreateOrUpdate for content, content
// types, languages, locations, users and user groups.
//
// Every manager follows the same upsert pattern: CreateOrUpdate tries Find
// and branches on repository.ErrNotFound into Create, otherwise Update.
// The find-then-act sequence holds no locks; callers serialize access by
// running batches sequentially inside one transaction.
//
// Managers carry entity-specific business rules beyond the bare protocol:
// the content draft/publish collapse, content type language ensuring and
// group assignment diffing, the language name table and re-enable rule,
// user group parent moves, and user membership synchronization.
package managers
