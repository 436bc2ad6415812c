// Package transfer is the reconciliation core: it accepts batches of
// transfer objects and brings the content repository to the state they
// describe inside a single all-or-nothing transaction.
//
// The adapter is the entry point. It dispatches flat objects to the per-type
// managers through the object service and hands tree-shaped payloads to the
// tree service, which reconciles content and placement in lock-step. The
// loader turns JSON or YAML batch definitions into objects; the handler
// exposes the adapter over HTTP.
package transfer
