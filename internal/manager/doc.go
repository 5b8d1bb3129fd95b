// Package manager composes the model cache, backend registry, clip resolver
// and animation controller into the single context object the entity
// renderer talks to. It is structured into small files by concern:
//
//   - manager.go: core Manager type, constructor, simple getters.
//   - config.go: ManagerConfig and package defaults.
//   - types.go: cache Key.
//   - errors.go: error types and helpers (IsModelNotFound, IsClipNotFound).
//   - acquire.go: Acquire/Render, cache miss → backend construction.
//   - evict.go: disposal, Tick, Switch, Invalidate, Close.
//   - ops.go: animation entry points (Update, PlayCustom, StopCustom).
//   - status_report.go: Status reporting for the debug HTTP surface.
//   - sanity.go: startup checks (engine version, asset layout).
//   - events.go / eventpub_memory.go: lifecycle event publishing.
//
// Construction order is fixed: resolver, backend registry, cache, then
// controller. Nothing here propagates a panic into the render loop; every
// failure degrades to "skip custom rendering for this entity".
package manager
