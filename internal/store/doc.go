// Package store implements the client-side application state for tvx.
//
// The core abstraction is [Store], which composes cooperating state slices
// into one observable tree and is the sole mutation surface consumed by views:
//
//   - [AuthSession] : session identity derived from the bearer token
//   - [PlaylistStore] : the playlist collection and the focused playlist,
//     delegating order computation to [PlanReorder] and per-playlist sync
//     state to [SyncStatusTracker]
//   - [OverlayManager] : transient UI state (toast, modal, sidebar)
//
// Views dispatch intents to the store; slices call the
// [services.PlaylistService] collaborator, then replace their piece of state
// and publish a fresh immutable [Snapshot]. Subscribers are notified
// synchronously after each mutation commits, independent of any rendering
// technology.
//
// Failure policy: every failing operation normalizes into one human-readable
// message on its slice (server detail preferred, generic fallback otherwise)
// and releases whatever loading state it set. Responses superseded by a newer
// request for the same playlist are discarded silently. A 401 anywhere clears
// the session and hands control to the auth guard instead of surfacing as a
// playlist error.
package store
