// Package models defines the domain entities shared by the tvx client layers.
//
// Two categories of types live here:
//
// 1. Wire entities mirroring the playlist API's JSON payloads:
//   - [Playlist] : an M3U source or manually curated channel collection
//   - [Channel] : a single stream entry, ordered by Position within its playlist
//   - [Principal] : the authenticated user's identity derived from a bearer token
//
// 2. Client-side value objects that never cross the wire on their own:
//   - [SyncStatus] : per-playlist synchronization state
//   - [DropResult] : a drag/move gesture reduced to source and destination indices
//   - [ChannelPosition] : one entry of a batch reorder submission
//   - [Toast] : a transient notification for the overlay slice
//
// Playlists are owned exclusively by the playlist store; views receive copies
// through snapshots and never mutate entities in place. Channel positions
// within one playlist form a contiguous 1..N permutation after any
// successful reorder.
package models
