// Package repositories persists the offline playlist cache.
//
// The cache is a local SQLite snapshot of the remote collection, refreshed
// after every successful full load and read back when the backend is
// unreachable on a cold start. It is never the source of truth: rows carry a
// remote_id pointing at the server entity, soft deletes via deleted_at, and a
// human-readable sequence for debugging.
//
// [SnapshotAdapter] is the store-facing port; [PlaylistRepository] and
// [ChannelRepository] handle row-level access.
package repositories
