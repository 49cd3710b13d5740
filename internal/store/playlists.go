package store

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/services"
	"github.com/desertthunder/tvx/internal/shared"
)

// PlaylistCache is the store's port to the offline snapshot cache. Saves
// happen after every successful full load; loads back a last known-good
// collection when the backend is unreachable on a cold start.
type PlaylistCache interface {
	Save(items []models.Playlist) error
	Load() ([]models.Playlist, error)
}

// PlaylistStore owns the playlist collection and the currently focused
// playlist. All mutations flow through its operations; views only ever see
// snapshot copies.
type PlaylistStore struct {
	mu            sync.Mutex
	svc           services.PlaylistService
	cache         PlaylistCache
	logger        *log.Logger
	publish       func()
	onAuthExpired func()

	items   []models.Playlist
	current *models.Playlist
	loading int
	err     string

	tracker *SyncStatusTracker
	tags    map[string]uint64
}

// NewPlaylistStore creates the playlist slice. cache may be nil (no offline
// fallback); onAuthExpired is invoked instead of recording an error whenever
// the backend rejects our token.
func NewPlaylistStore(svc services.PlaylistService, cache PlaylistCache, logger *log.Logger, publish func(), onAuthExpired func()) *PlaylistStore {
	if publish == nil {
		publish = func() {}
	}
	if onAuthExpired == nil {
		onAuthExpired = func() {}
	}
	return &PlaylistStore{
		svc:           svc,
		cache:         cache,
		logger:        logger,
		publish:       publish,
		onAuthExpired: onAuthExpired,
		tracker:       NewSyncStatusTracker(publish),
		tags:          make(map[string]uint64),
	}
}

// Tracker exposes the per-playlist sync state machine.
func (p *PlaylistStore) Tracker() *SyncStatusTracker {
	return p.tracker
}

// begin marks one operation in flight and clears the slice error. Each
// operation releases exactly the loading state it set via finish, so a slow
// concurrent operation can never strand loading=true.
func (p *PlaylistStore) begin() {
	p.mu.Lock()
	p.loading++
	p.err = ""
	p.mu.Unlock()

	p.publish()
}

func (p *PlaylistStore) finish() {
	p.mu.Lock()
	p.loading--
	p.mu.Unlock()
}

// operationFailed normalizes a failed operation: an expired session hands
// control to the auth guard; anything else lands as one human-readable
// message on the slice, preferring the server-supplied detail.
func (p *PlaylistStore) operationFailed(fallback string, err error) error {
	if errors.Is(err, shared.ErrTokenExpired) || errors.Is(err, shared.ErrNotAuthenticated) {
		p.logger.Warn("session rejected by backend, forcing logout")
		p.onAuthExpired()
		return err
	}

	msg := services.Detail(err)
	if msg == "" {
		msg = fallback
	}

	p.mu.Lock()
	p.err = msg
	p.mu.Unlock()

	p.logger.Debugf("%s: %v", fallback, err)
	p.publish()
	return err
}

// LoadAll fetches the full collection, replacing items wholesale on success.
// On failure items keep the last known-good snapshot; a cold start with an
// empty store falls back to the offline cache before reporting the error.
func (p *PlaylistStore) LoadAll(ctx context.Context) error {
	p.begin()
	defer p.finish()

	items, err := p.svc.ListPlaylists(ctx)
	if err != nil {
		p.restoreFromCache()
		return p.operationFailed("Failed to load playlists", err)
	}

	p.mu.Lock()
	p.items = items
	p.mu.Unlock()

	p.saveToCache(items)
	p.publish()
	return nil
}

// LoadOne fetches a single playlist into currentPlaylist without touching
// items. Responses are tagged at issue time; a response that is no longer the
// latest issued for its id is discarded silently rather than applied out of
// order.
func (p *PlaylistStore) LoadOne(ctx context.Context, id string) error {
	p.mu.Lock()
	p.tags[id]++
	tag := p.tags[id]
	p.mu.Unlock()

	p.begin()
	defer p.finish()

	playlist, err := p.svc.GetPlaylist(ctx, id)

	p.mu.Lock()
	stale := p.tags[id] != tag
	p.mu.Unlock()
	if stale {
		p.logger.Debugf("discarding superseded response for playlist %s", id)
		return nil
	}

	if err != nil {
		return p.operationFailed("Failed to load playlist", err)
	}

	p.mu.Lock()
	p.current = playlist
	p.mu.Unlock()

	p.publish()
	return nil
}

// Create validates the one client-side precondition (non-empty name), then
// creates the playlist and appends the server's version to items. On failure
// items are left unchanged and the caller receives no playlist.
func (p *PlaylistStore) Create(ctx context.Context, draft models.PlaylistDraft) (*models.Playlist, error) {
	if err := draft.Validate(); err != nil {
		p.mu.Lock()
		p.err = err.Error()
		p.mu.Unlock()

		p.publish()
		return nil, err
	}

	p.begin()
	defer p.finish()

	playlist, err := p.svc.CreatePlaylist(ctx, draft)
	if err != nil {
		return nil, p.operationFailed("Failed to create playlist", err)
	}

	p.mu.Lock()
	p.items = append(p.items, *playlist)
	p.mu.Unlock()

	p.publish()
	return playlist, nil
}

// Update applies a partial update, replacing the matching entry in items and,
// when it is also the focused playlist, that reference too, so both views
// stay consistent without a second fetch.
func (p *PlaylistStore) Update(ctx context.Context, id string, patch models.PlaylistPatch) (*models.Playlist, error) {
	p.begin()
	defer p.finish()

	updated, err := p.svc.UpdatePlaylist(ctx, id, patch)
	if err != nil {
		return nil, p.operationFailed("Failed to update playlist", err)
	}

	p.replaceEntry(updated)
	return updated, nil
}

// replaceEntry swaps the updated playlist into items and current.
func (p *PlaylistStore) replaceEntry(updated *models.Playlist) {
	p.mu.Lock()
	for i := range p.items {
		if p.items[i].ID == updated.ID {
			p.items[i] = *updated
			break
		}
	}
	if p.current != nil && p.current.ID == updated.ID {
		p.current = updated
	}
	p.mu.Unlock()

	p.publish()
}

// Delete removes the playlist from items only after server confirmation;
// never optimistically, so a failed delete cannot ghost back on reload.
func (p *PlaylistStore) Delete(ctx context.Context, id string) error {
	p.begin()
	defer p.finish()

	if err := p.svc.DeletePlaylist(ctx, id); err != nil {
		return p.operationFailed("Failed to delete playlist", err)
	}

	p.mu.Lock()
	kept := p.items[:0]
	for _, item := range p.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	p.items = kept
	if p.current != nil && p.current.ID == id {
		p.current = nil
	}
	p.mu.Unlock()

	p.publish()
	return nil
}

// Sync drives the status tracker through a server-side synchronization, then
// reloads the playlist so channels and last_sync_at reflect the server. A
// duplicate request while one is in flight for the same id is ignored. A
// failed sync parks the tracker in Error; it does not revert to Idle.
func (p *PlaylistStore) Sync(ctx context.Context, id string) error {
	if !p.tracker.Begin(id) {
		p.logger.Debugf("sync already in flight for playlist %s", id)
		return nil
	}

	if err := p.svc.SyncPlaylist(ctx, id); err != nil {
		p.tracker.Fail(id)
		return p.operationFailed("Sync failed", err)
	}

	if err := p.LoadOne(ctx, id); err != nil {
		p.logger.Warnf("post-sync reload failed for playlist %s: %v", id, err)
	}

	p.tracker.Succeed(id)
	return nil
}

// ReorderChannels submits the position assignments for a completed drag over
// the displayed sequence, then reloads the playlist: the server-confirmed
// order is authoritative, the optimistic local order is never trusted after
// submission. A no-op drop produces no network call.
func (p *PlaylistStore) ReorderChannels(ctx context.Context, playlistID string, displayed []models.Channel, drop models.DropResult) error {
	positions, ok := PlanReorder(displayed, drop)
	if !ok {
		return nil
	}

	p.begin()
	defer p.finish()

	if err := p.svc.ReorderChannels(ctx, playlistID, positions); err != nil {
		return p.operationFailed("Failed to reorder channels", err)
	}

	return p.LoadOne(ctx, playlistID)
}

// AddChannel appends a channel to a playlist and reloads it to pick up the
// server-assigned id and position.
func (p *PlaylistStore) AddChannel(ctx context.Context, playlistID string, draft models.ChannelDraft) error {
	p.begin()
	defer p.finish()

	if _, err := p.svc.AddChannel(ctx, playlistID, draft); err != nil {
		return p.operationFailed("Failed to add channel", err)
	}

	return p.LoadOne(ctx, playlistID)
}

// UpdateChannel applies a partial channel update and reloads its playlist.
func (p *PlaylistStore) UpdateChannel(ctx context.Context, playlistID, channelID string, patch models.ChannelPatch) error {
	p.begin()
	defer p.finish()

	if _, err := p.svc.UpdateChannel(ctx, channelID, patch); err != nil {
		return p.operationFailed("Failed to update channel", err)
	}

	return p.LoadOne(ctx, playlistID)
}

// DeleteChannel removes a channel after server confirmation and reloads its
// playlist so remaining positions reflect the server's renumbering.
func (p *PlaylistStore) DeleteChannel(ctx context.Context, playlistID, channelID string) error {
	p.begin()
	defer p.finish()

	if err := p.svc.DeleteChannel(ctx, channelID); err != nil {
		return p.operationFailed("Failed to delete channel", err)
	}

	return p.LoadOne(ctx, playlistID)
}

// GenerateToken enables sharing for a playlist. The token is issued by the
// server exactly once; the client only stores what it is handed.
func (p *PlaylistStore) GenerateToken(ctx context.Context, id string) (*models.Playlist, error) {
	p.begin()
	defer p.finish()

	playlist, err := p.svc.GeneratePublicToken(ctx, id)
	if err != nil {
		return nil, p.operationFailed("Failed to generate share token", err)
	}

	p.replaceEntry(playlist)
	return playlist, nil
}

// ClearCurrent drops the focused playlist, e.g. when navigating back to the
// collection view.
func (p *PlaylistStore) ClearCurrent() {
	p.mu.Lock()
	p.current = nil
	p.mu.Unlock()

	p.publish()
}

// ClearError dismisses the slice error.
func (p *PlaylistStore) ClearError() {
	p.mu.Lock()
	p.err = ""
	p.mu.Unlock()

	p.publish()
}

func (p *PlaylistStore) saveToCache(items []models.Playlist) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Save(items); err != nil {
		p.logger.Warnf("failed to cache playlists: %v", err)
	}
}

// restoreFromCache backfills items from the offline cache, but only on a cold
// start: an in-memory snapshot is always fresher than the cache.
func (p *PlaylistStore) restoreFromCache() {
	if p.cache == nil {
		return
	}

	p.mu.Lock()
	empty := len(p.items) == 0
	p.mu.Unlock()
	if !empty {
		return
	}

	cached, err := p.cache.Load()
	if err != nil || len(cached) == 0 {
		return
	}

	p.logger.Infof("backend unreachable, showing %d cached playlists", len(cached))
	p.mu.Lock()
	p.items = cached
	p.mu.Unlock()
}

// PlaylistState is the playlist slice's piece of a [Snapshot]. Items and the
// focused playlist are deep copies; mutating them cannot reach store state.
type PlaylistState struct {
	Items      []models.Playlist
	Current    *models.Playlist
	Loading    bool
	Err        string
	SyncStatus map[string]models.SyncStatus
}

func (p *PlaylistStore) snapshot() PlaylistState {
	p.mu.Lock()
	state := PlaylistState{
		Items:   make([]models.Playlist, len(p.items)),
		Loading: p.loading > 0,
		Err:     p.err,
	}
	for i, item := range p.items {
		state.Items[i] = item.Clone()
	}
	if p.current != nil {
		cloned := p.current.Clone()
		state.Current = &cloned
	}
	p.mu.Unlock()

	state.SyncStatus = p.tracker.snapshot()
	return state
}
