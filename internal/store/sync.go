package store

import (
	"sync"

	"github.com/desertthunder/tvx/internal/models"
)

// SyncStatusTracker tracks in-flight playlist synchronization per playlist id.
//
// The machine is Idle → Syncing → {Success, Error}; terminal states persist
// as the last observed outcome until the next Syncing transition. Entries
// exist only for playlists that have been synced at least once; absence
// means Idle, so transient sync state never requires a playlist reload.
type SyncStatusTracker struct {
	mu       sync.Mutex
	statuses map[string]models.SyncStatus
	publish  func()
}

// NewSyncStatusTracker creates a tracker that calls publish after every transition.
func NewSyncStatusTracker(publish func()) *SyncStatusTracker {
	if publish == nil {
		publish = func() {}
	}
	return &SyncStatusTracker{
		statuses: make(map[string]models.SyncStatus),
		publish:  publish,
	}
}

// Status returns the current status for a playlist id.
func (t *SyncStatusTracker) Status(id string) models.SyncStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.statuses[id]
}

// Begin transitions a playlist to Syncing. Returns false without transitioning
// when a sync for the same id is already in flight; the caller ignores the
// duplicate request rather than erroring.
func (t *SyncStatusTracker) Begin(id string) bool {
	t.mu.Lock()
	if t.statuses[id] == models.SyncSyncing {
		t.mu.Unlock()
		return false
	}
	t.statuses[id] = models.SyncSyncing
	t.mu.Unlock()

	t.publish()
	return true
}

// Succeed marks the in-flight sync as completed.
func (t *SyncStatusTracker) Succeed(id string) {
	t.set(id, models.SyncSuccess)
}

// Fail marks the in-flight sync as failed. The Error state sticks so views
// can surface it; it never reverts to Idle on its own.
func (t *SyncStatusTracker) Fail(id string) {
	t.set(id, models.SyncError)
}

func (t *SyncStatusTracker) set(id string, status models.SyncStatus) {
	t.mu.Lock()
	t.statuses[id] = status
	t.mu.Unlock()

	t.publish()
}

// snapshot copies the status map for inclusion in a store snapshot. Idle
// entries are omitted; readers treat absence as Idle.
func (t *SyncStatusTracker) snapshot() map[string]models.SyncStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]models.SyncStatus, len(t.statuses))
	for id, status := range t.statuses {
		if status != models.SyncIdle {
			out[id] = status
		}
	}
	return out
}
