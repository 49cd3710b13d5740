package store

import (
	"sync"
	"time"

	"github.com/desertthunder/tvx/internal/models"
)

// DefaultToastDuration is how long a toast stays up before auto-dismissal.
const DefaultToastDuration = 5 * time.Second

// Modal describes the single modal dialog a view may render. The store only
// tracks the descriptor; rendering is the view's concern.
type Modal struct {
	Kind     string // e.g. "confirm-delete", "playlist-form", "channel-form"
	Title    string
	TargetID string // entity the modal acts on, when applicable
}

// OverlayManager owns transient, mutually independent UI state: at most one
// toast, at most one modal, and the sidebar flag. It holds no domain data.
type OverlayManager struct {
	mu       sync.Mutex
	publish  func()
	duration time.Duration

	toast       *models.Toast
	toastGen    uint64
	toastTimer  *time.Timer
	modal       *Modal
	sidebarOpen bool
}

// NewOverlayManager creates an overlay slice. duration <= 0 selects
// [DefaultToastDuration]; tests inject something shorter.
func NewOverlayManager(publish func(), duration time.Duration) *OverlayManager {
	if publish == nil {
		publish = func() {}
	}
	if duration <= 0 {
		duration = DefaultToastDuration
	}
	return &OverlayManager{publish: publish, duration: duration, sidebarOpen: true}
}

// ShowToast replaces any current toast and re-arms the auto-dismiss timer.
// The generation counter keeps a stale timer from dismissing a newer toast.
func (o *OverlayManager) ShowToast(message string, kind models.ToastKind) {
	o.mu.Lock()
	if o.toastTimer != nil {
		o.toastTimer.Stop()
	}
	o.toastGen++
	gen := o.toastGen
	o.toast = &models.Toast{Message: message, Kind: kind}
	o.toastTimer = time.AfterFunc(o.duration, func() { o.expireToast(gen) })
	o.mu.Unlock()

	o.publish()
}

func (o *OverlayManager) expireToast(gen uint64) {
	o.mu.Lock()
	if o.toastGen != gen {
		o.mu.Unlock()
		return
	}
	o.toast = nil
	o.toastTimer = nil
	o.mu.Unlock()

	o.publish()
}

// DismissToast clears the toast ahead of the timer.
func (o *OverlayManager) DismissToast() {
	o.mu.Lock()
	if o.toastTimer != nil {
		o.toastTimer.Stop()
		o.toastTimer = nil
	}
	o.toastGen++
	o.toast = nil
	o.mu.Unlock()

	o.publish()
}

// ShowModal replaces any open modal with the given descriptor; nil closes.
// Modals never stack.
func (o *OverlayManager) ShowModal(modal *Modal) {
	o.mu.Lock()
	o.modal = modal
	o.mu.Unlock()

	o.publish()
}

// CloseModal closes the modal if one is open.
func (o *OverlayManager) CloseModal() {
	o.ShowModal(nil)
}

// ToggleSidebar flips the sidebar flag.
func (o *OverlayManager) ToggleSidebar() {
	o.mu.Lock()
	o.sidebarOpen = !o.sidebarOpen
	o.mu.Unlock()

	o.publish()
}

// OverlayState is the overlay slice's piece of a [Snapshot].
type OverlayState struct {
	Toast       *models.Toast
	Modal       *Modal
	SidebarOpen bool
}

func (o *OverlayManager) snapshot() OverlayState {
	o.mu.Lock()
	defer o.mu.Unlock()

	state := OverlayState{SidebarOpen: o.sidebarOpen}
	if o.toast != nil {
		t := *o.toast
		state.Toast = &t
	}
	if o.modal != nil {
		m := *o.modal
		state.Modal = &m
	}
	return state
}
