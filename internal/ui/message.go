package ui

import (
	"github.com/desertthunder/tvx/internal/store"
)

// stateMsg carries a fresh store snapshot into the Elm loop. Every published
// mutation arrives as one of these, toast expiry included.
type stateMsg store.Snapshot

// loginDoneMsg reports whether a credential submission succeeded.
type loginDoneMsg struct {
	ok bool
}

// playlistsLoadedMsg signals that the initial collection load finished. The
// data itself arrives via stateMsg; this only unblocks the spinner copy.
type playlistsLoadedMsg struct{}

// playlistOpenedMsg signals that a detail load finished for the given id.
type playlistOpenedMsg struct {
	id string
}

// opDoneMsg signals a fire-and-forget operation (sync, delete, move) returned.
type opDoneMsg struct{}
