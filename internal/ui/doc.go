// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is a thin view over [store.Store]:
//  1. [LoginView] : Prompt for credentials when no valid session exists
//  2. [PlaylistListView] : Browse playlists with inline sync badges
//  3. [ChannelListView] : Browse, filter and reorder a playlist's channels
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Store snapshots flow through a channel bridged into tea messages, so every
// state mutation (including toast expiry) triggers a re-render without the
// view polling.
//
// Keyboard navigation uses vim-style bindings (j/k, J/K to move a channel,
// enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
