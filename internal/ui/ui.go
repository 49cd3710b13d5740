package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/store"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoginView ViewState = iota
	PlaylistListView
	ChannelListView
)

// Model represents the TUI application state. All domain state lives in the
// store; the model only keeps view concerns (lists, inputs, focus) plus the
// latest snapshot it rendered.
type Model struct {
	ctx    context.Context
	store  *store.Store
	states chan store.Snapshot
	snap   store.Snapshot

	view   ViewState
	width  int
	height int

	playlistList list.Model
	channelList  list.Model
	currentID    string

	username   textinput.Model
	password   textinput.Model
	focusIndex int

	help help.Model
	keys keyMap
}

// NewModel creates a TUI model bound to the store. Snapshots are bridged into
// the Elm loop through a buffered channel; a full buffer drops the update
// because the next publish carries complete state anyway.
func NewModel(ctx context.Context, st *store.Store) *Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	playlists := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	playlists.Title = "Playlists"
	playlists.SetShowHelp(false)

	channels := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	channels.Title = "Channels"
	channels.SetShowHelp(false)

	m := &Model{
		ctx:          ctx,
		store:        st,
		states:       make(chan store.Snapshot, 64),
		view:         LoginView,
		playlistList: playlists,
		channelList:  channels,
		username:     username,
		password:     password,
		help:         help.New(),
		keys:         newKeyMap(),
	}

	st.Subscribe(func(snap store.Snapshot) {
		select {
		case m.states <- snap:
		default:
		}
	})

	if st.RouteFor(store.ViewPlaylists) == store.ViewPlaylists {
		m.view = PlaylistListView
	}
	return m
}

// Init starts the snapshot pump and, with a restored session, the initial load.
func (m *Model) Init() tea.Cmd {
	if m.view == PlaylistListView {
		return tea.Batch(m.waitForState(), m.loadPlaylists())
	}
	return tea.Batch(m.waitForState(), textinput.Blink)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		m.channelList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case stateMsg:
		m.snap = store.Snapshot(msg)
		m.syncItems()
		return m, m.waitForState()

	case loginDoneMsg:
		if msg.ok {
			m.view = PlaylistListView
			m.password.SetValue("")
			return m, m.loadPlaylists()
		}
		return m, nil

	case playlistsLoadedMsg:
		return m, nil

	case playlistOpenedMsg:
		m.currentID = msg.id
		m.view = ChannelListView
		return m, nil

	case opDoneMsg:
		return m, nil

	case tea.KeyMsg:
		// Session loss anywhere routes back to the login prompt.
		if m.view != LoginView && !m.snap.Auth.Authenticated {
			m.view = LoginView
			m.focusIndex = 0
			return m, m.username.Focus()
		}

		switch m.view {
		case LoginView:
			return m.handleLoginKeys(msg)
		case PlaylistListView:
			return m.handlePlaylistKeys(msg)
		case ChannelListView:
			return m.handleChannelKeys(msg)
		}
	}

	return m.updateInner(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case LoginView:
		body = m.renderLogin()
	case PlaylistListView:
		body = m.renderPlaylists()
	case ChannelListView:
		body = m.renderChannels()
	}

	if modal := m.snap.UI.Modal; modal != nil {
		body = fmt.Sprintf("%s\n\n%s", body, m.renderModal(modal))
	}
	if toast := m.snap.UI.Toast; toast != nil {
		body = fmt.Sprintf("%s\n\n%s", body, renderToast(toast))
	}
	return body
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "tab", "shift+tab", "up", "down":
		m.focusIndex = (m.focusIndex + 1) % 2
		if m.focusIndex == 0 {
			m.password.Blur()
			return m, m.username.Focus()
		}
		m.username.Blur()
		return m, m.password.Focus()

	case "enter":
		if m.focusIndex == 0 {
			m.focusIndex = 1
			m.username.Blur()
			return m, m.password.Focus()
		}
		return m, m.submitLogin()
	}

	var cmd tea.Cmd
	if m.focusIndex == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m *Model) handlePlaylistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.snap.UI.Modal != nil {
		return m.handleModalKeys(msg)
	}
	if m.playlistList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.playlistList, cmd = m.playlistList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.enter):
		if item, ok := m.playlistList.SelectedItem().(playlistItem); ok {
			return m, m.openPlaylist(item.playlist.ID)
		}

	case key.Matches(msg, m.keys.sync):
		if item, ok := m.playlistList.SelectedItem().(playlistItem); ok {
			return m, m.syncPlaylist(item.playlist.ID)
		}

	case key.Matches(msg, m.keys.del):
		if item, ok := m.playlistList.SelectedItem().(playlistItem); ok {
			m.store.UI.ShowModal(&store.Modal{
				Kind:     "confirm-delete",
				Title:    fmt.Sprintf("Delete '%s'?", item.playlist.Name),
				TargetID: item.playlist.ID,
			})
		}
		return m, nil

	case key.Matches(msg, m.keys.refresh):
		return m, m.loadPlaylists()

	case key.Matches(msg, m.keys.sidebar):
		m.store.UI.ToggleSidebar()
		return m, nil
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleChannelKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.channelList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.channelList, cmd = m.channelList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.back):
		m.view = PlaylistListView
		m.currentID = ""
		m.store.Playlists.ClearCurrent()
		return m, nil

	case key.Matches(msg, m.keys.moveDown):
		return m, m.moveSelected(1)

	case key.Matches(msg, m.keys.moveUp):
		return m, m.moveSelected(-1)

	case key.Matches(msg, m.keys.sync):
		return m, m.syncPlaylist(m.currentID)

	case key.Matches(msg, m.keys.refresh):
		return m, m.openPlaylist(m.currentID)

	case key.Matches(msg, m.keys.sidebar):
		m.store.UI.ToggleSidebar()
		return m, nil
	}

	var cmd tea.Cmd
	m.channelList, cmd = m.channelList.Update(msg)
	return m, cmd
}

func (m *Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	modal := m.snap.UI.Modal
	switch {
	case key.Matches(msg, m.keys.yes):
		m.store.UI.CloseModal()
		if modal.Kind == "confirm-delete" {
			return m, m.deletePlaylist(modal.TargetID)
		}
		return m, nil
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back):
		m.store.UI.CloseModal()
		return m, nil
	}
	return m, nil
}

func (m *Model) updateInner(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case ChannelListView:
		m.channelList, cmd = m.channelList.Update(msg)
	}
	return m, cmd
}

// syncItems rebuilds list items from the latest snapshot without disturbing
// cursor or filter state.
func (m *Model) syncItems() {
	items := make([]list.Item, len(m.snap.Playlists.Items))
	for i, pl := range m.snap.Playlists.Items {
		items[i] = playlistItem{playlist: pl, status: m.snap.Playlists.SyncStatus[pl.ID]}
	}
	m.playlistList.SetItems(items)

	current := m.snap.Playlists.Current
	if current == nil || current.ID != m.currentID {
		return
	}
	channels := make([]list.Item, len(current.Channels))
	for i, ch := range current.Channels {
		channels[i] = channelItem{channel: ch}
	}
	m.channelList.SetItems(channels)
	m.channelList.Title = fmt.Sprintf("Channels in '%s'", current.Name)
}

func (m *Model) waitForState() tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-m.states)
	}
}

func (m *Model) submitLogin() tea.Cmd {
	username, password := m.username.Value(), m.password.Value()
	return func() tea.Msg {
		return loginDoneMsg{ok: m.store.Auth.Login(m.ctx, username, password)}
	}
}

func (m *Model) loadPlaylists() tea.Cmd {
	return func() tea.Msg {
		m.store.Playlists.LoadAll(m.ctx)
		return playlistsLoadedMsg{}
	}
}

func (m *Model) openPlaylist(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.store.Playlists.LoadOne(m.ctx, id); err != nil {
			return opDoneMsg{}
		}
		return playlistOpenedMsg{id: id}
	}
}

func (m *Model) syncPlaylist(id string) tea.Cmd {
	return func() tea.Msg {
		m.store.SyncPlaylist(m.ctx, id)
		return opDoneMsg{}
	}
}

func (m *Model) deletePlaylist(id string) tea.Cmd {
	return func() tea.Msg {
		m.store.DeletePlaylist(m.ctx, id)
		return opDoneMsg{}
	}
}

// moveSelected reorders the selected channel one slot within the displayed
// (possibly filtered) sequence.
func (m *Model) moveSelected(delta int) tea.Cmd {
	visible := m.channelList.VisibleItems()
	idx := m.channelList.Index()
	dest := idx + delta
	if idx < 0 || dest < 0 || dest >= len(visible) {
		return nil
	}

	displayed := make([]models.Channel, len(visible))
	for i, item := range visible {
		displayed[i] = item.(channelItem).channel
	}
	drop := models.DropResult{SourceIndex: idx, DestinationIndex: &dest}
	playlistID := m.currentID

	m.channelList.Select(dest)
	return func() tea.Msg {
		m.store.MoveChannel(m.ctx, playlistID, displayed, drop)
		return opDoneMsg{}
	}
}

func (m *Model) renderLogin() string {
	title := styles.title.Render("Sign in to tvx")

	var errLine string
	if m.snap.Auth.Err != "" {
		errLine = styles.err.Render(m.snap.Auth.Err) + "\n\n"
	}

	helpView := m.help.ShortHelpView([]key.Binding{
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "sign in")),
		key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	})

	return fmt.Sprintf("%s\n%s%s\n%s\n\n%s", title, errLine, m.username.View(), m.password.View(), helpView)
}

func (m *Model) renderPlaylists() string {
	header := ""
	if m.snap.Playlists.Loading {
		header = styles.help.Render("loading...") + "\n"
	} else if m.snap.Playlists.Err != "" {
		header = styles.err.Render(m.snap.Playlists.Err) + "\n"
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.sync, m.keys.del, m.keys.refresh, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s%s\n\n%s", header, m.playlistList.View(), helpView)
}

func (m *Model) renderChannels() string {
	body := m.channelList.View()
	if m.snap.UI.SidebarOpen {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", body)
	}

	helpKeys := []key.Binding{m.keys.moveUp, m.keys.moveDown, m.keys.sync, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", body, helpView)
}

func (m *Model) renderSidebar() string {
	current := m.snap.Playlists.Current
	if current == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.title.Render("Groups"))
	b.WriteString("\n")
	for _, group := range models.Groups(current.Channels) {
		b.WriteString(fmt.Sprintf("%s\n", group))
	}
	return styles.help.Render(b.String())
}

func (m *Model) renderModal(modal *store.Modal) string {
	prompt := styles.warn.Render(modal.Title)
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no})
	return fmt.Sprintf("%s\n%s", prompt, helpView)
}

func renderToast(toast *models.Toast) string {
	switch toast.Kind {
	case models.ToastError:
		return styles.err.Render(toast.Message)
	case models.ToastSuccess:
		return styles.ok.Render(toast.Message)
	default:
		return styles.warn.Render(toast.Message)
	}
}
