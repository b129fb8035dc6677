package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/therealtombi/Rumble-Live-Ops/internal/jobs"
	"github.com/therealtombi/Rumble-Live-Ops/internal/models"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	DirectoryView ViewState = iota
	ConfirmView
	RunView
	ResultView
)

// Directory lists the harvested playlist directory for selection.
type Directory interface {
	List(criteria map[string]any) ([]*models.PersistedPlaylist, error)
}

// Model represents the TUI application state.
type Model struct {
	view         ViewState
	orchestrator *jobs.Orchestrator
	directory    Directory

	kind    jobs.OperationKind
	targets []string

	playlistList list.Model
	selected     map[string]bool

	bar    progress.Model
	events <-chan jobs.Event
	unsub  func()
	latest jobs.Event
	report *jobs.Report
	job    *jobs.Job

	width  int
	height int
	err    error
	help   help.Model
	keys   keyMap
}

// keyMap defines the key bindings for the TUI.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	toggle key.Binding
	enter  key.Binding
	back   key.Binding
	yes    key.Binding
	no     key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "continue"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		yes: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yes"),
		),
		no: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "no"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.toggle},
		{k.enter, k.back},
		{k.yes, k.no, k.quit},
	}
}

// playlistItem wraps a directory entry to implement list.Item.
type playlistItem struct {
	playlist *models.PersistedPlaylist
	selected func(id string) bool
}

func (i playlistItem) FilterValue() string { return i.playlist.Title() }

func (i playlistItem) Title() string {
	marker := "[ ]"
	if i.selected(i.playlist.PlaylistID()) {
		marker = "[x]"
	}
	return fmt.Sprintf("%s %s", marker, i.playlist.Title())
}

func (i playlistItem) Description() string {
	return fmt.Sprintf("%d videos", i.playlist.VideoCount())
}

type directoryFetchedMsg struct {
	playlists []*models.PersistedPlaylist
	err       error
}

type jobStartedMsg struct {
	job *jobs.Job
	err error
}

type eventMsg jobs.Event

type streamClosedMsg struct{}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(orchestrator *jobs.Orchestrator, directory Directory, kind jobs.OperationKind, targets []string) *Model {
	return &Model{
		view:         DirectoryView,
		orchestrator: orchestrator,
		directory:    directory,
		kind:         kind,
		targets:      targets,
		selected:     make(map[string]bool),
		bar:          progress.New(progress.WithDefaultGradient()),
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

// Init loads the directory, except for clear jobs which need no selection.
func (m *Model) Init() tea.Cmd {
	if m.kind == jobs.OpClear {
		m.view = ConfirmView
		return nil
	}
	return m.fetchDirectory()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.playlistList.Width() == 0 {
			m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		}
		m.bar.Width = msg.Width - 8
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case DirectoryView:
			return m.handleDirectoryKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case RunView:
			return m.handleRunKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case directoryFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		items := make([]list.Item, len(msg.playlists))
		for i, pl := range msg.playlists {
			items[i] = playlistItem{playlist: pl, selected: m.isSelected}
		}
		m.playlistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.playlistList.Title = "Playlist Directory"
		m.playlistList.SetSize(m.width-4, m.height-8)
		return m, nil

	case jobStartedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = ResultView
			return m, nil
		}
		m.job = msg.job
		return m, m.waitForEvent()

	case eventMsg:
		m.latest = jobs.Event(msg)
		switch m.latest.Kind {
		case jobs.EventComplete:
			m.finishRun()
			return m, nil
		case jobs.EventError:
			m.err = fmt.Errorf("%s", m.latest.Message)
			m.finishRun()
			return m, nil
		}
		return m, m.waitForEvent()

	case streamClosedMsg:
		m.finishRun()
		return m, nil
	}

	if m.view == DirectoryView {
		var cmd tea.Cmd
		m.playlistList, cmd = m.playlistList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case DirectoryView:
		return m.renderDirectory()
	case ConfirmView:
		return m.renderConfirm()
	case RunView:
		return m.renderRun()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) isSelected(id string) bool {
	return m.selected[id]
}

func (m *Model) selectedIDs() []string {
	var ids []string
	for _, item := range m.playlistList.Items() {
		if pl, ok := item.(playlistItem); ok && m.selected[pl.playlist.PlaylistID()] {
			ids = append(ids, pl.playlist.PlaylistID())
		}
	}
	return ids
}

func (m *Model) handleDirectoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		if item, ok := m.playlistList.SelectedItem().(playlistItem); ok {
			id := item.playlist.PlaylistID()
			m.selected[id] = !m.selected[id]
		}
		return m, nil
	case "enter":
		if len(m.selectedIDs()) == 0 {
			return m, nil
		}
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "n", "esc":
		if m.kind == jobs.OpClear {
			return m, tea.Quit
		}
		m.view = DirectoryView
		return m, nil
	case "y", "enter":
		m.view = RunView
		return m, m.startJob()
	}
	return m, nil
}

func (m *Model) handleRunKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.orchestrator.Cancel()
		m.finishRun()
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "enter":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) fetchDirectory() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.directory.List(nil)
		return directoryFetchedMsg{playlists: playlists, err: err}
	}
}

func (m *Model) startJob() tea.Cmd {
	events, unsub := m.orchestrator.Events().Subscribe(64)
	m.events = events
	m.unsub = unsub

	return func() tea.Msg {
		job, err := m.orchestrator.Start(jobs.SubmitRequest{
			Kind:        m.kind,
			PlaylistIDs: m.selectedIDs(),
			Targets:     m.targets,
		})
		return jobStartedMsg{job: job, err: err}
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		if m.events == nil {
			return streamClosedMsg{}
		}
		event, open := <-m.events
		if !open {
			return streamClosedMsg{}
		}
		return eventMsg(event)
	}
}

// finishRun tears the subscription down and snapshots the job for display.
func (m *Model) finishRun() {
	if m.unsub != nil {
		m.unsub()
		m.unsub = nil
		m.events = nil
	}
	if m.job != nil {
		select {
		case <-m.job.Finished():
			report := m.job.Report()
			m.report = &report
		default:
		}
	}
	m.view = ResultView
}

func (m *Model) renderDirectory() string {
	helpKeys := []key.Binding{m.keys.toggle, m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	var title string
	if m.kind == jobs.OpClear {
		title = styles.title.Render(fmt.Sprintf("Clear playlists on %d videos?", len(m.targets)))
	} else {
		title = styles.title.Render(fmt.Sprintf("Apply %d playlists to %d videos?", len(m.selectedIDs()), len(m.targets)))
	}

	var info strings.Builder
	for _, target := range m.targets {
		info.WriteString(fmt.Sprintf("  %s\n", target))
	}

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info.String(), helpView)
}

func (m *Model) renderRun() string {
	title := styles.title.Render("Running Job")

	var ratio float64
	if m.latest.Total > 0 {
		ratio = float64(m.latest.Done) / float64(m.latest.Total)
	}
	bar := m.bar.ViewAs(ratio)

	status := "Waiting for the first target..."
	if m.latest.Kind == jobs.EventProgress {
		status = fmt.Sprintf("(%d/%d) %s\n%s", m.latest.Done, m.latest.Total, m.latest.Target, styles.help.Render(m.latest.Note))
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s\n\n%s", title, bar, status, styles.help.Render("q: cancel"))
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Job failed: %v\n\nPress q to quit", m.err))
	}

	if m.report == nil {
		return styles.warn.Render("Job cancelled\n\nPress q to quit")
	}

	title := styles.ok.Render("✓ Job Complete")
	info := fmt.Sprintf("\nSucceeded: %d/%d\n", m.report.SuccessCount, m.report.Total)

	var lines strings.Builder
	for i, result := range m.report.Results {
		line := fmt.Sprintf("%d. %s: %s", i+1, result.Target, result.Note())
		switch result.Outcome {
		case jobs.OutcomeSuccess:
			lines.WriteString(styles.ok.Render(line))
		case jobs.OutcomeSkipped:
			lines.WriteString(styles.warn.Render(line))
		default:
			lines.WriteString(styles.err.Render(line))
		}
		lines.WriteString("\n")
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})

	return fmt.Sprintf("%s%s\n%s\n%s", title, info, lines.String(), helpView)
}
