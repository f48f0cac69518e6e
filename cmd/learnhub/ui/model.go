// Package ui implements the interactive terminal viewer. It is rendering
// glue: all learning-state decisions live in the state hub, which the
// viewer drives through its public operations and observes through the
// event bus.
package ui

import (
	"fmt"
	"strings"
	"time"

	"learnhub/internal/catalog"
	"learnhub/internal/events"
	"learnhub/internal/state"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type viewMode int

const (
	modeList viewMode = iota
	modeReading
)

// busMsg carries one state-change event from the hub's bus into the
// bubbletea loop.
type busMsg events.Event

// Model is the viewer's bubbletea model.
type Model struct {
	hub     *state.Hub
	catalog *catalog.Catalog

	mode     viewMode
	list     list.Model
	viewport viewport.Model
	renderer *glamour.TermRenderer
	styles   Styles

	current  catalog.Unit
	openedAt time.Time
	status   string
	width    int
	height   int

	stream <-chan events.Event
}

// NewModel builds the viewer over a hub and catalog.
func NewModel(hub *state.Hub, cat *catalog.Catalog) Model {
	items := buildItems(hub, cat.Units())
	listItems := make([]list.Item, len(items))
	for i, it := range items {
		listItems[i] = it
	}

	delegate := list.NewDefaultDelegate()
	l := list.New(listItems, delegate, 0, 0)
	l.Title = "learnhub"
	l.SetShowStatusBar(false)

	return Model{
		hub:      hub,
		catalog:  cat,
		mode:     modeList,
		list:     l,
		viewport: viewport.New(0, 0),
		styles:   DefaultStyles(),
		stream:   hub.Bus().Stream(),
	}
}

// Init starts listening for state-change events.
func (m Model) Init() tea.Cmd {
	return m.listen()
}

// listen waits for the next bus event.
func (m Model) listen() tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-m.stream
		if !ok {
			return nil
		}
		return busMsg(evt)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width, msg.Height-2)
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 4
		m.renderer = nil // rebuild with the new wrap width
		if m.mode == modeReading {
			m.renderCurrent()
		}
		return m, nil

	case busMsg:
		m.status = string(msg.Name)
		m.refreshItems()
		return m, m.listen()

	case tea.KeyMsg:
		switch m.mode {
		case modeList:
			return m.updateList(msg)
		case modeReading:
			return m.updateReading(msg)
		}
	}

	var cmd tea.Cmd
	if m.mode == modeList {
		m.list, cmd = m.list.Update(msg)
	} else {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() != list.Filtering {
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(unitItem); ok {
				m.openUnit(item.unit)
			}
			return m, nil
		case "c":
			if item, ok := m.list.SelectedItem().(unitItem); ok {
				if m.hub.Progress(item.unit.ID).Completed {
					m.hub.MarkIncomplete(item.unit.ID)
				} else {
					m.hub.MarkComplete(item.unit.ID)
				}
			}
			return m, nil
		case "b":
			if item, ok := m.list.SelectedItem().(unitItem); ok {
				m.toggleBookmark(item.unit)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateReading(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.closeUnit()
		return m, tea.Quit
	case "esc":
		m.closeUnit()
		m.mode = modeList
		m.refreshItems()
		return m, nil
	case "c":
		if m.hub.Progress(m.current.ID).Completed {
			m.hub.MarkIncomplete(m.current.ID)
		} else {
			m.hub.MarkComplete(m.current.ID)
		}
		return m, nil
	case "b":
		m.toggleBookmark(m.current)
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// openUnit enters reading mode and starts the time-spent clock.
func (m *Model) openUnit(u catalog.Unit) {
	m.current = u
	m.openedAt = time.Now()
	m.mode = modeReading
	m.hub.SetCurrentUnit(u.ID)
	m.renderCurrent()
	m.viewport.GotoTop()
}

// closeUnit folds the reading time into the unit's progress record.
func (m *Model) closeUnit() {
	if m.current.ID == "" {
		return
	}
	elapsed := time.Since(m.openedAt).Milliseconds()
	total := m.hub.Progress(m.current.ID).TimeSpent + elapsed
	m.hub.SetProgress(m.current.ID, state.ProgressPatch{TimeSpent: &total})
}

func (m *Model) toggleBookmark(u catalog.Unit) {
	if m.hub.IsBookmarked(u.ID) {
		m.hub.RemoveBookmark(u.ID)
		return
	}
	content, _ := m.catalog.Content(u.ID)
	m.hub.AddBookmark(u.ID, u.Title, u.Path, content)
}

// renderCurrent renders the current unit's markdown into the viewport.
func (m *Model) renderCurrent() {
	content, err := m.catalog.Content(m.current.ID)
	if err != nil {
		m.viewport.SetContent(m.styles.Error.Render(err.Error()))
		return
	}

	if m.renderer == nil {
		style := "light"
		if m.hub.Setting(state.SettingTheme) == "dark" {
			style = "dark"
		}
		width := m.width - 2
		if width < 20 {
			width = 80
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err == nil {
			m.renderer = r
		}
	}

	if m.renderer != nil {
		if out, err := m.renderer.Render(content); err == nil {
			m.viewport.SetContent(out)
			return
		}
	}
	m.viewport.SetContent(content)
}

// refreshItems rebuilds the list items from current state.
func (m *Model) refreshItems() {
	items := buildItems(m.hub, m.catalog.Units())
	listItems := make([]list.Item, len(items))
	for i, it := range items {
		listItems[i] = it
	}
	m.list.SetItems(listItems)
}

func (m Model) View() string {
	switch m.mode {
	case modeReading:
		rec := m.hub.Progress(m.current.ID)
		marker := ""
		if rec.Completed {
			marker = m.styles.Completed.Render(" ✓")
		}
		if m.hub.IsBookmarked(m.current.ID) {
			marker += m.styles.Bookmark.Render(" ★")
		}
		header := m.styles.Title.Render(m.current.Title) + marker
		help := m.styles.Help.Render("esc back · c toggle complete · b toggle bookmark · q quit")
		return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), help)
	default:
		status := ""
		if m.status != "" {
			status = m.styles.StatusBar.Render(m.statusLine())
		}
		help := m.styles.Help.Render("enter read · c toggle complete · b toggle bookmark · / filter · q quit")
		return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), status, help)
	}
}

func (m Model) statusLine() string {
	stats := m.hub.Stats()
	return fmt.Sprintf("%s · %d/%d complete · streak %d",
		strings.ReplaceAll(m.status, "-", " "), stats.CompletedModules, stats.TotalModules, stats.StudyStreak)
}

// Run starts the viewer and blocks until it exits.
func Run(hub *state.Hub, cat *catalog.Catalog) error {
	m := NewModel(hub, cat)
	defer hub.Bus().CloseStream(m.stream)

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
