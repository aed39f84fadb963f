package tui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/timetable/internal/search"
)

const (
	statusDuration = 3 * time.Second
	errorDuration  = 5 * time.Second
)

// catalogWarmMsg reports the startup prefetch of every source.
type catalogWarmMsg struct {
	err error
}

// catalogLoadedMsg reports that a search session finished loading.
type catalogLoadedMsg struct {
	session *search.Session
	err     error
}

// queryTickMsg fires once typed search text has been idle for the debounce delay.
type queryTickMsg struct {
	session *search.Session
	gen     int
}

type clearStatusMsg struct{}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scrollToCursor()
		if m.search != nil {
			m.search.input.Width = m.modalWidth() - 8
		}
		return m, nil

	case catalogWarmMsg:
		// Failures resurface when a search is opened.
		return m, nil

	case catalogLoadedMsg:
		if m.search == nil || m.search.session != msg.session {
			return m, nil
		}
		if msg.err != nil && !errors.Is(msg.err, search.ErrSessionClosed) {
			m.search.err = msg.err
		}
		return m, nil

	case queryTickMsg:
		if m.search != nil && m.search.session == msg.session && m.search.gen == msg.gen {
			m.search.session.FlushQuery()
			m.search.clampSelection()
		}
		return m, nil

	case clearStatusMsg:
		if !m.nowFunc().Before(m.statusTime) {
			m.statusMsg = ""
			m.statusError = false
		}
		return m, nil
	}

	if m.mode == ModeSearch && m.search != nil {
		var cmd tea.Cmd
		m.search.input, cmd = m.search.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// setStatus shows a transient footer message.
func (m Model) setStatus(format string, args ...any) (Model, tea.Cmd) {
	m.statusMsg = fmt.Sprintf(format, args...)
	m.statusError = false
	m.statusTime = m.nowFunc().Add(statusDuration)
	return m, tea.Tick(statusDuration, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// setError shows an error in the footer and records it in the event log.
func (m Model) setError(where string, err error) (Model, tea.Cmd) {
	m.log.LogError(where, err)
	m.statusMsg = "Error: " + err.Error()
	m.statusError = true
	m.statusTime = m.nowFunc().Add(errorDuration)
	return m, tea.Tick(errorDuration, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// scrollToCursor keeps the cursor row inside the visible grid rows.
func (m *Model) scrollToCursor() {
	visible := m.visiblePeriods()
	if visible <= 0 {
		return
	}
	row := m.cursor.Period - 1
	if row < m.scroll {
		m.scroll = row
	}
	if row >= m.scroll+visible {
		m.scroll = row - visible + 1
	}
}
