package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

var errNoCatalog = errors.New("no catalog sources configured")

// Run starts the interactive grid and blocks until the user quits.
func Run(d Deps) error {
	if d.Store == nil {
		return fmt.Errorf("tui: nil store")
	}
	p := tea.NewProgram(New(d), tea.WithAltScreen())
	final, err := p.Run()
	if m, ok := final.(Model); ok && m.search != nil {
		m.search.session.Close()
	}
	return err
}
