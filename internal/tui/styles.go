package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/timetable/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a palette.
type Styles struct {
	palette *theme.Palette

	TitleStyle     lipgloss.Style
	TabStyle       lipgloss.Style
	TabActiveStyle lipgloss.Style

	DayHeaderStyle     lipgloss.Style
	DayHeaderDragStyle lipgloss.Style // Column the carried entry is over
	PeriodLabelStyle   lipgloss.Style
	EveningLabelStyle  lipgloss.Style

	EmptyCellStyle   lipgloss.Style
	CursorStyle      lipgloss.Style
	DayEntryStyle    lipgloss.Style
	DayEntryAltStyle lipgloss.Style
	EveEntryStyle    lipgloss.Style
	EveEntryAltStyle lipgloss.Style
	DragTargetStyle  lipgloss.Style // Drop position of a valid move
	DragInvalidStyle lipgloss.Style // Drop position that would be rejected
	DragSourceStyle  lipgloss.Style // Original cells of the carried entry

	StatusStyle      lipgloss.Style
	StatusErrorStyle lipgloss.Style
	HelpStyle        lipgloss.Style
	ConfirmStyle     lipgloss.Style

	ModalStyle         lipgloss.Style
	ModalTitleStyle    lipgloss.Style
	ModalChipStyle     lipgloss.Style
	ModalRowStyle      lipgloss.Style
	ModalRowMutedStyle lipgloss.Style
	ModalSelectedStyle lipgloss.Style
	ModalHintStyle     lipgloss.Style
}

// NewStyles creates the styles for a palette.
func NewStyles(p *theme.Palette) *Styles {
	s := &Styles{palette: p}
	cell := lipgloss.NewStyle().Padding(0, 1)

	s.TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Accent)
	s.TabStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(p.FgMuted)
	s.TabActiveStyle = s.TabStyle.
		Bold(true).
		Foreground(p.TextOnAccent).
		Background(p.Accent)

	s.DayHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Foreground(p.Fg).
		Background(p.BgHighlight)
	s.DayHeaderDragStyle = s.DayHeaderStyle.
		Foreground(p.TextOnDrag).
		Background(p.DragBg)
	s.PeriodLabelStyle = lipgloss.NewStyle().Foreground(p.FgMuted)
	s.EveningLabelStyle = s.PeriodLabelStyle.Italic(true)

	s.EmptyCellStyle = cell.Foreground(p.FgMuted)
	s.CursorStyle = cell.
		Foreground(p.Fg).
		Background(p.BgSelection).
		Bold(true)
	s.DayEntryStyle = cell.Foreground(p.TextOnDay).Background(p.DayBg)
	s.DayEntryAltStyle = s.DayEntryStyle.Background(p.DayBgAlt)
	s.EveEntryStyle = cell.Foreground(p.TextOnEvening).Background(p.EveningBg)
	s.EveEntryAltStyle = s.EveEntryStyle.Background(p.EveningBgAlt)
	s.DragTargetStyle = cell.
		Bold(true).
		Foreground(p.TextOnDrag).
		Background(p.DragBg)
	s.DragInvalidStyle = cell.
		Bold(true).
		Foreground(p.TextOnWarning).
		Background(p.Warning)
	s.DragSourceStyle = cell.Foreground(p.FgMuted).Faint(true)

	s.StatusStyle = lipgloss.NewStyle().Foreground(p.Accent)
	s.StatusErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Warning)
	s.HelpStyle = lipgloss.NewStyle().Foreground(p.FgMuted)
	s.ConfirmStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.TextOnWarning).
		Background(p.Warning).
		Padding(0, 1)

	s.ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.ModalBorder).
		Background(p.ModalBg).
		Padding(0, 1)
	s.ModalTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Accent)
	s.ModalChipStyle = lipgloss.NewStyle().
		Foreground(p.TextOnAccent).
		Background(p.Accent).
		Padding(0, 1)
	s.ModalRowStyle = lipgloss.NewStyle().Foreground(p.Fg)
	s.ModalRowMutedStyle = lipgloss.NewStyle().Foreground(p.FgMuted)
	s.ModalSelectedStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Fg).
		Background(p.Highlight)
	s.ModalHintStyle = lipgloss.NewStyle().Foreground(p.FgMuted)

	return s
}
