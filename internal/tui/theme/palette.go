package theme

import (
	"fmt"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// Palette holds the lipgloss colors derived from a Theme.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	Warning     lipgloss.Color

	// Entry cell backgrounds. Alt is used when an entry touches another
	// entry of the same kind directly above it.
	DayBg        lipgloss.Color
	DayBgAlt     lipgloss.Color
	EveningBg    lipgloss.Color
	EveningBgAlt lipgloss.Color
	DragBg       lipgloss.Color

	TextOnAccent  lipgloss.Color
	TextOnWarning lipgloss.Color
	TextOnDay     lipgloss.Color
	TextOnEvening lipgloss.Color
	TextOnDrag    lipgloss.Color

	ModalBg     lipgloss.Color
	ModalBorder lipgloss.Color
	Highlight   lipgloss.Color
}

// NewPalette derives a Palette from t. A nil theme uses the default.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load(DefaultName)
	}

	light := isLight(t.Bg)
	dayBg := entryBg(t.Day, t.Bg, light)
	eveningBg := entryBg(t.Evening, t.Bg, light)
	dragBg := entryBg(t.Drag, t.Bg, light)

	return &Palette{
		Bg:          lipgloss.Color(t.Bg),
		BgHighlight: lipgloss.Color(t.BgHighlight),
		BgSelection: lipgloss.Color(t.BgSelection),
		Fg:          lipgloss.Color(t.Fg),
		FgMuted:     lipgloss.Color(t.FgMuted),
		Accent:      lipgloss.Color(t.Accent),
		Warning:     lipgloss.Color(t.Warning),

		DayBg:        lipgloss.Color(dayBg),
		DayBgAlt:     lipgloss.Color(alternate(dayBg, light)),
		EveningBg:    lipgloss.Color(eveningBg),
		EveningBgAlt: lipgloss.Color(alternate(eveningBg, light)),
		DragBg:       lipgloss.Color(dragBg),

		TextOnAccent:  lipgloss.Color(textOn(t.Accent, t.Bg, t.Fg)),
		TextOnWarning: lipgloss.Color(textOn(t.Warning, t.Bg, t.Fg)),
		TextOnDay:     lipgloss.Color(textOn(dayBg, t.Bg, t.Fg)),
		TextOnEvening: lipgloss.Color(textOn(eveningBg, t.Bg, t.Fg)),
		TextOnDrag:    lipgloss.Color(textOn(dragBg, t.Bg, t.Fg)),

		ModalBg:     lipgloss.Color(t.ModalBg),
		ModalBorder: lipgloss.Color(t.ModalBorder),
		Highlight:   lipgloss.Color(t.Highlight),
	}
}

type rgb struct{ r, g, b float64 }

func parseRGB(hex string) (rgb, bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return rgb{}, false
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return rgb{}, false
	}
	return rgb{float64(v >> 16 & 0xff), float64(v >> 8 & 0xff), float64(v & 0xff)}, true
}

func (c rgb) hex() string {
	clamp := func(v float64) int { return int(math.Max(0, math.Min(255, v))) }
	return fmt.Sprintf("#%02x%02x%02x", clamp(c.r), clamp(c.g), clamp(c.b))
}

func isLight(bg string) bool {
	return luminance(bg) > 0.55
}

// entryBg tones an accent down to a cell background: blended into the
// background on light themes, darkened on dark ones.
func entryBg(accent, bg string, light bool) string {
	if light {
		return blend(accent, bg, 0.7)
	}
	return blend(accent, "#000000", 0.45)
}

func alternate(hex string, light bool) string {
	if light {
		return blend(hex, "#000000", 0.10)
	}
	return blend(hex, "#ffffff", 0.15)
}

// blend mixes b into a by ratio. Invalid input returns a unchanged.
func blend(a, b string, ratio float64) string {
	ca, okA := parseRGB(a)
	cb, okB := parseRGB(b)
	if !okA || !okB {
		return a
	}
	ratio = math.Max(0, math.Min(1, ratio))
	mix := func(x, y float64) float64 { return x*(1-ratio) + y*ratio }
	return rgb{mix(ca.r, cb.r), mix(ca.g, cb.g), mix(ca.b, cb.b)}.hex()
}

// textOn picks whichever of two text colors contrasts more with bg.
func textOn(bg, a, b string) string {
	if contrast(bg, a) >= contrast(bg, b) {
		return a
	}
	return b
}

func contrast(a, b string) float64 {
	l1, l2 := luminance(a), luminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

func luminance(hex string) float64 {
	c, ok := parseRGB(hex)
	if !ok {
		return 0
	}
	return 0.2126*linear(c.r) + 0.7152*linear(c.g) + 0.0722*linear(c.b)
}

func linear(c float64) float64 {
	v := c / 255
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}
