package theme

import (
	"github.com/charmbracelet/lipgloss/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Theme centralizes Lip Gloss styles for the dashboard.
type Theme struct {
	Footer FooterTheme
	Panel  PanelTheme
	Modal  ModalTheme
	Money  MoneyTheme
	Table  TableTheme

	// Palette colours category slices and chart series in order.
	Palette []lipgloss.Style
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
	Filter lipgloss.Style
}

// PanelTheme styles framed panels and headings.
type PanelTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
	Muted lipgloss.Style
}

// ModalTheme styles the centered entry form.
type ModalTheme struct {
	Frame   lipgloss.Style
	Title   lipgloss.Style
	Label   lipgloss.Style
	Focused lipgloss.Style
	Chip    lipgloss.Style
	Active  lipgloss.Style
	Error   lipgloss.Style
}

// MoneyTheme colours amounts by direction.
type MoneyTheme struct {
	Income  lipgloss.Style
	Expense lipgloss.Style
	Balance lipgloss.Style
	Deficit lipgloss.Style
}

// TableTheme styles the entry table.
type TableTheme struct {
	Header   lipgloss.Style
	Row      lipgloss.Style
	Selected lipgloss.Style
	Notes    lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	accent := lipgloss.Color("212")
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	return Theme{
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: muted,
			Error: lipgloss.NewStyle().
				Foreground(lipgloss.Color("231")).
				Background(lipgloss.Color("160")).
				Padding(0, 1),
			Filter: lipgloss.NewStyle().Foreground(accent),
		},
		Panel: PanelTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(0, 1),
			Title: lipgloss.NewStyle().Bold(true),
			Body:  lipgloss.NewStyle(),
			Muted: muted,
		},
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(accent).
				Padding(1, 2),
			Title:   lipgloss.NewStyle().Bold(true),
			Label:   muted,
			Focused: lipgloss.NewStyle().Foreground(accent).Bold(true),
			Chip:    lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
			Active:  lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("62")),
			Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		},
		Money: MoneyTheme{
			Income:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			Expense: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
			Balance: lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
			Deficit: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		},
		Table: TableTheme{
			Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250")),
			Row:      lipgloss.NewStyle(),
			Selected: lipgloss.NewStyle().Reverse(true),
			Notes:    muted.Italic(true),
		},
		Palette: palette(10),
	}
}

// palette spreads n hues evenly around the HCL wheel so neighbouring
// slices stay distinguishable.
func palette(n int) []lipgloss.Style {
	out := make([]lipgloss.Style, 0, n)
	for i := 0; i < n; i++ {
		h := float64(i) * 360 / float64(n)
		c := colorful.Hcl(h, 0.55, 0.65).Clamped()
		out = append(out, lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())))
	}
	return out
}

// Series returns the palette style for index i, wrapping around.
func (t Theme) Series(i int) lipgloss.Style {
	if len(t.Palette) == 0 {
		return lipgloss.NewStyle()
	}
	if i < 0 {
		i = -i
	}
	return t.Palette[i%len(t.Palette)]
}
