package render

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles for one renderer. They are built from a
// renderer bound to the output writer, so color degrades automatically when
// the output is not a terminal.
type Styles struct {
	Tool     lipgloss.Style // tool headers
	Text     lipgloss.Style // assistant text
	Dim      lipgloss.Style // secondary detail lines
	Thinking lipgloss.Style // reasoning segments
	Rule     lipgloss.Style // lifecycle rules
	Err      lipgloss.Style // error text
	Frame    lipgloss.Style // framed summaries and payload dumps
	ErrFrame lipgloss.Style // framed error blocks
}

func newStyles(lr *lipgloss.Renderer) Styles {
	return Styles{
		Tool:     lr.NewStyle().Bold(true),
		Text:     lr.NewStyle(),
		Dim:      lr.NewStyle().Foreground(lipgloss.Color("243")),
		Thinking: lr.NewStyle().Italic(true).Foreground(lipgloss.Color("245")),
		Rule:     lr.NewStyle().Foreground(lipgloss.Color("99")),
		Err:      lr.NewStyle().Foreground(lipgloss.Color("9")),
		Frame: lr.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		ErrFrame: lr.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Foreground(lipgloss.Color("9")).
			Padding(0, 1),
	}
}
