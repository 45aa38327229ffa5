package chat

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles of the chat view.
type Styles struct {
	Header    lipgloss.Style
	Footer    lipgloss.Style
	You       lipgloss.Style
	Assistant lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
	Work      lipgloss.Style
	InputBox  lipgloss.Style
}

// DefaultStyles returns the marie color scheme.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1),
		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1),
		You: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		Assistant: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Work: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1),
		InputBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
	}
}
