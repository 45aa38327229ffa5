package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"marie/internal/analyst"
)

// Labels shown next to the spinner per pipeline stage.
var stageLabels = map[string]string{
	analyst.StageSynthesizing: "Writing analysis script…",
	analyst.StageExecuting:    "Analyzing data (Go sandbox)…",
	analyst.StageFormatting:   "Formatting insights…",
	"reloading":               "Reloading datasets…",
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.styles.Header.Render(
		fmt.Sprintf("marie · %s (%d) · %s", m.opts.ProjectName, m.opts.ProjectYear, m.opts.ProviderName))

	var status string
	if m.processing {
		label := stageLabels[m.stage]
		if label == "" {
			label = "Working…"
		}
		status = m.spinner.View() + " " + m.styles.Muted.Render(label)
	} else {
		status = m.styles.Footer.Render("Enter: ask · Ctrl+G: glass box · Ctrl+N: new analysis · Ctrl+C: quit")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.viewport.View(),
		m.styles.InputBox.Render(m.textarea.View()),
		status,
	)
}

// refreshViewport re-renders the transcript into the viewport and follows
// the tail.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

func (m *Model) renderHistory() string {
	var sb strings.Builder

	for _, msg := range m.history {
		switch msg.Role {
		case "user":
			sb.WriteString(m.styles.You.Render("You") + "\n")
			sb.WriteString(msg.Content)
			sb.WriteString("\n\n")

		case "work":
			if !m.glassBox {
				continue
			}
			sb.WriteString(m.styles.Work.Width(m.viewport.Width - 4).Render(msg.Content))
			sb.WriteString("\n\n")

		case "error":
			sb.WriteString(m.styles.Error.Render("✗ " + msg.Content))
			sb.WriteString("\n\n")

		default: // assistant
			sb.WriteString(m.styles.Assistant.Render("Marie") + "\n")
			sb.WriteString(m.safeRenderMarkdown(msg.Content))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// safeRenderMarkdown renders markdown, falling back to plain text if
// glamour fails or panics.
func (m *Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return rendered
		}
	}
	return content
}
