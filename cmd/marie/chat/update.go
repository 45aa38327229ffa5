package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"marie/internal/analyst"
)

type outcomeMsg struct {
	outcome *analyst.Outcome
	err     error
}

type progressMsg string

type reloadedMsg struct{ err error }

// ask runs the pipeline in the background.
func (m *Model) ask(question string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.opts.Pipeline.Ask(context.Background(), question)
		return outcomeMsg{outcome: out, err: err}
	}
}

func (m *Model) reloadDatasets() tea.Cmd {
	return func() tea.Msg {
		return reloadedMsg{err: m.opts.Reload(context.Background())}
	}
}

// waitForProgress relays pipeline stage changes into the update loop. The
// done channel releases the blocked command goroutine when the TUI quits.
func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		select {
		case stage := <-m.progressCh:
			return progressMsg(stage)
		case <-m.done:
			return nil
		}
	}
}

// shutdown unblocks the progress relay, then quits.
func (m *Model) shutdown() tea.Cmd {
	m.quitOnce.Do(func() { close(m.done) })
	return tea.Quit
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		if !m.ready {
			m.ready = true
			m.renderer, _ = glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(m.viewport.Width),
			)
			m.appendWelcome()
		}
		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, m.shutdown()
		case tea.KeyCtrlG:
			m.glassBox = !m.glassBox
			m.refreshViewport()
			return m, nil
		case tea.KeyCtrlN:
			m.history = nil
			m.appendWelcome()
			m.refreshViewport()
			return m, nil
		case tea.KeyEnter:
			if m.processing {
				return m, nil
			}
			question := strings.TrimSpace(m.textarea.Value())
			if question == "" {
				return m, nil
			}
			if cmd, handled := m.handleCommand(question); handled {
				m.textarea.Reset()
				return m, cmd
			}
			m.history = append(m.history, Message{Role: "user", Content: question})
			m.textarea.Reset()
			m.processing = true
			m.stage = analyst.StageSynthesizing
			m.refreshViewport()
			return m, tea.Batch(m.ask(question), m.spinner.Tick)
		}

	case progressMsg:
		m.stage = string(msg)
		cmds = append(cmds, m.waitForProgress())

	case outcomeMsg:
		m.processing = false
		m.stage = ""
		m.appendOutcome(msg.outcome, msg.err)
		m.refreshViewport()

	case reloadedMsg:
		m.processing = false
		if msg.err != nil {
			m.history = append(m.history, Message{Role: "error", Content: "Reload failed: " + msg.err.Error()})
		} else {
			m.history = append(m.history, Message{Role: "assistant", Content: "Datasets reloaded."})
		}
		m.refreshViewport()

	case spinner.TickMsg:
		if m.processing {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	var taCmd, vpCmd tea.Cmd
	m.textarea, taCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	cmds = append(cmds, taCmd, vpCmd)

	return m, tea.Batch(cmds...)
}

// handleCommand intercepts slash commands.
func (m *Model) handleCommand(input string) (tea.Cmd, bool) {
	switch input {
	case "/reload":
		if m.opts.Reload == nil {
			m.history = append(m.history, Message{Role: "error", Content: "Reload is not available."})
			m.refreshViewport()
			return nil, true
		}
		m.processing = true
		m.stage = "reloading"
		m.refreshViewport()
		return m.reloadDatasets(), true
	case "/work":
		m.glassBox = !m.glassBox
		m.refreshViewport()
		return nil, true
	case "/quit", "/exit":
		return m.shutdown(), true
	}
	return nil, false
}

func (m *Model) appendWelcome() {
	m.history = append(m.history, Message{
		Role: "assistant",
		Content: fmt.Sprintf(
			"Hello! I analyze the **%s (%d)** benchmark. Ask me about a heuristic, a topic, or the evaluators' notes.\n\nCtrl+G toggles the glass box, Ctrl+N starts a new analysis, /reload re-fetches the datasets.",
			m.opts.ProjectName, m.opts.ProjectYear),
	})
}

func (m *Model) appendOutcome(out *analyst.Outcome, err error) {
	if out != nil && (out.Program != "" || out.RawOutput != "") {
		m.history = append(m.history, Message{
			Role:    "work",
			Content: formatWork(out.Program, out.RawOutput),
		})
	}
	if err != nil {
		m.history = append(m.history, Message{Role: "error", Content: err.Error()})
		return
	}
	m.history = append(m.history, Message{Role: "assistant", Content: out.Answer})
}

func formatWork(program, rawOutput string) string {
	var sb strings.Builder
	sb.WriteString("Generated program:\n")
	sb.WriteString(program)
	sb.WriteString("\n\nRaw output:\n")
	sb.WriteString(strings.TrimRight(rawOutput, "\n"))
	return sb.String()
}

func (m *Model) layout() {
	headerHeight := 1
	footerHeight := 1
	inputHeight := 4
	vpHeight := m.height - headerHeight - footerHeight - inputHeight
	if vpHeight < 3 {
		vpHeight = 3
	}
	if m.viewport.Width == 0 {
		m.viewport = viewport.New(m.width, vpHeight)
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(m.width - 4)
}
