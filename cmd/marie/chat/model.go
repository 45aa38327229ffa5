// Package chat provides the interactive TUI for marie: question input,
// markdown-rendered answers, processing-step indicator, and a glass-box
// view revealing the generated program and raw sandbox output.
package chat

import (
	"context"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"marie/internal/analyst"
)

// Options configures one chat session.
type Options struct {
	Pipeline     *analyst.Pipeline
	ProjectName  string
	ProjectYear  int
	ProviderName string

	// Reload re-fetches the datasets; wired to the /reload command.
	Reload func(ctx context.Context) error
}

// Message is one transcript entry.
type Message struct {
	Role    string // "user", "assistant", "error", "work"
	Content string
}

// Model is the bubbletea model of the chat session.
type Model struct {
	opts Options

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	styles   Styles

	history []Message

	ready      bool
	processing bool
	stage      string
	glassBox   bool

	width  int
	height int

	progressCh chan string
	done       chan struct{}
	quitOnce   sync.Once
}

// New creates the chat model and hooks the pipeline's progress reporting.
func New(opts Options) *Model {
	ta := textarea.New()
	ta.Placeholder = "Ask about a heuristic (e.g. \"which players support voice search?\")"
	ta.Focus()
	ta.SetHeight(2)
	ta.CharLimit = 500
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		opts:       opts,
		textarea:   ta,
		spinner:    sp,
		styles:     DefaultStyles(),
		progressCh: make(chan string, 8),
		done:       make(chan struct{}),
	}
	opts.Pipeline.WithProgress(func(stage string) {
		select {
		case m.progressCh <- stage:
		default:
		}
	})
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick, m.waitForProgress())
}

// Run starts the TUI and blocks until the user quits.
func Run(opts Options) error {
	program := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := program.Run()
	return err
}
