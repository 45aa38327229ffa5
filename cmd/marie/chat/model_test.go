package chat

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marie/internal/analyst"
)

func testModel() *Model {
	return &Model{
		styles:     DefaultStyles(),
		progressCh: make(chan string, 1),
		done:       make(chan struct{}),
	}
}

func TestHandleCommand(t *testing.T) {
	m := testModel()

	cmd, handled := m.handleCommand("/work")
	assert.True(t, handled)
	assert.Nil(t, cmd)
	assert.True(t, m.glassBox, "glass box toggled on")

	_, handled = m.handleCommand("/work")
	assert.True(t, handled)
	assert.False(t, m.glassBox, "glass box toggled off")

	cmd, handled = m.handleCommand("/quit")
	assert.True(t, handled)
	require.NotNil(t, cmd)

	_, handled = m.handleCommand("which players support pix?")
	assert.False(t, handled, "questions are not commands")
}

func TestHandleCommand_ReloadUnavailable(t *testing.T) {
	m := testModel()

	cmd, handled := m.handleCommand("/reload")
	assert.True(t, handled)
	assert.Nil(t, cmd)
	require.NotEmpty(t, m.history)
	assert.Equal(t, "error", m.history[len(m.history)-1].Role)
}

func TestAppendOutcome(t *testing.T) {
	m := testModel()

	m.appendOutcome(&analyst.Outcome{
		Program:   "package main",
		RawOutput: "A. Successful Players (2025) [1]\n",
		Answer:    "One player qualifies.",
	}, nil)

	require.Len(t, m.history, 2)
	assert.Equal(t, "work", m.history[0].Role)
	assert.Contains(t, m.history[0].Content, "package main")
	assert.Contains(t, m.history[0].Content, "A. Successful Players (2025) [1]")
	assert.Equal(t, "assistant", m.history[1].Role)
}

func TestAppendOutcome_FormatterErrorKeepsWork(t *testing.T) {
	m := testModel()

	m.appendOutcome(&analyst.Outcome{
		Program:   "package main",
		RawOutput: "output",
	}, analyst.ErrFormatting)

	require.Len(t, m.history, 2)
	assert.Equal(t, "work", m.history[0].Role)
	assert.Equal(t, "error", m.history[1].Role)
	assert.Contains(t, m.history[1].Content, "critical processing error")
}

func TestRenderHistoryHidesWorkWithoutGlassBox(t *testing.T) {
	m := testModel()
	m.ready = true
	m.history = []Message{
		{Role: "user", Content: "3.11"},
		{Role: "work", Content: "secret program"},
		{Role: "assistant", Content: "answer"},
	}

	assert.NotContains(t, m.renderHistory(), "secret program")

	m.glassBox = true
	assert.Contains(t, m.renderHistory(), "secret program")
}

func TestStageLabels(t *testing.T) {
	assert.Equal(t, "Writing analysis script…", stageLabels[analyst.StageSynthesizing])
	assert.Equal(t, "Analyzing data (Go sandbox)…", stageLabels[analyst.StageExecuting])
	assert.Equal(t, "Formatting insights…", stageLabels[analyst.StageFormatting])
}

func TestUpdate_QuitKeys(t *testing.T) {
	m := testModel()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestWaitForProgressReturnsAfterQuit(t *testing.T) {
	m := testModel()
	wait := m.waitForProgress()

	got := make(chan tea.Msg, 1)
	go func() { got <- wait() }()

	assert.Equal(t, tea.Quit(), m.shutdown()())
	assert.Equal(t, tea.Quit(), m.shutdown()(), "quitting twice is safe")

	select {
	case msg := <-got:
		assert.Nil(t, msg, "no stage was pending")
	case <-time.After(2 * time.Second):
		t.Fatal("progress relay still blocked after quit")
	}
}

func TestWaitForProgressRelaysStage(t *testing.T) {
	m := testModel()
	m.progressCh <- analyst.StageExecuting

	assert.Equal(t, progressMsg(analyst.StageExecuting), m.waitForProgress()())
}
