package prompt

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marie/internal/benchmark"
)

func TestSystemInstruction_ContainsAllSections(t *testing.T) {
	b := NewBuilder(benchmark.DefaultTopics(), 2025, 2024)
	instruction := b.SystemInstruction()

	assert.Contains(t, instruction, "GOLDEN RULES")
	assert.Contains(t, instruction, "LOADING BOILERPLATE")
	assert.Contains(t, instruction, "ANALYSIS MODES")
	assert.Contains(t, instruction, "STANDARD MODE ALGORITHM")
	assert.Contains(t, instruction, "CUSTOM MODE CONTRACT")
	assert.Contains(t, instruction, "QUALITATIVE MODE CONTRACT")
	assert.Contains(t, instruction, "TOPIC MAP")
	assert.Contains(t, instruction, "OUTPUT FORMAT")
}

func TestSystemInstruction_EmbedsBoilerplateVerbatim(t *testing.T) {
	b := NewBuilder(benchmark.DefaultTopics(), 2025, 2024)
	instruction := b.SystemInstruction()

	source := BoilerplateSource()
	require.NotEmpty(t, source)
	assert.True(t, strings.HasPrefix(source, "package main"))
	assert.Contains(t, instruction, strings.TrimRight(source, "\n"))

	// The helpers the mode contracts refer to must exist in the snippet.
	for _, fn := range []string{"func LoadData(", "func CheckSuccess(", "func GetScoresForHeuristic(", "func GetHeuristicMeta(", "func PrintPlayerList(", "func PlayerBySlug(", "func AllPass("} {
		assert.Contains(t, source, fn)
	}
}

func TestSystemInstruction_ProjectYears(t *testing.T) {
	b := NewBuilder(benchmark.DefaultTopics(), 2026, 2025)
	instruction := b.SystemInstruction()

	assert.Contains(t, instruction, `editions key "year_2026"`)
	assert.Contains(t, instruction, `editions key "year_2025"`)
}

func TestSystemInstruction_TopicMapRendered(t *testing.T) {
	topics := benchmark.TopicMap{"3.11": "support voice search"}
	b := NewBuilder(topics, 2025, 2024)

	assert.Contains(t, b.SystemInstruction(), "3.11: support voice search")
}

func TestSetTopics_ConcurrentWithSystemInstruction(t *testing.T) {
	b := NewBuilder(benchmark.TopicMap{"1.1": "original phrase"}, 2025, 2024)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			b.SetTopics(benchmark.TopicMap{"1.1": "swapped phrase"})
		}
	}()
	for i := 0; i < 100; i++ {
		instruction := b.SystemInstruction()
		assert.Contains(t, instruction, "1.1: ")
	}
	wg.Wait()

	assert.Contains(t, b.SystemInstruction(), "1.1: swapped phrase")
}

func TestSynthesisUserMessage(t *testing.T) {
	b := NewBuilder(benchmark.DefaultTopics(), 2025, 2024)
	msg := b.SynthesisUserMessage("  which players have voice search?  ")

	assert.Contains(t, msg, "USER QUESTION: which players have voice search?")
	assert.Contains(t, msg, "Respond ONLY with the executable Go program")
}

func TestFormatterMessages(t *testing.T) {
	b := NewBuilder(benchmark.DefaultTopics(), 2025, 2024)

	system := b.FormatterSystemPrompt()
	assert.Contains(t, system, "PLAYER | JOURNEY | NOTE")
	assert.Contains(t, system, "start a new analysis")

	user := b.FormatterUserMessage("voice search?", "A. Successful Players (2025) [1]\n- Alpha")
	assert.Contains(t, user, `ORIGINAL USER QUESTION: "voice search?"`)
	assert.Contains(t, user, "PROGRAM OUTPUT:")
	assert.Contains(t, user, "- Alpha")
}
