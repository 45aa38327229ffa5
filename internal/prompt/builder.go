// Package prompt assembles the instruction bundles for the two LLM calls:
// the program-synthesis system instruction (golden rules, loading
// boilerplate, mode contracts, topic map, year keys) and the
// response-formatter prompt.
package prompt

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"marie/internal/benchmark"
)

//go:embed boilerplate.go.txt
var boilerplateSource string

// Builder renders instruction bundles for one analysis project. The topic
// map is guarded: the fsnotify watcher swaps it from its own goroutine
// while a question may be mid-synthesis.
type Builder struct {
	mu           sync.RWMutex
	topics       benchmark.TopicMap
	currentYear  int
	previousYear int
}

// NewBuilder creates a builder for the given project years and topic map.
func NewBuilder(topics benchmark.TopicMap, currentYear, previousYear int) *Builder {
	return &Builder{topics: topics, currentYear: currentYear, previousYear: previousYear}
}

// SetTopics swaps the topic map (hot reload path).
func (b *Builder) SetTopics(topics benchmark.TopicMap) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.topics = topics
}

func (b *Builder) topicsSnapshot() benchmark.TopicMap {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.topics
}

// BoilerplateSource returns the embedded helper snippet. The sandbox tests
// interpret this source directly to keep it in lockstep with
// internal/benchmark.
func BoilerplateSource() string {
	return boilerplateSource
}

// SystemInstruction renders the full synthesis system instruction: golden
// rules, the loading boilerplate, the three mode contracts, the topic map
// and the project's year pair.
func (b *Builder) SystemInstruction() string {
	var sb strings.Builder

	sb.WriteString(synthesizerRole)
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "## PROJECT EDITIONS\n\nCurrent edition: %d (editions key \"year_%d\").\nPrevious edition: %d (editions key \"year_%d\").\nUse the literal year %d in the A and B list titles.\n\n",
		b.currentYear, b.currentYear, b.previousYear, b.previousYear, b.currentYear)

	sb.WriteString(boilerplateHeader)
	sb.WriteString("\n")
	sb.WriteString(strings.TrimRight(boilerplateSource, "\n"))
	sb.WriteString("\n")
	sb.WriteString(boilerplateFooter)
	sb.WriteString("\n\n")

	sb.WriteString(routingRules)
	sb.WriteString("\n\n")
	sb.WriteString(standardContract)
	sb.WriteString("\n\n")
	sb.WriteString(customContract)
	sb.WriteString("\n\n")
	sb.WriteString(qualitativeContract)
	sb.WriteString("\n\n")

	sb.WriteString(topicMapHeader)
	topics := b.topicsSnapshot()
	for _, id := range topics.IDs() {
		fmt.Fprintf(&sb, "%s: %s\n", id, topics[id])
	}
	sb.WriteString("\n")

	sb.WriteString(outputRules)

	return sb.String()
}

// SynthesisUserMessage wraps the user's question for the first LLM call.
func (b *Builder) SynthesisUserMessage(question string) string {
	return fmt.Sprintf("USER QUESTION: %s\n\n%s", strings.TrimSpace(question), userReminder)
}

// FormatterSystemPrompt returns the system prompt of the second LLM call.
func (b *Builder) FormatterSystemPrompt() string {
	return formatterRole
}

// FormatterUserMessage pairs the original question with the captured
// program output for the second LLM call.
func (b *Builder) FormatterUserMessage(question, rawOutput string) string {
	return fmt.Sprintf("ORIGINAL USER QUESTION: %q\n\nPROGRAM OUTPUT:\n%s", strings.TrimSpace(question), rawOutput)
}
