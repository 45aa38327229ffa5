package benchmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func resolverCatalog() []Heuristic {
	return []Heuristic{
		{"heuristicNumber": "3.11", "name": "Voice search", "question": "Does the store let customers search by voice?"},
		{"heuristicNumber": "5.18", "name": "Fast delivery", "question": "Is same-day or next-day delivery offered?"},
		{"heuristicNumber": "8.2", "name": "Natural language chatbot", "question": "Does the chatbot understand natural language?"},
	}
}

func TestResolve_TopicMapFirst(t *testing.T) {
	r := NewResolver(DefaultTopics(), resolverCatalog())

	assert.Equal(t, "3.11", r.Resolve("voice search"))
	assert.Equal(t, "5.18", r.Resolve("same-day delivery"))
}

func TestResolve_TopicMapBeatsExactID(t *testing.T) {
	// A topic phrase that contains another heuristic's literal id must win
	// over the exact-id strategy.
	topics := TopicMap{"1.1": "players that mention 5.18 in their catalog"}
	catalog := []Heuristic{
		{"heuristicNumber": "5.18", "name": "Fast delivery"},
	}
	r := NewResolver(topics, catalog)

	assert.Equal(t, "1.1", r.Resolve("5.18"))
}

func TestResolve_ExactID(t *testing.T) {
	r := NewResolver(DefaultTopics(), resolverCatalog())
	assert.Equal(t, "8.2", r.Resolve("8.2"))
}

func TestResolve_NameAndQuestionFallback(t *testing.T) {
	catalog := resolverCatalog()
	r := NewResolver(TopicMap{}, catalog)

	assert.Equal(t, "8.2", r.Resolve("natural language chatbot"), "name match")
	assert.Equal(t, "3.11", r.Resolve("customers search by voice"), "question match")
}

func TestResolve_DiacriticsAndCase(t *testing.T) {
	topics := TopicMap{"9.9": "suporte a busca por voz e opções de acessibilidade"}
	r := NewResolver(topics, nil)

	assert.Equal(t, "9.9", r.Resolve("OPÇÕES de acessibilidade"))
	assert.Equal(t, "9.9", r.Resolve("opcoes acessibilidade"), "folded query matches folded catalog text")
}

func TestResolve_StopWordFallback(t *testing.T) {
	topics := TopicMap{"2.2": "recommendations on the home page"}
	r := NewResolver(topics, nil)

	// Query made entirely of stop words falls back to the raw tokens.
	assert.Equal(t, "", r.Resolve("of the for"))
	assert.Equal(t, "2.2", r.Resolve("recommendations on the home page"))
}

func TestResolve_NoMatch(t *testing.T) {
	r := NewResolver(DefaultTopics(), resolverCatalog())

	assert.Equal(t, "", r.Resolve("quantum teleportation"))
	assert.Equal(t, "", r.Resolve(""))
	assert.Equal(t, "", r.Resolve("   "))
}

func TestResolve_Deterministic(t *testing.T) {
	r := NewResolver(DefaultTopics(), resolverCatalog())
	first := r.Resolve("chatbot")
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, r.Resolve("chatbot"))
	}
}
