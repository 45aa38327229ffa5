package analyst

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuessMode(t *testing.T) {
	tests := []struct {
		question string
		want     string
	}{
		{"3.11", ModeStandard},
		{"voice search", ModeStandard},
		{"which players support pix?", ModeStandard},
		{"quais players oferecem busca por voz?", ModeStandard},

		{"how many players scored 5 on 3.11?", ModeCustom},
		{"average score per player on the checkout journey", ModeCustom},
		{"players from the marketing department", ModeCustom},
		{"quantos players atendem na jornada de compra?", ModeCustom},

		{"what do the notes say about checkout?", ModeQualitative},
		{"show me the evaluator evidence for 3.11", ModeQualitative},
		{"quais as anotações sobre o checkout?", ModeQualitative},
	}
	for _, tc := range tests {
		t.Run(tc.question, func(t *testing.T) {
			assert.Equal(t, tc.want, GuessMode(tc.question))
		})
	}
}

func TestGuessMode_AmbiguousDefaultsToStandard(t *testing.T) {
	for _, q := range []string{"", "tell me something interesting", "5.18 please", "what about accessibility"} {
		assert.Equal(t, ModeStandard, GuessMode(q), "question %q", q)
	}
}

func TestGuessMode_WholeWordMatching(t *testing.T) {
	// "denoted" must not trigger the notes marker, "discount" must not
	// trigger counting.
	assert.Equal(t, ModeStandard, GuessMode("players with denoted branding"))
	assert.Equal(t, ModeStandard, GuessMode("players with a discount badge"))
}

func TestGuessMode_QualitativeWinsOverCustom(t *testing.T) {
	assert.Equal(t, ModeQualitative, GuessMode("notes about the checkout journey"))
}
