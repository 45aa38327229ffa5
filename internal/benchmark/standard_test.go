package benchmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scoredPlayer builds a player with one journey carrying a single score for
// a heuristic.
func scoredPlayer(slug, name, journey, heuristicID string, score float64, suppress map[string]interface{}) Player {
	journeyData := map[string]interface{}{
		"h_" + heuristicID: map[string]interface{}{"scoreValue": score},
	}
	for k, v := range suppress {
		journeyData[k] = v
	}
	return Player{
		"slug": slug,
		"name": name,
		"scores": map[string]interface{}{
			journey: journeyData,
		},
	}
}

func testCatalog() []Heuristic {
	return []Heuristic{
		{"heuristicNumber": "3.11", "name": "Voice search", "question": "Does the store support voice search?", "success": "=5"},
	}
}

func TestRunStandard_EligibilityAndTallies(t *testing.T) {
	// Player A: non-suppressed score 5 -> success.
	// Player B: only a zeroed journey scored 5 -> ineligible, in neither list.
	data := &Normalized{
		Heuristics: testCatalog(),
		Current: []Player{
			scoredPlayer("a", "Alpha", "web", "3.11", 5, nil),
			scoredPlayer("b", "Beta", "web", "3.11", 5, map[string]interface{}{"zeroed_journey": true}),
		},
	}

	res, err := RunStandard(data, DefaultTopics(), "3.11")
	require.NoError(t, err)

	assert.Equal(t, []string{"Alpha"}, res.Success)
	assert.Empty(t, res.Failure)
	assert.Equal(t, 1, res.TotalEligible)
}

func TestRunStandard_AllScoresMustPass(t *testing.T) {
	// A 5 on web but a 3 on app fails the benchmark.
	mixed := Player{
		"slug": "m", "name": "Mixed",
		"scores": map[string]interface{}{
			"web": map[string]interface{}{"h_3.11": map[string]interface{}{"scoreValue": 5.0}},
			"app": map[string]interface{}{"h_3.11": map[string]interface{}{"scoreValue": 3.0}},
		},
	}
	data := &Normalized{Heuristics: testCatalog(), Current: []Player{mixed}}

	res, err := RunStandard(data, DefaultTopics(), "3.11")
	require.NoError(t, err)

	assert.Empty(t, res.Success)
	assert.Equal(t, []string{"Mixed"}, res.Failure)
}

func TestRunStandard_YearOverYearDiff(t *testing.T) {
	data := &Normalized{
		Heuristics: testCatalog(),
		Current: []Player{
			scoredPlayer("a", "Alpha", "web", "3.11", 5, nil), // was 3, now 5 -> improved
			scoredPlayer("c", "Gamma", "web", "3.11", 5, nil), // no previous match -> skipped
			scoredPlayer("d", "Delta", "web", "3.11", 2, nil), // was 5, now 2 -> worsened
		},
		Previous: []Player{
			scoredPlayer("a", "Alpha", "web", "3.11", 3, nil),
			scoredPlayer("d", "Delta", "web", "3.11", 5, nil),
		},
	}

	res, err := RunStandard(data, DefaultTopics(), "3.11")
	require.NoError(t, err)

	assert.Equal(t, []string{"Alpha"}, res.Improved)
	assert.Equal(t, []string{"Delta"}, res.Worsened)
	assert.NotContains(t, res.Improved, "Gamma")
	assert.NotContains(t, res.Worsened, "Gamma")
}

func TestRunStandard_ListsDedupedAndSorted(t *testing.T) {
	data := &Normalized{
		Heuristics: testCatalog(),
		Current: []Player{
			scoredPlayer("z1", "Zeta", "web", "3.11", 5, nil),
			scoredPlayer("a1", "Alpha", "web", "3.11", 5, nil),
			scoredPlayer("z2", "Zeta", "web", "3.11", 5, nil), // same name, different slug
		},
	}

	res, err := RunStandard(data, DefaultTopics(), "3.11")
	require.NoError(t, err)

	assert.Equal(t, []string{"Alpha", "Zeta"}, res.Success)
	assert.Equal(t, 2, res.TotalEligible, "dedup happens before the tally")
}

func TestRunStandard_UnknownHeuristic(t *testing.T) {
	data := &Normalized{Heuristics: testCatalog()}
	_, err := RunStandard(data, DefaultTopics(), "99.99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestStandardResult_Render(t *testing.T) {
	data := &Normalized{
		Heuristics: testCatalog(),
		Current: []Player{
			scoredPlayer("a", "Alpha", "web", "3.11", 5, nil),
			scoredPlayer("b", "Beta", "web", "3.11", 3, nil),
		},
	}

	res, err := RunStandard(data, DefaultTopics(), "3.11")
	require.NoError(t, err)

	out := res.Render(2025)
	assert.Contains(t, out, "A. Successful Players (2025) [1]")
	assert.Contains(t, out, "- Alpha")
	assert.Contains(t, out, "B. Failed Players (2025) [1]")
	assert.Contains(t, out, "- Beta")
	assert.Contains(t, out, "C. Improved Players [0]")
	assert.Contains(t, out, "D. Worsened Players [0]")
	assert.Contains(t, out, "E. Insight")
	assert.Contains(t, out, "1 of 2 e-commerces support voice search.")
	assert.Contains(t, out, "1 of 2 e-commerces do not support voice search.")
}
