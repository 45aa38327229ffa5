package sandbox

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marie/internal/benchmark"
	"marie/internal/prompt"
)

// These tests interpret the helper snippet the model receives and compare
// its behavior against internal/benchmark, so the prompt text and the
// native reference implementation cannot drift apart.

func runSnippetProgram(t *testing.T, e *Executor, mainBody string) Result {
	t.Helper()
	program := prompt.BoilerplateSource() + "\nfunc main() {\n" + mainBody + "\n}\n"
	res := e.Run(context.Background(), program)
	require.NoError(t, res.Err, "combined output:\n%s", res.Combined)
	return res
}

func TestSnippet_IsValidProgram(t *testing.T) {
	e := newTestExecutor(t)
	require.NoError(t, e.Stage(HeuristicsFilename, []byte(`{}`)))
	require.NoError(t, e.Stage(ResultsFilename, []byte(`{}`)))

	runSnippetProgram(t, e, `_ = sort.Strings`)
}

func TestSnippet_CheckSuccessMatchesNative(t *testing.T) {
	e := newTestExecutor(t)
	require.NoError(t, e.Stage(HeuristicsFilename, []byte(`{}`)))
	require.NoError(t, e.Stage(ResultsFilename, []byte(`{}`)))

	corpus := []struct {
		score float64
		rule  string
	}{
		{4, ">=4"}, {3.9, ">=4"}, {4, ">3"}, {3, ">3"},
		{2, "<=2"}, {2.1, "<=2"}, {3, "<4"}, {4, "<4"},
		{5, "=5"}, {4, "=5"}, {5, "5"}, {4.99, "5"},
		{4, "=4 and =5"}, {5, "=4 and =5"}, {4.5, "=4 and =5"},
		{5, "garbage"}, {5, ""}, {5, " =5 "},
	}

	var body strings.Builder
	for _, c := range corpus {
		fmt.Fprintf(&body, "fmt.Println(CheckSuccess(%v, %q))\n", c.score, c.rule)
	}
	res := runSnippetProgram(t, e, body.String())

	lines := strings.Split(strings.TrimSpace(res.Stdout), "\n")
	require.Len(t, lines, len(corpus))
	for i, c := range corpus {
		score := c.score
		want := benchmark.CheckSuccess(&score, c.rule)
		assert.Equal(t, fmt.Sprintf("%v", want), lines[i],
			"CheckSuccess(%v, %q) diverges from the native evaluator", c.score, c.rule)
	}
}

func TestSnippet_LoadDataMatchesNativeNormalizer(t *testing.T) {
	e := newTestExecutor(t)
	e.SetYearKeys("year_2025", "year_2024")

	heuristicsDoc := `{"data": {"heuristics": [
		{"heuristicNumber": "3.11", "name": "Voice search", "success": "=5"}
	]}}`
	resultsDoc := `{"editions": {
		"year_2025": {"players": [
			{"slug": "alpha", "name": "Alpha", "scores": {"web": {"h_3.11": {"scoreValue": 5}}}},
			{"slug": "bank", "name": "Bank", "departmentObj": {"departmentSlug": "finance"}}
		]},
		"year_2024": {"players": [
			{"slug": "alpha", "name": "Alpha", "scores": {"web": {"h_3.11": {"scoreValue": 3}}}}
		]}
	}}`

	require.NoError(t, e.Stage(HeuristicsFilename, []byte(heuristicsDoc)))
	require.NoError(t, e.Stage(ResultsFilename, []byte(resultsDoc)))

	res := runSnippetProgram(t, e, `
	heuristicsData, playersCurrent, playersPrevious := LoadData()
	fmt.Printf("counts: %d %d %d\n", len(heuristicsData), len(playersCurrent), len(playersPrevious))
	meta := GetHeuristicMeta(heuristicsData, "3.11")
	rule := SuccessRule(meta)
	for _, p := range playersCurrent {
		scores := GetScoresForHeuristic(p, "3.11")
		fmt.Printf("%s eligible=%v pass=%v\n", SafeName(p), len(scores) > 0, AllPass(scores, rule))
	}
	prev := PlayerBySlug("alpha", playersPrevious)
	fmt.Printf("alpha 2024 pass=%v\n", AllPass(GetScoresForHeuristic(prev, "3.11"), rule))
`)

	// Native side of the same data.
	var hRaw, rRaw interface{}
	require.NoError(t, json.Unmarshal([]byte(heuristicsDoc), &hRaw))
	require.NoError(t, json.Unmarshal([]byte(resultsDoc), &rRaw))
	native := benchmark.Normalize(hRaw, rRaw, "year_2025", "year_2024")

	assert.Contains(t, res.Stdout, fmt.Sprintf("counts: %d %d %d", len(native.Heuristics), len(native.Current), len(native.Previous)))
	assert.Contains(t, res.Stdout, "Alpha eligible=true pass=true")
	assert.NotContains(t, res.Stdout, "Bank", "finance players filtered in the snippet too")
	assert.Contains(t, res.Stdout, "alpha 2024 pass=false")
}

func TestSnippet_PrintPlayerListShape(t *testing.T) {
	e := newTestExecutor(t)
	require.NoError(t, e.Stage(HeuristicsFilename, []byte(`{}`)))
	require.NoError(t, e.Stage(ResultsFilename, []byte(`{}`)))

	res := runSnippetProgram(t, e, `PrintPlayerList("A. Successful Players (2025)", []string{"Zeta", "Alpha", "Zeta", ""})`)

	assert.Contains(t, res.Stdout, "A. Successful Players (2025) [2]")
	assert.Contains(t, res.Stdout, "- Alpha\n- Zeta\n")
}
