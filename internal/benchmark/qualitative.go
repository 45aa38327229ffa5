package benchmark

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// NoteMaxLen caps each evaluator note emitted in qualitative output.
const NoteMaxLen = 280

var whitespaceRun = regexp.MustCompile(`\s+`)

// NoteRow is one qualitative observation: an evaluator's free-text note for
// a player on one journey.
type NoteRow struct {
	Player  string
	Journey string
	Note    string
}

// CleanNote collapses whitespace runs to single spaces, replaces the column
// separator "|" with "/", trims, and truncates to NoteMaxLen. Returns ""
// for notes that are empty after cleaning.
func CleanNote(note string) string {
	cleaned := whitespaceRun.ReplaceAllString(note, " ")
	cleaned = strings.ReplaceAll(cleaned, "|", "/")
	cleaned = strings.TrimSpace(cleaned)
	if runes := []rune(cleaned); len(runes) > NoteMaxLen {
		cleaned = string(runes[:NoteMaxLen])
	}
	return cleaned
}

// GatherNotes extracts every non-empty note the given players carry for a
// heuristic, honoring the journey suppression flags. Rows keep the player
// list's order, with journeys sorted per player for stable output.
func GatherNotes(players []Player, heuristicID string) []NoteRow {
	var rows []NoteRow
	key := "h_" + heuristicID

	for _, p := range players {
		journeys, ok := p["scores"].(map[string]interface{})
		if !ok {
			continue
		}
		for _, slug := range sortedKeys(journeys) {
			journey, ok := journeys[slug].(map[string]interface{})
			if !ok {
				continue
			}
			if journey["ignore_journey"] == true || journey["zeroed_journey"] == true {
				continue
			}
			cell, ok := journey[key].(map[string]interface{})
			if !ok {
				continue
			}
			note, _ := cell["note"].(string)
			cleaned := CleanNote(note)
			if cleaned == "" {
				continue
			}
			rows = append(rows, NoteRow{Player: p.Name(), Journey: slug, Note: cleaned})
		}
	}
	return rows
}

// RenderNotes prints the qualitative table: a header line followed by one
// "PLAYER | JOURNEY | NOTE" row per observation.
func RenderNotes(rows []NoteRow) string {
	var b strings.Builder
	b.WriteString("PLAYER | JOURNEY | NOTE\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "%s | %s | %s\n", row.Player, row.Journey, row.Note)
	}
	if len(rows) == 0 {
		b.WriteString("(no notes recorded)\n")
	}
	return b.String()
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
