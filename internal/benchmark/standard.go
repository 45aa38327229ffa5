package benchmark

import (
	"fmt"
	"sort"
	"strings"
)

// StandardResult holds the output of the standard analysis for one
// heuristic: the four player lists plus the insight counts.
type StandardResult struct {
	HeuristicID string
	Rule        string
	TopicPhrase string

	Success  []string // passed in the current edition
	Failure  []string // eligible but failed in the current edition
	Improved []string // failed previous edition, passed current
	Worsened []string // passed previous edition, failed current

	// TotalEligible is |Success| + |Failure|. Players with no
	// non-suppressed score for the heuristic are counted in neither.
	TotalEligible int
}

// RunStandard executes the standard analysis for one heuristic id against
// normalized data:
//
//  1. eligibility and pass/fail over the current edition,
//  2. the year-over-year diff for players matched by slug (players without
//     a previous-edition match are skipped, counted neither way),
//  3. the four deduplicated, alphabetically sorted name lists.
//
// Returns an error when the heuristic id is not in the catalog.
func RunStandard(data *Normalized, topics TopicMap, heuristicID string) (*StandardResult, error) {
	meta, ok := data.HeuristicByID(heuristicID)
	if !ok {
		return nil, fmt.Errorf("heuristic %q not found in catalog", heuristicID)
	}
	rule := meta.SuccessRule()

	res := &StandardResult{
		HeuristicID: heuristicID,
		Rule:        rule,
		TopicPhrase: topics.Phrase(heuristicID),
	}

	var success, failure []string
	for _, p := range data.Current {
		if !Eligible(p, heuristicID) {
			continue
		}
		if Succeeds(p, heuristicID, rule) {
			success = append(success, p.Name())
		} else {
			failure = append(failure, p.Name())
		}
	}

	var improved, worsened []string
	for _, p := range data.Current {
		prev := PlayerBySlug(p.Slug(), data.Previous)
		if prev == nil {
			continue
		}
		now := Succeeds(p, heuristicID, rule)
		before := Succeeds(prev, heuristicID, rule)
		switch {
		case now && !before:
			improved = append(improved, p.Name())
		case !now && before:
			worsened = append(worsened, p.Name())
		}
	}

	res.Success = dedupeSorted(success)
	res.Failure = dedupeSorted(failure)
	res.Improved = dedupeSorted(improved)
	res.Worsened = dedupeSorted(worsened)
	res.TotalEligible = len(res.Success) + len(res.Failure)

	return res, nil
}

// Render prints the four lists and the two-part insight in the exact text
// shape the response formatter expects.
func (r *StandardResult) Render(currentYear int) string {
	var b strings.Builder

	writeList(&b, fmt.Sprintf("A. Successful Players (%d)", currentYear), r.Success)
	writeList(&b, fmt.Sprintf("B. Failed Players (%d)", currentYear), r.Failure)
	writeList(&b, "C. Improved Players", r.Improved)
	writeList(&b, "D. Worsened Players", r.Worsened)

	phrase := r.TopicPhrase
	if phrase == "" {
		phrase = fmt.Sprintf("meet heuristic %s", r.HeuristicID)
	}
	b.WriteString("\nE. Insight\n")
	b.WriteString("POSITIVE:\n")
	fmt.Fprintf(&b, "%d of %d e-commerces %s.\n", len(r.Success), r.TotalEligible, phrase)
	b.WriteString("\nNEGATIVE:\n")
	fmt.Fprintf(&b, "%d of %d e-commerces do not %s.\n", len(r.Failure), r.TotalEligible, phrase)

	return b.String()
}

// writeList prints a header with the item count and one "- name" line per
// entry, matching the print_player_list contract of generated programs.
func writeList(b *strings.Builder, title string, names []string) {
	fmt.Fprintf(b, "\n%s [%d]\n", title, len(names))
	for _, name := range names {
		fmt.Fprintf(b, "- %s\n", name)
	}
}

func dedupeSorted(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
