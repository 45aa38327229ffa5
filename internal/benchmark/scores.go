package benchmark

// ScoresForHeuristic gathers every numeric score a player received for the
// given heuristic across all non-suppressed journeys. A journey is
// suppressed when its ignore_journey or zeroed_journey flag is true, which
// drops every score it carries.
func ScoresForHeuristic(p Player, heuristicID string) []float64 {
	var found []float64
	key := "h_" + heuristicID

	journeys, ok := p["scores"].(map[string]interface{})
	if !ok {
		return nil
	}

	for _, raw := range journeys {
		journey, ok := raw.(map[string]interface{})
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
		if score, ok := asFloat(cell["scoreValue"]); ok {
			found = append(found, score)
		}
	}
	return found
}

// PlayerBySlug finds a player by slug within a list, or nil.
func PlayerBySlug(slug string, players []Player) Player {
	if slug == "" {
		return nil
	}
	for _, p := range players {
		if p.Slug() == slug {
			return p
		}
	}
	return nil
}

// Succeeds reports whether a player passes the rule for a heuristic: the
// player must be eligible (at least one gathered score) and ALL gathered
// scores must satisfy the rule. A player scored 5 on web but 3 on app has
// not met the benchmark.
func Succeeds(p Player, heuristicID, rule string) bool {
	scores := ScoresForHeuristic(p, heuristicID)
	if len(scores) == 0 {
		return false
	}
	for _, s := range scores {
		if !CheckSuccessValue(s, rule) {
			return false
		}
	}
	return true
}

// Eligible reports whether the player has at least one non-suppressed
// numeric score for the heuristic. Ineligible players are excluded from
// both the success and failure tallies.
func Eligible(p Player, heuristicID string) bool {
	return len(ScoresForHeuristic(p, heuristicID)) > 0
}
