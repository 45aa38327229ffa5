package benchmark

import (
	"fmt"
	"strings"
)

// ExcludedDepartment is filtered out of every analysis. Finance players are
// part of the raw study export but out of scope for the benchmark reports.
const ExcludedDepartment = "finance"

// Heuristic is one catalog entry. The catalog arrives as loosely typed JSON
// and keeps legacy field spellings, so entries stay as raw maps with
// accessors rather than a rigid struct.
type Heuristic map[string]interface{}

// ID returns the dotted heuristic id (the catalog calls it heuristicNumber).
func (h Heuristic) ID() string {
	return stringField(h, "heuristicNumber")
}

// Name returns the heuristic's short name.
func (h Heuristic) Name() string {
	return stringField(h, "name")
}

// Question returns the full benchmark question text.
func (h Heuristic) Question() string {
	return stringField(h, "question")
}

// SuccessRule returns the catalog's success rule, defaulting to "=5" when
// the entry lacks one.
func (h Heuristic) SuccessRule() string {
	if rule := stringField(h, "success"); rule != "" {
		return rule
	}
	return "=5"
}

// Player is one evaluated entity within one edition.
type Player map[string]interface{}

// Name returns the player's display name, or "Unknown Player" when absent.
func (p Player) Name() string {
	name := stringField(p, "name")
	if name == "" {
		return "Unknown Player"
	}
	return name
}

// Slug returns the stable identity key used to match a player across years.
func (p Player) Slug() string {
	return stringField(p, "slug")
}

// DepartmentSlug returns departmentObj.departmentSlug, or "" when absent.
func (p Player) DepartmentSlug() string {
	dept, ok := p["departmentObj"].(map[string]interface{})
	if !ok {
		return ""
	}
	return stringField(dept, "departmentSlug")
}

// Normalized is the canonical triple extracted from the two raw documents.
type Normalized struct {
	Heuristics []Heuristic
	Current    []Player
	Previous   []Player

	// Diagnostics collects shape problems encountered during extraction.
	// Malformed input degrades to empty lists; it never fails.
	Diagnostics []string
}

// HeuristicByID finds the catalog entry whose id equals the given dotted id.
func (n *Normalized) HeuristicByID(id string) (Heuristic, bool) {
	for _, h := range n.Heuristics {
		if h.ID() == id {
			return h, true
		}
	}
	return nil, false
}

// Normalize extracts the canonical (heuristics, current, previous) triple
// from the two raw JSON documents, tolerating the legacy shapes the study
// exports have gone through.
//
// Heuristics are looked for at root.data.heuristics, then root.heuristics,
// then the root itself when it is already a list. Players are looked for at
// root.editions[<yearKey>].players for both editions, then root.players
// (current edition only), then root.data when it is a list (current only).
// After extraction both player lists unconditionally drop the excluded
// finance department.
func Normalize(heuristicsRaw, resultsRaw interface{}, currentKey, previousKey string) Normalized {
	var n Normalized

	n.Heuristics = extractHeuristics(heuristicsRaw, &n.Diagnostics)
	n.Current, n.Previous = extractPlayers(resultsRaw, currentKey, previousKey, &n.Diagnostics)

	n.Current = dropDepartment(n.Current, ExcludedDepartment)
	n.Previous = dropDepartment(n.Previous, ExcludedDepartment)

	return n
}

func extractHeuristics(raw interface{}, diags *[]string) []Heuristic {
	switch root := raw.(type) {
	case map[string]interface{}:
		if data, ok := root["data"].(map[string]interface{}); ok {
			if list, ok := data["heuristics"].([]interface{}); ok {
				return toHeuristics(list, diags)
			}
		}
		if list, ok := root["heuristics"].([]interface{}); ok {
			return toHeuristics(list, diags)
		}
		*diags = append(*diags, "heuristics document: no data.heuristics, heuristics or root list found")
		return nil
	case []interface{}:
		return toHeuristics(root, diags)
	case nil:
		*diags = append(*diags, "heuristics document: empty")
		return nil
	}
	*diags = append(*diags, fmt.Sprintf("heuristics document: unexpected root type %T", raw))
	return nil
}

func extractPlayers(raw interface{}, currentKey, previousKey string, diags *[]string) (current, previous []Player) {
	root, ok := raw.(map[string]interface{})
	if !ok {
		if list, ok := raw.([]interface{}); ok {
			return toPlayers(list, diags), nil
		}
		*diags = append(*diags, fmt.Sprintf("results document: unexpected root type %T", raw))
		return nil, nil
	}

	if editions, ok := root["editions"].(map[string]interface{}); ok {
		current = editionPlayers(editions, currentKey, diags)
		previous = editionPlayers(editions, previousKey, diags)
		return current, previous
	}
	if list, ok := root["players"].([]interface{}); ok {
		return toPlayers(list, diags), nil
	}
	if list, ok := root["data"].([]interface{}); ok {
		return toPlayers(list, diags), nil
	}
	*diags = append(*diags, "results document: no editions, players or data list found")
	return nil, nil
}

func editionPlayers(editions map[string]interface{}, yearKey string, diags *[]string) []Player {
	edition, ok := editions[yearKey].(map[string]interface{})
	if !ok {
		*diags = append(*diags, fmt.Sprintf("results document: edition %q missing", yearKey))
		return nil
	}
	list, ok := edition["players"].([]interface{})
	if !ok {
		*diags = append(*diags, fmt.Sprintf("results document: edition %q has no players list", yearKey))
		return nil
	}
	return toPlayers(list, diags)
}

func toHeuristics(list []interface{}, diags *[]string) []Heuristic {
	out := make([]Heuristic, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, Heuristic(m))
		} else {
			*diags = append(*diags, fmt.Sprintf("heuristics document: skipped non-object entry %T", item))
		}
	}
	return out
}

func toPlayers(list []interface{}, diags *[]string) []Player {
	out := make([]Player, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, Player(m))
		} else {
			*diags = append(*diags, fmt.Sprintf("results document: skipped non-object entry %T", item))
		}
	}
	return out
}

func dropDepartment(players []Player, slug string) []Player {
	out := make([]Player, 0, len(players))
	for _, p := range players {
		if p.DepartmentSlug() == slug {
			continue
		}
		out = append(out, p)
	}
	return out
}

func stringField(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		// Numeric ids show up as numbers in some exports.
		return trimFloat(v)
	}
	return ""
}

func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}
