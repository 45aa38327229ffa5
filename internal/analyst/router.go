package analyst

import "strings"

// Analysis modes. The synthesis model picks the mode from the routing
// rules in its system instruction; GuessMode mirrors those rules host-side
// so history records carry a mode label.
const (
	ModeStandard    = "standard"
	ModeCustom      = "custom"
	ModeQualitative = "qualitative"
)

var qualitativeMarkers = []string{
	"note", "notes", "evidence", "comment", "comments", "observation",
	"anotacao", "anotacoes", "anotação", "anotações", "nota", "notas",
	"evidencia", "evidencias", "evidência", "evidências", "comentario",
	"comentarios", "comentário", "comentários",
}

var customMarkers = []string{
	"journey", "journeys", "department", "departments", "how many",
	"count", "average", "per player", "across", "only the", "filter",
	"jornada", "jornadas", "departamento", "departamentos", "quantos",
	"quantas", "media", "média", "por player",
}

// GuessMode classifies a question the way the routing rules do: notes and
// evidence questions are qualitative, questions with journey, department,
// counting or cross-field filters are custom, everything else (including
// anything ambiguous) is standard.
func GuessMode(question string) string {
	q := " " + strings.ToLower(strings.TrimSpace(question)) + " "

	for _, marker := range qualitativeMarkers {
		if containsWord(q, marker) {
			return ModeQualitative
		}
	}
	for _, marker := range customMarkers {
		if containsWord(q, marker) {
			return ModeCustom
		}
	}
	return ModeStandard
}

// containsWord matches marker as a whole word so "note" does not fire on
// "denoted". Multi-word markers match as plain substrings.
func containsWord(q, marker string) bool {
	if strings.Contains(marker, " ") {
		return strings.Contains(q, marker)
	}
	idx := 0
	for {
		i := strings.Index(q[idx:], marker)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(marker)
		if isBoundary(q[start-1]) && end < len(q) && isBoundary(q[end]) {
			return true
		}
		idx = start + 1
	}
}

func isBoundary(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return false
	case b >= '0' && b <= '9':
		return false
	}
	return true
}
