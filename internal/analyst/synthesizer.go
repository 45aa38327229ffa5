package analyst

import "strings"

// SanitizeProgram strips the markdown fences models wrap code in despite
// being told not to, and trims surrounding whitespace.
func SanitizeProgram(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		if idx := strings.Index(text, "\n"); idx >= 0 {
			text = text[idx+1:]
		} else {
			text = ""
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}
	return text
}

// LooksLikeProgram reports whether the synthesis response resembles a Go
// program rather than prose. Cheap textual signals only; the sandbox is
// the real judge.
func LooksLikeProgram(text string) bool {
	if text == "" {
		return false
	}
	signals := []string{
		"package main",
		"func main(",
		"import (",
		"heuristicas.json",
		"resultados.json",
	}
	for _, s := range signals {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}
