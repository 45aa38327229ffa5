package analyst

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeProgram(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "package main\n\nfunc main() {}", "package main\n\nfunc main() {}"},
		{"go fence", "```go\npackage main\n\nfunc main() {}\n```", "package main\n\nfunc main() {}"},
		{"bare fence", "```\npackage main\n```", "package main"},
		{"surrounding whitespace", "\n\n  package main  \n\n", "package main"},
		{"fence only", "```", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SanitizeProgram(tc.in))
		})
	}
}

func TestLooksLikeProgram(t *testing.T) {
	assert.True(t, LooksLikeProgram("package main\n\nfunc main() {}"))
	assert.True(t, LooksLikeProgram(`data := readJSON("resultados.json")`))
	assert.True(t, LooksLikeProgram("import (\n\t\"fmt\"\n)"))

	assert.False(t, LooksLikeProgram(""))
	assert.False(t, LooksLikeProgram("I'm sorry, I cannot answer that question."))
	assert.False(t, LooksLikeProgram("Here is an explanation of the heuristic."))
}
