package sandbox

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestExecutor(t *testing.T) *Executor {
	t.Helper()
	e, err := NewExecutor(DefaultTimeout)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func TestRun_CapturesStdout(t *testing.T) {
	e := newTestExecutor(t)

	res := e.Run(context.Background(), `package main

import "fmt"

func main() {
	fmt.Println("line one")
	fmt.Println("line two")
}
`)

	require.NoError(t, res.Err)
	assert.Equal(t, "line one\nline two\n", res.Stdout)
	assert.Equal(t, res.Stdout, res.Combined)
}

func TestRun_StderrLinesPrefixed(t *testing.T) {
	e := newTestExecutor(t)

	res := e.Run(context.Background(), `package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("ok")
	fmt.Fprintln(os.Stderr, "something odd")
}
`)

	require.NoError(t, res.Err)
	assert.Contains(t, res.Combined, "ok\n")
	assert.Contains(t, res.Combined, "ERROR: something odd")
}

func TestRun_PanicBecomesCriticalLine(t *testing.T) {
	e := newTestExecutor(t)

	res := e.Run(context.Background(), `package main

import "fmt"

func main() {
	fmt.Println("before the crash")
	var m map[string]int
	m["boom"] = 1
}
`)

	require.Error(t, res.Err)
	assert.Contains(t, res.Combined, "before the crash")
	assert.Contains(t, res.Combined, "CRITICAL SANDBOX ERROR:")
}

func TestRun_BrokenProgramBecomesCriticalLine(t *testing.T) {
	e := newTestExecutor(t)

	res := e.Run(context.Background(), "package main\n\nfunc main() { this is not go }\n")

	require.Error(t, res.Err)
	assert.Contains(t, res.Combined, "CRITICAL SANDBOX ERROR:")
}

func TestRun_ForbiddenImportsRejected(t *testing.T) {
	e := newTestExecutor(t)

	tests := []struct {
		name    string
		program string
		pkg     string
	}{
		{"net/http single import", "package main\n\nimport \"net/http\"\n\nfunc main() { http.Get(\"http://x\") }\n", "net/http"},
		{"os/exec in block", "package main\n\nimport (\n\t\"fmt\"\n\t\"os/exec\"\n)\n\nfunc main() { fmt.Println(exec.Command(\"ls\")) }\n", "os/exec"},
		{"aliased syscall", "package main\n\nimport sys \"syscall\"\n\nfunc main() { _ = sys.Getpid() }\n", "syscall"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Run(context.Background(), tt.program)
			require.Error(t, res.Err)
			assert.Contains(t, res.Err.Error(), tt.pkg)
			assert.Contains(t, res.Combined, "CRITICAL SANDBOX ERROR:")
		})
	}
}

func TestRun_ProgramReadsStagedFiles(t *testing.T) {
	e := newTestExecutor(t)
	require.NoError(t, e.Stage(HeuristicsFilename, []byte(`{"heuristics": [{"heuristicNumber": "3.11"}]}`)))
	require.NoError(t, e.Stage(ResultsFilename, []byte(`{"players": [{"name": "Alpha"}, {"name": "Beta"}]}`)))

	res := e.Run(context.Background(), fmt.Sprintf(`package main

import (
	"encoding/json"
	"fmt"
	"os"
)

func main() {
	data, err := os.ReadFile(os.Getenv(%q))
	if err != nil {
		fmt.Println("read failed:", err)
		return
	}
	var doc map[string]interface{}
	json.Unmarshal(data, &doc)
	players := doc["players"].([]interface{})
	fmt.Printf("players: %%d\n", len(players))
}
`, EnvResultsFile))

	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "players: 2")
}

func TestStage_RejectsPathTraversal(t *testing.T) {
	e := newTestExecutor(t)

	assert.Error(t, e.Stage("../escape.json", []byte("{}")))
	assert.Error(t, e.Stage("a/b.json", []byte("{}")))
	assert.Error(t, e.Stage("", []byte("{}")))
}

func TestStage_OverwritesPreviousContent(t *testing.T) {
	e := newTestExecutor(t)
	require.NoError(t, e.Stage(ResultsFilename, []byte(`{"players": []}`)))
	require.NoError(t, e.Stage(ResultsFilename, []byte(`{"players": [{"name": "Alpha"}]}`)))

	res := e.Run(context.Background(), fmt.Sprintf(`package main

import (
	"fmt"
	"os"
	"strings"
)

func main() {
	data, _ := os.ReadFile(os.Getenv(%q))
	fmt.Println(strings.Contains(string(data), "Alpha"))
}
`, EnvResultsFile))

	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "true")
}

func TestRun_CanceledContext(t *testing.T) {
	e := newTestExecutor(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := e.Run(ctx, "package main\n\nimport \"fmt\"\n\nfunc main() { fmt.Println(\"never\") }\n")
	require.Error(t, res.Err)
	assert.Contains(t, res.Combined, "CRITICAL SANDBOX ERROR:")
}

func TestRun_YearKeysExposed(t *testing.T) {
	e := newTestExecutor(t)
	e.SetYearKeys("year_2026", "year_2025")

	res := e.Run(context.Background(), fmt.Sprintf(`package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println(os.Getenv(%q), os.Getenv(%q))
}
`, EnvCurrentYearKey, EnvPreviousYearKey))

	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "year_2026 year_2025")
}

func TestValidateImports(t *testing.T) {
	assert.NoError(t, validateImports("package main\n\nimport (\n\t\"fmt\"\n\t\"strings\" // helper\n)\n"))
	assert.NoError(t, validateImports("package main\n"))
	assert.Error(t, validateImports("package main\n\nimport \"unsafe\"\n"))
}

func TestValidateImports_SingleLineGroup(t *testing.T) {
	// The whole group on one line must not leave the scan inside an open
	// block, or every quoted string after it gets read as an import path.
	assert.NoError(t, validateImports("package main\n\nimport (\"fmt\")\n\nfunc main() {\n\tfmt.Println(\"hello\")\n}\n"))
	assert.NoError(t, validateImports("package main\n\nimport (\"fmt\"; \"strings\")\n\nfunc main() {\n\tfmt.Println(strings.ToUpper(\"hi\"))\n}\n"))
	assert.Error(t, validateImports("package main\n\nimport (\"fmt\"; \"net/http\")\n\nfunc main() {}\n"))
}

func TestRun_SingleLineImportGroup(t *testing.T) {
	e := newTestExecutor(t)

	res := e.Run(context.Background(), `package main

import ("fmt")

func main() {
	fmt.Println("hello")
}
`)

	require.NoError(t, res.Err)
	assert.Equal(t, "hello\n", res.Stdout)
}

func TestExecutorRunsAreSerialized(t *testing.T) {
	e := newTestExecutor(t)

	done := make(chan string, 2)
	program := `package main

import "fmt"

func main() {
	fmt.Println("ran")
}
`
	for i := 0; i < 2; i++ {
		go func() {
			res := e.Run(context.Background(), program)
			done <- res.Stdout
		}()
	}

	for i := 0; i < 2; i++ {
		select {
		case out := <-done:
			assert.Equal(t, "ran\n", out)
		case <-time.After(10 * time.Second):
			t.Fatal("run did not complete")
		}
	}
}
