// Package sandbox runs LLM-generated analysis programs in an embedded Go
// interpreter against the two staged dataset files. Programs are stdlib-only
// by contract; an import whitelist rejects anything that could reach the
// network or spawn processes.
package sandbox

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"marie/internal/logging"
)

const (
	// HeuristicsFilename and ResultsFilename are the fixed names generated
	// programs read.
	HeuristicsFilename = "heuristicas.json"
	ResultsFilename    = "resultados.json"

	// Env vars handing the staged file paths and year keys to the program.
	EnvHeuristicsFile  = "MARIE_HEURISTICS_FILE"
	EnvResultsFile     = "MARIE_RESULTS_FILE"
	EnvCurrentYearKey  = "MARIE_CURRENT_YEAR_KEY"
	EnvPreviousYearKey = "MARIE_PREVIOUS_YEAR_KEY"

	// DefaultTimeout bounds one program run.
	DefaultTimeout = 30 * time.Second

	// entryPoint replaces the program's main so execution happens exactly
	// once, under the executor's control.
	entryPoint = "__marieMain"
)

// allowedImports is the stdlib whitelist for generated programs.
// os is allowed (programs read the staged files); os/exec, net, syscall,
// unsafe and friends are not on the list and therefore rejected.
var allowedImports = map[string]bool{
	"bytes":         true,
	"encoding/json": true,
	"errors":        true,
	"fmt":           true,
	"math":          true,
	"os":            true,
	"path":          true,
	"path/filepath": true,
	"regexp":        true,
	"sort":          true,
	"strconv":       true,
	"strings":       true,
	"time":          true,
	"unicode":       true,
	"unicode/utf8":  true,
}

// Result is the outcome of one program run.
type Result struct {
	Stdout string
	Stderr string

	// Combined is stdout plus stderr lines prefixed "ERROR: ", plus a
	// trailing "CRITICAL SANDBOX ERROR:" line when Err is set. This is
	// what the response formatter sees.
	Combined string

	// Err is the evaluation failure, if any. It is informational: a
	// failed program run is not a pipeline failure.
	Err error

	Duration time.Duration
}

// Executor stages dataset files and runs programs. Runs are serialized; a
// fresh interpreter is created per run so programs cannot observe each
// other.
type Executor struct {
	mu      sync.Mutex
	dir     string
	timeout time.Duration

	currentYearKey  string
	previousYearKey string
}

// NewExecutor creates an executor with a private staging directory.
func NewExecutor(timeout time.Duration) (*Executor, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	dir, err := os.MkdirTemp("", "marie-sandbox-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create sandbox dir: %w", err)
	}
	return &Executor{dir: dir, timeout: timeout}, nil
}

// SetYearKeys configures the edition keys exposed to programs.
func (e *Executor) SetYearKeys(current, previous string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.currentYearKey = current
	e.previousYearKey = previous
}

// Stage writes a dataset file into the staging directory, overwriting any
// previous content. Filenames must be bare names.
func (e *Executor) Stage(filename string, jsonText []byte) error {
	if filename == "" || filename != filepath.Base(filename) {
		return fmt.Errorf("invalid staged filename %q", filename)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	path := filepath.Join(e.dir, filename)
	if err := os.WriteFile(path, jsonText, 0644); err != nil {
		return fmt.Errorf("failed to stage %s: %w", filename, err)
	}
	logging.SandboxDebug("staged %s (%d bytes)", filename, len(jsonText))
	return nil
}

// Run evaluates a generated program. Evaluation failures (bad code,
// panics, timeouts) land in Result.Combined as a trailing critical-error
// line rather than failing the call; only the whitelist violation is also
// reported through Result.Err for logging.
func (e *Executor) Run(ctx context.Context, program string) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	timer := logging.StartTimer(logging.CategorySandbox, "program run")
	start := time.Now()

	var res Result
	defer func() {
		res.Duration = time.Since(start)
		timer.Stop()
	}()

	if err := validateImports(program); err != nil {
		logging.SandboxError("program rejected: %v", err)
		res.Err = err
		res.Combined = criticalLine(err)
		return res
	}

	e.setEnv()

	var stdout, stderr bytes.Buffer
	i := interp.New(interp.Options{Stdout: &stdout, Stderr: &stderr})
	if err := i.Use(stdlib.Symbols); err != nil {
		res.Err = fmt.Errorf("failed to load stdlib symbols: %w", err)
		res.Combined = criticalLine(res.Err)
		return res
	}

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	err := evalProgram(runCtx, i, renameMain(program))

	res.Stdout = stdout.String()
	res.Stderr = stderr.String()
	res.Err = err
	res.Combined = combineOutput(res.Stdout, res.Stderr, err)

	if err != nil {
		logging.SandboxError("program failed: %v", err)
	} else {
		logging.SandboxDebug("program ok: %d bytes stdout, %d bytes stderr", len(res.Stdout), len(res.Stderr))
	}
	return res
}

// Close removes the staging directory.
func (e *Executor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return os.RemoveAll(e.dir)
}

// setEnv publishes the staged paths and year keys. The interpreter shares
// the host process environment, so generated programs read these with
// plain os.Getenv. Callers are serialized by e.mu.
func (e *Executor) setEnv() {
	os.Setenv(EnvHeuristicsFile, filepath.Join(e.dir, HeuristicsFilename))
	os.Setenv(EnvResultsFile, filepath.Join(e.dir, ResultsFilename))
	if e.currentYearKey != "" {
		os.Setenv(EnvCurrentYearKey, e.currentYearKey)
	}
	if e.previousYearKey != "" {
		os.Setenv(EnvPreviousYearKey, e.previousYearKey)
	}
}

// evalProgram evaluates the declarations, then invokes the renamed entry
// point. Interpreter panics are converted to errors.
func evalProgram(ctx context.Context, i *interp.Interpreter, program string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("program panicked: %v", r)
		}
	}()

	if _, err := i.EvalWithContext(ctx, program); err != nil {
		return fmt.Errorf("program did not compile: %w", err)
	}
	if _, err := i.EvalWithContext(ctx, entryPoint+"()"); err != nil {
		return fmt.Errorf("program failed: %w", err)
	}
	return nil
}

// renameMain turns func main into the executor's entry point so defining
// the program and running it are two separate, single-shot steps.
func renameMain(program string) string {
	return strings.Replace(program, "func main(", "func "+entryPoint+"(", 1)
}

// validateImports textually scans import statements against the whitelist.
// The interpreter would reject unknown packages anyway; checking up front
// yields a clear message naming the offending import.
func validateImports(program string) error {
	var forbidden []string
	check := func(pkg string) {
		if pkg != "" && !allowedImports[pkg] {
			forbidden = append(forbidden, pkg)
		}
	}

	inBlock := false
	for _, line := range strings.Split(program, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "import ("):
			// The group may open and close on one line, as in
			// import ("fmt"); only then does the rest of the program
			// stay outside the block.
			rest := strings.TrimPrefix(trimmed, "import (")
			if idx := strings.Index(rest, ")"); idx >= 0 {
				for _, pkg := range importPaths(rest[:idx]) {
					check(pkg)
				}
			} else {
				check(importPath(rest))
				inBlock = true
			}
			continue
		case inBlock && strings.HasPrefix(trimmed, ")"):
			inBlock = false
			continue
		}

		if inBlock {
			check(importPath(trimmed))
		} else if strings.HasPrefix(trimmed, "import ") {
			check(importPath(strings.TrimPrefix(trimmed, "import ")))
		}
	}
	if len(forbidden) > 0 {
		return fmt.Errorf("forbidden imports: %s", strings.Join(forbidden, ", "))
	}
	return nil
}

// importPaths extracts every quoted path from a one-line import group.
func importPaths(s string) []string {
	var paths []string
	for {
		pkg := importPath(s)
		if pkg == "" {
			return paths
		}
		paths = append(paths, pkg)
		s = s[strings.Index(s, `"`)+len(pkg)+2:]
	}
}

// importPath extracts the quoted path from an import line, tolerating
// aliased imports and trailing comments.
func importPath(line string) string {
	first := strings.Index(line, `"`)
	if first < 0 {
		return ""
	}
	rest := line[first+1:]
	second := strings.Index(rest, `"`)
	if second < 0 {
		return ""
	}
	return rest[:second]
}

func combineOutput(stdout, stderr string, err error) string {
	var b strings.Builder
	b.WriteString(stdout)
	for _, line := range strings.Split(stderr, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString("ERROR: ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	if err != nil {
		if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
			b.WriteString("\n")
		}
		b.WriteString(criticalLine(err))
	}
	return b.String()
}

func criticalLine(err error) string {
	return fmt.Sprintf("CRITICAL SANDBOX ERROR: %v\n", err)
}
