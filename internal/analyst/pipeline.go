// Package analyst runs the question pipeline: synthesize an analysis
// program, execute it in the sandbox against the staged datasets, and
// format its output into the final answer.
package analyst

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"marie/internal/llm"
	"marie/internal/logging"
	"marie/internal/project"
	"marie/internal/prompt"
	"marie/internal/sandbox"
	"marie/internal/store"
	"marie/internal/usage"
)

// Sampling temperatures of the two LLM calls.
const (
	synthesisTemperature  float32 = 0.1
	formattingTemperature float32 = 0.3
)

// closingCTA ends every answer; the formatter is told to append it but
// models forget, so the pipeline guarantees it.
const closingCTA = "To analyze another heuristic, start a new analysis below."

// ErrBusy is returned when a question arrives while another is in flight.
var ErrBusy = errors.New("analysis already running, wait for it to finish")

// ErrNotAProgram is returned when the synthesis response does not look
// like code. User-facing; asks for a rephrase.
var ErrNotAProgram = errors.New("could not turn that question into an analysis, please rephrase it")

// ErrFormatting is returned when the second LLM call fails. The outcome
// still carries the program and its raw output.
var ErrFormatting = errors.New("critical processing error while formatting the analysis")

// Outcome is one completed pipeline run.
type Outcome struct {
	RequestID string
	Question  string
	Mode      string
	Program   string
	RawOutput string
	Answer    string
	Duration  time.Duration
}

// Pipeline wires one session's LLM client, sandbox and prompt builder.
// Runs are serialized; a second concurrent Ask fails fast with ErrBusy.
type Pipeline struct {
	client   llm.Client
	executor *sandbox.Executor
	builder  *prompt.Builder
	sem      *semaphore.Weighted

	proj     project.Project
	datasets *project.Datasets

	// Optional sinks.
	tracker   *usage.Tracker
	history   *store.Store
	progress  func(stage string)
	sessionID string
}

// Progress stages reported to the UI while a question runs.
const (
	StageSynthesizing = "synthesizing"
	StageExecuting    = "executing"
	StageFormatting   = "formatting"
)

// NewPipeline creates a pipeline for one project session.
func NewPipeline(client llm.Client, executor *sandbox.Executor, builder *prompt.Builder, proj project.Project, datasets *project.Datasets) *Pipeline {
	executor.SetYearKeys(proj.CurrentYearKey(), proj.PreviousYearKey())
	return &Pipeline{
		client:    client,
		executor:  executor,
		builder:   builder,
		sem:       semaphore.NewWeighted(1),
		proj:      proj,
		datasets:  datasets,
		sessionID: uuid.NewString(),
	}
}

// SessionID identifies this pipeline's chat session.
func (p *Pipeline) SessionID() string {
	return p.sessionID
}

// WithTracker attaches a token usage tracker.
func (p *Pipeline) WithTracker(t *usage.Tracker) *Pipeline {
	p.tracker = t
	return p
}

// WithHistory attaches the history store and records the session.
func (p *Pipeline) WithHistory(s *store.Store) *Pipeline {
	p.history = s
	provider, model, _ := strings.Cut(p.client.Name(), ":")
	if model == "" {
		model = provider
	}
	if err := s.CreateSession(store.Session{
		ID:       p.sessionID,
		Project:  p.proj.Slug,
		Provider: provider,
		Model:    model,
	}); err != nil {
		logging.SessionError("failed to record session: %v", err)
	}
	return p
}

// WithProgress registers a callback invoked as the pipeline moves
// between stages. Called from the pipeline goroutine.
func (p *Pipeline) WithProgress(fn func(stage string)) *Pipeline {
	p.progress = fn
	return p
}

func (p *Pipeline) reportStage(stage string) {
	if p.progress != nil {
		p.progress(stage)
	}
}

// SetDatasets swaps the datasets between questions (reload path).
func (p *Pipeline) SetDatasets(datasets *project.Datasets) {
	p.datasets = datasets
}

// Ask runs the full pipeline for one question. Errors are user-facing:
// ErrBusy, ErrNotAProgram and wrapped transport failures abort before the
// sandbox; ErrFormatting aborts after, with the outcome still populated.
func (p *Pipeline) Ask(ctx context.Context, question string) (*Outcome, error) {
	if !p.sem.TryAcquire(1) {
		return nil, ErrBusy
	}
	defer p.sem.Release(1)

	start := time.Now()
	out := &Outcome{
		RequestID: uuid.NewString(),
		Question:  question,
		Mode:      GuessMode(question),
	}
	rlog := logging.WithRequestID(logging.CategorySession, out.RequestID)
	rlog.Info("question received (mode guess %s): %s", out.Mode, question)
	logging.Router("mode guess for %q: %s", question, out.Mode)

	p.reportStage(StageSynthesizing)
	program, err := p.synthesize(ctx, question)
	if err != nil {
		p.record(out, time.Since(start), err)
		return nil, err
	}
	out.Program = program

	if err := p.stage(); err != nil {
		p.record(out, time.Since(start), err)
		return nil, fmt.Errorf("failed to prepare analysis data: %w", err)
	}

	p.reportStage(StageExecuting)
	res := p.executor.Run(ctx, program)
	out.RawOutput = res.Combined
	rlog.Info("program ran in %s (%d bytes output)", res.Duration, len(res.Combined))

	p.reportStage(StageFormatting)
	answer, err := p.respond(ctx, question, res.Combined)
	out.Duration = time.Since(start)
	if err != nil {
		rlog.Error("formatting failed: %v", err)
		p.record(out, out.Duration, ErrFormatting)
		return out, ErrFormatting
	}
	out.Answer = answer

	if p.tracker != nil {
		p.tracker.TrackAnalysis()
	}
	p.record(out, out.Duration, nil)
	rlog.Info("analysis complete in %s", out.Duration)
	return out, nil
}

// synthesize runs the first LLM call and post-processes its response into
// a runnable program.
func (p *Pipeline) synthesize(ctx context.Context, question string) (string, error) {
	raw, err := p.client.CompleteWithSystem(ctx,
		p.builder.SystemInstruction(),
		p.builder.SynthesisUserMessage(question),
		synthesisTemperature)
	if err != nil {
		logging.APIError("synthesis call failed: %v", err)
		return "", fmt.Errorf("could not generate an analysis, please try again: %w", err)
	}
	p.track(usage.StageSynthesis)

	program := SanitizeProgram(raw)
	if !LooksLikeProgram(program) {
		logging.APIError("synthesis response is not a program (%d bytes)", len(raw))
		return "", ErrNotAProgram
	}
	return program, nil
}

// stage (re)writes both dataset files; content may have been reloaded
// since the previous question.
func (p *Pipeline) stage() error {
	if err := p.executor.Stage(sandbox.HeuristicsFilename, p.datasets.HeuristicsJSON); err != nil {
		return err
	}
	return p.executor.Stage(sandbox.ResultsFilename, p.datasets.ResultsJSON)
}

// respond runs the second LLM call and guarantees the closing
// call-to-action.
func (p *Pipeline) respond(ctx context.Context, question, rawOutput string) (string, error) {
	answer, err := p.client.CompleteWithSystem(ctx,
		p.builder.FormatterSystemPrompt(),
		p.builder.FormatterUserMessage(question, rawOutput),
		formattingTemperature)
	if err != nil {
		return "", err
	}
	p.track(usage.StageFormatting)

	answer = strings.TrimSpace(answer)
	if !strings.Contains(answer, closingCTA) {
		answer += "\n\n---\n\n" + closingCTA
	}
	return answer, nil
}

func (p *Pipeline) track(stage string) {
	if p.tracker == nil {
		return
	}
	u := p.client.LastUsage()
	provider, model, _ := strings.Cut(p.client.Name(), ":")
	if model == "" {
		model = provider
	}
	p.tracker.Track(provider, model, stage, p.sessionID, u.Prompt, u.Completion)
}

func (p *Pipeline) record(out *Outcome, duration time.Duration, runErr error) {
	if p.history == nil {
		return
	}
	rec := store.Analysis{
		ID:         out.RequestID,
		SessionID:  p.sessionID,
		Question:   out.Question,
		Mode:       out.Mode,
		Program:    out.Program,
		RawOutput:  out.RawOutput,
		Answer:     out.Answer,
		DurationMS: duration.Milliseconds(),
	}
	if runErr != nil {
		rec.Error = runErr.Error()
	}
	if err := p.history.RecordAnalysis(rec); err != nil {
		logging.SessionError("failed to record analysis: %v", err)
	}
}
