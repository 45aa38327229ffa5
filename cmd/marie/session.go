package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"marie/internal/analyst"
	"marie/internal/benchmark"
	"marie/internal/config"
	"marie/internal/llm"
	"marie/internal/logging"
	"marie/internal/project"
	"marie/internal/prompt"
	"marie/internal/sandbox"
	"marie/internal/store"
	"marie/internal/usage"
)

// session bundles everything one analysis session needs: the resolved
// project, its datasets, and a ready pipeline.
type session struct {
	cfg      *config.Config
	catalog  project.Catalog
	project  project.Project
	pipeline *analyst.Pipeline
	executor *sandbox.Executor
	builder  *prompt.Builder
	loader   *project.Loader
	tracker  *usage.Tracker
	history  *store.Store
	watcher  *benchmark.TopicWatcher
}

// newSession loads config, resolves the project, fetches both datasets
// and wires the pipeline. slug beats config.DefaultProject beats the
// catalog's first entry.
func newSession(ctx context.Context, slug string) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	dataDir, err := config.DataDir()
	if err != nil {
		return nil, err
	}
	if err := logging.Initialize(dataDir); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	logging.Boot("session starting (project flag %q)", slug)

	catalog, err := project.LoadCatalog(filepath.Join(dataDir, "projects.yaml"))
	if err != nil {
		return nil, err
	}
	proj := catalog.Default()
	if slug == "" {
		slug = cfg.DefaultProject
	}
	if slug != "" {
		p, ok := catalog.BySlug(slug)
		if !ok {
			return nil, fmt.Errorf("unknown project %q, run 'marie projects' to list them", slug)
		}
		proj = p
	}

	client, err := llm.NewClient(ctx, llm.Options{
		Provider:      llm.Provider(cfg.Provider),
		GeminiAPIKey:  cfg.GeminiAPIKey,
		GeminiModel:   cfg.GeminiModel,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
	})
	if err != nil {
		return nil, err
	}

	loader := project.NewLoader()
	datasets, err := loader.Load(ctx, proj)
	if err != nil {
		return nil, err
	}

	executor, err := sandbox.NewExecutor(time.Duration(cfg.SandboxTimeoutSeconds) * time.Second)
	if err != nil {
		return nil, err
	}

	topics, topicsPath := loadTopics(dataDir)
	builder := prompt.NewBuilder(topics, proj.Year, proj.PreviousYear)

	s := &session{
		cfg:      cfg,
		catalog:  catalog,
		project:  proj,
		executor: executor,
		builder:  builder,
		loader:   loader,
	}

	if topicsPath != "" {
		watcher, err := benchmark.WatchTopics(topicsPath, builder.SetTopics)
		if err != nil {
			logging.BootError("topic watcher unavailable: %v", err)
		} else {
			s.watcher = watcher
		}
	}

	s.pipeline = analyst.NewPipeline(client, executor, builder, proj, datasets)

	if tracker, err := usage.NewTracker(dataDir); err == nil {
		s.tracker = tracker
		s.pipeline.WithTracker(tracker)
	} else {
		logging.BootError("usage tracker unavailable: %v", err)
	}
	if history, err := store.NewStore(dataDir); err == nil {
		s.history = history
		s.pipeline.WithHistory(history)
	} else {
		logging.BootError("history store unavailable: %v", err)
	}

	logging.Boot("session ready: project %s, provider %s", proj.Slug, client.Name())
	return s, nil
}

// loadTopics prefers an override file in the data directory over the
// embedded map. The returned path is empty when the embedded map is used
// (nothing to watch).
func loadTopics(dataDir string) (benchmark.TopicMap, string) {
	path := filepath.Join(dataDir, "topics.yaml")
	if _, err := os.Stat(path); err != nil {
		return benchmark.DefaultTopics(), ""
	}
	topics, err := benchmark.LoadTopics(path)
	if err != nil {
		logging.BootError("topics override unreadable, using embedded map: %v", err)
		return benchmark.DefaultTopics(), ""
	}
	return topics, path
}

// reload re-fetches both datasets between questions.
func (s *session) reload(ctx context.Context) error {
	datasets, err := s.loader.Load(ctx, s.project)
	if err != nil {
		return err
	}
	s.pipeline.SetDatasets(datasets)
	return nil
}

func (s *session) close() {
	if s.watcher != nil {
		s.watcher.Close()
	}
	if s.tracker != nil {
		if err := s.tracker.Save(); err != nil {
			logging.SessionError("failed to save usage: %v", err)
		}
	}
	if s.history != nil {
		s.history.Close()
	}
	s.executor.Close()
	logging.CloseAll()
}
