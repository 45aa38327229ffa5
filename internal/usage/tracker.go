// Package usage records token consumption per analysis, broken down by
// provider, model, pipeline stage, and session, and persists the
// aggregates to usage.json in the marie data directory.
package usage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"marie/internal/logging"
)

// Pipeline stages tracked separately. Synthesis writes the analysis
// program, formatting turns its output into the final answer.
const (
	StageSynthesis  = "synthesis"
	StageFormatting = "formatting"
)

// TokenCounts holds input/output sums.
type TokenCounts struct {
	Input  int64 `json:"input"`
	Output int64 `json:"output"`
	Total  int64 `json:"total"`
}

func (tc *TokenCounts) Add(input, output int) {
	tc.Input += int64(input)
	tc.Output += int64(output)
	tc.Total += int64(input + output)
}

// Stats holds counters broken down by various dimensions.
type Stats struct {
	Total      TokenCounts            `json:"total"`
	Analyses   int64                  `json:"analyses"`
	ByProvider map[string]TokenCounts `json:"by_provider"`
	ByModel    map[string]TokenCounts `json:"by_model"`
	ByStage    map[string]TokenCounts `json:"by_stage"`
	BySession  map[string]TokenCounts `json:"by_session"`
}

type usageFile struct {
	Version   string    `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
	Aggregate Stats     `json:"aggregate"`
}

// Tracker manages token usage recording and persistence.
type Tracker struct {
	mu       sync.Mutex
	data     usageFile
	filePath string
	dirty    bool
}

// NewTracker creates a usage tracker persisting under dataDir.
func NewTracker(dataDir string) (*Tracker, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	t := &Tracker{
		filePath: filepath.Join(dataDir, "usage.json"),
		data: usageFile{
			Version:   "1.0",
			Aggregate: emptyStats(),
		},
	}

	if err := t.load(); err != nil {
		logging.Usage("usage file unreadable, starting fresh: %v", err)
	}
	return t, nil
}

func emptyStats() Stats {
	return Stats{
		ByProvider: make(map[string]TokenCounts),
		ByModel:    make(map[string]TokenCounts),
		ByStage:    make(map[string]TokenCounts),
		BySession:  make(map[string]TokenCounts),
	}
}

func (t *Tracker) load() error {
	data, err := os.ReadFile(t.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, &t.data); err != nil {
		return err
	}

	agg := &t.data.Aggregate
	if agg.ByProvider == nil {
		agg.ByProvider = make(map[string]TokenCounts)
	}
	if agg.ByModel == nil {
		agg.ByModel = make(map[string]TokenCounts)
	}
	if agg.ByStage == nil {
		agg.ByStage = make(map[string]TokenCounts)
	}
	if agg.BySession == nil {
		agg.BySession = make(map[string]TokenCounts)
	}
	return nil
}

// Save writes the usage data to disk.
func (t *Tracker) Save() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.saveLocked()
}

func (t *Tracker) saveLocked() error {
	t.data.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(t.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(t.filePath, data, 0644)
}

// Track records one LLM call.
func (t *Tracker) Track(provider, model, stage, sessionID string, input, output int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.data.Aggregate.Total.Add(input, output)
	addToMap(t.data.Aggregate.ByProvider, provider, input, output)
	addToMap(t.data.Aggregate.ByModel, model, input, output)
	addToMap(t.data.Aggregate.ByStage, stage, input, output)
	if sessionID != "" {
		addToMap(t.data.Aggregate.BySession, sessionID, input, output)
	}

	logging.Usage("tracked %s/%s %s: %d in, %d out", provider, model, stage, input, output)

	if !t.dirty {
		t.dirty = true
		time.AfterFunc(5*time.Second, func() {
			t.Save()
			t.mu.Lock()
			t.dirty = false
			t.mu.Unlock()
		})
	}
}

// TrackAnalysis bumps the completed-analysis counter.
func (t *Tracker) TrackAnalysis() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.Aggregate.Analyses++
}

// Stats returns a copy of the aggregated stats.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	stats := t.data.Aggregate
	stats.ByProvider = copyCounts(stats.ByProvider)
	stats.ByModel = copyCounts(stats.ByModel)
	stats.ByStage = copyCounts(stats.ByStage)
	stats.BySession = copyCounts(stats.BySession)
	return stats
}

func copyCounts(src map[string]TokenCounts) map[string]TokenCounts {
	dst := make(map[string]TokenCounts, len(src))
	for key, counts := range src {
		dst[key] = counts
	}
	return dst
}

func addToMap(m map[string]TokenCounts, key string, input, output int) {
	entry := m[key]
	entry.Add(input, output)
	m[key] = entry
}
