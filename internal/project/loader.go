package project

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"marie/internal/logging"
)

// Datasets holds the two parsed documents of one analysis session.
type Datasets struct {
	Heuristics interface{}
	Results    interface{}

	// Raw JSON as fetched, staged verbatim into the sandbox.
	HeuristicsJSON []byte
	ResultsJSON    []byte
}

// Loader fetches the two dataset documents for a project.
type Loader struct {
	httpClient *http.Client
}

// NewLoader creates a dataset loader.
func NewLoader() *Loader {
	return &Loader{httpClient: &http.Client{Timeout: 30 * time.Second}}
}

// Load fetches and parses both documents. The chat session cannot start
// without them, so any failure is returned as-is.
func (l *Loader) Load(ctx context.Context, p Project) (*Datasets, error) {
	timer := logging.StartTimer(logging.CategoryDataset, "dataset load")
	defer timer.StopWithInfo()

	heuristicsJSON, err := l.fetch(ctx, p.HeuristicsAPI)
	if err != nil {
		return nil, fmt.Errorf("failed to load heuristics for %s: %w", p.Slug, err)
	}
	resultsJSON, err := l.fetch(ctx, p.ResultsAPI)
	if err != nil {
		return nil, fmt.Errorf("failed to load results for %s: %w", p.Slug, err)
	}

	ds := &Datasets{HeuristicsJSON: heuristicsJSON, ResultsJSON: resultsJSON}
	if err := json.Unmarshal(heuristicsJSON, &ds.Heuristics); err != nil {
		return nil, fmt.Errorf("heuristics document for %s is not valid JSON: %w", p.Slug, err)
	}
	if err := json.Unmarshal(resultsJSON, &ds.Results); err != nil {
		return nil, fmt.Errorf("results document for %s is not valid JSON: %w", p.Slug, err)
	}

	logging.Dataset("loaded %s: %d bytes heuristics, %d bytes results", p.Slug, len(heuristicsJSON), len(resultsJSON))
	return ds, nil
}

func (l *Loader) fetch(ctx context.Context, api API) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, api.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if api.APIKey != "" {
		req.Header.Set("api_key", api.APIKey)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("endpoint returned HTTP %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
