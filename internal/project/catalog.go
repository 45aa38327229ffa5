// Package project holds the analysis-project catalog (which benchmark
// study, which year pair, which dataset endpoints) and the loader that
// fetches the two JSON documents per session.
package project

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed projects.yaml
var embeddedCatalog []byte

// API describes one authenticated dataset endpoint.
type API struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

// Project is one analysis project: a current edition, its previous
// edition, and the two dataset endpoints.
type Project struct {
	Slug         string `yaml:"slug"`
	Name         string `yaml:"name"`
	Year         int    `yaml:"year"`
	PreviousSlug string `yaml:"previous_slug"`
	PreviousName string `yaml:"previous_name"`
	PreviousYear int    `yaml:"previous_year"`

	ResultsAPI    API `yaml:"results_api"`
	HeuristicsAPI API `yaml:"heuristics_api"`
}

// CurrentYearKey returns the editions key of the current edition.
func (p Project) CurrentYearKey() string {
	return fmt.Sprintf("year_%d", p.Year)
}

// PreviousYearKey returns the editions key of the previous edition.
func (p Project) PreviousYearKey() string {
	return fmt.Sprintf("year_%d", p.PreviousYear)
}

type catalogFile struct {
	Projects []Project `yaml:"projects"`
}

// Catalog is the ordered list of configured projects.
type Catalog []Project

// LoadCatalog returns the project catalog: the override file when it
// exists, otherwise the embedded default. PROJECT_API_KEY overrides every
// endpoint key, matching how the study shares one rotating key.
func LoadCatalog(overridePath string) (Catalog, error) {
	data := embeddedCatalog
	if overridePath != "" {
		if fileData, err := os.ReadFile(overridePath); err == nil {
			data = fileData
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read project catalog: %w", err)
		}
	}

	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse project catalog: %w", err)
	}
	if len(cf.Projects) == 0 {
		return nil, fmt.Errorf("project catalog is empty")
	}

	if key := os.Getenv("PROJECT_API_KEY"); key != "" {
		for i := range cf.Projects {
			cf.Projects[i].ResultsAPI.APIKey = key
			cf.Projects[i].HeuristicsAPI.APIKey = key
		}
	}

	return Catalog(cf.Projects), nil
}

// BySlug finds a project by slug.
func (c Catalog) BySlug(slug string) (Project, bool) {
	for _, p := range c {
		if p.Slug == slug {
			return p, true
		}
	}
	return Project{}, false
}

// Default returns the first catalog entry.
func (c Catalog) Default() Project {
	return c[0]
}
