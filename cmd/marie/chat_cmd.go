package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"marie/cmd/marie/chat"
	"marie/internal/config"
	"marie/internal/project"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive chat interface",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

// runChat resolves the project (asking interactively when ambiguous) and
// starts the chat TUI.
func runChat() error {
	ctx := context.Background()

	slug := projectFlag
	if slug == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		slug = cfg.DefaultProject
	}
	if slug == "" {
		picked, err := pickProject()
		if err != nil {
			return err
		}
		slug = picked
	}

	fmt.Println("Loading datasets…")
	s, err := newSession(ctx, slug)
	if err != nil {
		return err
	}
	defer s.close()

	return chat.Run(chat.Options{
		Pipeline:     s.pipeline,
		ProjectName:  s.project.Name,
		ProjectYear:  s.project.Year,
		ProviderName: providerLabel(s.cfg),
		Reload:       s.reload,
	})
}

func pickProject() (string, error) {
	dataDir, err := config.DataDir()
	if err != nil {
		return "", err
	}
	catalog, err := project.LoadCatalog(filepath.Join(dataDir, "projects.yaml"))
	if err != nil {
		return "", err
	}
	if len(catalog) == 1 {
		return catalog[0].Slug, nil
	}

	options := make([]huh.Option[string], 0, len(catalog))
	for _, p := range catalog {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%d)", p.Name, p.Year), p.Slug))
	}

	slug := catalog[0].Slug
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which project do you want to analyze?").
				Options(options...).
				Value(&slug),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return slug, nil
}

func providerLabel(cfg *config.Config) string {
	if cfg.Provider != "" {
		return cfg.Provider
	}
	if cfg.GeminiAPIKey != "" {
		return "gemini"
	}
	return "ollama"
}
