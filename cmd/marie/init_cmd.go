package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"marie/internal/config"
	"marie/internal/llm"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactive configuration wizard",
	Long:  `Walks through provider selection and credentials and writes .marie/config.json.`,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	provider := cfg.Provider
	if provider == "" {
		provider = string(llm.DetectProvider(llm.Options{GeminiAPIKey: cfg.GeminiAPIKey}))
	}
	apiKey := cfg.GeminiAPIKey
	ollamaURL := cfg.OllamaBaseURL
	if ollamaURL == "" {
		ollamaURL = llm.DefaultOllamaBaseURL
	}
	ollamaModel := cfg.OllamaModel
	if ollamaModel == "" {
		ollamaModel = llm.DefaultOllamaModel
	}

	providerForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("LLM provider").
				Options(
					huh.NewOption("Gemini (cloud)", "gemini"),
					huh.NewOption("Ollama (local)", "ollama"),
				).
				Value(&provider),
		),
	)
	if err := providerForm.Run(); err != nil {
		return err
	}

	switch provider {
	case "gemini":
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Gemini API key").
					EchoMode(huh.EchoModePassword).
					Value(&apiKey).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return fmt.Errorf("an API key is required for Gemini")
						}
						return nil
					}),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
		cfg.GeminiAPIKey = strings.TrimSpace(apiKey)
	case "ollama":
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Ollama endpoint").
					Placeholder(llm.DefaultOllamaBaseURL).
					Value(&ollamaURL),
				huh.NewInput().
					Title("Ollama model").
					Placeholder(llm.DefaultOllamaModel).
					Value(&ollamaModel),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
		cfg.OllamaBaseURL = strings.TrimSpace(ollamaURL)
		cfg.OllamaModel = strings.TrimSpace(ollamaModel)
	}

	cfg.Provider = provider
	if err := cfg.Save(); err != nil {
		return err
	}

	path, _ := config.Path()
	fmt.Printf("Configuration saved to %s\n", path)
	fmt.Println("Start chatting with: marie")
	return nil
}
