package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"marie/internal/config"
	"marie/internal/project"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List the configured analysis projects",
	RunE:  runProjects,
}

func runProjects(cmd *cobra.Command, args []string) error {
	dataDir, err := config.DataDir()
	if err != nil {
		return err
	}
	catalog, err := project.LoadCatalog(filepath.Join(dataDir, "projects.yaml"))
	if err != nil {
		return err
	}

	for i, p := range catalog {
		marker := " "
		if i == 0 {
			marker = "*"
		}
		fmt.Printf("%s %-10s %s (%d, vs %s %d)\n", marker, p.Slug, p.Name, p.Year, p.PreviousName, p.PreviousYear)
	}
	fmt.Println("\n* default project. Select with --project or MARIE_PROJECT.")
	return nil
}
