package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var showWork bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Run a single analysis and print the answer",
	Long: `Runs the full pipeline for one question and prints the formatted
answer. With --show-work the generated program and the raw sandbox output
are printed first.

Example:
  marie ask --project retail6 "which players support voice search?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&showWork, "show-work", false, "print the generated program and raw output")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	question := strings.Join(args, " ")

	s, err := newSession(ctx, projectFlag)
	if err != nil {
		return err
	}
	defer s.close()

	logger.Info("running analysis",
		zap.String("project", s.project.Slug),
		zap.String("question", question))

	out, err := s.pipeline.Ask(ctx, question)
	if err != nil {
		if out != nil && showWork {
			printWork(out.Program, out.RawOutput)
		}
		return err
	}

	if showWork {
		printWork(out.Program, out.RawOutput)
	}
	fmt.Println(out.Answer)
	logger.Info("analysis complete", zap.Duration("duration", out.Duration), zap.String("mode", out.Mode))
	return nil
}

func printWork(program, rawOutput string) {
	fmt.Println("=== Generated program ===")
	fmt.Println(program)
	fmt.Println("=== Raw output ===")
	fmt.Println(rawOutput)
	fmt.Println("=== Answer ===")
}
