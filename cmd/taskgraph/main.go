// Command taskgraph runs a declarative task definition through the
// scheduling kernel and reports the solutions it found.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ahrav/go-taskgraph/internal/application"
	"github.com/ahrav/go-taskgraph/internal/domain"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "taskgraph",
		Short:         "Cost-ordered task-graph planner",
		Long:          "taskgraph assembles a stage tree from a YAML definition and drives it with a cost-ordered cooperative scheduler.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newTypesCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var (
		file    string
		show    int
		timeout time.Duration
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a task definition until the tree is exhausted",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(verbose)

			loader, err := application.NewTaskLoader(application.NewDefaultStageRegistry())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			task, err := loader.LoadFromFile(ctx, file)
			if err != nil {
				return fmt.Errorf("loading %s: %w", file, err)
			}
			logger.Info("task loaded", "task", task.Name(), "file", file)

			if err := task.Plan(ctx); err != nil {
				return fmt.Errorf("planning: %w", err)
			}
			logger.Info("planning finished", "iterations", task.Iterations())

			printSummary(cmd, task, show)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the YAML task definition (required)")
	cmd.Flags().IntVar(&show, "show", 10, "number of cheapest solutions to print")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "wall-clock budget for the run (0 = none)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the registered stage types",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, t := range application.NewDefaultStageRegistry().ListTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func printSummary(cmd *cobra.Command, task *application.Task, show int) {
	out := cmd.OutOrStdout()
	heading := color.New(color.FgCyan, color.Bold)
	success := color.New(color.FgGreen)
	warn := color.New(color.FgYellow)

	solutions := task.Solutions()
	sort.Slice(solutions, func(i, j int) bool {
		return domain.SolutionLess(solutions[i], solutions[j])
	})

	heading.Fprintf(out, "task %q: %d solutions, %d end states, %d iterations\n",
		task.Name(), len(solutions), len(task.EndStates()), task.Iterations())

	for i, sol := range solutions {
		if i >= show {
			warn.Fprintf(out, "  ... %d more\n", len(solutions)-show)
			break
		}
		success.Fprintf(out, "  [%s] cost=%s %s\n", sol.Creator(), sol.Cost(), sol.Comment())
	}

	failures := 0
	for _, child := range task.Root().Children() {
		failures += child.FailureCount()
	}
	if failures > 0 {
		warn.Fprintf(out, "  %d failed attempts pruned\n", failures)
	}
}
