package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BaSui01/swarmdfs/playbook"
	"github.com/BaSui01/swarmdfs/swarm"
)

type runOptions struct {
	playbookPath string
	tasks        []string
	format       string
	noSave       bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run initial tasks against the workers of a playbook",
		Long: "Each --task starts its own run with its own swarm built from the playbook.\n" +
			"Runs execute in parallel; the traces are printed in flag order.",
		Example: "  swarmdfs run -p research.yaml -t plan\n" +
			"  swarmdfs run -p research.yaml -t plan -t write --format json",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTasks(cmd, root, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.playbookPath, "playbook", "p", "", "path to playbook YAML (required)")
	flags.StringArrayVarP(&opts.tasks, "task", "t", nil, "initial task; repeat for several runs (required)")
	flags.StringVarP(&opts.format, "format", "o", formatText, "output format: text or json")
	flags.BoolVar(&opts.noSave, "no-save", false, "do not persist traces to the configured store")
	_ = cmd.MarkFlagRequired("playbook")
	_ = cmd.MarkFlagRequired("task")

	return cmd
}

func runTasks(cmd *cobra.Command, root *rootOptions, opts *runOptions) error {
	if err := checkFormat(opts.format); err != nil {
		return err
	}

	pb, err := playbook.Load(opts.playbookPath)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), root)
	if err != nil {
		return err
	}
	defer a.Close()

	swarms := make([]*swarm.Swarm, len(opts.tasks))
	for i := range opts.tasks {
		if swarms[i], err = a.newSwarm(pb); err != nil {
			return err
		}
	}

	traces := make([]*swarm.Trace, len(opts.tasks))
	g, ctx := errgroup.WithContext(cmd.Context())
	for i, task := range opts.tasks {
		g.Go(func() error {
			runCtx := ctx
			if a.cfg.Swarm.RunTimeout > 0 {
				var cancel context.CancelFunc
				runCtx, cancel = context.WithTimeout(ctx, a.cfg.Swarm.RunTimeout)
				defer cancel()
			}

			trace, runErr := swarms[i].Run(runCtx, task)
			traces[i] = trace

			if trace != nil && !opts.noSave {
				if err := a.store.Save(context.WithoutCancel(ctx), trace); err != nil {
					return fmt.Errorf("save trace of %q: %w", task, err)
				}
				a.logger.Debug("trace saved", zap.String("run_id", trace.RunID))
			}
			if runErr != nil {
				return fmt.Errorf("run %q: %w", task, runErr)
			}
			return nil
		})
	}
	waitErr := g.Wait()

	done := make([]*swarm.Trace, 0, len(traces))
	for _, t := range traces {
		if t != nil {
			done = append(done, t)
		}
	}
	if err := writeTraces(cmd.OutOrStdout(), opts.format, done); err != nil {
		return err
	}
	return waitErr
}
