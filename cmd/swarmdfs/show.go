package main

import (
	"github.com/spf13/cobra"

	"github.com/BaSui01/swarmdfs/swarm"
)

func newShowCmd(root *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <run-id>...",
		Short: "Print stored traces",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer a.Close()

			traces := make([]*swarm.Trace, 0, len(args))
			for _, id := range args {
				t, err := a.store.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				traces = append(traces, t)
			}
			return writeTraces(cmd.OutOrStdout(), format, traces)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "o", formatText, "output format: text or json")

	return cmd
}

func newListCmd(root *rootOptions) *cobra.Command {
	var (
		format string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored runs, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer a.Close()

			runs, err := a.store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return writeSummaries(cmd.OutOrStdout(), format, runs)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "o", formatText, "output format: text or json")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs")

	return cmd
}
