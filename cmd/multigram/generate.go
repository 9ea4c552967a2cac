package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/multigram/multigram"
	"github.com/katalvlaran/multigram/predict"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		snapshotID string
		layer      int
	)

	cmd := &cobra.Command{
		Use:   "generate <seed> [seed...]",
		Short: "Generate a continuation from a stored snapshot",
		Long: `Generate continues a single seed with the most likely tokens. With several
seeds it walks the learned graph choosing, after the first seed, the successor
that best fits each further seed, then continues with the most likely tokens.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := a.loadEngine(ctx, snapshotID, layer)
			if err != nil {
				return err
			}

			seeds := args
			if a.cfg.Engine.Lowercase {
				seeds = make([]string, len(args))
				for i, s := range args {
					seeds[i] = strings.ToLower(s)
				}
			}
			opts := append(a.cfg.GenerateOptions(), predict.WithLogger(a.logger))

			var seq []*multigram.Node
			if len(seeds) == 1 {
				seed, ferr := e.Factory().New(ctx, seeds[0])
				if ferr != nil {
					return fmt.Errorf("generate(%q): %w", seeds[0], ferr)
				}
				start := e.Find(seed)
				if start == nil {
					return fmt.Errorf("generate(%q): %w", seeds[0], predict.ErrUnknownSeed)
				}
				seq, err = predict.GenerateLikely(e, start, opts...)
			} else {
				seq, err = predict.GenerateBestFit(ctx, e, seeds, opts...)
			}
			if err != nil {
				return err
			}

			words := make([]string, len(seq))
			for i, n := range seq {
				words[i] = n.String()
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(words, " "))

			return nil
		},
	}

	cmd.Flags().StringVar(&snapshotID, "snapshot", "", "Snapshot id (default: latest of --layer)")
	cmd.Flags().IntVar(&layer, "layer", 0, "Layer whose latest snapshot is used")

	return cmd
}
