package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/multigram/multigram"
	"github.com/katalvlaran/multigram/source"
)

func newLearnCmd(a *app) *cobra.Command {
	var (
		layers int
		cutoff float64
	)

	cmd := &cobra.Command{
		Use:   "learn <file>",
		Short: "Learn a text file and store one snapshot per layer",
		Long: `Learn reads sentences from a text file ('.', '!' and '?' end a sentence),
learns layer 0 from them and stores its snapshot. With --layers N, each
further layer learns the phrases the layer below emits when its input is
replayed over its own learned structure.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if layers < 1 {
				return fmt.Errorf("--layers must be at least 1 (%d)", layers)
			}
			if !cmd.Flags().Changed("cutoff") {
				cutoff = a.cfg.Engine.FollowCutoff
			}
			ctx := cmd.Context()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			opts, err := a.engineOptions()
			if err != nil {
				return err
			}
			src := source.NewText(f,
				source.WithLowercase(a.cfg.Engine.Lowercase),
				source.WithLogger(a.logger))
			lower, err := multigram.New(src, opts...)
			if err != nil {
				return err
			}
			if err = lower.Run(); err != nil {
				return err
			}
			lower.Normalize()

			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			for layer := 0; ; layer++ {
				id, err := st.Save(ctx, layer, lower.Snapshot())
				if err != nil {
					return err
				}
				stats := lower.Stats()
				fmt.Fprintf(cmd.OutOrStdout(), "layer %d: snapshot %s (%d tokens, %d edges, %d dropped)\n",
					layer, id, stats.Tokens, stats.Edges, stats.Dropped)

				if layer+1 >= layers {
					return nil
				}

				phrases := source.NewSlice()
				if err = lower.RewindSource(); err != nil {
					return err
				}
				if err = lower.Follow(cutoff, phrases); err != nil {
					return err
				}
				a.logger.Info("layer followed",
					zap.Int("layer", layer), zap.Int("phrases", phrases.Len()))

				upper, err := multigram.New(phrases, opts...)
				if err != nil {
					return err
				}
				if err = upper.Run(); err != nil {
					return err
				}
				upper.Normalize()
				lower = upper
			}
		},
	}

	cmd.Flags().IntVar(&layers, "layers", 1, "Number of layers to learn")
	cmd.Flags().Float64Var(&cutoff, "cutoff", 0, "Softmax an edge must exceed to extend a phrase (default from config)")

	return cmd
}
