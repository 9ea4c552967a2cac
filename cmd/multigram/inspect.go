package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/multigram/token"
)

func newInspectCmd(a *app) *cobra.Command {
	var (
		snapshotID string
		layer      int
	)

	cmd := &cobra.Command{
		Use:   "inspect <token>",
		Short: "Show a token's associations per distance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.loadEngine(cmd.Context(), snapshotID, layer)
			if err != nil {
				return err
			}
			tok, err := token.SymbolFactory{}.New(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			n := e.Find(tok)
			if n == nil {
				return fmt.Errorf("inspect(%q): token not in snapshot", args[0])
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (slot %d, strength %d, %d edges)\n", n, n.Slot(), n.Strength(), n.OutDegree())
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for d := 1; d <= n.MaxDistance(); d++ {
				edges := n.Edges(d)
				sort.SliceStable(edges, func(i, j int) bool { return edges[i].Strength > edges[j].Strength })
				for _, edge := range edges {
					fmt.Fprintf(w, "  d=%d\t%s\tstrength=%d\tsoftmax=%.3f\n", d, edge.Target, edge.Strength, edge.Softmax)
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&snapshotID, "snapshot", "", "Snapshot id (default: latest of --layer)")
	cmd.Flags().IntVar(&layer, "layer", 0, "Layer whose latest snapshot is used")

	return cmd
}

func newSnapshotsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshots",
		Short: "List stored snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			infos, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tLAYER\tCREATED\tTOKENS\tEDGES")
			for _, in := range infos {
				fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%d\n", in.ID, in.Layer, in.CreatedAt.Format("2006-01-02 15:04:05"), in.Tokens, in.Edges)
			}
			return w.Flush()
		},
	}
}
