package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/multigram/config"
	"github.com/katalvlaran/multigram/multigram"
	"github.com/katalvlaran/multigram/store"
	"github.com/katalvlaran/multigram/token"
)

// app holds the state shared by all subcommands.
type app struct {
	configPath string
	dbPath     string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "multigram",
		Short: "Temporal token association engine",
		Long: `multigram learns which tokens follow which, at which distance, from
sentence-delimited text. Learned models are stored as snapshots in a SQLite
database and can be queried to generate likely continuations.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if a.dbPath != "" {
				cfg.Store.Path = a.dbPath
			}
			if err = cfg.Validate(); err != nil {
				return err
			}
			a.cfg = cfg

			a.logger, err = cfg.Logger(a.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.DefaultPath, "Configuration file")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "Snapshot database (or set "+config.EnvDB+")")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(
		newLearnCmd(a),
		newGenerateCmd(a),
		newInspectCmd(a),
		newSnapshotsCmd(a),
	)

	return root
}

// openStore opens the configured snapshot database.
func (a *app) openStore(ctx context.Context) (*store.Store, error) {
	return store.Open(ctx, a.cfg.Store.Path, store.WithLogger(a.logger))
}

// engineOptions returns the configured engine options plus the logger.
func (a *app) engineOptions() ([]multigram.Option, error) {
	opts, err := a.cfg.EngineOptions()
	if err != nil {
		return nil, err
	}
	return append(opts, multigram.WithLogger(a.logger)), nil
}

// loadEngine restores the snapshot id, or the latest one of layer when id
// is empty.
func (a *app) loadEngine(ctx context.Context, id string, layer int) (*multigram.Engine, error) {
	st, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	if id == "" {
		info, err := st.Latest(ctx, layer)
		if err != nil {
			return nil, err
		}
		id = info.ID
	}
	snap, err := st.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	opts := []multigram.Option{multigram.WithLogger(a.logger)}
	if holdsPhrases(snap) {
		opts = append(opts, multigram.WithFactory(phraseFactory))
	}

	return multigram.FromSnapshot(snap, nil, opts...)
}

// holdsPhrases reports whether snap was learned from followed segments.
func holdsPhrases(snap multigram.Snapshot) bool {
	for _, n := range snap.Nodes {
		if n.Token != nil && n.Token.Kind() == token.KindComposite {
			return true
		}
	}
	return false
}

// phraseFactory builds higher-layer seeds: "<eol>" is the end-of-line
// marker, anything else is a composite of its whitespace-separated words.
var phraseFactory = token.FactoryFunc(func(_ context.Context, raw string) (token.Token, error) {
	if raw == token.EndOfLineLiteral {
		return token.EOL(), nil
	}
	words := strings.Fields(raw)
	if len(words) == 0 {
		return nil, fmt.Errorf("phrase %q: %w", raw, token.ErrEmptyRaw)
	}
	parts := make([]token.Token, len(words))
	for i, w := range words {
		parts[i] = token.NewSymbol(w)
	}
	return token.NewComposite(parts...), nil
})
