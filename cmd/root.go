package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kamusis/skilldex/internal/config"
	"github.com/kamusis/skilldex/internal/engine"
)

var rootCmd = &cobra.Command{
	Use:          "skilldex",
	Short:        "Skilldex — trigger-index dispatch for skill documentation corpora",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `Skilldex resolves free-text queries against a corpus of skill modules:
directories of reference documentation annotated with trigger keywords.
It builds an in-memory trigger index from each module's SKILL.md metadata
and answers which modules — and which of their reference documents — are
relevant to a query.`,
}

var (
	flagDebug  bool
	flagCorpus string
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagCorpus, "corpus", "", "Corpus root (overrides corpus_path from skilldex.yaml)")
}

// Execute is called by main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the CLI logger: silent unless --debug is set.
func newLogger() *zap.Logger {
	if !flagDebug {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// resolveCorpusPath picks the corpus root: --corpus flag first, then the
// config file.
func resolveCorpusPath() (string, *config.Config, error) {
	if flagCorpus != "" {
		p, err := config.ExpandPath(flagCorpus)
		if err != nil {
			return "", nil, err
		}
		return p, nil, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", nil, fmt.Errorf("cannot load config: %w\nRun 'skilldex init' first, or pass --corpus.", err)
	}
	return cfg.CorpusPath, cfg, nil
}

// newEngine wires an Engine from flags and config.
func newEngine(opts engine.Options) (*engine.Engine, error) {
	path, cfg, err := resolveCorpusPath()
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		if opts.MaxResponseBytes <= 0 {
			opts.MaxResponseBytes = cfg.MaxResponseBytes
		}
		if opts.Excludes == nil {
			opts.Excludes = cfg.Excludes
		}
	}
	opts.Logger = newLogger()
	return engine.New(path, opts)
}
