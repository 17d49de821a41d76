package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamusis/skilldex/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [corpus-path]",
	Short: "Write the default skilldex configuration",
	Long: `Initialize ~/.skilldex/skilldex.yaml.

With no argument the corpus path defaults to ~/.skilldex/corpus; pass a path
to point skilldex at an existing corpus checkout.

Example:
  skilldex init
  skilldex init ~/src/rust-std-skills`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, args []string) error {
	dir, err := config.SkilldexDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", dir, err)
	}
	printOK("", fmt.Sprintf("skilldex directory ready: %s", dir))

	cfgPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(cfgPath); err == nil {
		printSkip("", fmt.Sprintf("config already exists: %s", cfgPath))
		return nil
	}

	cfg, err := config.DefaultConfig()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		p, err := config.ExpandPath(args[0])
		if err != nil {
			return err
		}
		cfg.CorpusPath = p
	}
	if err := config.Save(cfg); err != nil {
		return err
	}
	printOK("", fmt.Sprintf("config written: %s", cfgPath))
	printInfo("", fmt.Sprintf("corpus path: %s", cfg.CorpusPath))
	return nil
}
