package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kamusis/skilldex/internal/corpus"
	"github.com/kamusis/skilldex/internal/trigger"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run corpus pre-flight checks",
	Long: `Check that the configured corpus is loadable and internally consistent.
Run this command when a query resolves unexpectedly, or before publishing a
corpus change.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(_ *cobra.Command, _ []string) error {
	allOK := true

	printSection("skilldex doctor")

	// ── Corpus location ────────────────────────────────────────────────────────
	fmt.Println("\n[ Corpus ]")
	path, _, err := resolveCorpusPath()
	if err != nil {
		printErr("", err.Error())
		return fmt.Errorf("doctor found fatal problems")
	}
	printOK("", fmt.Sprintf("corpus path: %s", path))

	c, err := corpus.Load(path, corpus.LoadOptions{Logger: newLogger()})
	if err != nil {
		printErr("", fmt.Sprintf("corpus does not load: %v", err))
		return fmt.Errorf("doctor found fatal problems")
	}
	printOK("", fmt.Sprintf("%d module(s) loaded, root is %q", len(c.Modules), c.RootID))

	// ── Integrity warnings ─────────────────────────────────────────────────────
	fmt.Println("\n[ Integrity warnings ]")
	if len(c.Warnings) == 0 {
		printOK("", "no modules were skipped")
	} else {
		allOK = false
		for _, w := range c.Warnings {
			printWarn(w.ModuleID, w.Reason)
		}
	}

	// ── Reference documents ────────────────────────────────────────────────────
	fmt.Println("\n[ Reference documents ]")
	missing := 0
	for _, m := range c.Modules {
		for _, ref := range m.References {
			if _, err := os.Stat(filepath.Join(c.Root, filepath.FromSlash(ref.Path))); err != nil {
				printMiss(m.ID, fmt.Sprintf("declared but unreadable: %s", ref.Path))
				missing++
			}
		}
	}
	if missing == 0 {
		printOK("", "every declared reference document is readable")
	} else {
		allOK = false
		printInfo("", fmt.Sprintf("%d document(s) will surface as load errors at query time", missing))
	}

	// ── Keyword overlap ────────────────────────────────────────────────────────
	fmt.Println("\n[ Keyword overlap ]")
	ix := trigger.Build(c)
	overlaps := 0
	for _, kw := range ix.Keywords() {
		if len(kw.Entries) < 2 {
			continue
		}
		overlaps++
		ids := make([]string, 0, len(kw.Entries))
		for _, e := range kw.Entries {
			ids = append(ids, e.ModuleID)
		}
		printInfo("", fmt.Sprintf("%q is claimed by %v (ties break deterministically)", kw.Norm, ids))
	}
	if overlaps == 0 {
		printOK("", "no keyword is shared between modules")
	}

	fmt.Println()
	if !allOK {
		printWarn("", "doctor found non-fatal problems; queries will still resolve")
		return nil
	}
	printOK("", "corpus is healthy")
	return nil
}
