package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kamusis/skilldex/internal/corpus"
	"github.com/kamusis/skilldex/internal/engine"
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List the corpus module tree",
	RunE:  runModules,
}

func init() {
	rootCmd.AddCommand(modulesCmd)
}

func runModules(_ *cobra.Command, _ []string) error {
	eng, err := newEngine(engine.Options{})
	if err != nil {
		return err
	}
	c := eng.Corpus()

	fmt.Printf("\nCorpus: %s\n", c.Root)
	fmt.Printf("Modules: %d, indexed keywords: %d\n\n", len(c.Modules), eng.IndexedKeywords())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  MODULE\tNAME\tTRIGGERS\tREFERENCES\n")
	printModuleTree(w, c, c.RootID, 0)
	_ = w.Flush()

	if n := len(eng.Warnings()); n > 0 {
		fmt.Println()
		printWarn("", fmt.Sprintf("%d module(s) skipped during load — run 'skilldex doctor' for details", n))
	}
	return nil
}

func printModuleTree(w *tabwriter.Writer, c *corpus.Corpus, id string, depth int) {
	m, ok := c.Module(id)
	if !ok {
		return
	}
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	fmt.Fprintf(w, "  %s%s\t%s\t%d\t%d\n", indent, m.ID, m.Name, len(m.Keywords), len(m.References))
	for _, child := range c.Children(id) {
		printModuleTree(w, c, child.ID, depth+1)
	}
}
